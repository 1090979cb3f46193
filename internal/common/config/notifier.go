package config

type (
	// NotifierConfig selects where booking events are published
	NotifierConfig struct {
		Type  string              `yaml:"type"` // none, redis, amqp, composite
		Redis RedisNotifierConfig `yaml:"redis"`
		AMQP  AMQPConfig          `yaml:"amqp"`
	}

	// RedisNotifierConfig publishes to a Redis stream on the shared Redis connection
	RedisNotifierConfig struct {
		Stream string `yaml:"stream"`
		MaxLen int64  `yaml:"max_len"`
	}

	// AMQPConfig publishes to a durable RabbitMQ queue
	AMQPConfig struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
		Queue    string `yaml:"queue"`
	}
)
