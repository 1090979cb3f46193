package cnst

const (
	DatabaseTypePostgres = "postgres"
	DatabaseTypeMySQL    = "mysql"
	// DatabaseTypeSQLite uses the pure-Go sqlite driver
	DatabaseTypeSQLite = "sqlite"
	// DatabaseTypeSQLite3 uses the cgo mattn/go-sqlite3 driver
	DatabaseTypeSQLite3 = "sqlite3"
)

const (
	RedisClusterTypeSentinel = "sentinel"
	RedisClusterTypeCluster  = "cluster"
	RedisClusterTypeSingle   = "single"
)

const (
	NotifierTypeNone      = "none"
	NotifierTypeRedis     = "redis"
	NotifierTypeAMQP      = "amqp"
	NotifierTypeComposite = "composite"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)
