package cnst

const (
	AppName     = "tourdesk"
	CommandName = "apiserver"
)

// ApiServerYaml is the default configuration file name of the apiserver
const ApiServerYaml = "apiserver.yaml"
