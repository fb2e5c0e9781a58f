package config

// Common Configuration
const (

	// name of the application
	PropAppName = "app.name"

	// log level | info
	PropLoggingLevel = "logging.level"

	// rolling log file, logs are only written to stdout if it's empty
	PropLoggingRollingFile = "logging.rolling.file"
)

// Web Server Configuration
const (

	// http server host | 127.0.0.1
	PropServerHost = "server.host"

	// http server port | 8080
	PropServerPort = "server.port"

	// logs time duration for each inbound http request | false
	PropServerPerfEnabled = "server.perf.enabled"

	// time wait (in second) before the http server is forced to shutdown | 5
	PropServerGracefulShutdownTimeSec = "server.gracefulShutdownTimeSec"
)

// Timing Configuration
const (

	// wrap handlers with the timing logs | true
	PropTimingEnabled = "timing.enabled"

	// yaml file of handler timing rules, see LoadRulesFile
	PropTimingRulesFile = "timing.rules.file"

	// handler timing rules, e.g., 'timing.handlers.GetUser.context: [{source: Request, key: id}]'
	PropTimingHandlers = "timing.handlers"
)

var defaultProps = map[string]any{
	PropLoggingLevel:                  "info",
	PropServerHost:                    "127.0.0.1",
	PropServerPort:                    8080,
	PropServerPerfEnabled:             false,
	PropServerGracefulShutdownTimeSec: 5,
	PropTimingEnabled:                 true,
}
