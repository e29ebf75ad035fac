package types

// RunMode controls environment-dependent behavior (dotenv loading, log
// encoder selection).
type RunMode string

const (
	RunModeLocal RunMode = "local"
	RunModeDev   RunMode = "dev"
	RunModeProd  RunMode = "prod"
)

// LogLevel is the minimum level emitted by the logger.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// HTTP headers recognized by the API layer.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderAuthorization = "Authorization"
)
