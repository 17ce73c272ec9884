package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config holds the logger settings.
type Config struct {
	// Level is one of debug, info, warning or error.
	// When empty, production defaults to info and every other mode to debug.
	Level string `yaml:"level" envconfig:"ZAP_LOGGER_LEVEL"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"superheroes"`

	// EnableTracing adds trace_id and span_id to entries logged through the
	// *WithContext methods when the context carries an active span.
	EnableTracing bool `yaml:"enable_tracing" envconfig:"LOGGER_ENABLE_TRACING"`

	// Development switches to the human readable console encoder and
	// attaches stack traces to warnings and above.
	Development bool `yaml:"development" ignored:"true"`
}
