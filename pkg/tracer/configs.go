package tracer

// Config controls the OpenTelemetry tracer provider.
type Config struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"superheroes"`
	AppEnv      string `yaml:"app_env" envconfig:"APP_ENV"`

	// EnableExport ships spans through the OTLP HTTP exporter. The exporter reads
	// the standard OTEL_EXPORTER_OTLP_* environment variables for its endpoint.
	EnableExport bool `yaml:"enable_export" envconfig:"TRACING_ENABLE_EXPORT"`
}
