package superhero

import "go.uber.org/fx"

// FXModule provides the validator, the GORM repository, the service and the
// seeder. It needs a postgres.Client, logger.Logger, *tracer.Tracer and
// metrics.MetricsCollector from the container.
var FXModule = fx.Module("superhero",
	fx.Provide(
		NewValidator,
		NewRepository,
		NewService,
		NewSeeder,
	),
)
