package httpapi

import (
	"context"
	"net/http"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/superheroes/internal/superhero"
	"github.com/Aleph-Alpha/superheroes/pkg/logger"
	"github.com/Aleph-Alpha/superheroes/pkg/metrics"
	"github.com/Aleph-Alpha/superheroes/pkg/tracer"
)

// FXModule provides the API router and server and starts the server with the app.
//
// Dependencies required by this module:
// - an httpapi.Config
// - a *superhero.Service and *superhero.Validator
// - logger.Logger, metrics.MetricsCollector and *tracer.Tracer
var FXModule = fx.Module("httpapi",
	fx.Provide(
		NewErrorHandlerWithDI,
		fx.Annotate(
			func(s *superhero.Service) SuperheroService { return s },
			fx.As(new(SuperheroService)),
		),
		NewHandler,
		NewRouterWithDI,
		NewServerWithDI,
	),
	fx.Invoke(RegisterServerLifecycle),
)

func NewErrorHandlerWithDI(cfg Config, log logger.Logger) *ErrorHandler {
	return NewErrorHandler(log, cfg.Production)
}

// RouterParams groups the dependencies of the API router.
type RouterParams struct {
	fx.In

	Config  Config
	Handler *Handler
	Errors  *ErrorHandler
	Logger  logger.Logger
	Metrics metrics.MetricsCollector
	Tracer  *tracer.Tracer
}

func NewRouterWithDI(p RouterParams) http.Handler {
	return NewRouter(p.Config, p.Handler, p.Errors, p.Logger, p.Metrics, p.Tracer)
}

func NewServerWithDI(cfg Config, handler http.Handler, log logger.Logger) *Server {
	return NewServer(cfg.Address, handler, log)
}

// RegisterServerLifecycle binds the server on start and drains it on stop.
func RegisterServerLifecycle(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop: func(ctx context.Context) error {
			return s.Shutdown(ctx)
		},
	})
}
