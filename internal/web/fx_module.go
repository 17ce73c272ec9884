package web

import (
	"net/http"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/superheroes/internal/client"
	"github.com/Aleph-Alpha/superheroes/internal/httpapi"
	"github.com/Aleph-Alpha/superheroes/internal/superhero"
	"github.com/Aleph-Alpha/superheroes/pkg/logger"
	"github.com/Aleph-Alpha/superheroes/pkg/tracer"
)

// FXModule provides the API client, the page handler and the frontend server,
// and starts the server with the app.
//
// Dependencies required by this module:
// - a web.Config
// - logger.Logger and *tracer.Tracer
var FXModule = fx.Module("web",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(c *client.Client) HeroAPI { return c },
			fx.As(new(HeroAPI)),
		),
		superhero.NewValidator,
		NewHandler,
		NewRouter,
		NewServerWithDI,
	),
	fx.Invoke(httpapi.RegisterServerLifecycle),
)

func NewClientWithDI(cfg Config, log logger.Logger, tr *tracer.Tracer) (*client.Client, error) {
	return client.New(client.Config{BaseURL: cfg.BackendURL, APIKey: cfg.APIKey}, log, tr)
}

func NewServerWithDI(cfg Config, handler http.Handler, log logger.Logger) *httpapi.Server {
	return httpapi.NewServer(cfg.Address, handler, log)
}
