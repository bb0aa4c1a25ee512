package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"adcraft/internal/http/handlers"
	"adcraft/internal/middleware"
)

// Options configures the middleware stack around the handlers.
type Options struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	DefaultLocale  string
	// CountryLookup resolves client countries for locale detection; nil
	// disables the GeoIP step.
	CountryLookup middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	if app.CheckOrigin == nil {
		app.CheckOrigin = middleware.CheckOrigin(opts.AllowedOrigins)
	}

	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		middleware.RequestID(opts.Logger),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/options", app.Options)
		r.Post("/generate", app.Generate)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", app.SessionsCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", app.SessionGet)
				r.Delete("/", app.SessionDelete)
				r.Patch("/form", app.SessionUpdateForm)
				r.Post("/submit", app.SessionSubmit)
				r.Post("/reset", app.SessionReset)
				r.Get("/events", app.SessionEvents)
			})
		})
	})

	return r
}
