package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ftcaleb/marketing-kasiverse/internal/config"
	"github.com/ftcaleb/marketing-kasiverse/internal/handlers"
	"github.com/ftcaleb/marketing-kasiverse/internal/middleware"
	"github.com/ftcaleb/marketing-kasiverse/internal/repository"
)

func New(log zerolog.Logger, identity repository.IdentityProvider, notes repository.NoteRepository, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))

	r.Get("/healthz", handlers.Health())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	ah := handlers.NewAuthHTTP(identity, log)
	r.Post("/register", ah.Register())
	r.Post("/login", ah.Login())

	nh := handlers.NewNoteHTTP(notes, log)
	r.Route("/notes", func(r chi.Router) {
		r.Use(middleware.WithAuth(log, identity))
		r.Get("/", nh.List())
		r.Post("/", nh.Create())
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", nh.Get())
			r.With(middleware.RequireAdmin).Put("/", nh.Update())
			r.With(middleware.RequireAdmin).Delete("/", nh.Delete())
		})
	})

	return r
}
