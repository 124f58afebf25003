package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/artisanhub/server/internal/api/handlers"
	mw "github.com/artisanhub/server/internal/api/middleware"
	"github.com/artisanhub/server/internal/services"
)

type Dependencies struct {
	HMACSecret        []byte
	AuthHandler       *handlers.AuthHandler
	ArtisansHandler   *handlers.ArtisansHandler
	RatingsHandler    *handlers.RatingsHandler
	ReputationHandler *handlers.ReputationHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(10, 20))
	r.Use(chimid.Compress(5))

	// Health endpoints
	hh := handlers.NewHealthHandler()
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	// Swagger documentation
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/docs/doc.json"),
	))

	r.Route("/api/v1", func(api chi.Router) {
		// Auth routes (public)
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/users/register", dep.AuthHandler.RegisterUser)
			ar.Post("/users/login", dep.AuthHandler.LoginUser)
			ar.Post("/artisans/register", dep.AuthHandler.RegisterArtisan)
			ar.Post("/artisans/login", dep.AuthHandler.LoginArtisan)
		})

		// Public artisan reads
		api.Get("/artisans", dep.ArtisansHandler.List)
		api.Get("/artisans/{id}", dep.ArtisansHandler.Get)
		api.Get("/artisans/{id}/ratings", dep.RatingsHandler.GetArtisanRatings)

		// Rating mutations require an authenticated user
		api.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.HMACSecret, services.AudienceUser))

			protected.Route("/ratings", func(rr chi.Router) {
				rr.Post("/", dep.RatingsHandler.Create)
				rr.Get("/me", dep.RatingsHandler.GetMyHistory)
				rr.Patch("/{id}", dep.RatingsHandler.Update)
				rr.Delete("/{id}", dep.RatingsHandler.Delete)
			})

			if dep.ReputationHandler != nil {
				protected.Post("/reputation/reconcile", dep.ReputationHandler.Reconcile)
			}
		})

		// Profile management requires an authenticated artisan
		api.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.HMACSecret, services.AudienceArtisan))

			protected.Patch("/artisans/{id}", dep.ArtisansHandler.Update)
			protected.Delete("/artisans/{id}", dep.ArtisansHandler.Delete)
		})
	})

	return r
}
