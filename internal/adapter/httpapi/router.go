package httpapi

import (
	"net/http"

	ownmiddleware "github.com/encounterhub/listing-service/internal/adapter/httpapi/middleware"
	"github.com/encounterhub/listing-service/internal/platform/logger"
	"github.com/encounterhub/listing-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RouterDeps bundles everything the REST boundary needs.
type RouterDeps struct {
	Auth       *ownmiddleware.Auth
	Listings   *ListingHandler
	Favorites  *FavoriteHandler
	Messages   *MessageHandler
	Admin      *AdminHandler
	Misc       *MiscHandler
	Metrics    *metrics.Manager
	Logger     *logger.Logger
	CORSOrigin []string
}

// NewRouter assembles the HTTP surface. Read endpoints take an optional
// identity so owners and admins see hidden listings; write endpoints require
// one.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(ownmiddleware.RequestLogger(deps.Logger))
	r.Use(ownmiddleware.Metrics(deps.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSOrigin,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		// public reads, with optional identity
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Optional)
			r.Get("/listings", deps.Listings.List)
			r.Get("/listings/count", deps.Listings.Count)
			r.Get("/listings/user/{userID}", deps.Listings.ByUser)
			r.Get("/listings/{id}", deps.Listings.Get)
			r.Get("/locations", deps.Misc.Locations)
			r.Get("/stats", deps.Misc.Stats)
		})

		// authenticated surface
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Require)
			r.Post("/listings", deps.Listings.Create)
			r.Get("/listings/user/me", deps.Listings.Mine)
			r.Put("/listings/{id}", deps.Listings.Update)
			r.Delete("/listings/{id}", deps.Listings.Delete)
			r.Post("/listings/{id}/media", deps.Misc.AttachMedia)
			r.Post("/upload", deps.Misc.Upload)

			r.Post("/favorites", deps.Favorites.Add)
			r.Get("/favorites", deps.Favorites.List)
			r.Delete("/favorites/{listingID}", deps.Favorites.Remove)

			r.Post("/messages", deps.Messages.Send)
			r.Get("/messages", deps.Messages.Inbox)
			r.Get("/messages/conversation/{listingID}", deps.Messages.Conversation)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/listings", deps.Admin.Queue)
				r.Post("/listings/{id}/status", deps.Admin.Decide)
				r.Post("/listings/{id}/featured", deps.Admin.SetFeatured)
				r.Get("/users", deps.Admin.Users)
				r.Post("/users/{id}/status", deps.Admin.SetUserStatus)
				r.Post("/users/{id}/role", deps.Admin.SetUserRole)
				r.Post("/users/{id}/vip", deps.Admin.SetUserVIP)
				r.Delete("/users/{id}", deps.Admin.DeleteUser)
			})
		})
	})

	return otelhttp.NewHandler(r, "listing-service")
}
