package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-account-service/internal/config"
	"go-account-service/internal/handler"
	"go-account-service/internal/middleware"
)

type Handlers struct {
	Auth *handler.AuthHandler
	User *handler.UserHandler
}

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	metricsHandler http.Handler,
	metricsMiddleware func(http.Handler) http.Handler,
	h Handlers,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(metricsMiddleware)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/users", func(users chi.Router) {
			users.Post("/", h.Auth.Register)
			users.Post("/login", h.Auth.Login)

			users.Group(func(authed chi.Router) {
				authed.Use(authMiddleware.RequireAuth)

				authed.Get("/", h.User.List)
				authed.Get("/profile", h.User.Profile)
				authed.Put("/profile", h.User.UpdateProfile)
				authed.Put("/password", h.User.ChangePassword)

				authed.Group(func(self chi.Router) {
					self.Use(authMiddleware.RequireSelf)

					self.Get("/{id}", h.User.GetByID)
					self.Put("/{id}", h.User.Update)
					self.Delete("/{id}", h.User.Delete)
				})
			})
		})
	})

	return r
}
