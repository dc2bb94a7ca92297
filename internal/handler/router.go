package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/config"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/middleware"
)

// RouterConfig wires the handlers and cross-cutting middleware into the
// HTTP surface.
type RouterConfig struct {
	Auth    *AuthHandler
	Catalog *CatalogHandler
	Admin   *AdminHandler

	TokenValidator middleware.TokenValidator
	APISecretKey   string

	// UserRateLimit throttles authenticated routes per username. Either the
	// in-memory limiter or the Redis-backed one, depending on config.
	UserRateLimit func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))

	r.Get("/", Health)

	loginLimiter := middleware.NewLoginRateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.BodyLimit(middleware.DefaultBodyLimit))
		r.Use(loginLimiter.Handler)
		r.Post("/login", cfg.Auth.Login)
		r.Post("/register", cfg.Auth.Register)
	})

	authMiddleware := middleware.NewAuthMiddleware(cfg.TokenValidator)
	apiKeyMiddleware := middleware.NewAPIKeyMiddleware(cfg.APISecretKey)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Handler)
		if cfg.UserRateLimit != nil {
			r.Use(cfg.UserRateLimit)
		}

		r.Get("/insights", cfg.Catalog.Insights)
		r.Get("/insights/{sector}", cfg.Catalog.InsightBySector)
		r.Get("/sectors", cfg.Catalog.Sectors)
		r.Get("/sensor-data", cfg.Catalog.SensorData)
		r.Get("/companies", cfg.Catalog.Companies)

		r.Group(func(r chi.Router) {
			r.Use(apiKeyMiddleware.Handler)
			r.With(middleware.BodyLimit(middleware.DefaultBodyLimit)).
				Post("/load-data", cfg.Admin.LoadData)
			r.With(middleware.BodyLimit(middleware.UploadBodyLimit)).
				Post("/upload-parquet", cfg.Admin.UploadParquet)
		})
	})

	return r
}

// Health is the public liveness endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "GreenFlow Sage API is running!",
	})
}
