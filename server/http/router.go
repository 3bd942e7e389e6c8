package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"offer-match/internal/config"
	"offer-match/internal/middleware"
	offerHnd "offer-match/internal/offer/handler"
	"offer-match/server/http/handlers"
)

func NewRouter(cfg config.Config, deps offerHnd.Deps, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/parse", offerHnd.Parse(deps))
		r.Post("/match", offerHnd.Match(deps))
		r.Post("/score", offerHnd.Score(deps))
		r.Post("/aggregate", offerHnd.Aggregate(deps))
		r.Post("/rank", offerHnd.Rank(deps))
		r.Get("/catalog", offerHnd.Catalog(deps))
		r.Post("/catalog/reload", offerHnd.ReloadCatalog(deps))
	})

	return r
}
