package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/abelheddy/simplepos/internal/catalog/brands"
	"github.com/abelheddy/simplepos/internal/catalog/taxes"
	"github.com/abelheddy/simplepos/internal/inventory"
	"github.com/abelheddy/simplepos/internal/lifecycle"
	"github.com/abelheddy/simplepos/internal/observability"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	ProductHandler   *lifecycle.Handler
	BrandHandler     *brands.Handler
	TaxHandler       *taxes.Handler
	InventoryHandler *inventory.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with SimplePos defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	if params.Config != nil && params.Config.AppRequestTimeout > 0 {
		r.Use(chimw.Timeout(params.Config.AppRequestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Route("/products", func(pr chi.Router) {
			params.ProductHandler.MountRoutes(pr)
		})
		api.Route("/brands", func(br chi.Router) {
			params.BrandHandler.MountRoutes(br)
		})
		api.Route("/taxes", func(tr chi.Router) {
			params.TaxHandler.MountRoutes(tr)
		})
		api.Route("/inventory", func(ir chi.Router) {
			params.InventoryHandler.MountRoutes(ir)
		})
	})

	return r
}
