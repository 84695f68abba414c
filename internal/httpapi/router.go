package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter wires the full engine surface: the public endpoints, the
// JWT-protected bid-assistant API, and the engine's own config/secrets/
// events endpoints.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog)
	r.Use(Recover)
	r.Use(Cors)

	ah := AuthHandler{API: d.AuthAPI}
	hh := HealthHandler{}
	r.Post("/login", ah.Login)
	r.Get("/healthz", hh.Health)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(d.Verifier))

		r.Get("/", ah.Index)

		ph := ProjectsHandler{Market: d.Market, CfgVal: d.CfgVal, Hub: d.Hub}
		r.Post("/search", ph.Search)
		r.Post("/scan", ph.Scan)

		gh := GenerateHandler{Gemini: d.Gemini}
		r.Post("/generate", gh.Generate)
		r.Post("/generate_graphics", gh.GenerateGraphics)

		bh := BidsHandler{DB: d.DB, Market: d.Market, Hub: d.Hub, CfgVal: d.CfgVal}
		r.Post("/place_bid", bh.PlaceBid)
		r.Post("/api/bids", bh.Create)
		r.Get("/api/bids/mine", bh.Mine)
		r.Get("/api/bids/all", bh.All)
		r.Put("/api/bids/{id}", bh.Update)
		r.Delete("/api/bids/{id}", bh.Delete)
		r.Get("/api/bid_insight", bh.Insight)

		ch := ConfigHandler{CfgVal: d.CfgVal, UserCfgPath: d.UserCfgPath, LoadCfg: d.LoadCfg}
		r.Get("/config", ch.Get)
		r.Put("/config", ch.Put)
		r.Get("/config/path", ch.Path)

		sh := SecretsHandler{}
		r.Post("/api/secrets/marketplace", sh.SetMarketplaceToken)
		r.Post("/api/secrets/gemini", sh.SetGeminiKey)

		eh := EventsHandler{Hub: d.Hub}
		r.Get("/events", eh.ServeSSE)
	})

	return r
}
