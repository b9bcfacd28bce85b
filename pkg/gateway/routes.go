package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	authhandlers "github.com/flaretrack/flaretrack/pkg/gateway/handlers/auth"
	"github.com/flaretrack/flaretrack/pkg/gateway/handlers/events"
	"github.com/flaretrack/flaretrack/pkg/httputil"
)

// Routes returns the http.Handler with all routes and middleware
// configured.
func (g *Gateway) Routes() http.Handler {
	ah := authhandlers.NewHandlers(g.logger, g.authService)
	eh := events.NewHandlers(g.logger, g.db)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(g.loggingMiddleware)
	r.Use(g.corsMiddleware)

	r.Get("/health", g.healthHandler)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Get("/nonce", ah.NonceHandler)
		r.Post("/verify", ah.VerifyHandler)
		r.Post("/federated/verify", ah.FederatedVerifyHandler)

		r.Group(func(r chi.Router) {
			r.Use(g.requireAuth)
			r.Get("/identities", ah.IdentitiesHandler)
			r.Post("/link/wallet", ah.LinkWalletHandler)
			r.Post("/link/federated", ah.LinkFederatedHandler)
		})
	})

	r.Route("/v1/events", func(r chi.Router) {
		r.Use(g.requireAuth)

		r.Get("/severity", eh.ListSeverityHandler)
		r.Post("/severity", eh.CreateSeverityHandler)
		r.Put("/severity/{id}", eh.UpdateSeverityHandler)
		r.Delete("/severity/{id}", eh.DeleteSeverityHandler)

		r.Get("/timeline", eh.ListTimelineHandler)
		r.Post("/timeline", eh.CreateTimelineHandler)
		r.Put("/timeline/{id}", eh.UpdateTimelineHandler)
		r.Delete("/timeline/{id}", eh.DeleteTimelineHandler)
	})

	return r
}

func (g *Gateway) healthHandler(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(g.startedAt).String(),
	})
}
