package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/abreu/savings-core-go/internal/infra/observability"
	"github.com/abreu/savings-core-go/internal/service"
)

var tracer = otel.Tracer("handler")

// NewRouter wires all routes. Read-only endpoints are open; everything
// that moves money or changes state sits behind JWT auth.
func NewRouter(svc *service.Service, metrics *observability.Metrics, logger *zap.Logger, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		// Reads.
		r.Get("/products", listProductsHandler(svc, logger))
		r.Get("/products/{productId}", getProductHandler(svc, logger))
		r.Get("/accounts/{accountId}", getAccountHandler(svc, logger))
		r.Get("/accounts/{accountId}/balance", getBalanceHandler(svc, logger))

		// Mutations.
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(jwtSecret, logger))

			r.Post("/products", createProductHandler(svc, logger))

			r.Post("/accounts", submitApplicationHandler(svc, logger))
			r.Put("/accounts/{accountId}", modifyApplicationHandler(svc, logger))
			r.Post("/accounts/{accountId}/approve", approveHandler(svc, logger))
			r.Post("/accounts/{accountId}/undo-approval", undoApprovalHandler(svc, logger))
			r.Post("/accounts/{accountId}/reject", rejectHandler(svc, logger))
			r.Post("/accounts/{accountId}/withdraw-application", withdrawApplicationHandler(svc, logger))
			r.Post("/accounts/{accountId}/activate", activateHandler(svc, logger))

			r.Post("/accounts/{accountId}/deposits", depositHandler(svc, logger))
			r.Post("/accounts/{accountId}/withdrawals", withdrawHandler(svc, logger))
			r.Post("/accounts/{accountId}/transactions/{transactionId}/reverse", reverseTransactionHandler(svc, logger))
			r.Post("/accounts/{accountId}/holds", holdAmountHandler(svc, logger))
			r.Post("/accounts/{accountId}/holds/{holdId}/release", releaseHoldHandler(svc, logger))
			r.Post("/transfers", transferHandler(svc, logger))

			r.Post("/accounts/{accountId}/charges", attachChargeHandler(svc, logger))
			r.Post("/accounts/{accountId}/charges/{chargeId}/pay", payChargeHandler(svc, logger))
			r.Post("/accounts/{accountId}/charges/{chargeId}/waive", waiveChargeHandler(svc, logger))
			r.Post("/accounts/{accountId}/interest", postInterestHandler(svc, logger))

			r.Post("/accounts/{accountId}/close", closeAccountHandler(svc, logger))
			r.Post("/accounts/{accountId}/mature", matureHandler(svc, logger))
			r.Post("/accounts/{accountId}/premature-close", prematureCloseHandler(svc, logger))
			r.Post("/accounts/{accountId}/close-matured", closeMaturedHandler(svc, logger))
			r.Post("/accounts/{accountId}/escheat", escheatHandler(svc, logger))

			r.Post("/sweeps/inactivity", sweepInactivityHandler(svc, logger))
			r.Post("/sweeps/fees", sweepFeesHandler(svc, logger))
		})
	})

	return r
}
