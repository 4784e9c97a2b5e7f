package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"creator-payment-ledger/internal/infra/i18n"
	redisinfra "creator-payment-ledger/internal/infra/redis"
	"creator-payment-ledger/internal/usecase"
)

const (
	resolveRateLimit  = 60
	resolveRateWindow = time.Minute
)

type Server struct {
	checkoutUC  usecase.CheckoutUseCase
	reconcileUC usecase.ReconcileUseCase
	mediaUC     usecase.MediaTokenUseCase
	earningsUC  usecase.EarningsUseCase

	limiter      *redisinfra.RateLimiter
	tr           *i18n.Translator
	authSecret   []byte
	adminAPIKey  string
	webhookToken string
	log          *zerolog.Logger
}

func NewServer(
	checkoutUC usecase.CheckoutUseCase,
	reconcileUC usecase.ReconcileUseCase,
	mediaUC usecase.MediaTokenUseCase,
	earningsUC usecase.EarningsUseCase,
	limiter *redisinfra.RateLimiter,
	tr *i18n.Translator,
	authSecret, adminAPIKey, webhookToken string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		checkoutUC:   checkoutUC,
		reconcileUC:  reconcileUC,
		mediaUC:      mediaUC,
		earningsUC:   earningsUC,
		limiter:      limiter,
		tr:           tr,
		authSecret:   []byte(authSecret),
		adminAPIKey:  adminAPIKey,
		webhookToken: webhookToken,
		log:          logger,
	}
}

// Router wires all HTTP surfaces: the gateway webhook, the payer API,
// the media resolution endpoints and the operator routes.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Gateway notifications authenticate with the shared webhook token,
	// not a user session.
	r.Post("/webhooks/gateway", s.webhookHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/subscription", s.checkoutSubscriptionHandler)
			r.Post("/ppv", s.checkoutPPVHandler)
			r.Post("/tip", s.checkoutTipHandler)
			r.Post("/pro-plan", s.checkoutProPlanHandler)
			r.Post("/pack", s.checkoutPackHandler)
		})

		r.Get("/payments/{id}", s.paymentGetHandler)
		r.Get("/earnings", s.earningsHandler)

		r.Post("/media/token", s.mediaTokenIssueHandler)
		r.Get("/media/resolve", s.mediaResolveHandler)
	})

	// Redirect variant for direct embedding in <img>/<video> tags.
	// No session here: the media token itself authenticates, and the
	// use case re-checks entitlement against the token subject.
	r.Get("/media/{token}", s.mediaRedirectHandler)

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(s.adminMiddleware)
		r.Post("/payments/{id}/refund", s.refundHandler)
	})

	return r
}
