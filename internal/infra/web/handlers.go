package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"creator-payment-ledger/internal/domain"
	"creator-payment-ledger/internal/domain/model"
	"creator-payment-ledger/internal/infra/metrics"
	redisinfra "creator-payment-ledger/internal/infra/redis"
)

// paymentResponse is the payer-facing projection of a payment: enough
// to render the PIX instructions and poll for confirmation, nothing of
// the fee split.
type paymentResponse struct {
	ID              string  `json:"id"`
	Kind            string  `json:"kind"`
	Status          string  `json:"status"`
	Amount          int64   `json:"amount"`
	TotalCharged    int64   `json:"total_charged"`
	QRPayload       string  `json:"qr_payload,omitempty"`
	QRImage         string  `json:"qr_image,omitempty"`
	ChargeExpiresAt *string `json:"charge_expires_at,omitempty"`
}

func toPaymentResponse(p *model.Payment) paymentResponse {
	resp := paymentResponse{
		ID:           p.ID,
		Kind:         string(p.Kind),
		Status:       string(p.Status),
		Amount:       p.Amount,
		TotalCharged: p.TotalCharged,
		QRPayload:    p.QRPayload,
		QRImage:      p.QRImage,
	}
	if p.ChargeExpiresAt != nil {
		s := p.ChargeExpiresAt.UTC().Format("2006-01-02T15:04:05Z")
		resp.ChargeExpiresAt = &s
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto statuses and localized payer
// messages. Internal detail stays in the logs.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		status int
		key    string
	)
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status, key = http.StatusBadRequest, ""
	case errors.Is(err, domain.ErrNotFound):
		status, key = http.StatusNotFound, ""
	case errors.Is(err, domain.ErrAlreadyPurchased):
		status, key = http.StatusConflict, "checkout_already_purchased"
	case errors.Is(err, domain.ErrAlreadySubscribed):
		status, key = http.StatusConflict, "checkout_already_subscribed"
	case errors.Is(err, domain.ErrNotPurchasable):
		status, key = http.StatusUnprocessableEntity, "checkout_not_purchasable"
	case errors.Is(err, domain.ErrAmountBelowMinimum):
		status, key = http.StatusUnprocessableEntity, "checkout_amount_below_minimum"
	case errors.Is(err, domain.ErrRefundNotConfirmed):
		status, key = http.StatusConflict, ""
	case errors.Is(err, domain.ErrGatewayUnavailable):
		status, key = http.StatusBadGateway, "checkout_gateway_unavailable"
	case errors.Is(err, domain.ErrTokenInvalid):
		status, key = http.StatusUnauthorized, "media_token_invalid"
	case errors.Is(err, domain.ErrNotEntitled):
		status, key = http.StatusForbidden, "media_not_entitled"
	default:
		status, key = http.StatusInternalServerError, ""
	}

	msg := err.Error()
	if key != "" && s.tr != nil {
		msg = s.tr.T(key)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

//
// -------------------- checkout --------------------
//

type subscriptionCheckoutRequest struct {
	CreatorID    string `json:"creator_id"`
	DurationDays int    `json:"duration_days"`
	TaxID        string `json:"tax_id"`
}

func (s *Server) checkoutSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	var req subscriptionCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	p, err := s.checkoutUC.CreateSubscriptionPayment(r.Context(), CallerID(r.Context()), req.CreatorID, req.DurationDays, req.TaxID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(p))
}

type ppvCheckoutRequest struct {
	ContentID  string  `json:"content_id"`
	MediaIndex *int    `json:"media_index,omitempty"`
	MessageID  *string `json:"message_id,omitempty"`
	TaxID      string  `json:"tax_id"`
}

func (s *Server) checkoutPPVHandler(w http.ResponseWriter, r *http.Request) {
	var req ppvCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var (
		p   *model.Payment
		err error
	)
	if req.MessageID != nil {
		p, err = s.checkoutUC.CreateMessagePPVPayment(r.Context(), CallerID(r.Context()), *req.MessageID, req.TaxID)
	} else {
		p, err = s.checkoutUC.CreatePPVPayment(r.Context(), CallerID(r.Context()), req.ContentID, req.MediaIndex, req.TaxID)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(p))
}

type tipCheckoutRequest struct {
	CreatorID string  `json:"creator_id"`
	Amount    int64   `json:"amount"`
	Message   string  `json:"message,omitempty"`
	ContentID *string `json:"content_id,omitempty"`
	TaxID     string  `json:"tax_id"`
}

func (s *Server) checkoutTipHandler(w http.ResponseWriter, r *http.Request) {
	var req tipCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	p, err := s.checkoutUC.CreateTipPayment(r.Context(), CallerID(r.Context()), req.CreatorID, req.Amount, req.Message, req.ContentID, req.TaxID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(p))
}

type proPlanCheckoutRequest struct {
	TaxID string `json:"tax_id"`
}

func (s *Server) checkoutProPlanHandler(w http.ResponseWriter, r *http.Request) {
	var req proPlanCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	p, err := s.checkoutUC.CreateProPlanPayment(r.Context(), CallerID(r.Context()), req.TaxID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(p))
}

type packCheckoutRequest struct {
	PackID string `json:"pack_id"`
	TaxID  string `json:"tax_id"`
}

func (s *Server) checkoutPackHandler(w http.ResponseWriter, r *http.Request) {
	var req packCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	p, err := s.checkoutUC.CreatePackPayment(r.Context(), CallerID(r.Context()), req.PackID, req.TaxID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(p))
}

//
// -------------------- payments --------------------
//

func (s *Server) paymentGetHandler(w http.ResponseWriter, r *http.Request) {
	p, err := s.reconcileUC.Poll(r.Context(), chi.URLParam(r, "id"), CallerID(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

func (s *Server) refundHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.reconcileUC.RequestRefund(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

//
// -------------------- earnings --------------------
//

func (s *Server) earningsHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := s.earningsUC.Summary(r.Context(), CallerID(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

//
// -------------------- media --------------------
//

type mediaTokenRequest struct {
	Kind       string `json:"kind"`
	ResourceID string `json:"resource_id"`
	StorageKey string `json:"storage_key"`
	MediaIndex *int   `json:"media_index,omitempty"`
}

func (s *Server) mediaTokenIssueHandler(w http.ResponseWriter, r *http.Request) {
	var req mediaTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	token, err := s.mediaUC.Issue(CallerID(r.Context()), model.ResourceKind(req.Kind), req.ResourceID, req.StorageKey, req.MediaIndex)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

func (s *Server) mediaResolveHandler(w http.ResponseWriter, r *http.Request) {
	if !s.allowResolve(w, r) {
		return
	}
	url, err := s.mediaUC.Resolve(r.Context(), r.URL.Query().Get("token"), CallerID(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// mediaRedirectHandler serves the embed variant: the client follows a
// 302 straight to the signed URL.
func (s *Server) mediaRedirectHandler(w http.ResponseWriter, r *http.Request) {
	if !s.allowResolve(w, r) {
		return
	}
	url, err := s.mediaUC.Resolve(r.Context(), chi.URLParam(r, "token"), CallerID(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (s *Server) allowResolve(w http.ResponseWriter, r *http.Request) bool {
	if s.limiter == nil {
		return true
	}
	key := redisinfra.CallerRouteKey(CallerID(r.Context()), "media_resolve")
	ok, err := s.limiter.Allow(r.Context(), key, resolveRateLimit, resolveRateWindow)
	if err != nil {
		// limiter outage must not take media down
		s.log.Warn().Err(err).Msg("rate limiter unavailable")
		return true
	}
	if !ok {
		http.Error(w, "Too many requests", http.StatusTooManyRequests)
		return false
	}
	return true
}

//
// -------------------- webhook --------------------
//

type webhookPayload struct {
	Event   string `json:"event"`
	Payment struct {
		ID                string `json:"id"`
		ExternalReference string `json:"externalReference"`
	} `json:"payment"`
	Transfer struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"transfer"`
}

// webhookHandler ingests gateway notifications. 2xx acknowledges; any
// other status makes the gateway retry, so only transient failures
// return 5xx.
func (s *Server) webhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("asaas-access-token") != s.webhookToken || s.webhookToken == "" {
		metrics.IncWebhookRejected("bad_token")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		metrics.IncWebhookRejected("bad_payload")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Event != "" && payload.Payment.ExternalReference == "" && payload.Transfer.ID != "" {
		// Payout notifications carry a transfer element instead of a
		// payment; they touch no ledger state, so ack before the
		// reference check or the gateway redelivers them forever.
		s.log.Info().Str("event", payload.Event).Str("transfer_id", payload.Transfer.ID).
			Str("status", payload.Transfer.Status).Msg("transfer event acknowledged")
		w.WriteHeader(http.StatusOK)
		return
	}
	if payload.Event == "" || payload.Payment.ExternalReference == "" {
		metrics.IncWebhookRejected("missing_reference")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	_, err := s.reconcileUC.HandleGatewayEvent(r.Context(), payload.Event, payload.Payment.ExternalReference)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case errors.Is(err, domain.ErrNotFound):
		// Ack unknown references; retrying will not make them known.
		metrics.IncWebhookRejected("unknown_payment")
		s.log.Warn().Str("reference", payload.Payment.ExternalReference).Msg("webhook for unknown payment")
		w.WriteHeader(http.StatusOK)
	default:
		s.log.Error().Err(err).Str("event", payload.Event).Msg("webhook processing failed")
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
