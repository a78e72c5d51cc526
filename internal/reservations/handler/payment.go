package handler

import (
	"encoding/json"
	"net/http"

	"stayledger/internal/reservations/service"
	apperrors "stayledger/pkg/errors"
	httputil "stayledger/pkg/http"
	"stayledger/pkg/logger"
	"stayledger/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PaymentHandler struct {
	payments service.PaymentService
	ledger   service.LedgerService
	log      *logger.Logger
}

func NewPaymentHandler(payments service.PaymentService, ledger service.LedgerService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		ledger:   ledger,
		log:      log,
	}
}

func (h *PaymentHandler) Process(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Process", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	booking, err := h.payments.ProcessPayment(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Process", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Process", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) ListForBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	reference := r.URL.Query().Get("booking_ref")
	if reference == "" {
		h.writeError(w, "ListForBooking", apperrors.InvalidInput("'booking_ref' query parameter is required"))
		return
	}

	payments, err := h.payments.ListForBooking(r.Context(), reference)
	if err != nil {
		h.writeError(w, "ListForBooking", err)
		return
	}

	if err := httputil.WriteSuccess(w, payments); err != nil {
		h.log.Error("failed to write success response", "handler", "ListForBooking", "operation", "WriteSuccess", "error", err)
	}
}

// webhookPayload is what the payment gateway posts back after settling a
// charge out of band.
type webhookPayload struct {
	BookingReference string  `json:"booking_reference"`
	TransactionID    string  `json:"transaction_id"`
	Amount           float64 `json:"amount"`
	Succeeded        bool    `json:"succeeded"`
}

func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Webhook", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	booking, err := h.ledger.ConfirmAfterPayment(r.Context(), payload.BookingReference, &model.PaymentResult{
		TransactionID: payload.TransactionID,
		Amount:        payload.Amount,
		Succeeded:     payload.Succeeded,
	})
	if err != nil {
		h.writeError(w, "Webhook", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Webhook", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/payments", h.Process)
	router.GET("/api/v1/payments", h.ListForBooking)
	router.POST("/api/v1/payments/webhook", h.Webhook)
}
