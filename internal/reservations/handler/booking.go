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

type BookingHandler struct {
	service service.LedgerService
	log     *logger.Logger
}

func NewBookingHandler(service service.LedgerService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

// createHoldRequest carries dates in the YYYY-MM-DD wire format.
type createHoldRequest struct {
	RoomID          string `json:"room_id"`
	CustomerID      string `json:"customer_id"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Guests          int    `json:"guests"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

func (h *BookingHandler) CreateHold(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateHold", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	checkIn, err := model.ParseDate(req.CheckIn)
	if err != nil {
		h.writeError(w, "CreateHold", apperrors.InvalidInput("invalid check_in, must be YYYY-MM-DD"))
		return
	}
	checkOut, err := model.ParseDate(req.CheckOut)
	if err != nil {
		h.writeError(w, "CreateHold", apperrors.InvalidInput("invalid check_out, must be YYYY-MM-DD"))
		return
	}

	booking := model.Booking{
		RoomID:          req.RoomID,
		CustomerID:      req.CustomerID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		SpecialRequests: req.SpecialRequests,
	}

	if err := h.service.CreateHold(r.Context(), &booking); err != nil {
		h.writeError(w, "CreateHold", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateHold", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("id")

	checkIn, err := httputil.ExtractDateParam(r, "check_in")
	if err != nil {
		h.writeError(w, "CheckAvailability", err)
		return
	}
	checkOut, err := httputil.ExtractDateParam(r, "check_out")
	if err != nil {
		h.writeError(w, "CheckAvailability", err)
		return
	}

	availability, err := h.service.CheckAvailability(r.Context(), roomID, checkIn, checkOut)
	if err != nil {
		h.writeError(w, "CheckAvailability", err)
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetByReference(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reference := ps.ByName("ref")

	booking, err := h.service.GetByReference(r.Context(), reference)
	if err != nil {
		h.writeError(w, "GetByReference", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByReference", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reference := ps.ByName("ref")

	var payment model.PaymentResult
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Confirm", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	booking, err := h.service.ConfirmAfterPayment(r.Context(), reference, &payment)
	if err != nil {
		h.writeError(w, "Confirm", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Confirm", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reference := ps.ByName("ref")

	var actor model.Actor
	if err := json.NewDecoder(r.Body).Decode(&actor); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Cancel", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	booking, err := h.service.Cancel(r.Context(), reference, &actor)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListForCustomer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		h.writeError(w, "ListForCustomer", apperrors.InvalidInput("'customer_id' query parameter is required"))
		return
	}

	filter, err := httputil.ExtractBookingFilter(r)
	if err != nil {
		h.writeError(w, "ListForCustomer", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListForCustomer", err)
		return
	}

	bookings, total, err := h.service.ListForCustomer(r.Context(), customerID, filter, limit, offset)
	if err != nil {
		h.writeError(w, "ListForCustomer", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListForCustomer", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) ListForHotel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hotelID := ps.ByName("id")

	filter, err := httputil.ExtractBookingFilter(r)
	if err != nil {
		h.writeError(w, "ListForHotel", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListForHotel", err)
		return
	}

	bookings, total, err := h.service.ListForHotel(r.Context(), hotelID, filter, limit, offset)
	if err != nil {
		h.writeError(w, "ListForHotel", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListForHotel", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/rooms/id/:id/availability", h.CheckAvailability)
	router.POST("/api/v1/bookings", h.CreateHold)
	router.GET("/api/v1/bookings", h.ListForCustomer)
	router.GET("/api/v1/bookings/ref/:ref", h.GetByReference)
	router.POST("/api/v1/bookings/ref/:ref/confirm", h.Confirm)
	router.PUT("/api/v1/bookings/ref/:ref/cancel", h.Cancel)
	router.GET("/api/v1/hotels/id/:id/bookings", h.ListForHotel)
}
