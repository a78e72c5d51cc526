package handler

import (
	"github.com/julienschmidt/httprouter"
)

// Router groups the reservation service's handlers behind one route
// registration.
type Router struct {
	booking *BookingHandler
	payment *PaymentHandler
}

func NewRouter(booking *BookingHandler, payment *PaymentHandler) *Router {
	return &Router{
		booking: booking,
		payment: payment,
	}
}

func (r *Router) RegisterRoutes(router *httprouter.Router) {
	r.booking.RegisterRoutes(router)
	r.payment.RegisterRoutes(router)
}
