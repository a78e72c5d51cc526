package handler

import (
	"github.com/julienschmidt/httprouter"
)

// Router bundles the hotel and room handlers behind a single registration
// point for the application server.
type Router struct {
	hotel *HotelHandler
	room  *RoomHandler
}

func NewRouter(hotel *HotelHandler, room *RoomHandler) *Router {
	return &Router{
		hotel: hotel,
		room:  room,
	}
}

func (rt *Router) RegisterRoutes(router *httprouter.Router) {
	rt.hotel.RegisterRoutes(router)
	rt.room.RegisterRoutes(router)
}
