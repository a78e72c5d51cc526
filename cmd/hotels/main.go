package main

import (
	"stayledger/internal/hotels/handler"
	"stayledger/internal/hotels/repository"
	"stayledger/internal/hotels/service"
	"stayledger/internal/hotels/validator"
	"stayledger/pkg/app"
	"stayledger/pkg/config"
)

const ServiceName = "hotels"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Hotels service")

	hotelService, roomService := initServices(cfg)

	router := handler.NewRouter(
		handler.NewHotelHandler(hotelService, cfg.Log),
		handler.NewRoomHandler(roomService, cfg.Log),
	)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(router)
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.HotelService, service.RoomService) {
	hotelValidator := validator.NewHotelValidator(cfg.Log)
	hotelRepo := repository.NewMongoHotelRepository(cfg)
	roomRepo := repository.NewMongoRoomRepository(cfg)

	hotelService := service.NewHotelService(hotelRepo, roomRepo, hotelValidator, cfg)
	roomService := service.NewRoomService(roomRepo, hotelRepo, hotelValidator, cfg)

	cfg.Log.Info("Hotel services initialized", "database", cfg.MongoDatabaseName)
	return hotelService, roomService
}
