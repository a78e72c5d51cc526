package main

import (
	"stayledger/internal/reservations/gateway"
	"stayledger/internal/reservations/handler"
	"stayledger/internal/reservations/repository"
	"stayledger/internal/reservations/service"
	"stayledger/internal/reservations/validator"
	"stayledger/pkg/app"
	"stayledger/pkg/client"
	"stayledger/pkg/config"
	"stayledger/pkg/events"
	"stayledger/pkg/kafka"
	kafka_config "stayledger/pkg/kafka/config"
	kafka_middleware "stayledger/pkg/kafka/middleware"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reservations service")

	publisher, producer := initPublisher(cfg)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}()
	}

	ledgerService, paymentService := initServices(cfg, publisher)

	router := handler.NewRouter(
		handler.NewBookingHandler(ledgerService, cfg.Log),
		handler.NewPaymentHandler(paymentService, ledgerService, cfg.Log),
	)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(router)
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher *events.Publisher) (service.LedgerService, service.PaymentService) {
	bookingValidator := validator.NewBookingValidator(cfg.Log, cfg.MaxStayNights)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewRoomLockRepository(cfg)
	paymentRepo := repository.NewMongoPaymentRepository(cfg)
	hotelClient := client.NewHotelClient(cfg.HotelsServiceURL)

	ledgerService := service.NewLedgerService(
		bookingRepo,
		lockRepo,
		bookingValidator,
		hotelClient,
		eventPublisherOrNil(publisher),
		cfg,
	)

	paymentService := service.NewPaymentService(
		ledgerService,
		paymentRepo,
		gateway.NewSimulatedGateway(),
		paymentPublisherOrNil(publisher),
		cfg,
	)

	cfg.Log.Info("Reservation services initialized", "database", cfg.MongoDatabaseName)
	return ledgerService, paymentService
}

// initPublisher builds the Kafka event publisher. The service keeps working
// without a broker, it just stops publishing.
func initPublisher(cfg *config.Config) (*events.Publisher, *kafka.Producer) {
	kafkaCfg := kafka_config.Load()

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic)
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, event publishing disabled", "error", err)
		return nil, nil
	}

	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware())
		producer.Use(kafka_middleware.MetricsProducerMiddleware())
	}

	cfg.Log.Info("Kafka event publishing enabled", "topic", cfg.BookingEventsTopic)
	return events.NewPublisher(producer, ServiceName), producer
}

// Typed-nil guards: a nil *events.Publisher stored in an interface field
// would not compare equal to nil inside the services.
func eventPublisherOrNil(p *events.Publisher) service.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

func paymentPublisherOrNil(p *events.Publisher) service.PaymentPublisher {
	if p == nil {
		return nil
	}
	return p
}
