package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayledger/internal/reservations/repository"
	"stayledger/internal/reservations/service"
	"stayledger/internal/reservations/validator"
	"stayledger/pkg/client"
	"stayledger/pkg/config"
)

const ServiceName = "sweeper"

// The sweeper periodically expires stale pending holds and completes
// finished stays. It is the only writer that moves bookings in bulk.
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting booking sweeper",
		"sweep_interval", cfg.SweepInterval,
		"pending_max_age", cfg.PendingMaxAge,
	)

	ledgerService := initService(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run(ctx, cfg, ledgerService)
	cfg.Log.Info("Sweeper stopped")
}

func initService(cfg *config.Config) service.LedgerService {
	bookingValidator := validator.NewBookingValidator(cfg.Log, cfg.MaxStayNights)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewRoomLockRepository(cfg)
	hotelClient := client.NewHotelClient(cfg.HotelsServiceURL)

	return service.NewLedgerService(
		bookingRepo,
		lockRepo,
		bookingValidator,
		hotelClient,
		nil,
		cfg,
	)
}

func run(ctx context.Context, cfg *config.Config, ledgerService service.LedgerService) {
	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	// Sweep once at startup so a crashed sweeper catches up immediately.
	sweep(ctx, cfg, ledgerService)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx, cfg, ledgerService)
		}
	}
}

func sweep(ctx context.Context, cfg *config.Config, ledgerService service.LedgerService) {
	expired, err := ledgerService.ExpireStalePending(ctx, cfg.PendingMaxAge)
	if err != nil {
		cfg.Log.Error("Failed to expire stale pending bookings", "error", err)
	} else if expired > 0 {
		cfg.Log.Info("Expired stale pending bookings", "count", expired)
	}

	completed, err := ledgerService.CompleteFinishedStays(ctx)
	if err != nil {
		cfg.Log.Error("Failed to complete finished stays", "error", err)
	} else if completed > 0 {
		cfg.Log.Info("Completed finished stays", "count", completed)
	}
}
