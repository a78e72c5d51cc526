package service

import (
	"context"
	"time"

	"stayledger/internal/reservations/gateway"
	"stayledger/internal/reservations/repository"
	"stayledger/pkg/config"
	apperrors "stayledger/pkg/errors"
	"stayledger/pkg/events"
	"stayledger/pkg/model"
)

// PaymentPublisher publishes payment events.
type PaymentPublisher interface {
	PublishPayment(ctx context.Context, event events.PaymentEvent) error
}

// PaymentRequest is what a customer submits to pay for a pending booking.
type PaymentRequest struct {
	BookingReference string  `json:"booking_reference" validate:"required"`
	CustomerID       string  `json:"customer_id" validate:"required"`
	Amount           float64 `json:"amount" validate:"required,gt=0"`
	Method           string  `json:"method" validate:"required,oneof=card transfer"`
	CardLastFour     string  `json:"card_last_four,omitempty" validate:"omitempty,len=4,numeric"`
}

type PaymentService interface {
	ProcessPayment(ctx context.Context, req *PaymentRequest) (*model.Booking, error)
	ListForBooking(ctx context.Context, reference string) ([]*model.Payment, error)
}

type paymentService struct {
	ledger    LedgerService
	repo      repository.PaymentRepository
	gateway   gateway.Gateway
	publisher PaymentPublisher
	cfg       *config.Config
}

func NewPaymentService(
	ledger LedgerService,
	repo repository.PaymentRepository,
	gw gateway.Gateway,
	publisher PaymentPublisher,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		ledger:    ledger,
		repo:      repo,
		gateway:   gw,
		publisher: publisher,
		cfg:       cfg,
	}
}

// ProcessPayment charges the gateway, records the attempt, and confirms the
// booking on success. Every attempt is persisted, declined ones included.
func (s *paymentService) ProcessPayment(ctx context.Context, req *PaymentRequest) (*model.Booking, error) {
	if req.BookingReference == "" {
		return nil, apperrors.InvalidInput("Booking reference cannot be empty")
	}
	if req.Amount <= 0 {
		return nil, apperrors.InvalidInput("Payment amount must be positive")
	}

	if _, err := s.ledger.GetByReference(ctx, req.BookingReference); err != nil {
		return nil, err
	}

	result, err := s.gateway.Charge(ctx, gateway.ChargeRequest{
		BookingReference: req.BookingReference,
		CustomerID:       req.CustomerID,
		Amount:           req.Amount,
		Method:           req.Method,
		CardLastFour:     req.CardLastFour,
	})
	if err != nil {
		s.cfg.Log.Error("Payment gateway call failed", "reference", req.BookingReference, "error", err)
		return nil, apperrors.Unavailable("Payment gateway")
	}

	payment := &model.Payment{
		BookingReference: req.BookingReference,
		CustomerID:       req.CustomerID,
		Amount:           req.Amount,
		Method:           req.Method,
		CardLastFour:     req.CardLastFour,
		TransactionID:    result.TransactionID,
		Gateway:          s.gateway.Name(),
		ErrorMessage:     result.ErrorMessage,
	}
	if result.Succeeded {
		payment.Status = model.PaymentCompleted
	} else {
		payment.Status = model.PaymentFailed
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		// The charge already happened; losing the record is worse than a
		// duplicate attempt, so log and continue.
		s.cfg.Log.Error("Failed to record payment attempt",
			"reference", req.BookingReference,
			"transaction_id", result.TransactionID,
			"error", err,
		)
	}

	s.publishPayment(ctx, payment)

	if !result.Succeeded {
		s.cfg.Log.Warn("Payment declined",
			"reference", req.BookingReference,
			"amount", req.Amount,
			"reason", result.ErrorMessage,
		)
		return nil, apperrors.Validation("Payment was declined", map[string]any{
			"reason": result.ErrorMessage,
		})
	}

	confirmed, err := s.ledger.ConfirmAfterPayment(ctx, req.BookingReference, &model.PaymentResult{
		TransactionID: result.TransactionID,
		Amount:        req.Amount,
		Succeeded:     true,
	})
	if err != nil {
		return nil, err
	}

	return confirmed, nil
}

func (s *paymentService) ListForBooking(ctx context.Context, reference string) ([]*model.Payment, error) {
	if reference == "" {
		return nil, apperrors.InvalidInput("Booking reference cannot be empty")
	}

	payments, err := s.repo.FindByBookingReference(ctx, reference)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve payments", err)
	}
	return payments, nil
}

func (s *paymentService) publishPayment(ctx context.Context, payment *model.Payment) {
	if s.publisher == nil {
		return
	}

	event := events.PaymentEvent{
		BookingReference: payment.BookingReference,
		CustomerID:       payment.CustomerID,
		Amount:           payment.Amount,
		Status:           payment.Status,
		TransactionID:    payment.TransactionID,
		ErrorMessage:     payment.ErrorMessage,
		OccurredAt:       time.Now().UTC(),
	}

	if err := s.publisher.PublishPayment(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish payment event",
			"reference", payment.BookingReference,
			"error", err,
		)
	}
}
