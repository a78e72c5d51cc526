package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"stayledger/internal/reservations/gateway"
	apperrors "stayledger/pkg/errors"
	"stayledger/pkg/events"
	"stayledger/pkg/model"
)

type mockLedger struct {
	getByReferenceFunc func(ctx context.Context, reference string) (*model.Booking, error)
	confirmFunc        func(ctx context.Context, reference string, payment *model.PaymentResult) (*model.Booking, error)
}

func (m *mockLedger) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (*Availability, error) {
	return nil, nil
}

func (m *mockLedger) CreateHold(ctx context.Context, booking *model.Booking) error {
	return nil
}

func (m *mockLedger) ConfirmAfterPayment(ctx context.Context, reference string, payment *model.PaymentResult) (*model.Booking, error) {
	if m.confirmFunc != nil {
		return m.confirmFunc(ctx, reference, payment)
	}
	return storedBooking(model.StatusConfirmed), nil
}

func (m *mockLedger) Cancel(ctx context.Context, reference string, actor *model.Actor) (*model.Booking, error) {
	return nil, nil
}

func (m *mockLedger) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	if m.getByReferenceFunc != nil {
		return m.getByReferenceFunc(ctx, reference)
	}
	return storedBooking(model.StatusPending), nil
}

func (m *mockLedger) ListForCustomer(ctx context.Context, customerID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	return nil, 0, nil
}

func (m *mockLedger) ListForHotel(ctx context.Context, hotelID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	return nil, 0, nil
}

func (m *mockLedger) ExpireStalePending(ctx context.Context, olderThan time.Duration) (int64, error) {
	return 0, nil
}

func (m *mockLedger) CompleteFinishedStays(ctx context.Context) (int64, error) {
	return 0, nil
}

type mockPaymentRepository struct {
	created    []*model.Payment
	createErr  error
	findFunc   func(ctx context.Context, reference string) ([]*model.Payment, error)
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	m.created = append(m.created, payment)
	return m.createErr
}

func (m *mockPaymentRepository) FindByBookingReference(ctx context.Context, reference string) ([]*model.Payment, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, reference)
	}
	return nil, nil
}

type mockGateway struct {
	chargeFunc func(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error)
}

func (m *mockGateway) Name() string {
	return "mock"
}

func (m *mockGateway) Charge(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	if m.chargeFunc != nil {
		return m.chargeFunc(ctx, req)
	}
	return &gateway.ChargeResult{TransactionID: "txn-1", Succeeded: true}, nil
}

type mockPaymentPublisher struct {
	published []events.PaymentEvent
}

func (m *mockPaymentPublisher) PublishPayment(ctx context.Context, event events.PaymentEvent) error {
	m.published = append(m.published, event)
	return nil
}

func paymentRequest() *PaymentRequest {
	return &PaymentRequest{
		BookingReference: "BKG-654321-WXYZ",
		CustomerID:       "cust-1",
		Amount:           300,
		Method:           "card",
		CardLastFour:     "4242",
	}
}

func TestProcessPayment_SuccessConfirmsBooking(t *testing.T) {
	repo := &mockPaymentRepository{}
	publisher := &mockPaymentPublisher{}
	var confirmedWith *model.PaymentResult
	ledger := &mockLedger{
		confirmFunc: func(ctx context.Context, reference string, payment *model.PaymentResult) (*model.Booking, error) {
			confirmedWith = payment
			return storedBooking(model.StatusConfirmed), nil
		},
	}

	service := NewPaymentService(ledger, repo, &mockGateway{}, publisher, newTestConfig())

	booking, err := service.ProcessPayment(context.Background(), paymentRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.StatusConfirmed {
		t.Errorf("expected confirmed booking, got %s", booking.Status)
	}
	if confirmedWith == nil || !confirmedWith.Succeeded || confirmedWith.Amount != 300 {
		t.Errorf("expected confirm called with successful 300 payment, got %+v", confirmedWith)
	}
	if len(repo.created) != 1 || repo.created[0].Status != model.PaymentCompleted {
		t.Errorf("expected one completed payment recorded, got %+v", repo.created)
	}
	if len(publisher.published) != 1 {
		t.Errorf("expected one payment event, got %d", len(publisher.published))
	}
}

func TestProcessPayment_DeclinedIsRecorded(t *testing.T) {
	repo := &mockPaymentRepository{}
	confirmCalled := false
	ledger := &mockLedger{
		confirmFunc: func(ctx context.Context, reference string, payment *model.PaymentResult) (*model.Booking, error) {
			confirmCalled = true
			return nil, nil
		},
	}
	gw := &mockGateway{
		chargeFunc: func(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
			return &gateway.ChargeResult{Succeeded: false, ErrorMessage: "insufficient funds"}, nil
		},
	}

	service := NewPaymentService(ledger, repo, gw, nil, newTestConfig())

	_, err := service.ProcessPayment(context.Background(), paymentRequest())
	if err == nil {
		t.Fatal("expected error for declined payment")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if appErr.Details["reason"] != "insufficient funds" {
		t.Errorf("expected decline reason in details, got %v", appErr.Details)
	}

	if len(repo.created) != 1 || repo.created[0].Status != model.PaymentFailed {
		t.Errorf("expected failed payment recorded, got %+v", repo.created)
	}
	if confirmCalled {
		t.Error("expected no confirmation for declined payment")
	}
}

func TestProcessPayment_GatewayFailure(t *testing.T) {
	gw := &mockGateway{
		chargeFunc: func(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
			return nil, errors.New("connection refused")
		},
	}
	repo := &mockPaymentRepository{}

	service := NewPaymentService(&mockLedger{}, repo, gw, nil, newTestConfig())

	_, err := service.ProcessPayment(context.Background(), paymentRequest())
	assertAppErrorCode(t, err, apperrors.CodeUnavailable)

	if len(repo.created) != 0 {
		t.Error("expected no payment record when the gateway never charged")
	}
}

func TestProcessPayment_UnknownBooking(t *testing.T) {
	ledger := &mockLedger{
		getByReferenceFunc: func(ctx context.Context, reference string) (*model.Booking, error) {
			return nil, apperrors.NotFoundWithID("Booking", reference)
		},
	}
	chargeCalled := false
	gw := &mockGateway{
		chargeFunc: func(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
			chargeCalled = true
			return &gateway.ChargeResult{Succeeded: true}, nil
		},
	}

	service := NewPaymentService(ledger, &mockPaymentRepository{}, gw, nil, newTestConfig())

	_, err := service.ProcessPayment(context.Background(), paymentRequest())
	assertAppErrorCode(t, err, apperrors.CodeNotFound)

	if chargeCalled {
		t.Error("expected no charge for an unknown booking")
	}
}

func TestProcessPayment_RecordFailureDoesNotBlockConfirm(t *testing.T) {
	repo := &mockPaymentRepository{createErr: errors.New("write failed")}

	service := NewPaymentService(&mockLedger{}, repo, &mockGateway{}, nil, newTestConfig())

	booking, err := service.ProcessPayment(context.Background(), paymentRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusConfirmed {
		t.Errorf("expected booking confirmed despite record failure, got %s", booking.Status)
	}
}

func TestProcessPayment_SimulatedDeclineCardEndToEnd(t *testing.T) {
	repo := &mockPaymentRepository{}
	confirmCalled := false
	ledger := &mockLedger{
		confirmFunc: func(ctx context.Context, reference string, payment *model.PaymentResult) (*model.Booking, error) {
			confirmCalled = true
			return nil, nil
		},
	}

	service := NewPaymentService(ledger, repo, gateway.NewSimulatedGateway(), nil, newTestConfig())

	req := paymentRequest()
	req.CardLastFour = gateway.DeclineCardLastFour

	_, err := service.ProcessPayment(context.Background(), req)
	assertAppErrorCode(t, err, apperrors.CodeValidation)

	if len(repo.created) != 1 || repo.created[0].Status != model.PaymentFailed {
		t.Errorf("expected failed payment recorded, got %+v", repo.created)
	}
	if confirmCalled {
		t.Error("expected no confirmation for a declined card")
	}
}

func TestSimulatedGateway_DeclinesNonPositiveAmount(t *testing.T) {
	gw := gateway.NewSimulatedGateway()

	result, err := gw.Charge(context.Background(), gateway.ChargeRequest{Amount: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Succeeded {
		t.Error("expected zero-amount charge to be declined")
	}

	result, err = gw.Charge(context.Background(), gateway.ChargeRequest{Amount: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Succeeded {
		t.Error("expected positive-amount charge to succeed")
	}
	if result.TransactionID == "" {
		t.Error("expected a transaction id on success")
	}
}
