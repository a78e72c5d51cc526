package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	reserrors "stayledger/internal/reservations/errors"
	"stayledger/internal/reservations/validator"
	"stayledger/pkg/config"
	mongotx "stayledger/pkg/db/mongo"
	apperrors "stayledger/pkg/errors"
	"stayledger/pkg/events"
	"stayledger/pkg/logger"
	"stayledger/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	testRoomID   = "507f1f77bcf86cd799439011"
	testHotelID  = "507f1f77bcf86cd799439022"
	testOtherRef = "BKG-123456-ABCD"
)

// Mock repositories for testing

type mockBookingRepository struct {
	createFunc                func(ctx context.Context, booking *model.Booking) error
	findByReferenceFunc       func(ctx context.Context, reference string) (*model.Booking, error)
	referenceExistsFunc       func(ctx context.Context, reference string) (bool, error)
	findActiveOverlappingFunc func(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error)
	updateStatusFunc          func(ctx context.Context, id string, newStatus string, expectedVersion int64) error
	expireStalePendingFunc    func(ctx context.Context, cutoff time.Time) (int64, error)
	completeFinishedFunc      func(ctx context.Context, today time.Time) (int64, error)
	countByCustomerFunc       func(ctx context.Context, customerID string, filter model.BookingFilter) (int64, error)
	findByCustomerFunc        func(ctx context.Context, customerID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, reserrors.ErrNotFound
}

func (m *mockBookingRepository) FindByReference(ctx context.Context, reference string) (*model.Booking, error) {
	if m.findByReferenceFunc != nil {
		return m.findByReferenceFunc(ctx, reference)
	}
	return nil, reserrors.ErrNotFound
}

func (m *mockBookingRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	if m.referenceExistsFunc != nil {
		return m.referenceExistsFunc(ctx, reference)
	}
	return false, nil
}

func (m *mockBookingRepository) FindActiveOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
	if m.findActiveOverlappingFunc != nil {
		return m.findActiveOverlappingFunc(ctx, roomID, checkIn, checkOut)
	}
	return nil, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, newStatus string, expectedVersion int64) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, newStatus, expectedVersion)
	}
	return nil
}

func (m *mockBookingRepository) FindByCustomer(ctx context.Context, customerID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	if m.findByCustomerFunc != nil {
		return m.findByCustomerFunc(ctx, customerID, filter, limit, offset)
	}
	return nil, nil
}

func (m *mockBookingRepository) CountByCustomer(ctx context.Context, customerID string, filter model.BookingFilter) (int64, error) {
	if m.countByCustomerFunc != nil {
		return m.countByCustomerFunc(ctx, customerID, filter)
	}
	return 0, nil
}

func (m *mockBookingRepository) FindByHotel(ctx context.Context, hotelID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) CountByHotel(ctx context.Context, hotelID string, filter model.BookingFilter) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) ExpireStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.expireStalePendingFunc != nil {
		return m.expireStalePendingFunc(ctx, cutoff)
	}
	return 0, nil
}

func (m *mockBookingRepository) CompleteFinishedStays(ctx context.Context, today time.Time) (int64, error) {
	if m.completeFinishedFunc != nil {
		return m.completeFinishedFunc(ctx, today)
	}
	return 0, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockRoomLockRepository struct {
	createFunc func(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error)
	deleted    []string
}

func (m *mockRoomLockRepository) Create(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockRoomLockRepository) Delete(ctx context.Context, lockID string) error {
	m.deleted = append(m.deleted, lockID)
	return nil
}

type mockRoomResolver struct {
	getRoomFunc  func(id string) (*model.Room, error)
	getHotelFunc func(id string) (*model.Hotel, error)
}

func (m *mockRoomResolver) GetRoom(id string) (*model.Room, error) {
	if m.getRoomFunc != nil {
		return m.getRoomFunc(id)
	}
	return &model.Room{
		ID:           testRoomID,
		HotelID:      testHotelID,
		Number:       "101",
		Type:         model.RoomTypeStandard,
		NightlyPrice: 100,
		MaxGuests:    4,
	}, nil
}

func (m *mockRoomResolver) GetHotel(id string) (*model.Hotel, error) {
	if m.getHotelFunc != nil {
		return m.getHotelFunc(id)
	}
	return &model.Hotel{ID: testHotelID, ManagerID: "manager-1"}, nil
}

type mockEventPublisher struct {
	published []string
}

func (m *mockEventPublisher) PublishBooking(ctx context.Context, eventType string, event events.BookingEvent) error {
	m.published = append(m.published, eventType)
	return nil
}

func newTestConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})

	return &config.Config{
		Log:             log,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		HoldLockTTL:     time.Minute,
		MaxStayNights:   30,
		ReferencePrefix: "BKG",
	}
}

func newTestService(repo *mockBookingRepository, locks *mockRoomLockRepository, rooms *mockRoomResolver, publisher *mockEventPublisher) LedgerService {
	cfg := newTestConfig()
	var pub EventPublisher
	if publisher != nil {
		pub = publisher
	}
	return NewLedgerService(
		repo,
		locks,
		validator.NewBookingValidator(cfg.Log, cfg.MaxStayNights),
		rooms,
		pub,
		cfg,
	)
}

func futureDate(daysFromNow int) time.Time {
	return model.Today().AddDate(0, 0, daysFromNow)
}

func pendingBooking() *model.Booking {
	return &model.Booking{
		RoomID:     testRoomID,
		CustomerID: "cust-1",
		CheckIn:    futureDate(7),
		CheckOut:   futureDate(10),
		Guests:     2,
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (message: %s)", code, appErr.Code, appErr.Message)
	}
}

func TestCreateHold_ComputesTotalPriceFromNights(t *testing.T) {
	repo := &mockBookingRepository{}
	locks := &mockRoomLockRepository{}
	publisher := &mockEventPublisher{}
	service := newTestService(repo, locks, &mockRoomResolver{}, publisher)

	booking := pendingBooking()
	if err := service.CreateHold(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.TotalPrice != 300 {
		t.Errorf("expected total price 300 for 3 nights at 100, got %v", booking.TotalPrice)
	}
	if booking.Status != model.StatusPending {
		t.Errorf("expected status pending, got %s", booking.Status)
	}
	if booking.HotelID != testHotelID {
		t.Errorf("expected hotel id resolved from room, got %s", booking.HotelID)
	}
	if !strings.HasPrefix(booking.Reference, "BKG-") {
		t.Errorf("expected reference with BKG- prefix, got %q", booking.Reference)
	}
	if len(publisher.published) != 1 || publisher.published[0] != events.TypeBookingCreated {
		t.Errorf("expected booking.created event, got %v", publisher.published)
	}
	if len(locks.deleted) != 1 {
		t.Errorf("expected room lock released exactly once, got %d", len(locks.deleted))
	}
}

func TestCreateHold_RejectsOverlappingRange(t *testing.T) {
	repo := &mockBookingRepository{
		findActiveOverlappingFunc: func(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
			return []*model.Booking{{
				ID:        "existing-id",
				Reference: testOtherRef,
				CheckIn:   futureDate(8),
				CheckOut:  futureDate(11),
				Status:    model.StatusConfirmed,
			}}, nil
		},
	}
	locks := &mockRoomLockRepository{}
	service := newTestService(repo, locks, &mockRoomResolver{}, nil)

	err := service.CreateHold(context.Background(), pendingBooking())
	assertAppErrorCode(t, err, apperrors.CodeConflict)

	appErr := err.(*apperrors.AppError)
	if appErr.Details["existing_booking_ref"] != testOtherRef {
		t.Errorf("expected conflicting reference in details, got %v", appErr.Details)
	}
	if len(locks.deleted) != 1 {
		t.Errorf("expected room lock released even on conflict, got %d deletes", len(locks.deleted))
	}
}

func TestCreateHold_ConflictsWithOverlapMissingID(t *testing.T) {
	// Stored bookings always carry an ID; a decoded one without it must still
	// block the range rather than be mistaken for the hold being created.
	repo := &mockBookingRepository{
		findActiveOverlappingFunc: func(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
			return []*model.Booking{{
				ID:        "",
				Reference: testOtherRef,
				CheckIn:   futureDate(8),
				CheckOut:  futureDate(11),
				Status:    model.StatusPending,
			}}, nil
		},
	}
	service := newTestService(repo, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

	err := service.CreateHold(context.Background(), pendingBooking())
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestCancel_AlreadyCancelledKindDistinctFromDateConflict(t *testing.T) {
	overlapRepo := &mockBookingRepository{
		findActiveOverlappingFunc: func(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
			return []*model.Booking{{
				ID:        "507f1f77bcf86cd799439099",
				Reference: testOtherRef,
				Status:    model.StatusConfirmed,
			}}, nil
		},
	}
	cancelledRepo := &mockBookingRepository{
		findByReferenceFunc: func(ctx context.Context, reference string) (*model.Booking, error) {
			return storedBooking(model.StatusCancelled), nil
		},
	}

	holdErr := newTestService(overlapRepo, &mockRoomLockRepository{}, &mockRoomResolver{}, nil).
		CreateHold(context.Background(), pendingBooking())
	actor := model.Actor{ID: "admin-1", Role: model.RoleAdmin}
	_, cancelErr := newTestService(cancelledRepo, &mockRoomLockRepository{}, &mockRoomResolver{}, nil).
		Cancel(context.Background(), "BKG-654321-WXYZ", &actor)

	holdCode := apperrors.AsAppError(holdErr).Code
	cancelCode := apperrors.AsAppError(cancelErr).Code
	if holdCode == cancelCode {
		t.Errorf("expected distinct error kinds, both paths returned %q", holdCode)
	}
	if cancelCode != apperrors.CodeAlreadyCancelled {
		t.Errorf("expected %s for a repeat cancel, got %s", apperrors.CodeAlreadyCancelled, cancelCode)
	}
}

func TestCreateHold_RoomLockAlreadyHeld(t *testing.T) {
	locks := &mockRoomLockRepository{
		createFunc: func(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error) {
			return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
		},
	}
	service := newTestService(&mockBookingRepository{}, locks, &mockRoomResolver{}, nil)

	err := service.CreateHold(context.Background(), pendingBooking())
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestCreateHold_CapacityExceeded(t *testing.T) {
	service := newTestService(&mockBookingRepository{}, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

	booking := pendingBooking()
	booking.Guests = 9

	err := service.CreateHold(context.Background(), booking)
	assertAppErrorCode(t, err, apperrors.CodeCapacityExceeded)
}

func TestCreateHold_InvalidDateRanges(t *testing.T) {
	service := newTestService(&mockBookingRepository{}, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
	}{
		{"equal dates", futureDate(7), futureDate(7)},
		{"reversed dates", futureDate(10), futureDate(7)},
		{"check-in in the past", futureDate(-1), futureDate(2)},
		{"stay too long", futureDate(1), futureDate(40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := pendingBooking()
			booking.CheckIn = tt.checkIn
			booking.CheckOut = tt.checkOut

			err := service.CreateHold(context.Background(), booking)
			assertAppErrorCode(t, err, apperrors.CodeInvalidDateRange)

			if !errors.Is(err, reserrors.ErrInvalidDateRange) {
				t.Errorf("expected the date-range sentinel in the chain, got %v", err)
			}
		})
	}
}

func TestCheckAvailability_ReportsConflictingReference(t *testing.T) {
	repo := &mockBookingRepository{
		findActiveOverlappingFunc: func(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
			return []*model.Booking{{Reference: testOtherRef, Status: model.StatusPending}}, nil
		},
	}
	service := newTestService(repo, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

	availability, err := service.CheckAvailability(context.Background(), testRoomID, futureDate(7), futureDate(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if availability.Available {
		t.Error("expected room to be unavailable")
	}
	if availability.ConflictingRef != testOtherRef {
		t.Errorf("expected conflicting reference %s, got %s", testOtherRef, availability.ConflictingRef)
	}
}

func TestCheckAvailability_FreeRange(t *testing.T) {
	service := newTestService(&mockBookingRepository{}, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

	availability, err := service.CheckAvailability(context.Background(), testRoomID, futureDate(7), futureDate(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !availability.Available {
		t.Error("expected room to be available")
	}
	if availability.ConflictingRef != "" {
		t.Errorf("expected no conflicting reference, got %s", availability.ConflictingRef)
	}
}

func storedBooking(status string) *model.Booking {
	return &model.Booking{
		ID:         "booking-id-1",
		Reference:  "BKG-654321-WXYZ",
		HotelID:    testHotelID,
		RoomID:     testRoomID,
		CustomerID: "cust-1",
		CheckIn:    futureDate(7),
		CheckOut:   futureDate(10),
		Guests:     2,
		TotalPrice: 300,
		Status:     status,
		Version:    1,
	}
}

func TestConfirmAfterPayment_Success(t *testing.T) {
	var updatedStatus string
	var updatedVersion int64
	repo := &mockBookingRepository{
		findByReferenceFunc: func(ctx context.Context, reference string) (*model.Booking, error) {
			return storedBooking(model.StatusPending), nil
		},
		updateStatusFunc: func(ctx context.Context, id string, newStatus string, expectedVersion int64) error {
			updatedStatus = newStatus
			updatedVersion = expectedVersion
			return nil
		},
	}
	publisher := &mockEventPublisher{}
	service := newTestService(repo, &mockRoomLockRepository{}, &mockRoomResolver{}, publisher)

	payment := &model.PaymentResult{TransactionID: "txn-1", Amount: 300, Succeeded: true}
	booking, err := service.ConfirmAfterPayment(context.Background(), "BKG-654321-WXYZ", payment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updatedStatus != model.StatusConfirmed {
		t.Errorf("expected status update to confirmed, got %s", updatedStatus)
	}
	if updatedVersion != 1 {
		t.Errorf("expected update guarded by version 1, got %d", updatedVersion)
	}
	if booking.Status != model.StatusConfirmed {
		t.Errorf("expected returned booking confirmed, got %s", booking.Status)
	}
	if booking.Version != 2 {
		t.Errorf("expected version bumped to 2, got %d", booking.Version)
	}
	if len(publisher.published) != 1 || publisher.published[0] != events.TypeBookingConfirmed {
		t.Errorf("expected booking.confirmed event, got %v", publisher.published)
	}
}

func TestConfirmAfterPayment_IdempotentForConfirmed(t *testing.T) {
	updateCalled := false
	repo := &mockBookingRepository{
		findByReferenceFunc: func(ctx context.Context, reference string) (*model.Booking, error) {
			return storedBooking(model.StatusConfirmed), nil
		},
		updateStatusFunc: func(ctx context.Context, id string, newStatus string, expectedVersion int64) error {
			updateCalled = true
			return nil
		},
	}
	service := newTestService(repo, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

	payment := &model.PaymentResult{TransactionID: "txn-1", Amount: 300, Succeeded: true}
	booking, err := service.ConfirmAfterPayment(context.Background(), "BKG-654321-WXYZ", payment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.StatusConfirmed {
		t.Errorf("expected confirmed booking back, got %s", booking.Status)
	}
	if updateCalled {
		t.Error("expected no status update for an already confirmed booking")
	}
}

func TestConfirmAfterPayment_AmountMismatchLeavesPending(t *testing.T) {
	updateCalled := false
	repo := &mockBookingRepository{
		findByReferenceFunc: func(ctx context.Context, reference string) (*model.Booking, error) {
			return storedBooking(model.StatusPending), nil
		},
		updateStatusFunc: func(ctx context.Context, id string, newStatus string, expectedVersion int64) error {
			updateCalled = true
			return nil
		},
	}
	service := newTestService(repo, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

	payment := &model.PaymentResult{TransactionID: "txn-1", Amount: 250, Succeeded: true}
	_, err := service.ConfirmAfterPayment(context.Background(), "BKG-654321-WXYZ", payment)
	assertAppErrorCode(t, err, apperrors.CodeAmountMismatch)

	appErr := err.(*apperrors.AppError)
	if appErr.Details["expected"] != 300.0 || appErr.Details["received"] != 250.0 {
		t.Errorf("expected amount details in error, got %v", appErr.Details)
	}
	if updateCalled {
		t.Error("expected booking left pending on amount mismatch")
	}
}

func TestConfirmAfterPayment_FailedPayment(t *testing.T) {
	repo := &mockBookingRepository{
		findByReferenceFunc: func(ctx context.Context, reference string) (*model.Booking, error) {
			return storedBooking(model.StatusPending), nil
		},
	}
	service := newTestService(repo, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

	payment := &model.PaymentResult{TransactionID: "txn-1", Amount: 300, Succeeded: false}
	_, err := service.ConfirmAfterPayment(context.Background(), "BKG-654321-WXYZ", payment)
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestConfirmAfterPayment_CancelledBooking(t *testing.T) {
	repo := &mockBookingRepository{
		findByReferenceFunc: func(ctx context.Context, reference string) (*model.Booking, error) {
			return storedBooking(model.StatusCancelled), nil
		},
	}
	service := newTestService(repo, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

	payment := &model.PaymentResult{TransactionID: "txn-1", Amount: 300, Succeeded: true}
	_, err := service.ConfirmAfterPayment(context.Background(), "BKG-654321-WXYZ", payment)
	assertAppErrorCode(t, err, apperrors.CodeAlreadyCancelled)
}

func TestConfirmAfterPayment_ConcurrentModification(t *testing.T) {
	repo := &mockBookingRepository{
		findByReferenceFunc: func(ctx context.Context, reference string) (*model.Booking, error) {
			return storedBooking(model.StatusPending), nil
		},
		updateStatusFunc: func(ctx context.Context, id string, newStatus string, expectedVersion int64) error {
			return reserrors.ErrConcurrentModification
		},
	}
	service := newTestService(repo, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

	payment := &model.PaymentResult{TransactionID: "txn-1", Amount: 300, Succeeded: true}
	_, err := service.ConfirmAfterPayment(context.Background(), "BKG-654321-WXYZ", payment)
	assertAppErrorCode(t, err, apperrors.CodeConcurrentModification)
}

func TestCancel_AuthorizationMatrix(t *testing.T) {
	tests := []struct {
		name    string
		actor   model.Actor
		allowed bool
	}{
		{"owning customer", model.Actor{ID: "cust-1", Role: model.RoleCustomer}, true},
		{"other customer", model.Actor{ID: "cust-2", Role: model.RoleCustomer}, false},
		{"hotel manager", model.Actor{ID: "manager-1", Role: model.RoleManager}, true},
		{"other manager", model.Actor{ID: "manager-2", Role: model.RoleManager}, false},
		{"admin", model.Actor{ID: "admin-1", Role: model.RoleAdmin}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBookingRepository{
				findByReferenceFunc: func(ctx context.Context, reference string) (*model.Booking, error) {
					return storedBooking(model.StatusConfirmed), nil
				},
			}
			service := newTestService(repo, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

			booking, err := service.Cancel(context.Background(), "BKG-654321-WXYZ", &tt.actor)

			if tt.allowed {
				if err != nil {
					t.Fatalf("expected cancel to succeed, got %v", err)
				}
				if booking.Status != model.StatusCancelled {
					t.Errorf("expected cancelled status, got %s", booking.Status)
				}
			} else {
				assertAppErrorCode(t, err, apperrors.CodeForbidden)
			}
		})
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	repo := &mockBookingRepository{
		findByReferenceFunc: func(ctx context.Context, reference string) (*model.Booking, error) {
			return storedBooking(model.StatusCancelled), nil
		},
	}
	service := newTestService(repo, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

	actor := model.Actor{ID: "admin-1", Role: model.RoleAdmin}
	_, err := service.Cancel(context.Background(), "BKG-654321-WXYZ", &actor)
	assertAppErrorCode(t, err, apperrors.CodeAlreadyCancelled)
}

func TestCancel_CompletedStay(t *testing.T) {
	repo := &mockBookingRepository{
		findByReferenceFunc: func(ctx context.Context, reference string) (*model.Booking, error) {
			return storedBooking(model.StatusCompleted), nil
		},
	}
	service := newTestService(repo, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

	actor := model.Actor{ID: "admin-1", Role: model.RoleAdmin}
	_, err := service.Cancel(context.Background(), "BKG-654321-WXYZ", &actor)
	assertAppErrorCode(t, err, apperrors.CodeAlreadyCompleted)
}

func TestGetByReference_NotFound(t *testing.T) {
	service := newTestService(&mockBookingRepository{}, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

	_, err := service.GetByReference(context.Background(), "BKG-000000-NONE")
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestExpireStalePending_PassesCutoff(t *testing.T) {
	var capturedCutoff time.Time
	repo := &mockBookingRepository{
		expireStalePendingFunc: func(ctx context.Context, cutoff time.Time) (int64, error) {
			capturedCutoff = cutoff
			return 3, nil
		},
	}
	service := newTestService(repo, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

	count, err := service.ExpireStalePending(context.Background(), 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 expired, got %d", count)
	}

	expected := time.Now().UTC().Add(-30 * time.Minute)
	if diff := capturedCutoff.Sub(expected); diff < -time.Second || diff > time.Second {
		t.Errorf("cutoff %v not near expected %v", capturedCutoff, expected)
	}
}

func TestListForCustomer_ConcurrentCountAndFind(t *testing.T) {
	repo := &mockBookingRepository{
		countByCustomerFunc: func(ctx context.Context, customerID string, filter model.BookingFilter) (int64, error) {
			time.Sleep(5 * time.Millisecond)
			return 12, nil
		},
		findByCustomerFunc: func(ctx context.Context, customerID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
			time.Sleep(5 * time.Millisecond)
			return []*model.Booking{storedBooking(model.StatusConfirmed)}, nil
		},
	}
	service := newTestService(repo, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

	filter := model.BookingFilter{Status: model.FilterStatusAll, Sort: model.SortCheckInAsc}
	bookings, count, err := service.ListForCustomer(context.Background(), "cust-1", filter, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 12 {
		t.Errorf("expected count 12, got %d", count)
	}
	if len(bookings) != 1 {
		t.Errorf("expected 1 booking, got %d", len(bookings))
	}
}

func TestListForHotel_RejectsUnknownFilterStatus(t *testing.T) {
	service := newTestService(&mockBookingRepository{}, &mockRoomLockRepository{}, &mockRoomResolver{}, nil)

	filter := model.BookingFilter{Status: "archived"}
	_, _, err := service.ListForHotel(context.Background(), testHotelID, filter, 10, 0)

	assertAppErrorCode(t, err, apperrors.CodeValidation)
}
