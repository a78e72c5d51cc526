package service

import (
	"context"
	"errors"
	"fmt"
	reserrors "stayledger/internal/reservations/errors"
	"stayledger/internal/reservations/repository"
	"stayledger/internal/reservations/validator"
	"stayledger/pkg/client"
	"stayledger/pkg/config"
	apperrors "stayledger/pkg/errors"
	"stayledger/pkg/events"
	"stayledger/pkg/model"
	"stayledger/pkg/sanitizer"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// RoomResolver resolves rooms and their owning hotels from the catalog
// service.
type RoomResolver interface {
	GetRoom(id string) (*model.Room, error)
	GetHotel(id string) (*model.Hotel, error)
}

// EventPublisher publishes booking lifecycle events. Publishing failures are
// logged but never fail the booking operation itself.
type EventPublisher interface {
	PublishBooking(ctx context.Context, eventType string, event events.BookingEvent) error
}

// Availability is the result of a date-range availability check.
type Availability struct {
	Available      bool   `json:"available"`
	ConflictingRef string `json:"conflicting_booking_ref,omitempty"`
}

type LedgerService interface {
	CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (*Availability, error)
	CreateHold(ctx context.Context, booking *model.Booking) error
	ConfirmAfterPayment(ctx context.Context, reference string, payment *model.PaymentResult) (*model.Booking, error)
	Cancel(ctx context.Context, reference string, actor *model.Actor) (*model.Booking, error)
	GetByReference(ctx context.Context, reference string) (*model.Booking, error)
	ListForCustomer(ctx context.Context, customerID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	ListForHotel(ctx context.Context, hotelID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	ExpireStalePending(ctx context.Context, olderThan time.Duration) (int64, error)
	CompleteFinishedStays(ctx context.Context) (int64, error)
}

type ledgerService struct {
	repo      repository.BookingRepository
	lockRepo  repository.RoomLockRepository
	validator *validator.BookingValidator
	rooms     RoomResolver
	publisher EventPublisher
	refs      *ReferenceGenerator
	cfg       *config.Config
}

func NewLedgerService(
	repo repository.BookingRepository,
	lockRepo repository.RoomLockRepository,
	bookingValidator *validator.BookingValidator,
	rooms RoomResolver,
	publisher EventPublisher,
	cfg *config.Config,
) LedgerService {
	return &ledgerService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: bookingValidator,
		rooms:     rooms,
		publisher: publisher,
		refs:      NewReferenceGenerator(cfg.ReferencePrefix, repo.ReferenceExists),
		cfg:       cfg,
	}
}

func (s *ledgerService) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (*Availability, error) {
	if roomID == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	if err := s.validator.ValidateDateRange(checkIn, checkOut); err != nil {
		return nil, apperrors.InvalidDateRange(err.Error(), err)
	}

	if _, err := s.rooms.GetRoom(roomID); err != nil {
		return nil, s.mapRoomError(roomID, err)
	}

	existing, err := s.repo.FindActiveOverlapping(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return nil, apperrors.Internal("Failed to check room availability", err)
	}

	if len(existing) > 0 {
		return &Availability{
			Available:      false,
			ConflictingRef: existing[0].Reference,
		}, nil
	}

	return &Availability{Available: true}, nil
}

// CreateHold inserts a Pending booking for the requested range. The overlap
// check and the insert run inside one transaction, serialized per room by an
// advisory lock, so concurrent holds on the same room cannot both pass the
// check.
func (s *ledgerService) CreateHold(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)

	if err := s.validator.ValidateDateRange(booking.CheckIn, booking.CheckOut); err != nil {
		return apperrors.InvalidDateRange(err.Error(), err)
	}

	room, err := s.rooms.GetRoom(booking.RoomID)
	if err != nil {
		return s.mapRoomError(booking.RoomID, err)
	}

	if booking.Guests > room.MaxGuests {
		return apperrors.CapacityExceeded(
			fmt.Sprintf("Guest count %d exceeds room capacity %d", booking.Guests, room.MaxGuests),
			map[string]any{"guests": booking.Guests, "max_guests": room.MaxGuests},
		)
	}

	booking.HotelID = room.HotelID
	booking.TotalPrice = float64(booking.Nights()) * room.NightlyPrice

	reference, err := s.refs.Generate(ctx)
	if err != nil {
		return err
	}
	booking.Reference = reference

	if err := s.validate(booking); err != nil {
		return err
	}

	lockID, err := s.acquireRoomLock(ctx, booking.RoomID)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseRoomLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			if errors.Is(err, reserrors.ErrDateConflict) {
				return apperrors.Conflict("Room is no longer available for these dates")
			}
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create hold", "room_id", booking.RoomID, "error", err)
		return err
	}

	s.cfg.Log.Info("Hold created successfully",
		"reference", booking.Reference,
		"room_id", booking.RoomID,
		"check_in", booking.CheckIn.Format(model.DateLayout),
		"check_out", booking.CheckOut.Format(model.DateLayout),
		"total_price", booking.TotalPrice,
	)

	s.publish(ctx, events.TypeBookingCreated, booking)
	return nil
}

// ConfirmAfterPayment transitions Pending to Confirmed once the payment
// collaborator has reported success for the exact booking total. Confirming
// an already-confirmed booking is a no-op.
func (s *ledgerService) ConfirmAfterPayment(ctx context.Context, reference string, payment *model.PaymentResult) (*model.Booking, error) {
	booking, err := s.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case model.StatusConfirmed:
		// Idempotent: the payment webhook may be delivered more than once.
		return booking, nil
	case model.StatusCancelled:
		return nil, apperrors.AlreadyCancelled(reference)
	case model.StatusCompleted:
		return nil, apperrors.AlreadyCompleted(reference)
	}

	if payment == nil || !payment.Succeeded {
		return nil, apperrors.InvalidInput("Payment did not succeed; booking remains pending")
	}

	if payment.Amount != booking.TotalPrice {
		s.cfg.Log.Error("Payment amount mismatch, booking left pending for reconciliation",
			"reference", reference,
			"expected", booking.TotalPrice,
			"received", payment.Amount,
			"transaction_id", payment.TransactionID,
		)
		return nil, apperrors.AmountMismatch("Paid amount does not match booking total", map[string]any{
			"expected": booking.TotalPrice,
			"received": payment.Amount,
		})
	}

	if err := s.transition(ctx, booking, model.StatusConfirmed); err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking confirmed", "reference", reference, "transaction_id", payment.TransactionID)
	s.publish(ctx, events.TypeBookingConfirmed, booking)
	return booking, nil
}

// Cancel transitions Pending or Confirmed to Cancelled. Availability is
// derived from active bookings, so cancelling frees the range with no
// separate step.
func (s *ledgerService) Cancel(ctx context.Context, reference string, actor *model.Actor) (*model.Booking, error) {
	if err := s.validator.ValidateActor(actor); err != nil {
		return nil, apperrors.Validation("Invalid actor", map[string]any{"error": err.Error()})
	}

	booking, err := s.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeCancel(booking, actor); err != nil {
		return nil, err
	}

	switch booking.Status {
	case model.StatusCancelled:
		return nil, apperrors.AlreadyCancelled(reference)
	case model.StatusCompleted:
		return nil, apperrors.AlreadyCompleted(reference)
	}

	if err := s.transition(ctx, booking, model.StatusCancelled); err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking cancelled", "reference", reference, "actor_id", actor.ID, "actor_role", actor.Role)
	s.publish(ctx, events.TypeBookingCancelled, booking)
	return booking, nil
}

func (s *ledgerService) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	if reference == "" {
		return nil, apperrors.InvalidInput("Booking reference cannot be empty")
	}

	booking, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", reference)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *ledgerService) ListForCustomer(ctx context.Context, customerID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if customerID == "" {
		return nil, 0, apperrors.InvalidInput("Customer ID cannot be empty")
	}
	if err := s.validator.ValidateFilter(&filter); err != nil {
		return nil, 0, apperrors.Validation("Invalid filter", map[string]any{"error": err.Error()})
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByCustomer(ctx, customerID, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count customer bookings", "customer_id", customerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByCustomer(ctx, customerID, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list customer bookings", "customer_id", customerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *ledgerService) ListForHotel(ctx context.Context, hotelID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if hotelID == "" {
		return nil, 0, apperrors.InvalidInput("Hotel ID cannot be empty")
	}
	if err := s.validator.ValidateFilter(&filter); err != nil {
		return nil, 0, apperrors.Validation("Invalid filter", map[string]any{"error": err.Error()})
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByHotel(ctx, hotelID, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count hotel bookings", "hotel_id", hotelID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByHotel(ctx, hotelID, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list hotel bookings", "hotel_id", hotelID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// ExpireStalePending cancels holds that never saw a payment within olderThan.
func (s *ledgerService) ExpireStalePending(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	count, err := s.repo.ExpireStalePending(ctx, cutoff)
	if err != nil {
		return 0, apperrors.Internal("Failed to expire stale pending bookings", err)
	}

	if count > 0 {
		s.cfg.Log.Info("Expired stale pending bookings", "count", count, "cutoff", cutoff)
	}
	return count, nil
}

// CompleteFinishedStays moves confirmed bookings past their check-out date to
// Completed.
func (s *ledgerService) CompleteFinishedStays(ctx context.Context) (int64, error) {
	today := model.Today()

	count, err := s.repo.CompleteFinishedStays(ctx, today)
	if err != nil {
		return 0, apperrors.Internal("Failed to complete finished stays", err)
	}

	if count > 0 {
		s.cfg.Log.Info("Completed finished stays", "count", count, "as_of", today.Format(model.DateLayout))
	}
	return count, nil
}

// --- Helpers ---

func (s *ledgerService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.StatusPending
	}
}

func (s *ledgerService) sanitize(b *model.Booking) {
	b.SpecialRequests = sanitizer.NormalizeFreeText(b.SpecialRequests)
	b.CustomerID = sanitizer.TrimAndNormalize(b.CustomerID)
}

func (s *ledgerService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *ledgerService) mapRoomError(roomID string, err error) error {
	if errors.Is(err, client.ErrRoomNotFound) {
		return apperrors.NotFoundWithID("Room", roomID)
	}
	return apperrors.Internal("Failed to resolve room", err)
}

func (s *ledgerService) verifyNoOverlap(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindActiveOverlapping(ctx, booking.RoomID, booking.CheckIn, booking.CheckOut)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		// A new hold has no ID yet; only skip a genuine self-match.
		if booking.ID != "" && b.ID == booking.ID {
			continue
		}
		return apperrors.ConflictWithRef(fmt.Sprintf(
			"Room is already booked from %s to %s",
			b.CheckIn.Format(model.DateLayout),
			b.CheckOut.Format(model.DateLayout),
		), b.Reference)
	}
	return nil
}

// transition applies the status change guarded by the booking's version and
// updates the in-memory copy on success.
func (s *ledgerService) transition(ctx context.Context, booking *model.Booking, newStatus string) error {
	err := s.repo.UpdateStatus(ctx, booking.ID, newStatus, booking.Version)
	if err != nil {
		if errors.Is(err, reserrors.ErrConcurrentModification) {
			return apperrors.ConcurrentModification("Booking was modified by another request; retry")
		}
		if errors.Is(err, reserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", booking.Reference)
		}
		return apperrors.Internal("Failed to update booking status", err)
	}

	booking.Status = newStatus
	booking.Version++
	return nil
}

func (s *ledgerService) authorizeCancel(booking *model.Booking, actor *model.Actor) error {
	switch actor.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleCustomer:
		if booking.CustomerID == actor.ID {
			return nil
		}
	case model.RoleManager:
		hotel, err := s.rooms.GetHotel(booking.HotelID)
		if err != nil {
			if errors.Is(err, client.ErrHotelNotFound) {
				return apperrors.Forbidden("You are not allowed to cancel this booking")
			}
			return apperrors.Internal("Failed to resolve hotel for authorization", err)
		}
		if hotel.ManagerID == actor.ID {
			return nil
		}
	}
	return apperrors.Forbidden("You are not allowed to cancel this booking")
}

// acquireRoomLock serializes hold creation per room. The lock document
// carries a TTL so a crashed holder cannot wedge the room.
func (s *ledgerService) acquireRoomLock(ctx context.Context, roomID string) (string, error) {
	lockID := fmt.Sprintf("room_lock_%s", roomID)

	lock := &model.RoomLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.HoldLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This room is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire room lock", err)
	}

	return lockID, nil
}

func (s *ledgerService) releaseRoomLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func (s *ledgerService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}

	event := events.BookingEvent{
		Reference:  booking.Reference,
		HotelID:    booking.HotelID,
		RoomID:     booking.RoomID,
		CustomerID: booking.CustomerID,
		CheckIn:    booking.CheckIn.Format(model.DateLayout),
		CheckOut:   booking.CheckOut.Format(model.DateLayout),
		Guests:     booking.Guests,
		TotalPrice: booking.TotalPrice,
		Status:     booking.Status,
		OccurredAt: time.Now().UTC(),
	}

	if err := s.publisher.PublishBooking(ctx, eventType, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"reference", booking.Reference,
			"error", err,
		)
	}
}
