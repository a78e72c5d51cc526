package repository

import (
	"context"
	"errors"
	"fmt"
	reserrors "stayledger/internal/reservations/errors"
	"stayledger/pkg/config"
	mongotx "stayledger/pkg/db/mongo"
	"stayledger/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByReference(ctx context.Context, reference string) (*model.Booking, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	FindActiveOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, newStatus string, expectedVersion int64) error
	FindByCustomer(ctx context.Context, customerID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error)
	CountByCustomer(ctx context.Context, customerID string, filter model.BookingFilter) (int64, error)
	FindByHotel(ctx context.Context, hotelID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error)
	CountByHotel(ctx context.Context, hotelID string, filter model.BookingFilter) (int64, error)
	ExpireStalePending(ctx context.Context, cutoff time.Time) (int64, error)
	CompleteFinishedStays(ctx context.Context, today time.Time) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// SessionContext cannot be wrapped without breaking transaction semantics.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	booking.Version = 1
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s to %s", reserrors.ErrDateConflict,
				booking.CheckIn.Format(model.DateLayout), booking.CheckOut.Format(model.DateLayout))
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByReference(ctx context.Context, reference string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"reference": reference}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking by reference: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"reference": reference}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check booking reference: %w", err)
	}
	return count > 0, nil
}

// FindActiveOverlapping returns pending and confirmed bookings whose
// [check_in, check_out) range intersects the requested one.
func (r *mongoBookingRepository) FindActiveOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"room_id":   roomID,
		"status":    bson.M{"$in": []string{model.StatusPending, model.StatusConfirmed}},
		"check_in":  bson.M{"$lt": checkOut},
		"check_out": bson.M{"$gt": checkIn},
	}

	opts := options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping bookings: %w", err)
	}

	return bookings, nil
}

// UpdateStatus transitions a booking to newStatus, guarded by the optimistic
// version check. A zero match with an existing document means another request
// changed the booking first.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, newStatus string, expectedVersion int64) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":     objectID,
		"version": expectedVersion,
	}
	update := bson.M{
		"$set": bson.M{"status": newStatus},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if result.MatchedCount == 0 {
		exists, existsErr := r.idExists(ctx, objectID)
		if existsErr != nil {
			return existsErr
		}
		if exists {
			return reserrors.ErrConcurrentModification
		}
		return reserrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) idExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check booking existence: %w", err)
	}
	return count > 0, nil
}

func (r *mongoBookingRepository) FindByCustomer(ctx context.Context, customerID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "check_in", Value: sortDirection(filter)}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, r.buildCustomerFilter(customerID, filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode customer bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountByCustomer(ctx context.Context, customerID string, filter model.BookingFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, r.buildCustomerFilter(customerID, filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count customer bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) buildCustomerFilter(customerID string, f model.BookingFilter) bson.M {
	filter := bson.M{"customer_id": customerID}
	applyStatusFilter(filter, f)
	return filter
}

func (r *mongoBookingRepository) FindByHotel(ctx context.Context, hotelID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "check_in", Value: sortDirection(filter)}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, r.buildHotelFilter(hotelID, filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find hotel bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode hotel bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountByHotel(ctx context.Context, hotelID string, filter model.BookingFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, r.buildHotelFilter(hotelID, filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count hotel bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) buildHotelFilter(hotelID string, f model.BookingFilter) bson.M {
	filter := bson.M{"hotel_id": hotelID}
	applyStatusFilter(filter, f)
	return filter
}

// applyStatusFilter translates the derived status views into query clauses.
// "Upcoming" and "past" are computed from today, never stored on the booking.
func applyStatusFilter(filter bson.M, f model.BookingFilter) {
	today := model.Today()
	switch f.Status {
	case model.FilterStatusUpcoming:
		filter["status"] = bson.M{"$in": []string{model.StatusPending, model.StatusConfirmed}}
		filter["check_out"] = bson.M{"$gt": today}
	case model.FilterStatusPast:
		filter["$or"] = []bson.M{
			{"status": model.StatusCompleted},
			{"check_out": bson.M{"$lte": today}, "status": bson.M{"$ne": model.StatusCancelled}},
		}
	case model.FilterStatusCancelled:
		filter["status"] = model.StatusCancelled
	}
}

func sortDirection(f model.BookingFilter) int {
	if f.Sort == model.SortCheckInDesc {
		return -1
	}
	return 1
}

// ExpireStalePending cancels pending bookings created before the cutoff and
// returns how many were expired.
func (r *mongoBookingRepository) ExpireStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"status":     model.StatusPending,
		"created_at": bson.M{"$lt": cutoff},
	}
	update := bson.M{
		"$set": bson.M{"status": model.StatusCancelled},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale pending bookings: %w", err)
	}

	return result.ModifiedCount, nil
}

// CompleteFinishedStays marks confirmed bookings whose stay has ended as
// completed and returns how many were updated.
func (r *mongoBookingRepository) CompleteFinishedStays(ctx context.Context, today time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"status":    model.StatusConfirmed,
		"check_out": bson.M{"$lte": today},
	}
	update := bson.M{
		"$set": bson.M{"status": model.StatusCompleted},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to complete finished stays: %w", err)
	}

	return result.ModifiedCount, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
