package service

import (
	"context"
	"errors"
	hotelerrors "stayledger/internal/hotels/errors"
	"stayledger/internal/hotels/repository"
	"stayledger/internal/hotels/validator"
	"stayledger/pkg/config"
	apperrors "stayledger/pkg/errors"
	"stayledger/pkg/model"
	"stayledger/pkg/sanitizer"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

type HotelService interface {
	Create(ctx context.Context, hotel *model.Hotel) error
	GetByID(ctx context.Context, id string) (*model.Hotel, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Hotel, int64, error)
	Update(ctx context.Context, id string, updates *model.HotelUpdate) error
	Delete(ctx context.Context, id string) error
}

type hotelService struct {
	repo      repository.HotelRepository
	roomRepo  repository.RoomRepository
	validator *validator.HotelValidator
	cfg       *config.Config
}

func NewHotelService(
	repo repository.HotelRepository,
	roomRepo repository.RoomRepository,
	hotelValidator *validator.HotelValidator,
	cfg *config.Config,
) HotelService {
	return &hotelService{
		repo:      repo,
		roomRepo:  roomRepo,
		validator: hotelValidator,
		cfg:       cfg,
	}
}

func (s *hotelService) Create(ctx context.Context, hotel *model.Hotel) error {
	s.sanitize(hotel)

	if err := s.validator.ValidateHotel(hotel); err != nil {
		s.cfg.Log.Warn("Hotel validation failed", "error", err)
		return apperrors.Validation("Hotel validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, hotel); err != nil {
		s.cfg.Log.Error("Failed to create hotel", "error", err)
		return apperrors.Internal("Failed to create hotel", err)
	}

	s.cfg.Log.Info("Hotel created successfully", "id", hotel.ID, "name", hotel.Name, "manager_id", hotel.ManagerID)
	return nil
}

func (s *hotelService) GetByID(ctx context.Context, id string) (*model.Hotel, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	hotel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapHotelError(id, err)
	}

	return hotel, nil
}

func (s *hotelService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Hotel, int64, error) {
	var count int64
	var hotels []*model.Hotel
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count hotels", "error", errCount)
			errCount = apperrors.Internal("Failed to count hotels", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		hotels, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list hotels", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve hotels", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return hotels, count, nil
}

func (s *hotelService) Update(ctx context.Context, id string, updates *model.HotelUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapHotelError(id, err)
	}

	if err := s.validator.ValidateHotelUpdate(updates); err != nil {
		s.cfg.Log.Warn("Hotel update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)

	if err := s.validator.ValidateHotel(merged); err != nil {
		return apperrors.Validation("Hotel validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		return s.mapHotelError(id, err)
	}

	s.cfg.Log.Info("Hotel updated successfully", "id", id)
	return nil
}

// Delete removes the hotel and all of its rooms in one transaction.
func (s *hotelService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	var roomsDeleted int64
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			return s.mapHotelError(id, err)
		}

		deleted, err := s.roomRepo.DeleteByHotel(sessCtx, id)
		if err != nil {
			return apperrors.Internal("Failed to delete hotel rooms", err)
		}
		roomsDeleted = deleted
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Hotel deleted successfully", "id", id, "rooms_deleted", roomsDeleted)
	return nil
}

func (s *hotelService) sanitize(h *model.Hotel) {
	h.Name = sanitizer.NormalizeName(h.Name)
	h.Address = sanitizer.NormalizeAddress(h.Address)
	h.Contact = sanitizer.TrimAndNormalize(h.Contact)
	h.Description = sanitizer.NormalizeFreeText(h.Description)
	h.Amenities = sanitizer.NormalizeAmenities(h.Amenities)
}

func (s *hotelService) mergeUpdates(existing *model.Hotel, updates *model.HotelUpdate) *model.Hotel {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Address != "" {
		merged.Address = updates.Address
	}
	if updates.Contact != nil {
		merged.Contact = *updates.Contact
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.Amenities != nil {
		merged.Amenities = *updates.Amenities
	}
	if updates.BasePrice != nil {
		merged.BasePrice = *updates.BasePrice
	}

	return &merged
}

func (s *hotelService) mapHotelError(id string, err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, hotelerrors.ErrHotelNotFound) {
		return apperrors.NotFoundWithID("Hotel", id)
	}
	if errors.Is(err, hotelerrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid hotel ID format")
	}
	return apperrors.Internal("Failed to access hotel", err)
}
