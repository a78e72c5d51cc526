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
)

type RoomService interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.Room, int64, error)
	Update(ctx context.Context, id string, updates *model.RoomUpdate) error
	Delete(ctx context.Context, id string) error
}

type roomService struct {
	repo      repository.RoomRepository
	hotelRepo repository.HotelRepository
	validator *validator.HotelValidator
	cfg       *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	hotelRepo repository.HotelRepository,
	hotelValidator *validator.HotelValidator,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:      repo,
		hotelRepo: hotelRepo,
		validator: hotelValidator,
		cfg:       cfg,
	}
}

func (s *roomService) Create(ctx context.Context, room *model.Room) error {
	room.Number = sanitizer.TrimAndNormalize(room.Number)
	room.Type = sanitizer.TrimAndNormalize(room.Type)

	if err := s.validator.ValidateRoom(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}

	// The hotel must exist before a room can be attached to it.
	if _, err := s.hotelRepo.FindByID(ctx, room.HotelID); err != nil {
		if errors.Is(err, hotelerrors.ErrHotelNotFound) || errors.Is(err, hotelerrors.ErrInvalidID) {
			return apperrors.NotFoundWithID("Hotel", room.HotelID)
		}
		return apperrors.Internal("Failed to verify hotel", err)
	}

	if err := s.repo.Create(ctx, room); err != nil {
		if errors.Is(err, hotelerrors.ErrDuplicateRoomNumber) {
			return apperrors.Conflict("Room number already exists in this hotel")
		}
		s.cfg.Log.Error("Failed to create room", "hotel_id", room.HotelID, "error", err)
		return apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created successfully", "id", room.ID, "hotel_id", room.HotelID, "number", room.Number)
	return nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRoomError(id, err)
	}

	return room, nil
}

func (s *roomService) GetByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.Room, int64, error) {
	if hotelID == "" {
		return nil, 0, apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByHotel(ctx, hotelID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count rooms", "hotel_id", hotelID, "error", errCount)
			errCount = apperrors.Internal("Failed to count rooms", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rooms, errFind = s.repo.FindByHotel(ctx, hotelID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list rooms", "hotel_id", hotelID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve rooms", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rooms, count, nil
}

func (s *roomService) Update(ctx context.Context, id string, updates *model.RoomUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapRoomError(id, err)
	}

	if err := s.validator.ValidateRoomUpdate(updates); err != nil {
		s.cfg.Log.Warn("Room update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)

	if err := s.validator.ValidateRoom(merged); err != nil {
		return apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, hotelerrors.ErrDuplicateRoomNumber) {
			return apperrors.Conflict("Room number already exists in this hotel")
		}
		return s.mapRoomError(id, err)
	}

	s.cfg.Log.Info("Room updated successfully", "id", id)
	return nil
}

func (s *roomService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRoomError(id, err)
	}

	s.cfg.Log.Info("Room deleted successfully", "id", id)
	return nil
}

func (s *roomService) mergeUpdates(existing *model.Room, updates *model.RoomUpdate) *model.Room {
	merged := *existing

	if updates.Number != "" {
		merged.Number = sanitizer.TrimAndNormalize(updates.Number)
	}
	if updates.Type != "" {
		merged.Type = sanitizer.TrimAndNormalize(updates.Type)
	}
	if updates.NightlyPrice != nil {
		merged.NightlyPrice = *updates.NightlyPrice
	}
	if updates.MaxGuests != nil {
		merged.MaxGuests = *updates.MaxGuests
	}

	return &merged
}

func (s *roomService) mapRoomError(id string, err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, hotelerrors.ErrRoomNotFound) {
		return apperrors.NotFoundWithID("Room", id)
	}
	if errors.Is(err, hotelerrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid room ID format")
	}
	return apperrors.Internal("Failed to access room", err)
}
