package service

import (
	"context"
	"testing"

	hotelerrors "stayledger/internal/hotels/errors"
	"stayledger/internal/hotels/validator"
	apperrors "stayledger/pkg/errors"
	"stayledger/pkg/model"
)

const testRoomID = "507f1f77bcf86cd799439011"

func newRoomService(rooms *mockRoomRepository, hotels *mockHotelRepository) RoomService {
	cfg := newTestConfig()
	return NewRoomService(rooms, hotels, validator.NewHotelValidator(cfg.Log), cfg)
}

func validRoom() *model.Room {
	return &model.Room{
		HotelID:      testHotelID,
		Number:       "101",
		Type:         model.RoomTypeStandard,
		NightlyPrice: 100,
		MaxGuests:    2,
	}
}

func TestRoomCreate_RequiresExistingHotel(t *testing.T) {
	hotels := &mockHotelRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Hotel, error) {
			return nil, hotelerrors.ErrHotelNotFound
		},
	}
	createCalled := false
	rooms := &mockRoomRepository{
		createFunc: func(ctx context.Context, room *model.Room) error {
			createCalled = true
			return nil
		},
	}
	service := newRoomService(rooms, hotels)

	err := service.Create(context.Background(), validRoom())
	assertAppErrorCode(t, err, apperrors.CodeNotFound)

	if createCalled {
		t.Error("expected no room insert when the hotel does not exist")
	}
}

func TestRoomCreate_DuplicateNumber(t *testing.T) {
	rooms := &mockRoomRepository{
		createFunc: func(ctx context.Context, room *model.Room) error {
			return hotelerrors.ErrDuplicateRoomNumber
		},
	}
	service := newRoomService(rooms, &mockHotelRepository{})

	err := service.Create(context.Background(), validRoom())
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestRoomCreate_InvalidType(t *testing.T) {
	service := newRoomService(&mockRoomRepository{}, &mockHotelRepository{})

	room := validRoom()
	room.Type = "penthouse"

	err := service.Create(context.Background(), room)
	assertAppErrorCode(t, err, apperrors.CodeValidation)
}

func TestRoomUpdate_MergesOnlyProvidedFields(t *testing.T) {
	var updated *model.Room
	rooms := &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Room, error) {
			room := validRoom()
			room.ID = testRoomID
			return room, nil
		},
		updateFunc: func(ctx context.Context, id string, room *model.Room) error {
			updated = room
			return nil
		},
	}
	service := newRoomService(rooms, &mockHotelRepository{})

	newGuests := 4
	err := service.Update(context.Background(), testRoomID, &model.RoomUpdate{
		MaxGuests: &newGuests,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.MaxGuests != 4 {
		t.Errorf("expected max guests updated to 4, got %d", updated.MaxGuests)
	}
	if updated.Number != "101" {
		t.Errorf("expected number preserved, got %q", updated.Number)
	}
	if updated.NightlyPrice != 100 {
		t.Errorf("expected price preserved, got %v", updated.NightlyPrice)
	}
}

func TestRoomDelete_NotFound(t *testing.T) {
	rooms := &mockRoomRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			return hotelerrors.ErrRoomNotFound
		},
	}
	service := newRoomService(rooms, &mockHotelRepository{})

	err := service.Delete(context.Background(), testRoomID)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestRoomGetByHotel_ReturnsCountAndPage(t *testing.T) {
	rooms := &mockRoomRepository{
		countByHotelFunc: func(ctx context.Context, hotelID string) (int64, error) {
			return 25, nil
		},
		findByHotelFunc: func(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.Room, error) {
			return []*model.Room{validRoom(), validRoom()}, nil
		},
	}
	service := newRoomService(rooms, &mockHotelRepository{})

	page, count, err := service.GetByHotel(context.Background(), testHotelID, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 25 {
		t.Errorf("expected count 25, got %d", count)
	}
	if len(page) != 2 {
		t.Errorf("expected 2 rooms in page, got %d", len(page))
	}
}
