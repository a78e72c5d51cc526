package model

import "time"

type Hotel struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ManagerID   string    `json:"manager_id" bson:"manager_id" validate:"required,min=1,max=100"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Address     string    `json:"address" bson:"address" validate:"required,min=2,max=200"`
	Contact     string    `json:"contact,omitempty" bson:"contact,omitempty" validate:"omitempty,max=100"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	Amenities   []string  `json:"amenities,omitempty" bson:"amenities,omitempty" validate:"omitempty,max=50,dive,min=1,max=50"`
	BasePrice   float64   `json:"base_price" bson:"base_price" validate:"omitempty,min=0"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type HotelUpdate struct {
	Name        string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Address     string    `json:"address,omitempty" validate:"omitempty,min=2,max=200"`
	Contact     *string   `json:"contact,omitempty" validate:"omitempty,max=100"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Amenities   *[]string `json:"amenities,omitempty" validate:"omitempty,max=50,dive,min=1,max=50"`
	BasePrice   *float64  `json:"base_price,omitempty" validate:"omitempty,min=0"`
}
