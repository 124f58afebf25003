package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User represents a marketplace customer who rates artisans.
//
// RatingHistory is a denormalized back-reference cache: the ordered list of
// rating ids owned by this user. It is maintained exclusively by the
// reputation service and must mirror the rows in the ratings table whose
// user_id equals this user's id.
type User struct {
	ID            uuid.UUID                  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email         string                     `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	PasswordHash  string                     `gorm:"not null" json:"-"`
	RatingHistory datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"rating_history"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
	DeletedAt     gorm.DeletedAt             `gorm:"index" json:"-"`
}
