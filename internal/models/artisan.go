package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Artisan specialties accepted on sign-up and in listing filters.
const (
	SpecialtyPlumber     = "plumber"
	SpecialtyElectrician = "electrician"
	SpecialtyCarpenter   = "carpenter"
	SpecialtyPainter     = "painter"
	SpecialtyMason       = "mason"
	SpecialtyMechanic    = "mechanic"
	SpecialtyTailor      = "tailor"
)

// Artisan represents a service provider profile.
//
// AverageRating and TotalRatings are derived projections over the ratings
// table. They are never authoritative: the reputation service recomputes
// both from scored rating rows and they can be rebuilt at any time.
// RatingHistory carries the same back-reference contract as User's.
type Artisan struct {
	ID                uuid.UUID                  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name              string                     `gorm:"not null" json:"name" validate:"required"`
	Email             string                     `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	PasswordHash      string                     `gorm:"not null" json:"-"`
	PhoneNumber       string                     `gorm:"uniqueIndex;not null" json:"phone_number" validate:"required"`
	Specialty         datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"specialty" validate:"required,min=1"`
	Description       string                     `gorm:"type:text;not null" json:"description" validate:"required"`
	LinkOfSocialMedia string                     `json:"link_of_social_media,omitempty"`
	AvatarURL         string                     `json:"avatar_url,omitempty"`
	Experience        int                        `gorm:"not null" json:"experience" validate:"gte=0"`
	City              string                     `gorm:"type:varchar(64);index;not null" json:"city" validate:"required"`
	AverageRating     float64                    `gorm:"not null;default:0" json:"average_rating"`
	TotalRatings      int                        `gorm:"not null;default:0" json:"total_ratings"`
	RatingHistory     datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"rating_history"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
	DeletedAt         gorm.DeletedAt             `gorm:"index" json:"-"`
}
