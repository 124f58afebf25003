package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating is the single source of truth for one user's rating of one artisan.
// Score and Comment are both optional, but a row never exists with neither.
// The (user_id, artisan_id) pair is unique at the storage layer.
type Rating struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_ratings_user_artisan" json:"user_id"`
	ArtisanID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_ratings_user_artisan" json:"artisan_id"`
	Score     *int      `gorm:"check:score >= 1 AND score <= 10" json:"score,omitempty"`
	Comment   *string   `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasScore reports whether the rating carries a numeric score.
func (r *Rating) HasScore() bool { return r.Score != nil }
