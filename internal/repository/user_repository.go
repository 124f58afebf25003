package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/artisanhub/server/internal/models"
	appErr "github.com/artisanhub/server/pkg/errors"
)

type UserRepository interface {
	BaseRepository[models.User]
	GetByEmail(ctx context.Context, email string, dest *models.User) error
	AppendRatingRef(ctx context.Context, userID uuid.UUID, ratingID uuid.UUID) error
	RemoveRatingRef(ctx context.Context, userID uuid.UUID, ratingID uuid.UUID) error
	SetRatingRefs(ctx context.Context, userID uuid.UUID, ratingIDs []string) error
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db), db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "user not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get user by email failed")
	}
	return nil
}

// AppendRatingRef adds a rating id to the user's rating history list.
// The list never holds the same id twice. Read-modify-write without a
// transaction: last write wins per row, matching the rest of the
// back-reference maintenance.
func (r *userRepository) AppendRatingRef(ctx context.Context, userID uuid.UUID, ratingID uuid.UUID) error {
	var u models.User
	if err := r.GetByID(ctx, userID, &u); err != nil {
		return err
	}
	id := ratingID.String()
	for _, existing := range u.RatingHistory {
		if existing == id {
			return nil
		}
	}
	u.RatingHistory = append(u.RatingHistory, id)
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("rating_history", u.RatingHistory).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "append rating ref to user failed")
	}
	return nil
}

func (r *userRepository) RemoveRatingRef(ctx context.Context, userID uuid.UUID, ratingID uuid.UUID) error {
	var u models.User
	if err := r.GetByID(ctx, userID, &u); err != nil {
		return err
	}
	id := ratingID.String()
	kept := u.RatingHistory[:0]
	for _, existing := range u.RatingHistory {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("rating_history", kept).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "remove rating ref from user failed")
	}
	return nil
}

// SetRatingRefs replaces the whole history list; used by the repair pass.
func (r *userRepository) SetRatingRefs(ctx context.Context, userID uuid.UUID, ratingIDs []string) error {
	if ratingIDs == nil {
		ratingIDs = []string{}
	}
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("rating_history", datatypes.NewJSONSlice(ratingIDs))
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "set user rating refs failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "user not found")
	}
	return nil
}
