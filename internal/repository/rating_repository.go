package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/artisanhub/server/internal/models"
	appErr "github.com/artisanhub/server/pkg/errors"
)

const pgUniqueViolation = "23505"

// RatingRepository is the durable store for rating rows. Lookups scoped by
// owner return (nil, nil) when no matching row exists; callers decide how
// absence surfaces to the API.
type RatingRepository interface {
	BaseRepository[models.Rating]
	FindByUserAndArtisan(ctx context.Context, userID, artisanID uuid.UUID) (*models.Rating, error)
	FindByIDAndOwner(ctx context.Context, ratingID, ownerUserID uuid.UUID) (*models.Rating, error)
	Insert(ctx context.Context, rating *models.Rating) error
	UpdateFields(ctx context.Context, ratingID, ownerUserID uuid.UUID, fields map[string]any) (*models.Rating, error)
	DeleteByID(ctx context.Context, ratingID, ownerUserID uuid.UUID) (*models.Rating, error)
	AggregateForArtisan(ctx context.Context, artisanID uuid.UUID) (sum int64, count int64, err error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Rating, error)
	ListByArtisan(ctx context.Context, artisanID uuid.UUID) ([]models.Rating, error)
}

type ratingRepository struct {
	BaseRepository[models.Rating]
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{BaseRepository: NewBaseRepository[models.Rating](db), db: db}
}

func (r *ratingRepository) FindByUserAndArtisan(ctx context.Context, userID, artisanID uuid.UUID) (*models.Rating, error) {
	var out models.Rating
	err := r.db.WithContext(ctx).Where("user_id = ? AND artisan_id = ?", userID, artisanID).First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "find rating by user and artisan failed")
	}
	return &out, nil
}

// FindByIDAndOwner loads a rating only when it exists and belongs to
// ownerUserID. A row owned by someone else is indistinguishable from a
// missing one.
func (r *ratingRepository) FindByIDAndOwner(ctx context.Context, ratingID, ownerUserID uuid.UUID) (*models.Rating, error) {
	var out models.Rating
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", ratingID, ownerUserID).First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "find rating by id and owner failed")
	}
	return &out, nil
}

// Insert creates a rating row. The unique index on (user_id, artisan_id)
// backs up the service-level existence check; a violation maps to conflict.
func (r *ratingRepository) Insert(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).Create(rating).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return appErr.Wrap(err, appErr.CodeConflict, "rating already exists for this user and artisan")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "insert rating failed")
	}
	return nil
}

// UpdateFields applies a partial update to the rating identified by
// (ratingID, ownerUserID). Rows owned by a different user are invisible here.
func (r *ratingRepository) UpdateFields(ctx context.Context, ratingID, ownerUserID uuid.UUID, fields map[string]any) (*models.Rating, error) {
	var out models.Rating
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", ratingID, ownerUserID).First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "find rating for update failed")
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&out).Updates(fields).Error; err != nil {
			return nil, appErr.Wrap(err, appErr.CodeInternal, "update rating fields failed")
		}
	}
	return &out, nil
}

func (r *ratingRepository) DeleteByID(ctx context.Context, ratingID, ownerUserID uuid.UUID) (*models.Rating, error) {
	var out models.Rating
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", ratingID, ownerUserID).First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "find rating for delete failed")
	}
	if err := r.db.WithContext(ctx).Delete(&models.Rating{}, "id = ?", out.ID).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "delete rating failed")
	}
	return &out, nil
}

// AggregateForArtisan sums scores over the artisan's scored rows.
// Comment-only rows carry a NULL score and are excluded by both aggregates.
func (r *ratingRepository) AggregateForArtisan(ctx context.Context, artisanID uuid.UUID) (int64, int64, error) {
	var agg struct {
		Sum   int64
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("COALESCE(SUM(score), 0) AS sum, COUNT(score) AS count").
		Where("artisan_id = ? AND score IS NOT NULL", artisanID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, appErr.Wrap(err, appErr.CodeInternal, "aggregate ratings failed")
	}
	return agg.Sum, agg.Count, nil
}

func (r *ratingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Rating, error) {
	var out []models.Rating
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list ratings by user failed")
	}
	return out, nil
}

func (r *ratingRepository) ListByArtisan(ctx context.Context, artisanID uuid.UUID) ([]models.Rating, error) {
	var out []models.Rating
	if err := r.db.WithContext(ctx).Where("artisan_id = ?", artisanID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list ratings by artisan failed")
	}
	return out, nil
}
