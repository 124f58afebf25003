package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/artisanhub/server/internal/models"
	appErr "github.com/artisanhub/server/pkg/errors"
)

// ArtisanFilter narrows artisan listings. Zero values mean "no filter".
type ArtisanFilter struct {
	Specialty []string
	City      string
}

type ArtisanRepository interface {
	BaseRepository[models.Artisan]
	GetByEmail(ctx context.Context, email string, dest *models.Artisan) error
	GetByPhoneNumber(ctx context.Context, phone string, dest *models.Artisan) error
	ListByFilter(ctx context.Context, filter ArtisanFilter) ([]models.Artisan, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	UpdateAggregates(ctx context.Context, artisanID uuid.UUID, averageRating float64, totalRatings int) error
	AppendRatingRef(ctx context.Context, artisanID uuid.UUID, ratingID uuid.UUID) error
	RemoveRatingRef(ctx context.Context, artisanID uuid.UUID, ratingID uuid.UUID) error
	SetRatingRefs(ctx context.Context, artisanID uuid.UUID, ratingIDs []string) error
}

type artisanRepository struct {
	BaseRepository[models.Artisan]
	db *gorm.DB
}

func NewArtisanRepository(db *gorm.DB) ArtisanRepository {
	return &artisanRepository{BaseRepository: NewBaseRepository[models.Artisan](db), db: db}
}

func (r *artisanRepository) GetByEmail(ctx context.Context, email string, dest *models.Artisan) error {
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "artisan not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get artisan by email failed")
	}
	return nil
}

func (r *artisanRepository) GetByPhoneNumber(ctx context.Context, phone string, dest *models.Artisan) error {
	if err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "artisan not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get artisan by phone failed")
	}
	return nil
}

func (r *artisanRepository) ListByFilter(ctx context.Context, filter ArtisanFilter) ([]models.Artisan, error) {
	q := r.db.WithContext(ctx).Model(&models.Artisan{})
	if filter.City != "" {
		q = q.Where("city = ?", filter.City)
	}
	if len(filter.Specialty) > 0 {
		// jsonb containment: any requested specialty matches
		or := r.db
		for i, s := range filter.Specialty {
			b, err := json.Marshal([]string{s})
			if err != nil {
				return nil, appErr.Wrap(err, appErr.CodeInvalid, "invalid specialty filter")
			}
			if i == 0 {
				or = r.db.Where("specialty @> ?", string(b))
			} else {
				or = or.Or("specialty @> ?", string(b))
			}
		}
		q = q.Where(or)
	}
	var out []models.Artisan
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list artisans failed")
	}
	return out, nil
}

func (r *artisanRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.Artisan{}).Pluck("id", &ids).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list artisan ids failed")
	}
	return ids, nil
}

// UpdateAggregates writes both derived fields in one statement.
func (r *artisanRepository) UpdateAggregates(ctx context.Context, artisanID uuid.UUID, averageRating float64, totalRatings int) error {
	res := r.db.WithContext(ctx).Model(&models.Artisan{}).Where("id = ?", artisanID).Updates(map[string]any{
		"average_rating": averageRating,
		"total_ratings":  totalRatings,
	})
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update artisan aggregates failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "artisan not found")
	}
	return nil
}

func (r *artisanRepository) AppendRatingRef(ctx context.Context, artisanID uuid.UUID, ratingID uuid.UUID) error {
	var a models.Artisan
	if err := r.GetByID(ctx, artisanID, &a); err != nil {
		return err
	}
	id := ratingID.String()
	for _, existing := range a.RatingHistory {
		if existing == id {
			return nil
		}
	}
	a.RatingHistory = append(a.RatingHistory, id)
	if err := r.db.WithContext(ctx).Model(&models.Artisan{}).Where("id = ?", artisanID).Update("rating_history", a.RatingHistory).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "append rating ref to artisan failed")
	}
	return nil
}

func (r *artisanRepository) RemoveRatingRef(ctx context.Context, artisanID uuid.UUID, ratingID uuid.UUID) error {
	var a models.Artisan
	if err := r.GetByID(ctx, artisanID, &a); err != nil {
		return err
	}
	id := ratingID.String()
	kept := a.RatingHistory[:0]
	for _, existing := range a.RatingHistory {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	if err := r.db.WithContext(ctx).Model(&models.Artisan{}).Where("id = ?", artisanID).Update("rating_history", kept).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "remove rating ref from artisan failed")
	}
	return nil
}

func (r *artisanRepository) SetRatingRefs(ctx context.Context, artisanID uuid.UUID, ratingIDs []string) error {
	if ratingIDs == nil {
		ratingIDs = []string{}
	}
	res := r.db.WithContext(ctx).Model(&models.Artisan{}).Where("id = ?", artisanID).Update("rating_history", datatypes.NewJSONSlice(ratingIDs))
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "set artisan rating refs failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "artisan not found")
	}
	return nil
}
