package services

import (
	"context"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artisanhub/server/internal/models"
	"github.com/artisanhub/server/internal/repository"
	appErr "github.com/artisanhub/server/pkg/errors"
	"github.com/artisanhub/server/pkg/logger"
)

// ReputationService owns every mutation of rating rows and is the only
// writer of the denormalized state derived from them: the rating-history
// back-reference lists on users and artisans, and the artisan aggregate
// fields. Sub-writes within one mutation are strictly sequential and are
// not wrapped in a transaction; a crash mid-mutation can leave the caches
// behind the rating store until Reconcile repairs them.
type ReputationService interface {
	CreateRating(ctx context.Context, userID, artisanID uuid.UUID, score *int, comment *string) (*models.Rating, error)
	UpdateRating(ctx context.Context, ratingID, callerUserID uuid.UUID, score *int, comment *string) (*models.Rating, error)
	DeleteRating(ctx context.Context, ratingID, callerUserID uuid.UUID) error

	RecomputeAggregates(ctx context.Context, artisanID uuid.UUID) error
	Reconcile(ctx context.Context, artisanID uuid.UUID) error
	ReconcileAll(ctx context.Context) error

	GetUserRatingHistory(ctx context.Context, userID uuid.UUID) ([]UserRatingEntry, error)
	GetArtisanRatingHistory(ctx context.Context, artisanID uuid.UUID) ([]ArtisanRatingEntry, error)
}

// RepairEnqueuer schedules a background reconcile for an artisan whose
// aggregate recomputation failed after an otherwise successful mutation.
type RepairEnqueuer interface {
	EnqueueReconcile(ctx context.Context, artisanID uuid.UUID) error
}

// ArtisanSummary is the projection exposed when hydrating a user's rating
// history. Never includes contact or credential fields.
type ArtisanSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Specialty []string  `json:"specialty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

// UserSummary is the minimal projection exposed when hydrating an artisan's
// rating history.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type UserRatingEntry struct {
	models.Rating
	Artisan ArtisanSummary `json:"artisan"`
}

type ArtisanRatingEntry struct {
	models.Rating
	User UserSummary `json:"user"`
}

type reputationService struct {
	ratings  repository.RatingRepository
	users    repository.UserRepository
	artisans repository.ArtisanRepository
	repair   RepairEnqueuer
}

// NewReputationService wires the three collections the service keeps
// consistent. repair may be nil; recompute failures are then only logged.
func NewReputationService(ratings repository.RatingRepository, users repository.UserRepository, artisans repository.ArtisanRepository, repair RepairEnqueuer) ReputationService {
	return &reputationService{ratings: ratings, users: users, artisans: artisans, repair: repair}
}

var _ ReputationService = (*reputationService)(nil)

func (s *reputationService) CreateRating(ctx context.Context, userID, artisanID uuid.UUID, score *int, comment *string) (*models.Rating, error) {
	if score == nil && comment == nil {
		return nil, appErr.New(appErr.CodeInvalid, "either score or comment must be provided")
	}

	var artisan models.Artisan
	if err := s.artisans.GetByID(ctx, artisanID, &artisan); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "artisan not found")
		}
		return nil, err
	}

	existing, err := s.ratings.FindByUserAndArtisan(ctx, userID, artisanID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, appErr.New(appErr.CodeConflict, "you have already rated or commented on this artisan, use update instead")
	}

	rating := &models.Rating{
		UserID:    userID,
		ArtisanID: artisanID,
		Score:     score,
		Comment:   comment,
	}
	if err := s.ratings.Insert(ctx, rating); err != nil {
		return nil, err
	}

	// Back-reference appends are independent sequential writes. A failure
	// here surfaces to the caller but the rating row already exists.
	if err := s.users.AppendRatingRef(ctx, userID, rating.ID); err != nil {
		return nil, err
	}
	if err := s.artisans.AppendRatingRef(ctx, artisanID, rating.ID); err != nil {
		return nil, err
	}

	if rating.HasScore() {
		s.recomputeOrRepair(ctx, artisanID)
	}

	logger.L().Info("rating created",
		zap.String("rating_id", rating.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("artisan_id", artisanID.String()),
		zap.Bool("scored", rating.HasScore()),
	)
	return rating, nil
}

func (s *reputationService) UpdateRating(ctx context.Context, ratingID, callerUserID uuid.UUID, score *int, comment *string) (*models.Rating, error) {
	if score == nil && comment == nil {
		return nil, appErr.New(appErr.CodeInvalid, "either score or comment must be provided")
	}

	existing, err := s.ratings.FindByIDAndOwner(ctx, ratingID, callerUserID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, appErr.New(appErr.CodeForbidden, "rating not found or not permitted")
	}

	hadScoreBefore := existing.HasScore()

	fields := map[string]any{}
	if score != nil {
		fields["score"] = *score
	}
	if comment != nil {
		fields["comment"] = *comment
	}
	updated, err := s.ratings.UpdateFields(ctx, ratingID, callerUserID, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, appErr.New(appErr.CodeForbidden, "rating not found or not permitted")
	}

	// Recompute when the row carried a score at any point around the patch:
	// covers value changes plus transitions into or out of being scored.
	if hadScoreBefore || updated.HasScore() {
		s.recomputeOrRepair(ctx, updated.ArtisanID)
	}

	logger.L().Info("rating updated",
		zap.String("rating_id", ratingID.String()),
		zap.String("user_id", callerUserID.String()),
	)
	return updated, nil
}

func (s *reputationService) DeleteRating(ctx context.Context, ratingID, callerUserID uuid.UUID) error {
	existing, err := s.ratings.FindByIDAndOwner(ctx, ratingID, callerUserID)
	if err != nil {
		return err
	}
	if existing == nil {
		return appErr.New(appErr.CodeForbidden, "rating not found or not permitted")
	}

	if err := s.users.RemoveRatingRef(ctx, existing.UserID, existing.ID); err != nil {
		return err
	}
	if err := s.artisans.RemoveRatingRef(ctx, existing.ArtisanID, existing.ID); err != nil {
		return err
	}

	deleted, err := s.ratings.DeleteByID(ctx, ratingID, callerUserID)
	if err != nil {
		return err
	}
	if deleted == nil {
		return appErr.New(appErr.CodeForbidden, "rating not found or not permitted")
	}

	if deleted.HasScore() {
		s.recomputeOrRepair(ctx, deleted.ArtisanID)
	}

	logger.L().Info("rating deleted",
		zap.String("rating_id", ratingID.String()),
		zap.String("user_id", callerUserID.String()),
	)
	return nil
}

// RecomputeAggregates rebuilds the artisan's derived fields from the rating
// store. Idempotent; safe to rerun at any time as a repair operation.
func (s *reputationService) RecomputeAggregates(ctx context.Context, artisanID uuid.UUID) error {
	sum, count, err := s.ratings.AggregateForArtisan(ctx, artisanID)
	if err != nil {
		return err
	}
	var average float64
	if count > 0 {
		average = roundToOneDecimal(float64(sum) / float64(count))
	}
	return s.artisans.UpdateAggregates(ctx, artisanID, average, int(count))
}

// recomputeOrRepair applies the degraded-success policy: the primary
// mutation already committed, so a recompute failure is logged and a
// background reconcile is scheduled instead of failing the request.
func (s *reputationService) recomputeOrRepair(ctx context.Context, artisanID uuid.UUID) {
	err := s.RecomputeAggregates(ctx, artisanID)
	if err == nil {
		return
	}
	logger.L().Error("aggregate recompute failed after rating mutation",
		zap.String("artisan_id", artisanID.String()),
		zap.Error(err),
	)
	if s.repair == nil {
		return
	}
	if err := s.repair.EnqueueReconcile(ctx, artisanID); err != nil {
		logger.L().Error("enqueue reputation repair failed",
			zap.String("artisan_id", artisanID.String()),
			zap.Error(err),
		)
	}
}

// Reconcile rebuilds every piece of derived state for one artisan from the
// rating store: the artisan's rating-history list, the full history list of
// each user who has rated the artisan, and the aggregate fields.
func (s *reputationService) Reconcile(ctx context.Context, artisanID uuid.UUID) error {
	rows, err := s.ratings.ListByArtisan(ctx, artisanID)
	if err != nil {
		return err
	}

	artisanRefs := make([]string, 0, len(rows))
	userSeen := map[uuid.UUID]bool{}
	for _, row := range rows {
		artisanRefs = append(artisanRefs, row.ID.String())
		userSeen[row.UserID] = true
	}
	if err := s.artisans.SetRatingRefs(ctx, artisanID, artisanRefs); err != nil {
		return err
	}

	for userID := range userSeen {
		userRows, err := s.ratings.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		refs := make([]string, 0, len(userRows))
		for _, row := range userRows {
			refs = append(refs, row.ID.String())
		}
		if err := s.users.SetRatingRefs(ctx, userID, refs); err != nil {
			return err
		}
	}

	if err := s.RecomputeAggregates(ctx, artisanID); err != nil {
		return err
	}

	logger.L().Info("reputation reconciled",
		zap.String("artisan_id", artisanID.String()),
		zap.Int("ratings", len(rows)),
	)
	return nil
}

// ReconcileAll runs the repair pass over every artisan.
func (s *reputationService) ReconcileAll(ctx context.Context) error {
	ids, err := s.artisans.ListIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.Reconcile(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *reputationService) GetUserRatingHistory(ctx context.Context, userID uuid.UUID) ([]UserRatingEntry, error) {
	rows, err := s.ratings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]UserRatingEntry, 0, len(rows))
	cache := map[uuid.UUID]ArtisanSummary{}
	for _, row := range rows {
		summary, ok := cache[row.ArtisanID]
		if !ok {
			var artisan models.Artisan
			if err := s.artisans.GetByID(ctx, row.ArtisanID, &artisan); err != nil {
				if !appErr.IsCode(err, appErr.CodeNotFound) {
					return nil, err
				}
				// artisan removed; keep the rating entry with a bare summary
				summary = ArtisanSummary{ID: row.ArtisanID}
			} else {
				summary = ArtisanSummary{
					ID:        artisan.ID,
					Name:      artisan.Name,
					Specialty: artisan.Specialty,
					AvatarURL: artisan.AvatarURL,
				}
			}
			cache[row.ArtisanID] = summary
		}
		entries = append(entries, UserRatingEntry{Rating: row, Artisan: summary})
	}
	return entries, nil
}

func (s *reputationService) GetArtisanRatingHistory(ctx context.Context, artisanID uuid.UUID) ([]ArtisanRatingEntry, error) {
	rows, err := s.ratings.ListByArtisan(ctx, artisanID)
	if err != nil {
		return nil, err
	}
	entries := make([]ArtisanRatingEntry, 0, len(rows))
	cache := map[uuid.UUID]UserSummary{}
	for _, row := range rows {
		summary, ok := cache[row.UserID]
		if !ok {
			var user models.User
			if err := s.users.GetByID(ctx, row.UserID, &user); err != nil {
				if !appErr.IsCode(err, appErr.CodeNotFound) {
					return nil, err
				}
				summary = UserSummary{ID: row.UserID}
			} else {
				summary = UserSummary{ID: user.ID, Email: user.Email}
			}
			cache[row.UserID] = summary
		}
		entries = append(entries, ArtisanRatingEntry{Rating: row, User: summary})
	}
	return entries, nil
}

func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
