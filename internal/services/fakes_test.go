package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/artisanhub/server/internal/models"
	"github.com/artisanhub/server/internal/repository"
	appErr "github.com/artisanhub/server/pkg/errors"
)

// In-memory stands-ins for the three repositories. They reproduce the
// repository contracts exactly: owner-scoped lookups return (nil, nil) on
// absence, Insert rejects a second row per (user, artisan) pair with a
// conflict error, and aggregation only counts rows that carry a score.

type fakeRatingRepo struct {
	mu           sync.Mutex
	rows         map[uuid.UUID]*models.Rating
	order        []uuid.UUID
	aggregateErr error
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{rows: map[uuid.UUID]*models.Rating{}}
}

func cloneRating(r *models.Rating) *models.Rating {
	cp := *r
	if r.Score != nil {
		v := *r.Score
		cp.Score = &v
	}
	if r.Comment != nil {
		v := *r.Comment
		cp.Comment = &v
	}
	return &cp
}

func (f *fakeRatingRepo) Create(ctx context.Context, obj *models.Rating) error {
	return f.Insert(ctx, obj)
}

func (f *fakeRatingRepo) GetByID(_ context.Context, id any, dest *models.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id.(uuid.UUID)]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "entity not found")
	}
	*dest = *cloneRating(r)
	return nil
}

func (f *fakeRatingRepo) Update(_ context.Context, obj *models.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[obj.ID] = cloneRating(obj)
	return nil
}

func (f *fakeRatingRepo) Delete(_ context.Context, id any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id.(uuid.UUID))
	return nil
}

func (f *fakeRatingRepo) FindByUserAndArtisan(_ context.Context, userID, artisanID uuid.UUID) (*models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.order {
		r, ok := f.rows[id]
		if ok && r.UserID == userID && r.ArtisanID == artisanID {
			return cloneRating(r), nil
		}
	}
	return nil, nil
}

func (f *fakeRatingRepo) FindByIDAndOwner(_ context.Context, ratingID, ownerUserID uuid.UUID) (*models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[ratingID]
	if !ok || r.UserID != ownerUserID {
		return nil, nil
	}
	return cloneRating(r), nil
}

func (f *fakeRatingRepo) Insert(_ context.Context, rating *models.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.UserID == rating.UserID && existing.ArtisanID == rating.ArtisanID {
			return appErr.New(appErr.CodeConflict, "rating already exists for this user and artisan")
		}
	}
	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}
	f.rows[rating.ID] = cloneRating(rating)
	f.order = append(f.order, rating.ID)
	return nil
}

func (f *fakeRatingRepo) UpdateFields(_ context.Context, ratingID, ownerUserID uuid.UUID, fields map[string]any) (*models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[ratingID]
	if !ok || r.UserID != ownerUserID {
		return nil, nil
	}
	if v, ok := fields["score"]; ok {
		s := v.(int)
		r.Score = &s
	}
	if v, ok := fields["comment"]; ok {
		c := v.(string)
		r.Comment = &c
	}
	return cloneRating(r), nil
}

func (f *fakeRatingRepo) DeleteByID(_ context.Context, ratingID, ownerUserID uuid.UUID) (*models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[ratingID]
	if !ok || r.UserID != ownerUserID {
		return nil, nil
	}
	delete(f.rows, ratingID)
	for i, id := range f.order {
		if id == ratingID {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return r, nil
}

func (f *fakeRatingRepo) AggregateForArtisan(_ context.Context, artisanID uuid.UUID) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.aggregateErr != nil {
		return 0, 0, f.aggregateErr
	}
	var sum, count int64
	for _, r := range f.rows {
		if r.ArtisanID == artisanID && r.Score != nil {
			sum += int64(*r.Score)
			count++
		}
	}
	return sum, count, nil
}

func (f *fakeRatingRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Rating
	for _, id := range f.order {
		r, ok := f.rows[id]
		if ok && r.UserID == userID {
			out = append(out, *cloneRating(r))
		}
	}
	return out, nil
}

func (f *fakeRatingRepo) ListByArtisan(_ context.Context, artisanID uuid.UUID) ([]models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Rating
	for _, id := range f.order {
		r, ok := f.rows[id]
		if ok && r.ArtisanID == artisanID {
			out = append(out, *cloneRating(r))
		}
	}
	return out, nil
}

var _ repository.RatingRepository = (*fakeRatingRepo)(nil)

type fakeUserRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{rows: map[uuid.UUID]*models.User{}}
}

func (f *fakeUserRepo) add(u *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.rows[u.ID] = u
}

func (f *fakeUserRepo) Create(_ context.Context, obj *models.User) error {
	f.add(obj)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id any, dest *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id.(uuid.UUID)]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "entity not found")
	}
	*dest = *u
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, obj *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[obj.ID] = obj
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id.(uuid.UUID))
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string, dest *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if strings.EqualFold(u.Email, email) {
			*dest = *u
			return nil
		}
	}
	return appErr.New(appErr.CodeNotFound, "user not found")
}

func (f *fakeUserRepo) AppendRatingRef(_ context.Context, userID uuid.UUID, ratingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[userID]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "user not found")
	}
	ref := ratingID.String()
	for _, existing := range u.RatingHistory {
		if existing == ref {
			return nil
		}
	}
	u.RatingHistory = append(u.RatingHistory, ref)
	return nil
}

func (f *fakeUserRepo) RemoveRatingRef(_ context.Context, userID uuid.UUID, ratingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[userID]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "user not found")
	}
	ref := ratingID.String()
	kept := u.RatingHistory[:0]
	for _, existing := range u.RatingHistory {
		if existing != ref {
			kept = append(kept, existing)
		}
	}
	u.RatingHistory = kept
	return nil
}

func (f *fakeUserRepo) SetRatingRefs(_ context.Context, userID uuid.UUID, ratingIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[userID]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "user not found")
	}
	u.RatingHistory = datatypes.NewJSONSlice(ratingIDs)
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

type fakeArtisanRepo struct {
	mu            sync.Mutex
	rows          map[uuid.UUID]*models.Artisan
	updateAggErr  error
	setRefsCalled int
}

func newFakeArtisanRepo() *fakeArtisanRepo {
	return &fakeArtisanRepo{rows: map[uuid.UUID]*models.Artisan{}}
}

func (f *fakeArtisanRepo) add(a *models.Artisan) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	f.rows[a.ID] = a
}

func (f *fakeArtisanRepo) Create(_ context.Context, obj *models.Artisan) error {
	f.add(obj)
	return nil
}

func (f *fakeArtisanRepo) GetByID(_ context.Context, id any, dest *models.Artisan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[id.(uuid.UUID)]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "entity not found")
	}
	*dest = *a
	return nil
}

func (f *fakeArtisanRepo) Update(_ context.Context, obj *models.Artisan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[obj.ID] = obj
	return nil
}

func (f *fakeArtisanRepo) Delete(_ context.Context, id any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id.(uuid.UUID))
	return nil
}

func (f *fakeArtisanRepo) GetByEmail(_ context.Context, email string, dest *models.Artisan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.rows {
		if strings.EqualFold(a.Email, email) {
			*dest = *a
			return nil
		}
	}
	return appErr.New(appErr.CodeNotFound, "artisan not found")
}

func (f *fakeArtisanRepo) GetByPhoneNumber(_ context.Context, phone string, dest *models.Artisan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.rows {
		if a.PhoneNumber == phone {
			*dest = *a
			return nil
		}
	}
	return appErr.New(appErr.CodeNotFound, "artisan not found")
}

func (f *fakeArtisanRepo) ListByFilter(_ context.Context, filter repository.ArtisanFilter) ([]models.Artisan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Artisan
	for _, a := range f.rows {
		if filter.City != "" && a.City != filter.City {
			continue
		}
		if len(filter.Specialty) > 0 && !hasAnySpecialty(a.Specialty, filter.Specialty) {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func hasAnySpecialty(have []string, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (f *fakeArtisanRepo) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(f.rows))
	for id := range f.rows {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeArtisanRepo) UpdateAggregates(_ context.Context, artisanID uuid.UUID, averageRating float64, totalRatings int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateAggErr != nil {
		return f.updateAggErr
	}
	a, ok := f.rows[artisanID]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "artisan not found")
	}
	a.AverageRating = averageRating
	a.TotalRatings = totalRatings
	return nil
}

func (f *fakeArtisanRepo) AppendRatingRef(_ context.Context, artisanID uuid.UUID, ratingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[artisanID]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "artisan not found")
	}
	ref := ratingID.String()
	for _, existing := range a.RatingHistory {
		if existing == ref {
			return nil
		}
	}
	a.RatingHistory = append(a.RatingHistory, ref)
	return nil
}

func (f *fakeArtisanRepo) RemoveRatingRef(_ context.Context, artisanID uuid.UUID, ratingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[artisanID]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "artisan not found")
	}
	ref := ratingID.String()
	kept := a.RatingHistory[:0]
	for _, existing := range a.RatingHistory {
		if existing != ref {
			kept = append(kept, existing)
		}
	}
	a.RatingHistory = kept
	return nil
}

func (f *fakeArtisanRepo) SetRatingRefs(_ context.Context, artisanID uuid.UUID, ratingIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setRefsCalled++
	a, ok := f.rows[artisanID]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "artisan not found")
	}
	a.RatingHistory = datatypes.NewJSONSlice(ratingIDs)
	return nil
}

var _ repository.ArtisanRepository = (*fakeArtisanRepo)(nil)

type fakeEnqueuer struct {
	mu  sync.Mutex
	ids []uuid.UUID
	err error
}

func (f *fakeEnqueuer) EnqueueReconcile(_ context.Context, artisanID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.ids = append(f.ids, artisanID)
	return nil
}

var _ RepairEnqueuer = (*fakeEnqueuer)(nil)
