package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	appErr "github.com/artisanhub/server/pkg/errors"
)

var testSecret = []byte("unit-test-secret")

func newAuthFixture() (AuthService, *fakeUserRepo, *fakeArtisanRepo) {
	users := newFakeUserRepo()
	artisans := newFakeArtisanRepo()
	return NewAuthService(users, artisans, testSecret), users, artisans
}

func TestRegisterUserThenLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "ama@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, user.PasswordHash)
	require.NotEqual(t, "s3cret-pass", user.PasswordHash)

	token, got, err := svc.LoginUser(ctx, "ama@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return testSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithAudience(AudienceUser))
	require.NoError(t, err)
	sub, err := claims.GetSubject()
	require.NoError(t, err)
	require.Equal(t, user.ID.String(), sub)
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "ama@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.RegisterUser(ctx, "ama@example.com", "another-pass")
	require.True(t, appErr.IsCode(err, appErr.CodeConflict))
}

func TestLoginUserWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "ama@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = svc.LoginUser(ctx, "ama@example.com", "wrong")
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))

	_, _, err = svc.LoginUser(ctx, "nobody@example.com", "s3cret-pass")
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
}

func TestRegisterArtisanUniquenessChecks(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	input := &ArtisanSignUpInput{
		Name:        "Kofi Mensah",
		Email:       "kofi@example.com",
		Password:    "s3cret-pass",
		PhoneNumber: "+233200000001",
		Specialty:   []string{"plumber"},
		Description: "pipes and fittings",
		Experience:  4,
		City:        "Accra",
	}
	artisan, err := svc.RegisterArtisan(ctx, input)
	require.NoError(t, err)
	require.Equal(t, 0.0, artisan.AverageRating)
	require.Equal(t, 0, artisan.TotalRatings)

	dup := *input
	dup.PhoneNumber = "+233200000099"
	_, err = svc.RegisterArtisan(ctx, &dup)
	require.True(t, appErr.IsCode(err, appErr.CodeConflict))

	dup = *input
	dup.Email = "other@example.com"
	_, err = svc.RegisterArtisan(ctx, &dup)
	require.True(t, appErr.IsCode(err, appErr.CodeConflict))
}

func TestLoginArtisanIssuesArtisanAudience(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.RegisterArtisan(ctx, &ArtisanSignUpInput{
		Name:        "Kofi Mensah",
		Email:       "kofi@example.com",
		Password:    "s3cret-pass",
		PhoneNumber: "+233200000001",
		Specialty:   []string{"plumber"},
		Description: "pipes and fittings",
		City:        "Accra",
	})
	require.NoError(t, err)

	token, _, err := svc.LoginArtisan(ctx, "kofi@example.com", "s3cret-pass")
	require.NoError(t, err)

	// A user-audience check must reject an artisan token.
	_, err = jwt.Parse(token, func(*jwt.Token) (any, error) {
		return testSecret, nil
	}, jwt.WithAudience(AudienceUser))
	require.Error(t, err)

	_, err = jwt.Parse(token, func(*jwt.Token) (any, error) {
		return testSecret, nil
	}, jwt.WithAudience(AudienceArtisan))
	require.NoError(t, err)
}
