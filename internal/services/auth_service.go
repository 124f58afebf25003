package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/artisanhub/server/internal/models"
	"github.com/artisanhub/server/internal/repository"
	appErr "github.com/artisanhub/server/pkg/errors"
	"github.com/artisanhub/server/pkg/utils"
)

// Audience values distinguishing the two principal kinds in issued tokens.
const (
	AudienceUser    = "user"
	AudienceArtisan = "artisan"
)

type ArtisanSignUpInput struct {
	Name              string
	Email             string
	Password          string
	PhoneNumber       string
	Specialty         []string
	Description       string
	LinkOfSocialMedia string
	AvatarURL         string
	Experience        int
	City              string
}

type AuthService interface {
	RegisterUser(ctx context.Context, email, password string) (*models.User, error)
	LoginUser(ctx context.Context, email, password string) (string, *models.User, error)
	RegisterArtisan(ctx context.Context, input *ArtisanSignUpInput) (*models.Artisan, error)
	LoginArtisan(ctx context.Context, email, password string) (string, *models.Artisan, error)
}

type authService struct {
	users      repository.UserRepository
	artisans   repository.ArtisanRepository
	hmacSecret []byte
	tokenTTL   time.Duration
}

func NewAuthService(users repository.UserRepository, artisans repository.ArtisanRepository, secret []byte) AuthService {
	return &authService{
		users:      users,
		artisans:   artisans,
		hmacSecret: secret,
		tokenTTL:   24 * time.Hour,
	}
}

func (s *authService) RegisterUser(ctx context.Context, email, password string) (*models.User, error) {
	var existing models.User
	if err := s.users.GetByEmail(ctx, email, &existing); err == nil {
		return nil, appErr.New(appErr.CodeConflict, "user already exists")
	} else if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}

	user := &models.User{Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) LoginUser(ctx context.Context, email, password string) (string, *models.User, error) {
	var user models.User
	if err := s.users.GetByEmail(ctx, email, &user); err != nil {
		return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
	}
	token, err := s.signToken(user.ID.String(), AudienceUser)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

func (s *authService) RegisterArtisan(ctx context.Context, input *ArtisanSignUpInput) (*models.Artisan, error) {
	var existing models.Artisan
	if err := s.artisans.GetByEmail(ctx, input.Email, &existing); err == nil {
		return nil, appErr.New(appErr.CodeConflict, "artisan already exists")
	} else if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}
	if err := s.artisans.GetByPhoneNumber(ctx, input.PhoneNumber, &existing); err == nil {
		return nil, appErr.New(appErr.CodeConflict, "phone number is already in use")
	} else if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}

	artisan := &models.Artisan{
		Name:              input.Name,
		Email:             input.Email,
		PasswordHash:      hash,
		PhoneNumber:       input.PhoneNumber,
		Specialty:         input.Specialty,
		Description:       input.Description,
		LinkOfSocialMedia: input.LinkOfSocialMedia,
		AvatarURL:         input.AvatarURL,
		Experience:        input.Experience,
		City:              input.City,
	}
	if err := s.artisans.Create(ctx, artisan); err != nil {
		return nil, err
	}
	return artisan, nil
}

func (s *authService) LoginArtisan(ctx context.Context, email, password string) (string, *models.Artisan, error) {
	var artisan models.Artisan
	if err := s.artisans.GetByEmail(ctx, email, &artisan); err != nil {
		return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
	}
	if !utils.CheckPassword(artisan.PasswordHash, password) {
		return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
	}
	token, err := s.signToken(artisan.ID.String(), AudienceArtisan)
	if err != nil {
		return "", nil, err
	}
	return token, &artisan, nil
}

func (s *authService) signToken(subject, audience string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"aud": audience,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.hmacSecret)
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "sign token failed")
	}
	return signed, nil
}
