package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artisanhub/server/internal/models"
	"github.com/artisanhub/server/internal/repository"
	appErr "github.com/artisanhub/server/pkg/errors"
	"github.com/artisanhub/server/pkg/logger"
)

type UpdateArtisanInput struct {
	Name              *string
	Description       *string
	LinkOfSocialMedia *string
	AvatarURL         *string
	Experience        *int
	City              *string
	Specialty         []string
}

type ArtisanService interface {
	GetArtisan(ctx context.Context, artisanID uuid.UUID) (*models.Artisan, error)
	ListArtisans(ctx context.Context, filter repository.ArtisanFilter) ([]models.Artisan, error)
	UpdateArtisan(ctx context.Context, artisanID, callerArtisanID uuid.UUID, updates *UpdateArtisanInput) (*models.Artisan, error)
	DeleteArtisan(ctx context.Context, artisanID, callerArtisanID uuid.UUID) error
}

type artisanService struct {
	artisans repository.ArtisanRepository
}

func NewArtisanService(artisans repository.ArtisanRepository) ArtisanService {
	return &artisanService{artisans: artisans}
}

var _ ArtisanService = (*artisanService)(nil)

func (s *artisanService) GetArtisan(ctx context.Context, artisanID uuid.UUID) (*models.Artisan, error) {
	var a models.Artisan
	if err := s.artisans.GetByID(ctx, artisanID, &a); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "artisan not found")
		}
		return nil, err
	}
	return &a, nil
}

func (s *artisanService) ListArtisans(ctx context.Context, filter repository.ArtisanFilter) ([]models.Artisan, error) {
	return s.artisans.ListByFilter(ctx, filter)
}

func (s *artisanService) UpdateArtisan(ctx context.Context, artisanID, callerArtisanID uuid.UUID, updates *UpdateArtisanInput) (*models.Artisan, error) {
	if artisanID != callerArtisanID {
		return nil, appErr.New(appErr.CodeForbidden, "artisan can only modify own profile")
	}
	var a models.Artisan
	if err := s.artisans.GetByID(ctx, artisanID, &a); err != nil {
		return nil, err
	}

	if updates.Name != nil {
		a.Name = *updates.Name
	}
	if updates.Description != nil {
		a.Description = *updates.Description
	}
	if updates.LinkOfSocialMedia != nil {
		a.LinkOfSocialMedia = *updates.LinkOfSocialMedia
	}
	if updates.AvatarURL != nil {
		a.AvatarURL = *updates.AvatarURL
	}
	if updates.Experience != nil {
		a.Experience = *updates.Experience
	}
	if updates.City != nil {
		a.City = *updates.City
	}
	if updates.Specialty != nil {
		a.Specialty = updates.Specialty
	}

	if err := s.artisans.Update(ctx, &a); err != nil {
		return nil, err
	}
	logger.L().Info("artisan updated", zap.String("artisan_id", artisanID.String()))
	return &a, nil
}

func (s *artisanService) DeleteArtisan(ctx context.Context, artisanID, callerArtisanID uuid.UUID) error {
	if artisanID != callerArtisanID {
		return appErr.New(appErr.CodeForbidden, "artisan can only modify own profile")
	}
	if err := s.artisans.Delete(ctx, artisanID); err != nil {
		return err
	}
	logger.L().Info("artisan deleted", zap.String("artisan_id", artisanID.String()))
	return nil
}
