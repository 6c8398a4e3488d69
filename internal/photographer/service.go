package photographer

import (
	"context"
	"strings"

	"photobook/internal/api"
	"photobook/internal/apperr"
	"photobook/internal/auth"
)

var ErrNotPhotographer = apperr.Authorization("Only photographers can manage a profile")

type Service interface {
	CreateProfile(ctx context.Context, actor auth.Actor, req CreateProfileRequest) (*Profile, error)
	GetProfile(ctx context.Context, id string) (*Profile, error)
	ListProfiles(ctx context.Context, city string, page api.PageParams) ([]Profile, error)
	CreatePackage(ctx context.Context, actor auth.Actor, req CreatePackageRequest) (*Package, error)
	ListPackages(ctx context.Context, photographerID string) ([]Package, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) CreateProfile(ctx context.Context, actor auth.Actor, req CreateProfileRequest) (*Profile, error) {
	if actor.Role != auth.RolePhotographer {
		return nil, ErrNotPhotographer
	}

	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" {
		return nil, apperr.Validation("display_name is required")
	}
	req.City = strings.TrimSpace(req.City)

	return s.repo.CreateProfile(ctx, actor.UserID, req)
}

func (s *service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetProfileByID(ctx, id)
}

func (s *service) ListProfiles(ctx context.Context, city string, page api.PageParams) ([]Profile, error) {
	return s.repo.ListProfiles(ctx, city, page)
}

func (s *service) CreatePackage(ctx context.Context, actor auth.Actor, req CreatePackageRequest) (*Package, error) {
	if actor.Role != auth.RolePhotographer {
		return nil, ErrNotPhotographer
	}
	if req.DurationMinutes <= 0 {
		return nil, apperr.Validation("duration_minutes must be positive")
	}
	if req.PriceCents < 0 {
		return nil, apperr.Validation("price_cents must not be negative")
	}

	profile, err := s.repo.GetProfileByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	return s.repo.CreatePackage(ctx, profile.ID, req)
}

func (s *service) ListPackages(ctx context.Context, photographerID string) ([]Package, error) {
	if _, err := s.repo.GetProfileByID(ctx, photographerID); err != nil {
		return nil, err
	}
	return s.repo.ListPackages(ctx, photographerID)
}
