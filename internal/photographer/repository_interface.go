package photographer

import (
	"context"

	"photobook/internal/api"
)

type Repository interface {
	CreateProfile(ctx context.Context, userID string, req CreateProfileRequest) (*Profile, error)
	GetProfileByID(ctx context.Context, id string) (*Profile, error)
	GetProfileByUserID(ctx context.Context, userID string) (*Profile, error)
	ListProfiles(ctx context.Context, city string, page api.PageParams) ([]Profile, error)
	CreatePackage(ctx context.Context, photographerID string, req CreatePackageRequest) (*Package, error)
	GetPackageByID(ctx context.Context, id string) (*Package, error)
	ListPackages(ctx context.Context, photographerID string) ([]Package, error)
}
