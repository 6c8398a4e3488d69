package photographer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"photobook/internal/api"
	"photobook/internal/apperr"
	"photobook/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrPhotographerNotFound = apperr.NotFound("Photographer not found")
	ErrProfileNotFound      = apperr.NotFound("Photographer profile not found")
	ErrProfileExists        = apperr.Conflict("Photographer profile already exists")
	ErrPackageNotFound      = apperr.NotFound("Package not found")
)

const (
	profileColumns = "id, user_id, display_name, bio, city, created_at"
	packageColumns = "id, photographer_id, name, description, duration_minutes, price_cents, created_at"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateProfile(ctx context.Context, userID string, req CreateProfileRequest) (*Profile, error) {
	query := `
		INSERT INTO photographer_profiles (id, user_id, display_name, bio, city)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + profileColumns

	var p Profile
	err := db.Querier(ctx, r.db).GetContext(ctx, &p, query,
		uuid.NewString(), userID, req.DisplayName, req.Bio, req.City)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	return &p, nil
}

func (r *repository) GetProfileByID(ctx context.Context, id string) (*Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrPhotographerNotFound
	}

	var p Profile
	err := db.Querier(ctx, r.db).GetContext(ctx, &p,
		"SELECT "+profileColumns+" FROM photographer_profiles WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPhotographerNotFound
		}
		return nil, fmt.Errorf("select profile: %w", err)
	}

	return &p, nil
}

func (r *repository) GetProfileByUserID(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	err := db.Querier(ctx, r.db).GetContext(ctx, &p,
		"SELECT "+profileColumns+" FROM photographer_profiles WHERE user_id = $1", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("select profile by user: %w", err)
	}

	return &p, nil
}

func (r *repository) ListProfiles(ctx context.Context, city string, page api.PageParams) ([]Profile, error) {
	query := "SELECT " + profileColumns + " FROM photographer_profiles"
	args := []interface{}{}

	if city = strings.TrimSpace(city); city != "" {
		query += " WHERE lower(city) = lower($1)"
		args = append(args, city)
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset())

	profiles := []Profile{}
	if err := db.Querier(ctx, r.db).SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	return profiles, nil
}

func (r *repository) CreatePackage(ctx context.Context, photographerID string, req CreatePackageRequest) (*Package, error) {
	query := `
		INSERT INTO packages (id, photographer_id, name, description, duration_minutes, price_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + packageColumns

	var p Package
	err := db.Querier(ctx, r.db).GetContext(ctx, &p, query,
		uuid.NewString(), photographerID, req.Name, req.Description, req.DurationMinutes, req.PriceCents)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrPhotographerNotFound
		}
		return nil, fmt.Errorf("insert package: %w", err)
	}

	return &p, nil
}

func (r *repository) GetPackageByID(ctx context.Context, id string) (*Package, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrPackageNotFound
	}

	var p Package
	err := db.Querier(ctx, r.db).GetContext(ctx, &p,
		"SELECT "+packageColumns+" FROM packages WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("select package: %w", err)
	}

	return &p, nil
}

func (r *repository) ListPackages(ctx context.Context, photographerID string) ([]Package, error) {
	packages := []Package{}
	err := db.Querier(ctx, r.db).SelectContext(ctx, &packages,
		"SELECT "+packageColumns+" FROM packages WHERE photographer_id = $1 ORDER BY price_cents ASC, created_at ASC",
		photographerID)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}

	return packages, nil
}
