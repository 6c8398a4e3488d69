package photographer

import "time"

type Profile struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Bio         string    `db:"bio" json:"bio"`
	City        string    `db:"city" json:"city"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Package struct {
	ID              string    `db:"id" json:"id"`
	PhotographerID  string    `db:"photographer_id" json:"photographer_id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	PriceCents      int64     `db:"price_cents" json:"price_cents"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type CreateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required,max=120"`
	Bio         string `json:"bio" binding:"max=4000"`
	City        string `json:"city" binding:"max=120"`
}

type CreatePackageRequest struct {
	Name            string `json:"name" binding:"required,max=120"`
	Description     string `json:"description" binding:"max=4000"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,gt=0"`
	PriceCents      int64  `json:"price_cents" binding:"gte=0"`
}
