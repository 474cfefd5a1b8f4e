package converter

import (
	"time"

	"github.com/google/uuid"
)

type ProductRedisModel struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	PriceCents  int64      `json:"price_cents"`
	ImageURL    *string    `json:"image_url"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
