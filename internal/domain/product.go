package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product описывает товар каталога
type Product struct {
	ID          uuid.UUID
	Name        string
	Description *string
	PriceCents  int64 // Цена хранится в копейках
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func NewProduct(name string, description *string, priceCents int64, imageURL *string) *Product {
	return &Product{
		Name:        name,
		Description: description,
		PriceCents:  priceCents,
		ImageURL:    imageURL,
	}
}
