package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item managed through the resource endpoints.
// It is serialized directly into API responses, so field names follow
// the camelCase convention of the other payloads.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
