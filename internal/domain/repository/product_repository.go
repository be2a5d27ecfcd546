package repository

import (
	"context"
	"errors"

	"stockroom/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProductNotFound is a domain-specific error returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ProductQuery describes filtering, sorting and pagination for product listings.
type ProductQuery struct {
	Page     int
	Limit    int
	Search   string
	Category string
	SortBy   string
	Order    string
}

// ProductPatch describes a partial update applied uniformly to a set of
// products. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Category    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Stock == nil && p.Category == nil
}

// ProductRepository defines the standard operations for product persistence.
type ProductRepository interface {
	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// CreateMany persists a batch of products in one statement.
	CreateMany(ctx context.Context, products []*entity.Product) error

	// FindByID retrieves a single product by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// List retrieves products matching the query along with the total
	// match count before pagination.
	List(ctx context.Context, query ProductQuery) ([]*entity.Product, int64, error)

	// Update modifies an existing product.
	Update(ctx context.Context, product *entity.Product) error

	// UpdateMany applies a patch to a batch of products in one statement
	// and returns how many rows were actually updated.
	UpdateMany(ctx context.Context, ids []uuid.UUID, patch ProductPatch) (int64, error)

	// Delete removes a product by its ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteMany removes a batch of products and returns how many rows
	// were actually deleted.
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}
