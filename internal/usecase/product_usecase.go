package usecase

import (
	"context"

	"stockroom/internal/domain/entity"
	"stockroom/internal/domain/repository"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CreateProductInput defines the data required to create a product.
type CreateProductInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0,lte=100000"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Category    string  `json:"category" validate:"max=100"`
}

// UpdateProductInput defines a partial product update. Nil fields are
// left untouched.
type UpdateProductInput struct {
	Name        *string  `json:"name" validate:"omitempty,max=100"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
}

// ListProductsInput defines filtering, sorting and pagination options.
type ListProductsInput struct {
	Page     int    `query:"page" validate:"omitempty,min=1"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Search   string `query:"search"`
	Category string `query:"category"`
	SortBy   string `query:"sortBy"`
	Order    string `query:"order" validate:"omitempty,oneof=ASC DESC"`
}

// --- Output DTOs ---

// ListMeta carries pagination metadata alongside a product page.
type ListMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// ListProductsOutput bundles a product page with its metadata.
type ListProductsOutput struct {
	Data []*entity.Product `json:"data"`
	Meta ListMeta          `json:"meta"`
}

// ProductUsecase defines the catalog resource operations.
type ProductUsecase interface {
	Create(ctx context.Context, input *CreateProductInput) (*entity.Product, error)
	CreateMany(ctx context.Context, inputs []*CreateProductInput) ([]*entity.Product, error)
	List(ctx context.Context, input *ListProductsInput) (*ListProductsOutput, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	Update(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error)
	UpdateMany(ctx context.Context, ids []uuid.UUID, input *UpdateProductInput) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// NewProductPatch maps a partial update input onto the repository patch.
func NewProductPatch(input *UpdateProductInput) repository.ProductPatch {
	return repository.ProductPatch{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
	}
}

// NewProductQuery maps list input onto the repository query, applying
// the default page size.
func NewProductQuery(input *ListProductsInput) repository.ProductQuery {
	query := repository.ProductQuery{
		Page:     input.Page,
		Limit:    input.Limit,
		Search:   input.Search,
		Category: input.Category,
		SortBy:   input.SortBy,
		Order:    input.Order,
	}
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 10
	}

	return query
}
