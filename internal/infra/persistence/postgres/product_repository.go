package postgres

import (
	"context"

	"stockroom/internal/domain/entity"
	domainerrors "stockroom/internal/domain/errors"
	"stockroom/internal/domain/repository"
	"stockroom/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// sortableColumns whitelists the columns a caller may sort product
// listings by. Anything else falls back to created_at.
var sortableColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"category":   "category",
	"createdAt":  "created_at",
	"created_at": "created_at",
}

// productRepository implements the domain.ProductRepository interface using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// Create persists a new product entity.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("product violates a data constraint")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required product information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// CreateMany persists a batch of products in one statement.
func (repo *productRepository) CreateMany(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}

	models := make([]*model.ProductModel, 0, len(products))
	for _, product := range products {
		models = append(models, fromProductDomain(product))
	}

	if err := repo.db.WithContext(ctx).Create(&models).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create products")
	}

	for i, productM := range models {
		products[i].ID = productM.ID
		products[i].CreatedAt = productM.CreatedAt
		products[i].UpdatedAt = productM.UpdatedAt
	}

	return nil
}

// FindByID retrieves a single product by its unique ID.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

// List retrieves products matching the query plus the total match count.
func (repo *productRepository) List(ctx context.Context, query repository.ProductQuery) ([]*entity.Product, int64, error) {
	tx := repo.db.WithContext(ctx).Model(&model.ProductModel{})

	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		tx = tx.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if query.Category != "" {
		tx = tx.Where("category = ?", query.Category)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count products")
	}

	column, ok := sortableColumns[query.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if query.Order == "ASC" {
		direction = "ASC"
	}

	offset := (query.Page - 1) * query.Limit

	var models []*model.ProductModel
	if err := tx.Order(column + " " + direction).Offset(offset).Limit(query.Limit).Find(&models).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(models))
	for _, productM := range models {
		products = append(products, toProductDomain(productM))
	}

	return products, total, nil
}

// Update modifies an existing product entity.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	result := repo.db.WithContext(ctx).Model(&model.ProductModel{}).Where("id = ?", product.ID).Updates(map[string]any{
		"name":        productM.Name,
		"description": productM.Description,
		"price":       productM.Price,
		"stock":       productM.Stock,
		"category":    productM.Category,
	})
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("product violates a data constraint")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// UpdateMany applies a patch to a batch of products in one statement.
func (repo *productRepository) UpdateMany(ctx context.Context, ids []uuid.UUID, patch repository.ProductPatch) (int64, error) {
	if len(ids) == 0 || patch.IsEmpty() {
		return 0, nil
	}

	fields := map[string]any{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Price != nil {
		fields["price"] = *patch.Price
	}
	if patch.Stock != nil {
		fields["stock"] = *patch.Stock
	}
	if patch.Category != nil {
		fields["category"] = *patch.Category
	}

	result := repo.db.WithContext(ctx).Model(&model.ProductModel{}).Where("id IN ?", ids).Updates(fields)
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return 0, domainerrors.ErrValidationFailed.WrapMessage("product violates a data constraint")
		}

		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to update products")
	}

	return result.RowsAffected, nil
}

// Delete removes a product by its ID.
func (repo *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ProductModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// DeleteMany removes a batch of products and reports the affected rows.
func (repo *productRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := repo.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.ProductModel{})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete products")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	return &entity.Product{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Stock:       data.Stock,
		Category:    data.Category,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	return &model.ProductModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Stock:       data.Stock,
		Category:    data.Category,
	}
}
