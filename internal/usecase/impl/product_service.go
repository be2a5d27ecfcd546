package impl

import (
	"context"
	"log/slog"
	"math"

	deliverycontext "stockroom/internal/delivery/context"
	"stockroom/internal/domain/entity"
	domainerrors "stockroom/internal/domain/errors"
	"stockroom/internal/domain/repository"
	"stockroom/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// productService implements the ProductUsecase interface.
type productService struct {
	txManager   repository.TransactionManager
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// ProductServiceParams holds dependencies for productService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		txManager:   params.TxManager,
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create persists a new catalog product.
func (srv *productService) Create(ctx context.Context, input *usecase.CreateProductInput) (*entity.Product, error) {
	srv.log(ctx).Info("Creating product", slog.String("name", input.Name))

	product := &entity.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	return product, nil
}

// CreateMany persists a batch of products in one statement.
func (srv *productService) CreateMany(ctx context.Context, inputs []*usecase.CreateProductInput) ([]*entity.Product, error) {
	srv.log(ctx).Info("Creating products", slog.Int("count", len(inputs)))

	products := make([]*entity.Product, 0, len(inputs))
	for _, input := range inputs {
		products = append(products, &entity.Product{
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			Stock:       input.Stock,
			Category:    input.Category,
		})
	}

	if err := srv.productRepo.CreateMany(ctx, products); err != nil {
		return nil, errors.Wrap(err, "failed to create products")
	}

	return products, nil
}

// List retrieves a filtered, sorted and paginated product page.
func (srv *productService) List(ctx context.Context, input *usecase.ListProductsInput) (*usecase.ListProductsOutput, error) {
	query := usecase.NewProductQuery(input)

	products, total, err := srv.productRepo.List(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return &usecase.ListProductsOutput{
		Data: products,
		Meta: usecase.ListMeta{
			Total:      total,
			Page:       query.Page,
			Limit:      query.Limit,
			TotalPages: int(math.Ceil(float64(total) / float64(query.Limit))),
		},
	}, nil
}

// Get retrieves a single product by ID.
func (srv *productService) Get(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

// Update applies a partial update to a product. Price and stock must
// not go negative.
func (srv *productService) Update(ctx context.Context, id uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	srv.log(ctx).Info("Updating product", slog.Any("productID", id))

	if input.Price != nil && *input.Price < 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("price cannot be negative")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("stock cannot be negative")
	}

	var updated *entity.Product
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()

		product, err := productRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
			}

			return errors.Wrap(err, "failed to find product for update")
		}

		applyProductUpdate(product, input)

		if err := productRepo.Update(ctx, product); err != nil {
			return errors.Wrap(err, "failed to update product")
		}

		updated = product

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// UpdateMany applies one partial update to a batch of products and
// reports how many were changed. The same negative-value rules as
// Update apply, and an empty patch is rejected.
func (srv *productService) UpdateMany(ctx context.Context, ids []uuid.UUID, input *usecase.UpdateProductInput) (int64, error) {
	srv.log(ctx).Info("Updating products", slog.Int("count", len(ids)))

	if input.Price != nil && *input.Price < 0 {
		return 0, domainerrors.ErrValidationFailed.WrapMessage("price cannot be negative")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return 0, domainerrors.ErrValidationFailed.WrapMessage("stock cannot be negative")
	}

	patch := usecase.NewProductPatch(input)
	if patch.IsEmpty() {
		return 0, domainerrors.ErrValidationFailed.WrapMessage("no fields to update")
	}

	updated, err := srv.productRepo.UpdateMany(ctx, ids, patch)
	if err != nil {
		return 0, errors.Wrap(err, "failed to update products")
	}

	return updated, nil
}

// Delete removes a product, refusing while it still has stock.
func (srv *productService) Delete(ctx context.Context, id uuid.UUID) error {
	srv.log(ctx).Warn("Attempting to delete product", slog.Any("productID", id))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()

		product, err := productRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
			}

			return errors.Wrap(err, "failed to find product for delete")
		}

		if product.Stock > 0 {
			return errors.Wrap(domainerrors.ErrProductInStock, "product still has stock")
		}

		return productRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Info("Product deleted", slog.Any("productID", id))

	return nil
}

// DeleteMany removes a batch of products and reports how many were deleted.
func (srv *productService) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	srv.log(ctx).Warn("Attempting to delete products", slog.Int("count", len(ids)))

	deleted, err := srv.productRepo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete products")
	}

	return deleted, nil
}

func applyProductUpdate(product *entity.Product, input *usecase.UpdateProductInput) {
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
}
