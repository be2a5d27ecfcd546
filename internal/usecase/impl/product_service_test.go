package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"stockroom/internal/domain/entity"
	domainerrors "stockroom/internal/domain/errors"
	"stockroom/internal/domain/repository"
	mockRepo "stockroom/internal/mocks/repository"
	"stockroom/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productServiceFixtures struct {
	service     usecase.ProductUsecase
	txManager   *mockRepo.MockTransactionManager
	productRepo *mockRepo.MockProductRepository
}

func createTestProductService(t *testing.T) productServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	productRepo := mockRepo.NewMockProductRepository(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewProductService(ProductServiceParams{
		TxManager:   txManager,
		ProductRepo: productRepo,
		Logger:      logger,
	})

	return productServiceFixtures{
		service:     service,
		txManager:   txManager,
		productRepo: productRepo,
	}
}

func TestProductService_Create_Success(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	input := &usecase.CreateProductInput{
		Name:     "Widget",
		Price:    9.99,
		Stock:    5,
		Category: "tools",
	}
	productID := uuid.New()

	fx.productRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Product")).
		Run(func(ctx context.Context, product *entity.Product) {
			assert.Equal(t, "Widget", product.Name)
			assert.Equal(t, 9.99, product.Price)
			product.ID = productID
		}).
		Return(nil)

	product, err := fx.service.Create(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, productID, product.ID)
	assert.Equal(t, 5, product.Stock)
}

func TestProductService_CreateMany_Success(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	inputs := []*usecase.CreateProductInput{
		{Name: "Widget A", Price: 1.50, Stock: 1},
		{Name: "Widget B", Price: 2.50, Stock: 2},
	}

	fx.productRepo.EXPECT().
		CreateMany(ctx, mock.AnythingOfType("[]*entity.Product")).
		Run(func(ctx context.Context, products []*entity.Product) {
			require.Len(t, products, 2)
			assert.Equal(t, "Widget A", products[0].Name)
			assert.Equal(t, "Widget B", products[1].Name)
		}).
		Return(nil)

	products, err := fx.service.CreateMany(ctx, inputs)

	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestProductService_List_AppliesDefaultsAndMeta(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	products := []*entity.Product{{ID: uuid.New(), Name: "Widget"}}

	fx.productRepo.EXPECT().
		List(ctx, repository.ProductQuery{Page: 1, Limit: 10}).
		Return(products, int64(25), nil)

	output, err := fx.service.List(ctx, &usecase.ListProductsInput{})

	require.NoError(t, err)
	assert.Len(t, output.Data, 1)
	assert.Equal(t, int64(25), output.Meta.Total)
	assert.Equal(t, 1, output.Meta.Page)
	assert.Equal(t, 10, output.Meta.Limit)
	assert.Equal(t, 3, output.Meta.TotalPages)
}

func TestProductService_Get_NotFound(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindByID(ctx, productID).
		Return(nil, repository.ErrProductNotFound)

	product, err := fx.service.Get(ctx, productID)

	require.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestProductService_Update_Success(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	productID := uuid.New()
	existing := &entity.Product{ID: productID, Name: "Widget", Price: 9.99, Stock: 5}
	newPrice := 12.50

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockProductRepo.EXPECT().FindByID(ctx, productID).Return(existing, nil)
			mockProductRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.Product")).
				Run(func(ctx context.Context, product *entity.Product) {
					assert.Equal(t, 12.50, product.Price)
					assert.Equal(t, "Widget", product.Name)
				}).
				Return(nil)

			return fn(mockFactory)
		})

	product, err := fx.service.Update(ctx, productID, &usecase.UpdateProductInput{Price: &newPrice})

	require.NoError(t, err)
	assert.Equal(t, 12.50, product.Price)
}

func TestProductService_Update_NegativePriceRejected(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	negative := -1.0

	product, err := fx.service.Update(ctx, uuid.New(), &usecase.UpdateProductInput{Price: &negative})

	require.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	fx.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestProductService_Delete_RefusedWhileInStock(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	productID := uuid.New()
	existing := &entity.Product{ID: productID, Name: "Widget", Stock: 3}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockProductRepo.EXPECT().FindByID(ctx, productID).Return(existing, nil)

			return fn(mockFactory)
		})

	err := fx.service.Delete(ctx, productID)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrProductInStock)
}

func TestProductService_Delete_Success(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	productID := uuid.New()
	existing := &entity.Product{ID: productID, Name: "Widget", Stock: 0}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockProductRepo.EXPECT().FindByID(ctx, productID).Return(existing, nil)
			mockProductRepo.EXPECT().Delete(ctx, productID).Return(nil)

			return fn(mockFactory)
		})

	err := fx.service.Delete(ctx, productID)

	require.NoError(t, err)
}

func TestProductService_UpdateMany_Success(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	newPrice := 19.99
	newCategory := "clearance"
	input := &usecase.UpdateProductInput{Price: &newPrice, Category: &newCategory}

	fx.productRepo.EXPECT().
		UpdateMany(ctx, ids, repository.ProductPatch{Price: &newPrice, Category: &newCategory}).
		Return(int64(2), nil)

	updated, err := fx.service.UpdateMany(ctx, ids, input)

	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)
}

func TestProductService_UpdateMany_RejectsNegativePrice(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	negative := -1.0

	_, err := fx.service.UpdateMany(ctx, []uuid.UUID{uuid.New()}, &usecase.UpdateProductInput{Price: &negative})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	fx.productRepo.AssertNotCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_UpdateMany_RejectsEmptyPatch(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()

	_, err := fx.service.UpdateMany(ctx, []uuid.UUID{uuid.New()}, &usecase.UpdateProductInput{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	fx.productRepo.AssertNotCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_DeleteMany_ReportsCount(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	fx.productRepo.EXPECT().DeleteMany(ctx, ids).Return(int64(2), nil)

	deleted, err := fx.service.DeleteMany(ctx, ids)

	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}
