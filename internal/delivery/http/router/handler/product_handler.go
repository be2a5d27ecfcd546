package handler

import (
	"net/http"

	"stockroom/internal/delivery/http/response"
	"stockroom/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProductHandler holds dependencies for the catalog handlers.
type ProductHandler struct {
	uc usecase.ProductUsecase
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(uc usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create handles the product creation request.
func (h *ProductHandler) Create(c echo.Context) error {
	var input *usecase.CreateProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.Create(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Product created successfully")
}

// CreateMany handles the bulk product creation request.
func (h *ProductHandler) CreateMany(c echo.Context) error {
	var inputs []*usecase.CreateProductInput
	if err := c.Bind(&inputs); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	for _, input := range inputs {
		if err := c.Validate(input); err != nil {
			return errors.WithStack(err)
		}
	}

	products, err := h.uc.CreateMany(c.Request().Context(), inputs)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, products, "Products created successfully")
}

// List handles the paginated product listing request.
func (h *ProductHandler) List(c echo.Context) error {
	var input usecase.ListProductsInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid list query")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.List(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Products listed successfully")
}

// Get handles the single product lookup request.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	product, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product retrieved successfully")
}

// Update handles the partial product update request.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	var input *usecase.UpdateProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.Update(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated successfully")
}

// UpdateMany handles the bulk partial update request. One patch is
// applied to every listed product.
func (h *ProductHandler) UpdateMany(c echo.Context) error {
	var input struct {
		IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
		usecase.UpdateProductInput
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	updated, err := h.uc.UpdateMany(c.Request().Context(), input.IDs, &input.UpdateProductInput)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int64{"updated": updated}, "Products updated successfully")
}

// Delete handles the product deletion request.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Product deleted"}, "Product deleted successfully")
}

// DeleteMany handles the bulk product deletion request.
func (h *ProductHandler) DeleteMany(c echo.Context) error {
	var input struct {
		IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product IDs")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	deleted, err := h.uc.DeleteMany(c.Request().Context(), input.IDs)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int64{"deleted": deleted}, "Products deleted successfully")
}
