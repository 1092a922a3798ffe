package handler

import (
	"github.com/labstack/echo/v4"

	"phonemart/internal/usecase"
	"phonemart/pkg/errors"
	"phonemart/pkg/response"
)

type CatalogHandler struct {
	catalogUseCase *usecase.CatalogUseCase
}

func NewCatalogHandler(catalogUseCase *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{
		catalogUseCase: catalogUseCase,
	}
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	forceRefresh := c.QueryParam("refresh") == "true"

	products, err := h.catalogUseCase.Load(c.Request().Context(), forceRefresh)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, products)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	productID := c.Param("id")
	if productID == "" {
		return response.Error(c, errors.BadRequest("Product ID is required", nil))
	}

	product, err := h.catalogUseCase.GetProduct(c.Request().Context(), productID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *CatalogHandler) Invalidate(c echo.Context) error {
	h.catalogUseCase.Invalidate()

	return response.Success(c, map[string]string{
		"message": "Catalog cache invalidated",
	})
}
