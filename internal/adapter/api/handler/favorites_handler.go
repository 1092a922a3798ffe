package handler

import (
	"github.com/labstack/echo/v4"

	"phonemart/internal/usecase"
	"phonemart/pkg/errors"
	"phonemart/pkg/response"
)

type FavoritesHandler struct {
	favoritesUseCase *usecase.FavoritesUseCase
	catalogUseCase   *usecase.CatalogUseCase
}

func NewFavoritesHandler(favoritesUseCase *usecase.FavoritesUseCase, catalogUseCase *usecase.CatalogUseCase) *FavoritesHandler {
	return &FavoritesHandler{
		favoritesUseCase: favoritesUseCase,
		catalogUseCase:   catalogUseCase,
	}
}

func (h *FavoritesHandler) ListFavorites(c echo.Context) error {
	if err := h.favoritesUseCase.Refresh(c.Request().Context()); err != nil {
		return response.Error(c, err)
	}

	items := h.favoritesUseCase.Items(c.Request().Context())
	return response.Success(c, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

func (h *FavoritesHandler) AddFavorite(c echo.Context) error {
	productID := c.Param("productId")
	if productID == "" {
		return response.Error(c, errors.BadRequest("Product ID is required", nil))
	}

	product, err := h.catalogUseCase.GetProduct(c.Request().Context(), productID)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.favoritesUseCase.Add(c.Request().Context(), product); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{
		"message": "Product added to favorites",
	})
}

func (h *FavoritesHandler) ToggleFavorite(c echo.Context) error {
	productID := c.Param("productId")
	if productID == "" {
		return response.Error(c, errors.BadRequest("Product ID is required", nil))
	}

	product, err := h.catalogUseCase.GetProduct(c.Request().Context(), productID)
	if err != nil {
		return response.Error(c, err)
	}

	added, err := h.favoritesUseCase.Toggle(c.Request().Context(), product)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"favorited": added,
	})
}

func (h *FavoritesHandler) RemoveFavorite(c echo.Context) error {
	favoriteID := c.Param("id")
	if favoriteID == "" {
		return response.Error(c, errors.BadRequest("Favorite ID is required", nil))
	}

	if err := h.favoritesUseCase.Remove(c.Request().Context(), favoriteID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Favorite removed",
	})
}

func (h *FavoritesHandler) RemoveFavoriteByProduct(c echo.Context) error {
	productID := c.Param("productId")
	if productID == "" {
		return response.Error(c, errors.BadRequest("Product ID is required", nil))
	}

	if err := h.favoritesUseCase.RemoveByProduct(c.Request().Context(), productID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Favorite removed",
	})
}

func (h *FavoritesHandler) CheckFavoriteStatus(c echo.Context) error {
	userID, ok := c.Get("uid").(string)
	if !ok || userID == "" {
		return response.Error(c, errors.Unauthorized("Sign in to manage favorites", nil))
	}

	productID := c.Param("productId")
	if productID == "" {
		return response.Error(c, errors.BadRequest("Product ID is required", nil))
	}

	favorited, favoriteID, err := h.favoritesUseCase.IsFavorite(c.Request().Context(), userID, productID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"favorited":  favorited,
		"favoriteId": favoriteID,
	})
}

func (h *FavoritesHandler) GetFavoriteCount(c echo.Context) error {
	return response.Success(c, map[string]int{
		"count": h.favoritesUseCase.Count(c.Request().Context()),
	})
}
