package handler

import (
	"phonemart/internal/infrastructure/storage"
	"phonemart/internal/usecase"
)

var (
	catalogHandler       *CatalogHandler
	favoritesHandler     *FavoritesHandler
	reviewHandler        *ReviewHandler
	reviewImageHandler   *ReviewImageHandler
	favoritesFeedHandler *FavoritesFeedHandler
)

func Setup(
	catalogUseCase *usecase.CatalogUseCase,
	favoritesUseCase *usecase.FavoritesUseCase,
	reviewUseCase *usecase.ReviewUseCase,
	storageClient *storage.CloudStorageClient,
) {
	catalogHandler = NewCatalogHandler(catalogUseCase)
	favoritesHandler = NewFavoritesHandler(favoritesUseCase, catalogUseCase)
	reviewHandler = NewReviewHandler(reviewUseCase)
	reviewImageHandler = NewReviewImageHandler(storageClient)
	favoritesFeedHandler = NewFavoritesFeedHandler(favoritesUseCase)
}

func GetCatalogHandler() *CatalogHandler {
	return catalogHandler
}

func GetFavoritesHandler() *FavoritesHandler {
	return favoritesHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetReviewImageHandler() *ReviewImageHandler {
	return reviewImageHandler
}

func GetFavoritesFeedHandler() *FavoritesFeedHandler {
	return favoritesFeedHandler
}
