package handler

import (
	"github.com/labstack/echo/v4"

	"phonemart/internal/infrastructure/storage"
	"phonemart/pkg/errors"
	"phonemart/pkg/response"
)

type ReviewImageHandler struct {
	storageClient *storage.CloudStorageClient
}

func NewReviewImageHandler(storageClient *storage.CloudStorageClient) *ReviewImageHandler {
	return &ReviewImageHandler{
		storageClient: storageClient,
	}
}

// UploadImage accepts one multipart image and returns the URL to put in
// a review's reviewImages.
func (h *ReviewImageHandler) UploadImage(c echo.Context) error {
	if h.storageClient == nil {
		return response.Error(c, errors.Internal("Image storage is not configured", nil))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, errors.BadRequest("Image file is required", err))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read uploaded file", err))
	}
	defer file.Close()

	url, err := h.storageClient.UploadReviewImage(
		c.Request().Context(),
		file,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to upload image", err))
	}

	return response.Created(c, map[string]string{
		"url": url,
	})
}
