package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hostelhub/seat-management/internal/storage"
)

// Upload size cap; member photos and ID scans are small images.
const maxUploadBytes = 10 << 20

// UploadHandler accepts member photos and identity documents and returns
// the stored file's URL. The URL is then sent back in a member create or
// update request.
type UploadHandler struct {
	Files *storage.Uploader
}

func NewUploadHandler(files *storage.Uploader) *UploadHandler {
	if files == nil {
		panic("nil uploader passed to NewUploadHandler")
	}
	return &UploadHandler{Files: files}
}

// Upload handles POST /v1/uploads. The multipart field is named "file";
// an optional "kind" field of photo or document picks the target folder.
func (h *UploadHandler) Upload(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return fail(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}

	folder := "members/photos"
	switch strings.ToLower(c.FormValue("kind")) {
	case "", "photo":
	case "document":
		folder = "members/documents"
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be photo or document"})
	}

	url, err := h.Files.Upload(c.Request().Context(), fh, folder)
	if err != nil {
		if errors.Is(err, storage.ErrDisabled) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "file storage is not configured"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}
