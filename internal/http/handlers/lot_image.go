package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/fotherbys-backend/internal/http/response"
	"github.com/yungbote/fotherbys-backend/internal/services"
)

// multipartOverhead leaves room for the form fields around the file part.
const multipartOverhead = 1 << 20

type LotImageHandler struct {
	images services.LotImageService
}

func NewLotImageHandler(images services.LotImageService) *LotImageHandler {
	return &LotImageHandler{images: images}
}

// GET /api/lots/:id/images
func (h *LotImageHandler) List(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_lot_id")
	if !ok {
		return
	}
	out, err := h.images.List(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/lots/:id/images (multipart: file, is_primary, display_order)
func (h *LotImageHandler) Upload(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_lot_id")
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxImageUploadBytes+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
				fmt.Errorf("file exceeds %d MiB", services.MaxImageUploadBytes>>20))
			return
		}
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("file is required"))
		return
	}
	if fh.Size > services.MaxImageUploadBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
			fmt.Errorf("file exceeds %d MiB", services.MaxImageUploadBytes>>20))
		return
	}

	in := services.ImageUpload{Filename: fh.Filename}
	if raw := strings.TrimSpace(c.PostForm("is_primary")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("is_primary must be true or false"))
			return
		}
		in.IsPrimary = v
	}
	if raw := strings.TrimSpace(c.PostForm("display_order")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("display_order must be an integer"))
			return
		}
		in.DisplayOrder = &n
	}

	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	defer f.Close()
	in.Data, err = io.ReadAll(io.LimitReader(f, services.MaxImageUploadBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	img, err := h.images.Upload(c.Request.Context(), id, in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"message":       "Image uploaded",
		"url":           img.ImageURL,
		"thumbnail_url": img.ThumbnailURL,
		"image":         img,
	})
}

// DELETE /api/lots/images/:imageId
func (h *LotImageHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "imageId", "invalid_image_id")
	if !ok {
		return
	}
	if err := h.images.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Image deleted"})
}
