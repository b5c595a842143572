package caption

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"captionstudio/internal/domain/upload"
	"captionstudio/internal/pkg/response"
	"captionstudio/internal/platform/apierr"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/generate-caption", h.Generate)
	r.GET("/captions/:handle", h.History)
}

// Generate accepts multipart fields `photo` and `handle` and returns three
// caption variants. Validation failures are rejected before any upstream
// call is made.
func (h *Handler) Generate(c *gin.Context) {
	handle := c.PostForm("handle")
	fileHeader, fileErr := c.FormFile("photo")

	if handle == "" || fileErr != nil {
		response.Error(c, http.StatusBadRequest, "Handle and photo are required")
		return
	}

	result, err := h.service.Generate(c.Request.Context(), handle, fileHeader)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"captions": result,
		"success":  true,
	})
}

// History lists previously generated captions for a handle, newest first.
func (h *Handler) History(c *gin.Context) {
	handle := c.Param("handle")

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := h.service.History(c.Request.Context(), handle, limit)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusInternalServerError, "Failed to generate caption", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"captions": records,
		"success":  true,
	})
}

// writeError maps a chain failure onto the response taxonomy: provider
// responses are mirrored with their status and body, unreachable providers
// become a fixed 503, a vanished upload file becomes a 404, and everything
// else is a 500 carrying the raw message.
func (h *Handler) writeError(c *gin.Context, err error) {
	var upstream *apierr.Error
	switch {
	case errors.Is(err, upload.ErrFileMissing):
		response.Error(c, http.StatusNotFound, "Photo not found")
	case errors.As(err, &upstream):
		response.ErrorWithDetails(c, upstream.Status, "API error", response.RawDetails(upstream.Body))
	case errors.Is(err, apierr.ErrNoResponse):
		response.ErrorWithDetails(c, http.StatusServiceUnavailable, "No response from API", "Service temporarily unavailable")
	default:
		response.ErrorWithDetails(c, http.StatusInternalServerError, "Failed to generate caption", err.Error())
	}
}
