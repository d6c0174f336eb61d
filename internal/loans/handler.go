package loans

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"loandesk-backend/internal/extract"
	"loandesk-backend/internal/llm"
	"loandesk-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires loan HTTP routes to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches loan routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.GET("/loans", h.list)
	rg.POST("/loans", h.create)
	rg.GET("/loans/:id", h.get)
	rg.PUT("/loans/:id", h.update)
	rg.DELETE("/loans/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if !isPDF(fileHeader.Header.Get("Content-Type"), fileHeader.Filename) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "only PDF files are allowed", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	loan, err := h.Svc.ProcessUpload(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		var apiErr *llm.APIError
		switch {
		case errors.Is(err, extract.ErrUnparseable):
			respond.Error(c, http.StatusBadRequest, "extraction_error", "failed to extract text from PDF", err.Error())
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusInternalServerError, "llm_not_configured", "LLM endpoint is not configured", nil)
		case errors.As(err, &apiErr):
			respond.Error(c, http.StatusBadGateway, "llm_error", "LLM extraction failed", apiErr.Error())
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process PDF", err.Error())
		}
		return
	}

	c.Set("loanId", loan.ID)
	respond.JSON(c, http.StatusCreated, gin.H{
		"success": true,
		"loan":    loan,
		"message": "PDF processed and data extracted successfully",
	})
}

func (h *Handler) list(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 50)

	loans, total, err := h.Svc.List(c.Request.Context(), page, limit)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "page and limit must be positive", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch loans", nil)
		return
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	respond.OK(c, gin.H{
		"loans": loans,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

func (h *Handler) create(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	loan, err := h.Svc.Create(c.Request.Context(), body)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create loan", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"success": true, "loan": loan})
}

func (h *Handler) get(c *gin.Context) {
	c.Set("loanId", c.Param("id"))
	loan, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "loan not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch loan", nil)
		return
	}
	respond.OK(c, loan)
}

func (h *Handler) update(c *gin.Context) {
	c.Set("loanId", c.Param("id"))
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	loan, err := h.Svc.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "loan not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update loan", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "loan": loan})
}

func (h *Handler) remove(c *gin.Context) {
	c.Set("loanId", c.Param("id"))
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "loan not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete loan", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "message": "loan deleted successfully"})
}

func isPDF(contentType, fileName string) bool {
	if strings.EqualFold(strings.TrimSpace(strings.Split(contentType, ";")[0]), "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(fileName), ".pdf")
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
