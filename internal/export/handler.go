package export

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loandesk-backend/internal/loans"
	"loandesk-backend/internal/shared/server/respond"
	"loandesk-backend/internal/shared/telemetry"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFileName  = "loan_export.xlsx"
)

// Handler serves the workbook download route.
type Handler struct {
	Svc *loans.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *loans.Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the export route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/export", h.download)
}

func (h *Handler) download(c *gin.Context) {
	records, err := h.Svc.ListAll(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export Excel", nil)
		return
	}
	if len(records) == 0 {
		respond.Error(c, http.StatusBadRequest, "no_loans", "No loans to export", nil)
		return
	}

	data, err := WorkbookBytes(records)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export Excel", err.Error())
		return
	}

	telemetry.Info("export.xlsx", map[string]any{
		"loans": len(records),
		"bytes": len(data),
	})
	c.Header("Content-Disposition", `attachment; filename="`+exportFileName+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
