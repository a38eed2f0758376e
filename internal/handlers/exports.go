package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	v1 "github.com/kubev2v/assessment-report-agent/api/v1"
	"github.com/kubev2v/assessment-report-agent/internal/models"
	"github.com/kubev2v/assessment-report-agent/internal/store"
	"github.com/kubev2v/assessment-report-agent/pkg/filter"
)

// StartExport starts an export of the latest snapshot of an assessment
// (POST /assessments/{id}/exports/{kind})
func (h *Handler) StartExport(c *gin.Context) {
	kind, ok := models.ParseExportKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported export kind: " + c.Param("kind")})
		return
	}

	// the body is optional
	var req v1.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	opts := req.ToOptions()
	if err := h.validate.Struct(opts); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid export options: " + verrs.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.reportSrv.Export(c.Request.Context(), c.Param("id"), kind, opts); err != nil {
		writeError(c, "export_handler", "start export", err)
		return
	}

	c.JSON(http.StatusAccepted, v1.NewExportState(h.exportSrv.GetSnapshot()))
}

// GetExportState returns the export state
// (GET /exports/state)
func (h *Handler) GetExportState(c *gin.Context) {
	c.JSON(http.StatusOK, v1.NewExportState(h.exportSrv.GetSnapshot()))
}

// ClearExportError resets the export state to idle
// (DELETE /exports/state/error)
func (h *Handler) ClearExportError(c *gin.Context) {
	h.exportSrv.ClearError()
	c.JSON(http.StatusOK, v1.NewExportState(h.exportSrv.GetSnapshot()))
}

// ListExports returns the export history
// (GET /exports)
func (h *Handler) ListExports(c *gin.Context) {
	var params v1.ListExportsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters: " + err.Error()})
		return
	}

	var opts []store.ListOption
	if params.AssessmentId != nil {
		opts = append(opts, store.ByAssessment(*params.AssessmentId))
	}
	if params.Kind != nil {
		opts = append(opts, store.ByKind(models.ExportKind(*params.Kind)))
	}
	if params.Limit != nil {
		opts = append(opts, store.WithLimit(*params.Limit))
	}
	if params.Filter != nil && *params.Filter != "" {
		expr, err := filter.Parse([]byte(*params.Filter))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter: " + err.Error()})
			return
		}
		opts = append(opts, store.ByFilter(expr))
	}

	records, err := h.reportSrv.ListExports(c.Request.Context(), opts...)
	if err != nil {
		writeError(c, "export_handler", "list exports", err)
		return
	}

	c.JSON(http.StatusOK, v1.NewExportList(records))
}

// DownloadExport returns an exported document
// (GET /exports/{id}/file)
func (h *Handler) DownloadExport(c *gin.Context) {
	file, err := h.reportSrv.ExportFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "export_handler", "download export", err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
