package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kubev2v/assessment-report-agent/internal/models"
	"github.com/kubev2v/assessment-report-agent/internal/services"
	"github.com/kubev2v/assessment-report-agent/internal/store"
	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
	"github.com/kubev2v/assessment-report-agent/pkg/scheduler"
)

type AssessmentService interface {
	List(ctx context.Context) ([]models.Assessment, error)
	Get(ctx context.Context, id string) (*models.Assessment, error)
	Create(ctx context.Context, name string, source models.SourceType, inventory json.RawMessage) (*models.Assessment, error)
	AddSnapshot(ctx context.Context, assessmentID string, inventory json.RawMessage) (*models.SnapshotRecord, error)
}

type ReportService interface {
	Charts(ctx context.Context, assessmentID string) (*models.ChartData, error)
	Export(ctx context.Context, assessmentID string, kind models.ExportKind, opts models.ExportOptions) (*scheduler.Future[scheduler.Result[any]], error)
	ListExports(ctx context.Context, opts ...store.ListOption) ([]models.ExportRecord, error)
	ExportFile(ctx context.Context, id string) (*models.ExportFile, error)
}

type ExportStateService interface {
	GetSnapshot() models.ExportState
	ClearError()
	Subscribe(l services.Listener) func()
}

type Handler struct {
	assessmentSrv AssessmentService
	reportSrv     ReportService
	exportSrv     ExportStateService
	validate      *validator.Validate
}

func New(assessmentSrv AssessmentService, reportSrv ReportService, exportSrv ExportStateService) *Handler {
	return &Handler{
		assessmentSrv: assessmentSrv,
		reportSrv:     reportSrv,
		exportSrv:     exportSrv,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register adds the API routes to router.
func (h *Handler) Register(router *gin.RouterGroup) {
	router.GET("/assessments", h.ListAssessments)
	router.POST("/assessments", h.CreateAssessment)
	router.GET("/assessments/:id", h.GetAssessment)
	router.POST("/assessments/:id/snapshots", h.CreateSnapshot)
	router.GET("/assessments/:id/charts", h.GetCharts)
	router.POST("/assessments/:id/exports/:kind", h.StartExport)

	router.GET("/exports", h.ListExports)
	router.GET("/exports/state", h.GetExportState)
	router.DELETE("/exports/state/error", h.ClearExportError)
	router.GET("/exports/events", h.ExportEvents)
	router.GET("/exports/:id/file", h.DownloadExport)
}

// writeError maps service errors to HTTP responses. Unexpected errors are logged
// and answered with a generic message built from action.
func writeError(c *gin.Context, handler, action string, err error) {
	switch {
	case srvErrors.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case srvErrors.IsResourceNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case srvErrors.IsExportInProgressError(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		zap.S().Named(handler).Errorw("failed to "+action, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
	}
}
