package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/assessment-report-agent/api/v1"
	"github.com/kubev2v/assessment-report-agent/internal/models"
)

// ListAssessments returns all assessments
// (GET /assessments)
func (h *Handler) ListAssessments(c *gin.Context) {
	assessments, err := h.assessmentSrv.List(c.Request.Context())
	if err != nil {
		writeError(c, "assessment_handler", "list assessments", err)
		return
	}

	c.JSON(http.StatusOK, v1.NewAssessmentList(assessments))
}

// CreateAssessment creates an assessment from an inventory
// (POST /assessments)
func (h *Handler) CreateAssessment(c *gin.Context) {
	var req v1.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	assessment, err := h.assessmentSrv.Create(c.Request.Context(), req.Name, models.SourceType(req.SourceType), req.Inventory)
	if err != nil {
		writeError(c, "assessment_handler", "create assessment", err)
		return
	}

	c.JSON(http.StatusCreated, v1.NewAssessment(*assessment))
}

// GetAssessment returns an assessment with its snapshots
// (GET /assessments/{id})
func (h *Handler) GetAssessment(c *gin.Context) {
	assessment, err := h.assessmentSrv.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "assessment_handler", "get assessment", err)
		return
	}

	c.JSON(http.StatusOK, v1.NewAssessment(*assessment))
}

// CreateSnapshot appends an inventory snapshot to an assessment
// (POST /assessments/{id}/snapshots)
func (h *Handler) CreateSnapshot(c *gin.Context) {
	var req v1.CreateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	snapshot, err := h.assessmentSrv.AddSnapshot(c.Request.Context(), c.Param("id"), req.Inventory)
	if err != nil {
		writeError(c, "assessment_handler", "create snapshot", err)
		return
	}

	c.JSON(http.StatusCreated, v1.NewSnapshot(*snapshot))
}

// GetCharts returns the chart data of the latest snapshot
// (GET /assessments/{id}/charts)
func (h *Handler) GetCharts(c *gin.Context) {
	data, err := h.reportSrv.Charts(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "assessment_handler", "get charts", err)
		return
	}

	c.JSON(http.StatusOK, data)
}
