// Package v1 holds the types of the HTTP API.
package v1

import (
	"encoding/json"
	"time"
)

// Defines values for AssessmentSourceType.
const (
	AssessmentSourceTypeAgent     AssessmentSourceType = "agent"
	AssessmentSourceTypeInventory AssessmentSourceType = "inventory"
	AssessmentSourceTypeRvtools   AssessmentSourceType = "rvtools"
)

// Defines values for ExportStateLoadingState.
const (
	ExportStateLoadingStateIdle           ExportStateLoadingState = "idle"
	ExportStateLoadingStateGeneratingPdf  ExportStateLoadingState = "generating-pdf"
	ExportStateLoadingStateGeneratingHtml ExportStateLoadingState = "generating-html"
	ExportStateLoadingStateGeneratingXlsx ExportStateLoadingState = "generating-xlsx"
	ExportStateLoadingStateError          ExportStateLoadingState = "error"
)

// Defines values for ExportKind.
const (
	ExportKindPdf  ExportKind = "pdf"
	ExportKindHtml ExportKind = "html"
	ExportKindXlsx ExportKind = "xlsx"
)

// Defines values for ExportEventType.
const (
	ExportEventTypeState ExportEventType = "state"
)

// AssessmentSourceType defines model for Assessment.SourceType.
type AssessmentSourceType string

// ExportStateLoadingState defines model for ExportState.LoadingState.
type ExportStateLoadingState string

// ExportKind defines model for ExportKind.
type ExportKind string

// ExportEventType defines model for ExportEvent.Type.
type ExportEventType string

// Assessment defines model for Assessment.
type Assessment struct {
	Id         string               `json:"id"`
	Name       string               `json:"name"`
	SourceType AssessmentSourceType `json:"sourceType"`
	CreatedAt  time.Time            `json:"createdAt"`
	Snapshots  []Snapshot           `json:"snapshots,omitempty"`
}

// Snapshot defines model for Snapshot.
type Snapshot struct {
	Id        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateAssessmentRequest defines model for CreateAssessmentRequest.
type CreateAssessmentRequest struct {
	Name       string               `json:"name" binding:"required,max=100"`
	SourceType AssessmentSourceType `json:"sourceType" binding:"required,oneof=agent inventory rvtools"`
	Inventory  json.RawMessage      `json:"inventory" binding:"required"`
}

// CreateSnapshotRequest defines model for CreateSnapshotRequest.
type CreateSnapshotRequest struct {
	Inventory json.RawMessage `json:"inventory" binding:"required"`
}

// ExportRequest defines model for ExportRequest.
type ExportRequest struct {
	DocumentTitle *string `json:"documentTitle,omitempty"`
	Filename      *string `json:"filename,omitempty"`
}

// ExportError defines model for ExportError.
type ExportError struct {
	Message string     `json:"message"`
	Type    ExportKind `json:"type"`
}

// ExportState defines model for ExportState.
type ExportState struct {
	LoadingState ExportStateLoadingState `json:"loadingState"`
	Error        *ExportError            `json:"error"`
}

// ExportEvent is a message of the export events stream.
type ExportEvent struct {
	Type  ExportEventType `json:"type"`
	State ExportState     `json:"state"`
}

// Export defines model for Export.
type Export struct {
	Id           string     `json:"id"`
	AssessmentId *string    `json:"assessmentId,omitempty"`
	Kind         ExportKind `json:"kind"`
	Filename     string     `json:"filename"`
	ContentType  string     `json:"contentType"`
	Size         int64      `json:"size"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ExportList defines model for ExportList.
type ExportList struct {
	Exports []Export `json:"exports"`
	Total   int      `json:"total"`
}

// AssessmentList defines model for AssessmentList.
type AssessmentList struct {
	Assessments []Assessment `json:"assessments"`
	Total       int          `json:"total"`
}

// ListExportsParams defines parameters for ListExports.
type ListExportsParams struct {
	AssessmentId *string     `form:"assessmentId,omitempty"`
	Kind         *ExportKind `form:"kind,omitempty" binding:"omitempty,oneof=pdf html xlsx"`
	Limit        *uint64     `form:"limit,omitempty" binding:"omitempty,min=1,max=1000"`
	Filter       *string     `form:"filter,omitempty"`
}
