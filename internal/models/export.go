package models

import "time"

// LoadingState is the activity of the export orchestrator.
type LoadingState string

const (
	LoadingStateIdle           LoadingState = "idle"
	LoadingStateGeneratingPdf  LoadingState = "generating-pdf"
	LoadingStateGeneratingHtml LoadingState = "generating-html"
	LoadingStateGeneratingXlsx LoadingState = "generating-xlsx"
	LoadingStateError          LoadingState = "error"
)

// ExportKind is the format of an export.
type ExportKind string

const (
	ExportKindPdf  ExportKind = "pdf"
	ExportKindHtml ExportKind = "html"
	ExportKindXlsx ExportKind = "xlsx"
)

// ParseExportKind returns the kind named s.
func ParseExportKind(s string) (ExportKind, bool) {
	switch k := ExportKind(s); k {
	case ExportKindPdf, ExportKindHtml, ExportKindXlsx:
		return k, true
	default:
		return "", false
	}
}

// GeneratingState returns the loading state shown while an export of this kind runs.
func (k ExportKind) GeneratingState() LoadingState {
	switch k {
	case ExportKindPdf:
		return LoadingStateGeneratingPdf
	case ExportKindHtml:
		return LoadingStateGeneratingHtml
	default:
		return LoadingStateGeneratingXlsx
	}
}

func (k ExportKind) ContentType() string {
	switch k {
	case ExportKindPdf:
		return "application/pdf"
	case ExportKindHtml:
		return "text/html; charset=utf-8"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// ExportError is the classified failure of the last export.
type ExportError struct {
	Message string     `json:"message"`
	Type    ExportKind `json:"type"`
}

// ExportState is an immutable snapshot of the orchestrator state.
// Error is set only when LoadingState is LoadingStateError.
type ExportState struct {
	LoadingState LoadingState `json:"loadingState"`
	Error        *ExportError `json:"error"`
}

func (s ExportState) IsBusy() bool {
	switch s.LoadingState {
	case LoadingStateGeneratingPdf, LoadingStateGeneratingHtml, LoadingStateGeneratingXlsx:
		return true
	default:
		return false
	}
}

// ExportOptions are the user supplied options of an export.
type ExportOptions struct {
	DocumentTitle string `json:"documentTitle,omitempty" validate:"omitempty,max=200"`
	Filename      string `json:"filename,omitempty" validate:"omitempty,max=255,excludesall=/\\"`
}

// ExportFile is a generated document handed to a download sink.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ExportRecord describes an exported file kept in the data folder.
type ExportRecord struct {
	ID           string
	AssessmentID string
	Kind         ExportKind
	Filename     string
	ContentType  string
	Size         int64
	Path         string
	CreatedAt    time.Time
}
