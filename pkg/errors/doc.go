// Package errors provides custom error types for the assessment report agent.
//
// Each error type includes a constructor, Error() method, and a type-checking
// helper using errors.As for proper error unwrapping.
//
// # Error Types Overview
//
//	┌────────────────────────────┬────────┬──────────────────────────────────────┐
//	│ Error Type                 │ HTTP   │ Description                          │
//	├────────────────────────────┼────────┼──────────────────────────────────────┤
//	│ InvalidInventoryShapeError │ 400    │ Snapshot matches no accepted shape   │
//	│ NoInventoryError           │ 400    │ Export requested without inventory   │
//	│ DrawingContextError        │ 500    │ Canvas without a drawing surface     │
//	│ ExternalLibraryError       │ 500    │ Browser / PDF / XLSX library failure │
//	│ ExportInProgressError      │ 409    │ Another export is running            │
//	│ ResourceNotFoundError      │ 404    │ Requested resource doesn't exist     │
//	└────────────────────────────┴────────┴──────────────────────────────────────┘
//
// # Validation errors
//
// InvalidInventoryShapeError and NoInventoryError are reported immediately and
// never retried. IsValidationError matches both.
//
// # Rendering errors
//
// DrawingContextError is fatal: the PDF export is aborted as soon as one
// intermediate canvas cannot be created.
//
// # External library errors
//
// ExternalLibraryError keeps the message of the wrapped error verbatim, so the
// export state shows exactly what the library reported:
//
//	err := errors.NewExternalLibraryError("fpdf", pdf.Error())
//	err.Error() == pdf.Error().Error() // true
//
// # ExportInProgressError
//
// Only one export runs at a time. A second request while one is in flight is
// rejected without touching the export state.
//
// Usage:
//
//	if errors.IsExportInProgressError(err) {
//	    c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
//	}
//
// # Type Checking Pattern
//
// All error types provide Is* helper functions that use errors.As
// for proper error chain unwrapping:
//
//	wrapped := fmt.Errorf("loading snapshot: %w", errors.NewAssessmentNotFoundError(id))
//	errors.IsResourceNotFoundError(wrapped) // returns true
package errors
