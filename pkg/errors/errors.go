package errors

import (
	"errors"
	"fmt"
)

// InvalidInventoryShapeError indicates the snapshot matches none of the accepted inventory shapes.
type InvalidInventoryShapeError struct{}

func NewInvalidInventoryShapeError() *InvalidInventoryShapeError {
	return &InvalidInventoryShapeError{}
}

func (e *InvalidInventoryShapeError) Error() string {
	return "invalid inventory shape: expected infra and vms at top level, under inventory, under inventory.vcenter or under vcenter"
}

// IsInvalidInventoryShapeError checks if the error is an InvalidInventoryShapeError.
func IsInvalidInventoryShapeError(err error) bool {
	var e *InvalidInventoryShapeError
	return errors.As(err, &e)
}

// NoInventoryError indicates an export was requested without inventory data.
type NoInventoryError struct{}

func NewNoInventoryError() *NoInventoryError {
	return &NoInventoryError{}
}

func (e *NoInventoryError) Error() string {
	return "No inventory data available for export"
}

func IsNoInventoryError(err error) bool {
	var e *NoInventoryError
	return errors.As(err, &e)
}

// IsValidationError reports whether the error comes from invalid export input.
func IsValidationError(err error) bool {
	return IsInvalidInventoryShapeError(err) || IsNoInventoryError(err)
}

// DrawingContextError indicates an intermediate canvas could not provide a drawing surface.
type DrawingContextError struct {
	Width  int
	Height int
}

func NewDrawingContextError(width, height int) *DrawingContextError {
	return &DrawingContextError{Width: width, Height: height}
}

func (e *DrawingContextError) Error() string {
	return fmt.Sprintf("failed to get 2D drawing context for a %dx%d canvas", e.Width, e.Height)
}

func IsDrawingContextError(err error) bool {
	var e *DrawingContextError
	return errors.As(err, &e)
}

// ExternalLibraryError wraps a failure of the rasterization or document assembly library.
// The message of the underlying error is kept verbatim.
type ExternalLibraryError struct {
	Library string
	err     error
}

func NewExternalLibraryError(library string, err error) *ExternalLibraryError {
	return &ExternalLibraryError{Library: library, err: err}
}

func (e *ExternalLibraryError) Error() string {
	return e.err.Error()
}

func (e *ExternalLibraryError) Unwrap() error {
	return e.err
}

func IsExternalLibraryError(err error) bool {
	var e *ExternalLibraryError
	return errors.As(err, &e)
}

// ExportInProgressError indicates an export is already running.
type ExportInProgressError struct{}

func NewExportInProgressError() *ExportInProgressError {
	return &ExportInProgressError{}
}

func (e *ExportInProgressError) Error() string {
	return "export already in progress"
}

func IsExportInProgressError(err error) bool {
	var e *ExportInProgressError
	return errors.As(err, &e)
}

// ResourceNotFoundError indicates a resource was not found.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func NewResourceNotFoundError(kind, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func NewAssessmentNotFoundError(id string) *ResourceNotFoundError {
	return NewResourceNotFoundError("assessment", id)
}

func NewSnapshotNotFoundError(assessmentID string) *ResourceNotFoundError {
	return NewResourceNotFoundError("snapshot for assessment", assessmentID)
}

func NewExportNotFoundError(id string) *ResourceNotFoundError {
	return NewResourceNotFoundError("export", id)
}

func (e *ResourceNotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}
