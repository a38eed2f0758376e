package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/assessment-report-agent/internal/models"
	"github.com/kubev2v/assessment-report-agent/internal/store"
	"github.com/kubev2v/assessment-report-agent/pkg/download"
)

// RecordingSink saves exported documents to the file store and records them in the export history.
type RecordingSink struct {
	files        download.Store
	store        *store.Store
	assessmentID string
	now          func() time.Time
}

func NewRecordingSink(files download.Store, st *store.Store) *RecordingSink {
	return &RecordingSink{files: files, store: st, now: time.Now}
}

// For returns a sink recording its exports against assessmentID.
func (s *RecordingSink) For(assessmentID string) *RecordingSink {
	cp := *s
	cp.assessmentID = assessmentID
	return &cp
}

func (s *RecordingSink) Download(ctx context.Context, file models.ExportFile) error {
	id := uuid.NewString()

	path, err := s.files.Save(id, file.Name, file.Data)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", file.Name, err)
	}

	kind := kindOf(file.ContentType)
	record := models.ExportRecord{
		ID:           id,
		AssessmentID: s.assessmentID,
		Kind:         kind,
		Filename:     file.Name,
		ContentType:  file.ContentType,
		Size:         int64(len(file.Data)),
		Path:         path,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.store.Export().Create(ctx, record); err != nil {
		if delErr := s.files.Delete(path); delErr != nil {
			zap.S().Named("recording_sink").Warnw("failed to remove orphan export file", "path", path, "error", delErr)
		}
		return fmt.Errorf("failed to record export %s: %w", file.Name, err)
	}

	zap.S().Named("recording_sink").Infow("export saved", "id", id, "filename", file.Name, "size", record.Size)

	return nil
}

func kindOf(contentType string) models.ExportKind {
	for _, k := range []models.ExportKind{models.ExportKindPdf, models.ExportKindHtml, models.ExportKindXlsx} {
		if k.ContentType() == contentType {
			return k
		}
	}
	return ""
}
