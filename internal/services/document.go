package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/assessment-report-agent/internal/models"
	"github.com/kubev2v/assessment-report-agent/internal/report"
	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
)

// Document is a report loaded in a rendering host.
type Document interface {
	report.Container
	Close() error
}

// DocumentOpener loads html in a rendering host and returns the element with id containerID.
type DocumentOpener func(ctx context.Context, html, containerID string) (Document, error)

// DocumentExporter renders a snapshot, loads it in a rendering host and exports the
// resulting container.
type DocumentExporter struct {
	open     DocumentOpener
	exporter ContainerExporter
	now      func() time.Time
}

func NewDocumentExporter(open DocumentOpener, exporter ContainerExporter) *DocumentExporter {
	return &DocumentExporter{open: open, exporter: exporter, now: time.Now}
}

func (d *DocumentExporter) WithClock(now func() time.Time) *DocumentExporter {
	d.now = now
	return d
}

func (d *DocumentExporter) Generate(ctx context.Context, snapshot *models.Snapshot, opts models.ExportOptions) error {
	if snapshot == nil {
		return srvErrors.NewNoInventoryError()
	}

	data, err := report.Transform(snapshot)
	if err != nil {
		return err
	}

	html, err := report.RenderDocument(data, opts.DocumentTitle, d.now())
	if err != nil {
		return err
	}

	doc, err := d.open(ctx, html, report.ExportContainerID)
	if err != nil {
		return err
	}
	defer func() {
		if err := doc.Close(); err != nil {
			zap.S().Named("document_exporter").Warnw("failed to close document", "error", err)
		}
	}()

	return d.exporter.Generate(ctx, doc, opts)
}
