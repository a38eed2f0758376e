package services

import (
	"context"
	"errors"
	"time"

	"github.com/kubev2v/assessment-report-agent/internal/models"
	"github.com/kubev2v/assessment-report-agent/internal/report"
	"github.com/kubev2v/assessment-report-agent/internal/store"
	"github.com/kubev2v/assessment-report-agent/pkg/download"
	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
	"github.com/kubev2v/assessment-report-agent/pkg/scheduler"
)

// ReportService builds charts and exports from the stored assessments.
type ReportService struct {
	assessments *AssessmentService
	exports     *ExportService
	store       *store.Store
	files       download.Store
	sink        *RecordingSink
	open        DocumentOpener
	paginator   *report.Paginator
	settleDelay time.Duration
}

func NewReportService(assessments *AssessmentService, exports *ExportService, st *store.Store, files download.Store, open DocumentOpener, settleDelay time.Duration) *ReportService {
	return &ReportService{
		assessments: assessments,
		exports:     exports,
		store:       st,
		files:       files,
		sink:        NewRecordingSink(files, st),
		open:        open,
		paginator:   report.NewPaginator(),
		settleDelay: settleDelay,
	}
}

// Charts returns the chart data of the latest snapshot of an assessment.
func (r *ReportService) Charts(ctx context.Context, assessmentID string) (*models.ChartData, error) {
	snapshot, err := r.assessments.LatestSnapshot(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	return report.Transform(snapshot)
}

// Export starts an export of the latest snapshot of an assessment.
// Errors raised by the export itself are kept in the export state.
func (r *ReportService) Export(ctx context.Context, assessmentID string, kind models.ExportKind, opts models.ExportOptions) (*scheduler.Future[scheduler.Result[any]], error) {
	snapshot, err := r.assessments.LatestSnapshot(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	sink := r.sink.For(assessmentID)

	var exporter SnapshotExporter
	switch kind {
	case models.ExportKindPdf:
		exporter = NewDocumentExporter(r.open, report.NewPDFGenerator(sink, r.paginator))
	case models.ExportKindHtml:
		exporter = report.NewHTMLGenerator(sink, r.settleDelay)
	case models.ExportKindXlsx:
		exporter = report.NewXLSXGenerator(sink)
	default:
		return nil, srvErrors.NewResourceNotFoundError("export kind", string(kind))
	}

	return r.exports.Start(kind, func(ctx context.Context) error {
		return exporter.Generate(ctx, snapshot, opts)
	})
}

// ListExports returns the export history, newest first.
func (r *ReportService) ListExports(ctx context.Context, opts ...store.ListOption) ([]models.ExportRecord, error) {
	return r.store.Export().List(ctx, opts...)
}

// ExportFile returns an exported document.
func (r *ReportService) ExportFile(ctx context.Context, id string) (*models.ExportFile, error) {
	record, err := r.store.Export().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := r.files.Load(record.Path)
	if err != nil {
		if errors.Is(err, download.ErrNotFound) {
			return nil, srvErrors.NewExportNotFoundError(id)
		}
		return nil, err
	}

	return &models.ExportFile{Name: record.Filename, ContentType: record.ContentType, Data: data}, nil
}
