package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kubev2v/assessment-report-agent/internal/models"
	"github.com/kubev2v/assessment-report-agent/internal/report"
	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
	"github.com/kubev2v/assessment-report-agent/pkg/scheduler"
)

const (
	pdfFallbackMessage  = "Failed to generate PDF report"
	htmlFallbackMessage = "Failed to generate HTML report"
	xlsxFallbackMessage = "Failed to generate XLSX report"
)

// ContainerExporter exports a rendered container.
type ContainerExporter interface {
	Generate(ctx context.Context, container report.Container, opts models.ExportOptions) error
}

// SnapshotExporter exports an inventory snapshot.
type SnapshotExporter interface {
	Generate(ctx context.Context, snapshot *models.Snapshot, opts models.ExportOptions) error
}

// Listener is called after every export state transition.
type Listener func(models.ExportState)

type subscription struct {
	id       int
	listener Listener
}

// ExportService runs one export at a time and publishes its state.
type ExportService struct {
	scheduler *scheduler.Scheduler
	pdf       ContainerExporter
	html      SnapshotExporter
	xlsx      SnapshotExporter

	state         models.ExportState
	subscriptions []subscription
	nextID        int
	mu            sync.Mutex

	// held while a transition is published so listeners see transitions in order
	publishMu sync.Mutex
}

// NewExportService returns an idle export service. The exporters back ExportPdf, ExportHtml
// and ExportXlsx; any of them may be nil when exports of that kind only go through Start.
func NewExportService(s *scheduler.Scheduler, pdf ContainerExporter, html, xlsx SnapshotExporter) *ExportService {
	return &ExportService{
		scheduler: s,
		pdf:       pdf,
		html:      html,
		xlsx:      xlsx,
		state:     models.ExportState{LoadingState: models.LoadingStateIdle},
	}
}

// GetSnapshot returns the current export state.
func (e *ExportService) GetSnapshot() models.ExportState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// Subscribe registers l for state transitions. The returned function removes it.
// Listeners are called in subscription order and must not start or clear exports.
func (e *ExportService) Subscribe(l Listener) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.subscriptions = append(e.subscriptions, subscription{id: id, listener: l})

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()

			for i, s := range e.subscriptions {
				if s.id == id {
					e.subscriptions = append(e.subscriptions[:i:i], e.subscriptions[i+1:]...)
					return
				}
			}
		})
	}
}

// ClearError resets the state to idle. Subscribers are notified even when the
// state was already idle.
func (e *ExportService) ClearError() {
	e.publishMu.Lock()
	defer e.publishMu.Unlock()

	e.publish(models.ExportState{LoadingState: models.LoadingStateIdle})
}

// ExportPdf exports a rendered container and waits for the export to finish.
// Failures are recorded in the export state, not returned.
func (e *ExportService) ExportPdf(ctx context.Context, container report.Container, opts models.ExportOptions) error {
	future, err := e.StartPdf(container, opts)
	return wait(ctx, future, err)
}

// ExportHtml exports snapshot as a standalone HTML document and waits for the export to finish.
func (e *ExportService) ExportHtml(ctx context.Context, snapshot *models.Snapshot, opts models.ExportOptions) error {
	future, err := e.StartHtml(snapshot, opts)
	return wait(ctx, future, err)
}

// ExportXlsx exports snapshot as a spreadsheet and waits for the export to finish.
func (e *ExportService) ExportXlsx(ctx context.Context, snapshot *models.Snapshot, opts models.ExportOptions) error {
	future, err := e.StartXlsx(snapshot, opts)
	return wait(ctx, future, err)
}

// Run starts fn like Start and waits for the export to finish.
func (e *ExportService) Run(ctx context.Context, kind models.ExportKind, fn func(ctx context.Context) error) error {
	future, err := e.Start(kind, fn)
	return wait(ctx, future, err)
}

func (e *ExportService) StartPdf(container report.Container, opts models.ExportOptions) (*scheduler.Future[scheduler.Result[any]], error) {
	if e.pdf == nil {
		return nil, errNoExporter(models.ExportKindPdf)
	}
	return e.Start(models.ExportKindPdf, func(ctx context.Context) error {
		return e.pdf.Generate(ctx, container, opts)
	})
}

func (e *ExportService) StartHtml(snapshot *models.Snapshot, opts models.ExportOptions) (*scheduler.Future[scheduler.Result[any]], error) {
	if e.html == nil {
		return nil, errNoExporter(models.ExportKindHtml)
	}
	return e.Start(models.ExportKindHtml, func(ctx context.Context) error {
		return e.html.Generate(ctx, snapshot, opts)
	})
}

func (e *ExportService) StartXlsx(snapshot *models.Snapshot, opts models.ExportOptions) (*scheduler.Future[scheduler.Result[any]], error) {
	if e.xlsx == nil {
		return nil, errNoExporter(models.ExportKindXlsx)
	}
	return e.Start(models.ExportKindXlsx, func(ctx context.Context) error {
		return e.xlsx.Generate(ctx, snapshot, opts)
	})
}

// Start moves the state to the generating state of kind and schedules fn.
// It returns ExportInProgressError without touching the state when an export is running.
// Once fn has run, the future resolves after the final state is published.
func (e *ExportService) Start(kind models.ExportKind, fn func(ctx context.Context) error) (*scheduler.Future[scheduler.Result[any]], error) {
	if err := e.begin(kind); err != nil {
		return nil, err
	}

	started := make(chan struct{})
	future := e.scheduler.AddWork(func(ctx context.Context) (any, error) {
		close(started)
		e.finish(kind, run(ctx, fn))
		return nil, nil
	})

	// work dropped by a closing scheduler never runs
	go func() {
		<-future.Done()
		select {
		case <-started:
		default:
			result, _ := future.Poll()
			e.finish(kind, result.Err)
		}
	}()

	return future, nil
}

func (e *ExportService) begin(kind models.ExportKind) error {
	e.publishMu.Lock()
	defer e.publishMu.Unlock()

	e.mu.Lock()
	busy := e.state.IsBusy()
	e.mu.Unlock()

	if busy {
		zap.S().Named("export_service").Warnw("export rejected, another export is running", "kind", kind)
		return srvErrors.NewExportInProgressError()
	}

	zap.S().Named("export_service").Infow("export started", "kind", kind)
	e.publish(models.ExportState{LoadingState: kind.GeneratingState()})

	return nil
}

func (e *ExportService) finish(kind models.ExportKind, failure any) {
	e.publishMu.Lock()
	defer e.publishMu.Unlock()

	if failure == nil {
		zap.S().Named("export_service").Infow("export finished", "kind", kind)
		e.publish(models.ExportState{LoadingState: models.LoadingStateIdle})
		return
	}

	exportErr := classifyError(kind, failure)
	zap.S().Named("export_service").Errorw("export failed", "kind", kind, "error", exportErr.Message)
	e.publish(models.ExportState{LoadingState: models.LoadingStateError, Error: &exportErr})
}

// publish replaces the state and notifies the subscribers. Must be called with publishMu held.
func (e *ExportService) publish(state models.ExportState) {
	e.mu.Lock()
	e.state = state
	subscriptions := make([]subscription, len(e.subscriptions))
	copy(subscriptions, e.subscriptions)
	e.mu.Unlock()

	for _, s := range subscriptions {
		s.listener(state)
	}
}

// run calls fn and returns whatever made it fail: an error or a recovered panic value.
func run(ctx context.Context, fn func(ctx context.Context) error) (failure any) {
	defer func() {
		if p := recover(); p != nil {
			zap.S().Named("export_service").Errorw("export panicked", "panic", p)
			failure = p
		}
	}()

	if err := fn(ctx); err != nil {
		return err
	}
	return nil
}

// classifyError converts a failure into the error shape kept in the export state.
// Errors keep their message, any other value gets the fallback message of kind.
func classifyError(kind models.ExportKind, failure any) models.ExportError {
	if err, ok := failure.(error); ok {
		return models.ExportError{Message: err.Error(), Type: kind}
	}

	var message string
	switch kind {
	case models.ExportKindHtml:
		message = htmlFallbackMessage
	case models.ExportKindXlsx:
		message = xlsxFallbackMessage
	default:
		message = pdfFallbackMessage
	}

	return models.ExportError{Message: message, Type: kind}
}

func errNoExporter(kind models.ExportKind) error {
	return fmt.Errorf("no %s exporter configured", kind)
}

func wait(ctx context.Context, future *scheduler.Future[scheduler.Result[any]], err error) error {
	if err != nil {
		return err
	}

	_, err = future.Wait(ctx)
	return err
}
