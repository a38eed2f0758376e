package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/assessment-report-agent/internal/models"
	"github.com/kubev2v/assessment-report-agent/internal/report"
	"github.com/kubev2v/assessment-report-agent/internal/store"
	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
)

type AssessmentService struct {
	store *store.Store
	now   func() time.Time
}

func NewAssessmentService(st *store.Store) *AssessmentService {
	return &AssessmentService{store: st, now: time.Now}
}

func (a *AssessmentService) WithClock(now func() time.Time) *AssessmentService {
	a.now = now
	return a
}

// List returns all assessments, newest first.
func (a *AssessmentService) List(ctx context.Context) ([]models.Assessment, error) {
	return a.store.Assessment().List(ctx)
}

// Get returns the assessment with the metadata of its snapshots.
func (a *AssessmentService) Get(ctx context.Context, id string) (*models.Assessment, error) {
	assessment, err := a.store.Assessment().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshots, err := a.store.Snapshot().List(ctx, id)
	if err != nil {
		return nil, err
	}
	assessment.Snapshots = snapshots

	return assessment, nil
}

// Create stores a new assessment with inventory as its first snapshot.
// The inventory must match one of the accepted shapes.
func (a *AssessmentService) Create(ctx context.Context, name string, source models.SourceType, inventory json.RawMessage) (*models.Assessment, error) {
	if err := validateInventory(inventory); err != nil {
		return nil, err
	}

	assessment := models.Assessment{
		ID:         uuid.NewString(),
		Name:       name,
		SourceType: source,
		CreatedAt:  a.now().UTC(),
	}

	if err := a.store.Assessment().Create(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}

	snapshot, err := a.addSnapshot(ctx, assessment.ID, inventory)
	if err != nil {
		return nil, err
	}
	snapshot.Inventory = nil
	assessment.Snapshots = []models.SnapshotRecord{*snapshot}

	zap.S().Named("assessment_service").Infow("assessment created", "id", assessment.ID, "name", name, "source", source)

	return &assessment, nil
}

// AddSnapshot appends inventory to an existing assessment.
func (a *AssessmentService) AddSnapshot(ctx context.Context, assessmentID string, inventory json.RawMessage) (*models.SnapshotRecord, error) {
	if _, err := a.store.Assessment().Get(ctx, assessmentID); err != nil {
		return nil, err
	}

	if err := validateInventory(inventory); err != nil {
		return nil, err
	}

	snapshot, err := a.addSnapshot(ctx, assessmentID, inventory)
	if err != nil {
		return nil, err
	}
	snapshot.Inventory = nil

	return snapshot, nil
}

// LatestSnapshot returns the decoded latest snapshot of an assessment.
func (a *AssessmentService) LatestSnapshot(ctx context.Context, assessmentID string) (*models.Snapshot, error) {
	record, err := a.store.Snapshot().Latest(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	return report.ParseSnapshot(record.Inventory)
}

func (a *AssessmentService) addSnapshot(ctx context.Context, assessmentID string, inventory json.RawMessage) (*models.SnapshotRecord, error) {
	snapshot := models.SnapshotRecord{
		ID:           uuid.NewString(),
		AssessmentID: assessmentID,
		Inventory:    inventory,
		CreatedAt:    a.now().UTC(),
	}

	if err := a.store.Snapshot().Create(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to create snapshot: %w", err)
	}

	return &snapshot, nil
}

func validateInventory(inventory json.RawMessage) error {
	snapshot, err := report.ParseSnapshot(inventory)
	if err != nil {
		return srvErrors.NewInvalidInventoryShapeError()
	}

	_, err = report.Normalize(snapshot)
	return err
}
