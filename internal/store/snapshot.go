package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/assessment-report-agent/internal/models"
	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
)

const (
	snapshotTable         = "snapshots"
	snapshotColID         = "id"
	snapshotColAssessment = "assessment_id"
	snapshotColInventory  = "inventory"
	snapshotColCreatedAt  = "created_at"
)

type SnapshotStore struct {
	db QueryInterceptor
}

func NewSnapshotStore(db QueryInterceptor) *SnapshotStore {
	return &SnapshotStore{db: db}
}

func (s *SnapshotStore) Create(ctx context.Context, snapshot models.SnapshotRecord) error {
	query, args, err := sq.Insert(snapshotTable).
		Columns(snapshotColID, snapshotColAssessment, snapshotColInventory, snapshotColCreatedAt).
		Values(snapshot.ID, snapshot.AssessmentID, string(snapshot.Inventory), snapshot.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// List returns the snapshots of an assessment, oldest first, without their inventory.
func (s *SnapshotStore) List(ctx context.Context, assessmentID string) ([]models.SnapshotRecord, error) {
	query, args, err := sq.Select(snapshotColID, snapshotColAssessment, snapshotColCreatedAt).
		From(snapshotTable).
		Where(sq.Eq{snapshotColAssessment: assessmentID}).
		OrderBy(snapshotColCreatedAt + " ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []models.SnapshotRecord{}
	for rows.Next() {
		var r models.SnapshotRecord
		if err := rows.Scan(&r.ID, &r.AssessmentID, &r.CreatedAt); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, r)
	}

	return snapshots, rows.Err()
}

// Latest returns the most recent snapshot of an assessment with its inventory.
func (s *SnapshotStore) Latest(ctx context.Context, assessmentID string) (*models.SnapshotRecord, error) {
	query, args, err := sq.Select(snapshotColID, snapshotColAssessment, snapshotColInventory, snapshotColCreatedAt).
		From(snapshotTable).
		Where(sq.Eq{snapshotColAssessment: assessmentID}).
		OrderBy(snapshotColCreatedAt + " DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var r models.SnapshotRecord
	var inventory string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&r.ID, &r.AssessmentID, &inventory, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewSnapshotNotFoundError(assessmentID)
	}
	if err != nil {
		return nil, err
	}
	r.Inventory = json.RawMessage(inventory)

	return &r, nil
}
