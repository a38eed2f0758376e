package store

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/assessment-report-agent/internal/models"
	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
)

const (
	assessmentTable       = "assessments"
	assessmentColID       = "id"
	assessmentColName     = "name"
	assessmentColSource   = "source_type"
	assessmentColCreateAt = "created_at"
)

type AssessmentStore struct {
	db QueryInterceptor
}

func NewAssessmentStore(db QueryInterceptor) *AssessmentStore {
	return &AssessmentStore{db: db}
}

// List returns the assessments, newest first. Snapshots are not loaded.
func (s *AssessmentStore) List(ctx context.Context) ([]models.Assessment, error) {
	query, args, err := sq.Select(assessmentColID, assessmentColName, assessmentColSource, assessmentColCreateAt).
		From(assessmentTable).
		OrderBy(assessmentColCreateAt + " DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assessments := []models.Assessment{}
	for rows.Next() {
		var a models.Assessment
		var source string
		if err := rows.Scan(&a.ID, &a.Name, &source, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.SourceType = models.SourceType(source)
		assessments = append(assessments, a)
	}

	return assessments, rows.Err()
}

// Get returns an assessment. Snapshots are not loaded.
func (s *AssessmentStore) Get(ctx context.Context, id string) (*models.Assessment, error) {
	query, args, err := sq.Select(assessmentColID, assessmentColName, assessmentColSource, assessmentColCreateAt).
		From(assessmentTable).
		Where(sq.Eq{assessmentColID: id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var a models.Assessment
	var source string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.Name, &source, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewAssessmentNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	a.SourceType = models.SourceType(source)

	return &a, nil
}

func (s *AssessmentStore) Create(ctx context.Context, a models.Assessment) error {
	query, args, err := sq.Insert(assessmentTable).
		Columns(assessmentColID, assessmentColName, assessmentColSource, assessmentColCreateAt).
		Values(a.ID, a.Name, string(a.SourceType), a.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}
