package store

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/assessment-report-agent/internal/models"
	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
	"github.com/kubev2v/assessment-report-agent/pkg/filter"
)

const (
	exportTable          = "exports"
	exportColID          = "id"
	exportColAssessment  = "assessment_id"
	exportColKind        = "kind"
	exportColFilename    = "filename"
	exportColContentType = "content_type"
	exportColSize        = "size"
	exportColPath        = "path"
	exportColCreatedAt   = "created_at"
)

var exportColumns = []string{
	exportColID,
	exportColAssessment,
	exportColKind,
	exportColFilename,
	exportColContentType,
	exportColSize,
	exportColPath,
	exportColCreatedAt,
}

// ListOption modifies a SELECT query for filtering/sorting/pagination.
type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByAssessment(id string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Eq{exportColAssessment: id})
	}
}

func ByKind(kind models.ExportKind) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Eq{exportColKind: string(kind)})
	}
}

// ByFilter restricts the query with a parsed filter expression.
func ByFilter(expr filter.Expression) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(expr.Sql())
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

type ExportStore struct {
	db QueryInterceptor
}

func NewExportStore(db QueryInterceptor) *ExportStore {
	return &ExportStore{db: db}
}

func (s *ExportStore) Create(ctx context.Context, r models.ExportRecord) error {
	var assessmentID any
	if r.AssessmentID != "" {
		assessmentID = r.AssessmentID
	}

	query, args, err := sq.Insert(exportTable).
		Columns(exportColumns...).
		Values(r.ID, assessmentID, string(r.Kind), r.Filename, r.ContentType, r.Size, r.Path, r.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// List returns the exports, newest first.
func (s *ExportStore) List(ctx context.Context, opts ...ListOption) ([]models.ExportRecord, error) {
	builder := sq.Select(exportColumns...).
		From(exportTable).
		OrderBy(exportColCreatedAt + " DESC")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.ExportRecord{}
	for rows.Next() {
		r, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}

	return records, rows.Err()
}

func (s *ExportStore) Get(ctx context.Context, id string) (*models.ExportRecord, error) {
	query, args, err := sq.Select(exportColumns...).
		From(exportTable).
		Where(sq.Eq{exportColID: id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	r, err := scanExport(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewExportNotFoundError(id)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExport(row scanner) (*models.ExportRecord, error) {
	var r models.ExportRecord
	var assessmentID sql.NullString
	var kind string
	if err := row.Scan(&r.ID, &assessmentID, &kind, &r.Filename, &r.ContentType, &r.Size, &r.Path, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.AssessmentID = assessmentID.String
	r.Kind = models.ExportKind(kind)
	return &r, nil
}
