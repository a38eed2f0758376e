package store

import "database/sql"

// Store provides access to all storage repositories.
type Store struct {
	db         *sql.DB
	assessment *AssessmentStore
	snapshot   *SnapshotStore
	export     *ExportStore
}

func NewStore(db *sql.DB) *Store {
	qi := newQueryInterceptor(db)
	return &Store{
		db:         db,
		assessment: NewAssessmentStore(qi),
		snapshot:   NewSnapshotStore(qi),
		export:     NewExportStore(qi),
	}
}

func (s *Store) Assessment() *AssessmentStore {
	return s.assessment
}

func (s *Store) Snapshot() *SnapshotStore {
	return s.snapshot
}

func (s *Store) Export() *ExportStore {
	return s.export
}

func (s *Store) Close() error {
	return s.db.Close()
}
