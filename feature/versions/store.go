package versions

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is the last-synced state of one upstream project. One row exists
// per project ID; rows are inserted or fully replaced, never partially
// updated.
type Record struct {
	ProjectID     string `gorm:"column:project_id;primaryKey"`
	VersionNumber string `gorm:"column:version_number"`
	FileURL       string `gorm:"column:file_url"`
	FileSize      int64  `gorm:"column:file_size"`
	SHA1          string `gorm:"column:sha1"`
	SHA512        string `gorm:"column:sha512"`
	Loader        string `gorm:"column:mod_loader"`
}

// TableName keeps the historical table name so existing caches stay valid.
func (Record) TableName() string {
	return "mod_versions"
}

// Store is the durable version cache. Every upsert commits on its own, so a
// crash mid-run leaves previously written records intact; entries that were
// not yet committed are simply re-checked on the next run.
//
// Upserts are serialized by a mutex: the reconciler may fan transfers out
// over a pool, but the cache keeps single-writer discipline.
type Store struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewStore creates a Store and ensures the schema exists.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate version cache: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the cached record for a project, or nil when absent.
func (s *Store) Get(projectID string) (*Record, error) {
	var rec Record
	err := s.db.Where("project_id = ?", projectID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read version cache for %s: %w", projectID, err)
	}
	return &rec, nil
}

// Upsert inserts the record or fully replaces the existing one for the
// same project ID.
func (s *Store) Upsert(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}},
		UpdateAll: true,
	}).Create(rec).Error
	if err != nil {
		return fmt.Errorf("failed to upsert version cache for %s: %w", rec.ProjectID, err)
	}
	return nil
}
