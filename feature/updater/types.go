package updater

import (
	"errors"
	"fmt"
	"sync"

	"modpack-manager/feature/versions"
)

// OutcomeKind classifies the reconciliation decision for one entry.
type OutcomeKind string

const (
	// OutcomeUpToDate means local state already matches upstream.
	OutcomeUpToDate OutcomeKind = "up-to-date"
	// OutcomeUpdated means a newer artifact was fetched and stamped.
	OutcomeUpdated OutcomeKind = "updated"
	// OutcomeUpdateNeeded is the dry-run decision: an update would occur.
	OutcomeUpdateNeeded OutcomeKind = "update-needed"
	// OutcomeMalformedEntry means no project ID could be derived.
	OutcomeMalformedEntry OutcomeKind = "malformed-entry"
	// OutcomeNoCompatibleRelease means the catalog had nothing matching.
	OutcomeNoCompatibleRelease OutcomeKind = "no-compatible-release"
	// OutcomeFetchError means the transfer failed; the entry keeps its
	// previous state.
	OutcomeFetchError OutcomeKind = "fetch-error"
)

// Outcome is the reconciliation result for a single entry.
type Outcome struct {
	ProjectID string      `json:"project_id"`
	Kind      OutcomeKind `json:"kind"`
	Message   string      `json:"message"`
}

// Summary provides aggregate counts for a run. Updated includes dry-run
// "would update" decisions; Transfers counts entries actually mutated.
type Summary struct {
	Updated  int `json:"updated"`
	UpToDate int `json:"up_to_date"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

// Report is the ordered per-entry output of a reconciliation pass.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`
	Summary  Summary   `json:"summary"`
	// Transfers is the number of entries whose manifest entry and cache
	// record were actually rewritten.
	Transfers int `json:"transfers"`

	mu sync.Mutex
	// pending holds the cache records for completed transfers. They are
	// committed only after the index has been persisted; writing the cache
	// first could mark an entry current that the durable index never saw,
	// losing the update on the next run.
	pending []*versions.Record
}

// stageRecord buffers the cache record for one completed entry mutation.
// Tasks may run on a pool, so the report is guarded.
func (r *Report) stageRecord(rec *versions.Record) {
	r.mu.Lock()
	r.pending = append(r.pending, rec)
	r.Transfers++
	r.mu.Unlock()
}

// staged returns the buffered cache records.
func (r *Report) staged() []*versions.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*versions.Record(nil), r.pending...)
}

func (r *Report) tally() {
	r.Summary = Summary{}
	for _, o := range r.Outcomes {
		switch o.Kind {
		case OutcomeUpdated, OutcomeUpdateNeeded:
			r.Summary.Updated++
		case OutcomeUpToDate:
			r.Summary.UpToDate++
		case OutcomeFetchError:
			r.Summary.Failed++
		case OutcomeMalformedEntry, OutcomeNoCompatibleRelease:
			r.Summary.Skipped++
		}
	}
}

// Pre-flight aborts. Neither has side effects.
var (
	ErrVersionUnchanged = errors.New("new version matches current version")
	ErrUserCancelled    = errors.New("cancelled by user")
)

// BackupError is fatal to a run: reconciliation never starts without a
// completed backup (unless dry-run).
type BackupError struct {
	Err error
}

func (e *BackupError) Error() string { return fmt.Sprintf("backup failed: %v", e.Err) }
func (e *BackupError) Unwrap() error { return e.Err }

// PersistError is fatal: a run whose manifest or log could not be written
// must not report success.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string { return fmt.Sprintf("persist failed: %v", e.Err) }
func (e *PersistError) Unwrap() error { return e.Err }
