package updater

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// appendRunLog writes one human-readable block for the run to a timestamped
// file in logsDir. The file is opened in append mode; re-runs within the
// same second extend the existing block rather than truncating it.
func appendRunLog(logsDir, runID string, report *Report, now time.Time) error {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", logsDir, err)
	}

	name := fmt.Sprintf("mod_updates_log_%s.txt", now.Format("2006-01-02_15-04-05"))
	f, err := os.OpenFile(filepath.Join(logsDir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open update log: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Update log %s (run %s):\n", now.Format("2006-01-02 15:04:05"), runID)
	for _, o := range report.Outcomes {
		if o.Kind == OutcomeUpdated || o.Kind == OutcomeUpdateNeeded {
			fmt.Fprintf(&b, "%s\n", o.Message)
		}
	}
	s := report.Summary
	fmt.Fprintf(&b, "updated=%d up-to-date=%d failed=%d skipped=%d\n\n",
		s.Updated, s.UpToDate, s.Failed, s.Skipped)

	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write update log: %w", err)
	}
	return f.Close()
}
