package uploads

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultGrace keeps freshly written files that may not be referenced yet.
const DefaultGrace = time.Hour

// ReferenceLister reports which public paths are still in use.
type ReferenceLister interface {
	ProfilePictures(ctx context.Context) ([]string, error)
}

// Janitor periodically deletes uploads that no user references.
type Janitor struct {
	store *Store
	refs  ReferenceLister
	grace time.Duration
	cron  *cron.Cron
}

// NewJanitor schedules Sweep on the given cron schedule, such as "@daily".
func NewJanitor(store *Store, refs ReferenceLister, schedule string) (*Janitor, error) {
	j := &Janitor{
		store: store,
		refs:  refs,
		grace: DefaultGrace,
		cron:  cron.New(),
	}

	_, err := j.cron.AddFunc(schedule, func() {
		removed, err := j.Sweep(context.Background())
		if err != nil {
			slog.Error("Upload sweep failed", "error", err)
			return
		}
		slog.Info("Upload sweep finished", "removed", removed)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start runs the schedule in the background.
func (j *Janitor) Start() {
	slog.Info("Starting upload janitor", "dir", j.store.Dir())
	j.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish or ctx to end.
func (j *Janitor) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Sweep deletes unreferenced files older than the grace period.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	refs, err := j.refs.ProfilePictures(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list referenced uploads: %w", err)
	}
	inUse := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if name, ok := j.store.fileName(ref); ok {
			inUse[name] = true
		}
	}

	entries, err := os.ReadDir(j.store.Dir())
	if err != nil {
		return 0, fmt.Errorf("failed to read upload directory: %w", err)
	}

	cutoff := j.store.clock.Now().Add(-j.grace)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || inUse[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(j.store.Dir(), entry.Name())); err != nil {
			slog.Warn("Failed to remove orphaned upload", "file", entry.Name(), "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
