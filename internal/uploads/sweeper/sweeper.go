package sweeper

import (
	"context"
	"log"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// ReferenceLister reports the image URLs still referenced by project records.
type ReferenceLister interface {
	ListImageURLs(ctx context.Context) ([]string, error)
}

// Sweeper prunes orphaned local uploads. An image is uploaded before its
// project is created; when the create never happens the file stays behind
// with nothing referencing it. The sweeper removes files older than the
// retention window whose name no project's imageUrl points at.
type Sweeper struct {
	dir       string
	refs      ReferenceLister
	retention time.Duration
	cron      *cron.Cron
}

func New(dir string, refs ReferenceLister, retention time.Duration) *Sweeper {
	return &Sweeper{
		dir:       dir,
		refs:      refs,
		retention: retention,
		cron:      cron.New(),
	}
}

// Start schedules the sweep with a cron expression and kicks off the scheduler.
func (s *Sweeper) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() {
		removed, err := s.Sweep(context.Background())
		if err != nil {
			log.Printf("[sweeper] sweep failed: %v", err)
			return
		}
		log.Printf("[sweeper] removed %d orphaned upload(s)", removed)
	}); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// Sweep runs one pass and returns how many files it removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	urls, err := s.refs.ListImageURLs(ctx)
	if err != nil {
		return 0, err
	}

	// Keep-list by basename: imageUrl values may be /uploads/<file> paths or
	// absolute URLs, the final segment identifies the file either way.
	referenced := make(map[string]bool, len(urls))
	for _, u := range urls {
		referenced[path.Base(u)] = true
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-s.retention)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || referenced[e.Name()] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			log.Printf("[sweeper] remove %s: %v", e.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}
