package csvimport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentImports bounds how many files one scan processes in parallel.
const maxConcurrentImports = 4

// Watcher polls a directory for new CSV drops and feeds them to an Importer.
// Each file is picked up at most once per process lifetime; a failed import
// is not retried, matching the drop-folder contract (re-drop to retry).
type Watcher struct {
	dir      string
	interval time.Duration
	importer *Importer
	lg       *zap.Logger

	processed map[string]struct{}
}

// NewWatcher creates a Watcher polling dir every interval.
func NewWatcher(dir string, interval time.Duration, importer *Importer, lg *zap.Logger) *Watcher {
	return &Watcher{
		dir:       dir,
		interval:  interval,
		importer:  importer,
		lg:        lg,
		processed: make(map[string]struct{}),
	}
}

// Run polls the directory until the context is cancelled. It scans once
// immediately on start. Scan failures are logged and retried on the next tick.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.lg.Info("Watching for product CSV drops",
		zap.String("dir", w.dir),
		zap.Duration("interval", w.interval))

	for {
		if err := w.Scan(ctx); err != nil {
			w.lg.Error("CSV directory scan failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Scan imports all not-yet-processed *.csv and *.csv.gz files in the watched
// directory, up to maxConcurrentImports files in parallel.
func (w *Watcher) Scan(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return errors.Wrap(err, "read csv directory")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentImports)

	for _, entry := range entries {
		if entry.IsDir() || !isCSVFile(entry.Name()) {
			continue
		}
		if _, done := w.processed[entry.Name()]; done {
			continue
		}
		w.processed[entry.Name()] = struct{}{}

		path := filepath.Join(w.dir, entry.Name())
		g.Go(func() error {
			w.lg.Info("Importing CSV file", zap.String("file", entry.Name()))

			n, err := w.importer.ImportFile(ctx, path)
			if err != nil {
				// Partial imports stay imported; the file is not retried.
				w.lg.Error("CSV import failed",
					zap.String("file", entry.Name()),
					zap.Int("imported", n),
					zap.Error(err))
				return nil
			}

			w.lg.Info("CSV import finished",
				zap.String("file", entry.Name()),
				zap.Int("imported", n))
			return nil
		})
	}

	return g.Wait()
}

func isCSVFile(name string) bool {
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".csv.gz")
}
