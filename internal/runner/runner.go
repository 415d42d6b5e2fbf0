package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"github.com/Paintersrp/marks/internal/search"
	"github.com/Paintersrp/marks/internal/walker"
)

// ErrNoFiles is returned when the root contains nothing to search.
var ErrNoFiles = errors.New("runner: no files to search")

// Config describes a complete search run.
type Config struct {
	Walker walker.Config
	// Search is applied to every file. Marker is chosen per file.
	Search search.Config
	// Workers bounds concurrent file scans. Defaults to runtime.NumCPU.
	Workers int
	// Count keeps at most this many results after ranking. Zero keeps all.
	Count  int
	Logger zerolog.Logger
}

// Runner searches many files on a shared worker pool.
type Runner struct {
	cfg  Config
	pool *ants.Pool
}

// New creates a runner and its worker pool. Call Release when done.
func New(cfg Config) (*Runner, error) {
	size := cfg.Workers
	if size < 1 {
		size = runtime.NumCPU()
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("runner: creating pool: %w", err)
	}

	return &Runner{cfg: cfg, pool: pool}, nil
}

// Release frees the worker pool. The runner must not be used afterwards.
func (r *Runner) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// Run discovers files under root and returns their matches ranked by score.
func (r *Runner) Run(ctx context.Context, root string) ([]search.Result, error) {
	files, err := walker.Find(root, r.cfg.Walker)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	r.cfg.Logger.Debug().
		Str("root", root).
		Int("files", len(files)).
		Msg("searching")

	return r.Search(ctx, files)
}

// Search scans files concurrently. Files that cannot be read are logged and
// contribute no results. Ties in score keep file then line order.
func (r *Runner) Search(ctx context.Context, files []walker.File) ([]search.Result, error) {
	perFile := make([][]search.Result, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			break
		}

		i, file := i, file
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			perFile[i] = r.scan(file)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("runner: submitting %s: %w", file.Path, err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, results := range perFile {
		total += len(results)
	}

	ranked := make([]search.Result, 0, total)
	for _, results := range perFile {
		ranked = append(ranked, results...)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if r.cfg.Count > 0 && len(ranked) > r.cfg.Count {
		ranked = ranked[:r.cfg.Count]
	}

	r.cfg.Logger.Debug().
		Int("files", len(files)).
		Int("matches", total).
		Int("returned", len(ranked)).
		Msg("search finished")

	return ranked, nil
}

func (r *Runner) scan(file walker.File) []search.Result {
	cfg := r.cfg.Search
	cfg.Marker = file.Kind.Marker()

	results, err := search.SearchFile(file.Path, cfg)
	if err != nil {
		r.cfg.Logger.Debug().Err(err).Str("path", file.Path).Msg("skipping file")
		return nil
	}
	return results
}
