package countimport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// Recorder persists one count and moves the variant's balance
type Recorder interface {
	Record(ctx context.Context, rec *domain.CountRecord) error
}

// Flusher is implemented by recorders that defer side effects until a batch ends.
// Flush runs once after the last row, including when a row failed after others were recorded.
type Flusher interface {
	Flush(ctx context.Context) error
}

// FileResult is the number of rows parsed from one sheet
type FileResult struct {
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

// Summary describes a finished import
type Summary struct {
	Files    []FileResult  `json:"files"`
	Recorded int           `json:"recorded"`
	Duration time.Duration `json:"duration"`
}

// Importer parses count sheets in parallel and records their rows one at a time,
// oldest first, so every balance ends at its latest count.
type Importer struct {
	recorder Recorder
	workers  int
}

func NewImporter(recorder Recorder, workers int) *Importer {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Importer{recorder: recorder, workers: workers}
}

// ImportDir imports every .csv and .xlsx file directly inside dir, in name order.
func (im *Importer) ImportDir(ctx context.Context, dir string) (Summary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Summary{}, fmt.Errorf("read import dir %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".xlsx":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	return im.ImportFiles(ctx, paths)
}

// ImportFiles parses all files before recording anything; a bad row in any file
// aborts the import without writing.
func (im *Importer) ImportFiles(ctx context.Context, paths []string) (Summary, error) {
	start := time.Now()
	parsed := make([][]Row, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, err := ParseFile(path)
			if err != nil {
				return err
			}
			parsed[i] = rows
			log.Debug().Str("file", path).Int("rows", len(rows)).Msg("count sheet parsed")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	summary := Summary{Files: make([]FileResult, len(paths))}
	var all []Row
	for i, rows := range parsed {
		summary.Files[i] = FileResult{Path: paths[i], Rows: len(rows)}
		all = append(all, rows...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.Before(all[j].Date)
		}
		return all[i].VariantID < all[j].VariantID
	})

	for _, row := range all {
		if err := ctx.Err(); err != nil {
			im.flush(ctx, summary.Recorded)
			return summary, err
		}
		rec := &domain.CountRecord{
			VariantID:  row.VariantID,
			Date:       row.Date,
			CountedQty: row.CountedQty,
		}
		if err := im.recorder.Record(ctx, rec); err != nil {
			im.flush(ctx, summary.Recorded)
			return summary, fmt.Errorf("%s:%d: %w", row.File, row.Line, err)
		}
		summary.Recorded++
	}
	im.flush(ctx, summary.Recorded)

	summary.Duration = time.Since(start)
	log.Info().
		Int("files", len(paths)).
		Int("recorded", summary.Recorded).
		Dur("duration", summary.Duration).
		Msg("count import finished")

	return summary, nil
}

func (im *Importer) flush(ctx context.Context, recorded int) {
	f, ok := im.recorder.(Flusher)
	if !ok || recorded == 0 {
		return
	}
	if err := f.Flush(context.WithoutCancel(ctx)); err != nil {
		log.Warn().Err(err).Int("recorded", recorded).Msg("count import: flush failed")
	}
}
