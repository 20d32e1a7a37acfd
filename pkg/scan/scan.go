// Package scan runs the locate, parse and aggregate stages over a workspace.
package scan

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dkoosis/zdefects/pkg/aggregate"
	"github.com/dkoosis/zdefects/pkg/zresults"
)

// Options configures a scan.
type Options struct {
	Locate  zresults.LocateOptions
	Parse   zresults.ParseOptions
	Workers int // <=0 means runtime.NumCPU(); 1 parses strictly in order
	Logger  *zap.Logger
}

// Result is the outcome of a scan.
type Result struct {
	Files     []zresults.File
	Aggregate *aggregate.Aggregate
	Failed    int // files that produced a ParseError record
}

// Run locates every result file under root, parses them in parallel into
// per-file aggregates and merges those in locator order. Per-file failures
// become ParseError records; only an unusable root or a cancelled ctx is an
// error.
func Run(ctx context.Context, root string, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	files, err := zresults.Locate(root, opts.Locate)
	if err != nil {
		return nil, fmt.Errorf("locate result files: %w", err)
	}
	log.Debug("located result files", zap.String("root", root), zap.Int("files", len(files)))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Each worker owns one slot; nothing else is shared.
	slots := make([]slot, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fr := zresults.ParseFile(f, opts.Parse)
			part := aggregate.New()
			part.AddAll(fr.Records)
			slots[i] = slot{file: fr, part: part}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Files: files, Aggregate: aggregate.New()}
	for _, sl := range slots {
		fr := sl.file
		if fr.Err != nil {
			res.Failed++
			log.Debug("parse failed",
				zap.String("path", fr.File.Path),
				zap.String("run", fr.File.RunID),
				zap.Error(fr.Err))
		} else {
			log.Debug("parsed",
				zap.String("path", fr.File.Path),
				zap.String("run", fr.File.RunID),
				zap.Int("records", len(fr.Records)))
		}
		res.Aggregate.Merge(sl.part)
	}
	return res, nil
}

// slot is one file's parse result and its partial aggregate.
type slot struct {
	file zresults.FileResult
	part *aggregate.Aggregate
}
