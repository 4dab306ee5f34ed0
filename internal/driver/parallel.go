package driver

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"cxxscope/internal/diag"
	"cxxscope/internal/source"
	"cxxscope/internal/trace"
)

// Run analyzes every path with its own Table. Files are loaded up front so
// the FileSet is read-only while units run in parallel. Results keep the
// order of paths; a file that fails to load yields a result carrying only
// an I/O diagnostic.
func Run(ctx context.Context, paths []string, opts Options) (*source.FileSet, []*UnitResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.BeginIn(tracer, trace.ScopeDriver, "run", trace.CurrentSpan(ctx))
	defer span.End(fmt.Sprintf("%d units", len(paths)))
	ctx = trace.WithSpan(ctx, span)

	fileSet := source.NewFileSet()
	fileIDs := make([]source.FileID, len(paths))
	loadErrors := make(map[int]error)
	for i, path := range paths {
		emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			continue
		}
		fileIDs[i] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*UnitResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			started := time.Now()

			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.New(diag.SevError, diag.IOLoadFailed, source.Span{}, "failed to load file: "+loadErr.Error()))
				results[i] = &UnitResult{Path: path, Bag: bag}
				results[i].Report.Path = path
				results[i].Report.Diagnostics = 1
				results[i].Report.Errors = 1
				emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr, Elapsed: time.Since(started)})
				opts.Logger.Error().Err(loadErr).Str("unit", path).Msg("load failed")
				return nil
			}

			res, err := AnalyzeFile(gctx, fileSet, fileIDs[i], opts)
			if err != nil {
				emit(opts.Sink, Event{File: path, Stage: StageWalk, Status: StatusError, Err: err, Elapsed: time.Since(started)})
				return fmt.Errorf("%s: %w", path, err)
			}
			// отображаемое имя берём из аргументов, а не из FileSet
			res.Path = path
			res.Report.Path = path
			results[i] = res

			status := StatusDone
			if res.Bag.HasErrors() {
				status = StatusError
			}
			emit(opts.Sink, Event{File: path, Stage: StageWalk, Status: status, Err: res.Err, Elapsed: time.Since(started)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		closeAll(results)
		return fileSet, nil, err
	}
	return fileSet, results, nil
}

func closeAll(results []*UnitResult) {
	for _, r := range results {
		r.Close()
	}
}

// Summary counts diagnostics across results.
type Summary struct {
	Units    int
	Cached   int
	Errors   int
	Warnings int
	Dropped  int
}

func Summarize(results []*UnitResult) Summary {
	var s Summary
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Units++
		if r.Cached {
			s.Cached++
		}
		s.Errors += r.Bag.Count(diag.SevError)
		s.Warnings += r.Bag.Count(diag.SevWarning)
		s.Dropped += r.Dropped
	}
	return s
}
