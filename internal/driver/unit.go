package driver

import (
	"context"
	"fmt"

	"fortio.org/safecast"
	"github.com/rs/zerolog"

	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/dialect"
	"cxxscope/internal/export"
	"cxxscope/internal/lexer"
	"cxxscope/internal/observ"
	"cxxscope/internal/parser"
	"cxxscope/internal/source"
	"cxxscope/internal/symbols"
	"cxxscope/internal/trace"
	"cxxscope/internal/walker"
	"cxxscope/internal/xref"
)

// Options configures a driver run.
type Options struct {
	Language symbols.Language
	// DetectLanguage classifies each file as C or C++. Language is the
	// fallback for files without evidence.
	DetectLanguage bool
	MaxDiagnostics int
	StopOnError    bool
	WarnUnresolved bool
	Jobs           int
	Cache          *DiskCache
	Sink           ProgressSink
	Logger         zerolog.Logger
	// KeepTables leaves every unit's Table open for queries. Cached
	// results are not used then; the caller releases tables with Close.
	KeepTables bool
}

// UnitResult is everything produced for one translation unit.
type UnitResult struct {
	Path    string
	FileID  source.FileID
	Bag     *diag.Bag
	Dropped int
	Builder *ast.Builder
	ASTFile ast.FileID
	Table   *symbols.Table
	Report  export.Unit
	Timing  *observ.Report
	Cached  bool
	// Err is the declaration error that stopped the walk, if any.
	Err error
}

// Close releases the unit's Table.
func (r *UnitResult) Close() {
	if r != nil && r.Table != nil {
		r.Table.Close()
		r.Table = nil
	}
}

func (o *Options) parserOptions(r diag.Reporter) (parser.Options, error) {
	maxErrors, err := safecast.Conv[uint](max(o.MaxDiagnostics, 0))
	if err != nil {
		return parser.Options{}, fmt.Errorf("max diagnostics: %w", err)
	}
	return parser.Options{Reporter: r, MaxErrors: maxErrors, C: o.Language == symbols.LanguageC}, nil
}

func (o *Options) languageFor(file *source.File) symbols.Language {
	if !o.DetectLanguage {
		return o.Language
	}
	return dialect.Detect(file).Kind.Language(o.Language)
}

// AnalyzeFile runs the whole pipeline on a file already in fs.
func AnalyzeFile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (*UnitResult, error) {
	file := fs.Get(id)
	if file == nil {
		return nil, fmt.Errorf("unknown file id %d", id)
	}
	tracer := trace.FromContext(ctx)
	span := trace.BeginUnit(tracer, file.Path, trace.CurrentSpan(ctx))
	defer span.End("")

	opts.Language = opts.languageFor(file)
	log := opts.Logger.With().Str("unit", file.Path).Str("language", opts.Language.String()).Logger()
	res := &UnitResult{Path: file.Path, FileID: id}

	useCache := opts.Cache != nil && !opts.KeepTables
	var key Digest
	if useCache {
		key = UnitKey(file, opts.Language, opts.StopOnError, opts.WarnUnresolved)
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("cache read failed")
		case hit:
			log.Debug().Msg("cache hit")
			span.Point("cache hit", "")
			res.Cached = true
			res.Report = payload.Unit
			res.Bag = restoreDiagnostics(id, payload.Diagnostics, opts.MaxDiagnostics)
			res.Dropped = payload.Dropped
			emit(opts.Sink, Event{File: file.Path, Stage: StageCache, Status: StatusDone})
			return res, nil
		}
	}

	timer := observ.NewTimer()
	bag := diag.NewBag(opts.MaxDiagnostics)
	// the parser may retry a construct and report the same error twice
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	res.Bag = bag

	emit(opts.Sink, Event{File: file.Path, Stage: StageLex, Status: StatusWorking})
	phase := timer.Begin("lex")
	pass := trace.BeginIn(tracer, trace.ScopePass, "lex", span.Context())
	toks := lexer.All(file, lexer.Options{
		Reporter: reporter,
		C:        opts.Language == symbols.LanguageC,
		Interner: source.NewInterner(),
	})
	tokens := fmt.Sprintf("%d tokens", len(toks))
	pass.End(tokens)
	timer.End(phase, tokens)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	emit(opts.Sink, Event{File: file.Path, Stage: StageParse, Status: StatusWorking})
	phase = timer.Begin("parse")
	pass = trace.BeginIn(tracer, trace.ScopePass, "parse", span.Context())
	popts, err := opts.parserOptions(reporter)
	if err != nil {
		return nil, err
	}
	res.Builder = ast.NewBuilder(ast.Hints{})
	parsed := parser.ParseTokens(toks, res.Builder, popts)
	res.ASTFile = parsed.File
	pass.End("")
	timer.End(phase, "")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	emit(opts.Sink, Event{File: file.Path, Stage: StageWalk, Status: StatusWorking})
	phase = timer.Begin("walk")
	table := symbols.NewTable(res.Builder, symbols.Options{
		Language: opts.Language,
		Reporter: reporter,
		Tracer:   tracer,
	})
	collector := xref.NewCollector(table, fs)
	res.Err = walker.Walk(table, parsed.File, walker.Options{
		Hooks:          collector,
		Reporter:       reporter,
		Tracer:         tracer,
		TraceParent:    span.Context(),
		StopOnError:    opts.StopOnError,
		WarnUnresolved: opts.WarnUnresolved,
	})
	timer.End(phase, "")

	snap, err := table.Snapshot(fs)
	if err != nil {
		table.Close()
		return nil, fmt.Errorf("%s: snapshot: %w", file.Path, err)
	}
	res.Report = export.Unit{
		Path:        file.Path,
		Symbols:     snap,
		Index:       collector.Index(),
		Diagnostics: bag.Len(),
		Errors:      bag.Count(diag.SevError),
	}
	res.Dropped = bag.Dropped()
	report := timer.Report()
	res.Timing = &report

	if opts.KeepTables {
		res.Table = table
	} else {
		table.Close()
	}

	if useCache {
		payload := &DiskPayload{Unit: res.Report, Diagnostics: cacheDiagnostics(bag), Dropped: res.Dropped}
		if err := opts.Cache.Put(key, payload); err != nil {
			log.Warn().Err(err).Msg("cache write failed")
		}
	}

	log.Debug().
		Int("symbols", len(snap.Symbols)).
		Int("diagnostics", bag.Len()).
		Float64("ms", report.TotalMS).
		Msg("unit analyzed")
	return res, nil
}
