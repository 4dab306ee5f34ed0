package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"

	"cxxscope/internal/diag"
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
	"cxxscope/internal/symbols"
	"cxxscope/internal/token"
	"cxxscope/internal/trace"
)

func writeUnits(t *testing.T, units map[string]string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(units))
	for name, content := range units {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		paths = append(paths, p)
	}
	// порядок карты случаен
	sort.Strings(paths)
	return paths
}

func baseOptions() Options {
	return Options{
		Language:       symbols.LanguageCXX,
		MaxDiagnostics: 50,
		Jobs:           4,
		Logger:         zerolog.Nop(),
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func TestRunKeepsInputOrder(t *testing.T) {
	units := make(map[string]string)
	for i := range 12 {
		units[fmt.Sprintf("u%02d.cc", i)] = fmt.Sprintf("namespace n%d { int v%d; }\nint use%d() { return n%d::v%d; }\n", i, i, i, i, i)
	}
	paths := writeUnits(t, units)

	_, results, err := Run(context.Background(), paths, baseOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Fatalf("result %d is %s, want %s", i, r.Path, paths[i])
		}
		if r.Bag.Len() != 0 {
			t.Fatalf("%s: unexpected diagnostics %v", r.Path, r.Bag.Items())
		}
		want := fmt.Sprintf("n%d::v%d", i, i)
		if got := r.Report.Index.Find(want); len(got) != 1 || len(got[0].References) != 1 {
			t.Fatalf("%s: Find(%s) = %+v", r.Path, want, got)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	paths := writeUnits(t, map[string]string{
		"a.cc": "struct S { int x; int get() { return x; } };\n",
		"b.cc": "namespace N { enum E { A, B = 4, C }; }\nint k = N::C;\n",
		"c.cc": "template <class T> struct Box { T v; };\nBox<int> b;\n",
	})
	run := func(jobs int) []string {
		opts := baseOptions()
		opts.Jobs = jobs
		_, results, err := Run(context.Background(), paths, opts)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		var out []string
		for _, r := range results {
			for _, s := range r.Report.Symbols.Symbols {
				out = append(out, fmt.Sprintf("%s %s %s", s.Kind, s.Qualified, s.Span))
			}
		}
		return out
	}
	serial := run(1)
	for range 3 {
		if diff := cmp.Diff(serial, run(8)); diff != "" {
			t.Fatalf("parallel run differs (-serial +parallel):\n%s", diff)
		}
	}
}

func TestRunReportsLoadFailures(t *testing.T) {
	paths := writeUnits(t, map[string]string{"ok.cc": "int x;\n"})
	missing := filepath.Join(filepath.Dir(paths[0]), "missing.cc")
	paths = append(paths, missing)

	sink := &recordingSink{}
	opts := baseOptions()
	opts.Sink = sink
	_, results, err := Run(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	bad := results[1]
	if bad.Bag.Len() != 1 || bad.Bag.Items()[0].Code != diag.IOLoadFailed {
		t.Fatalf("missing file diagnostics = %v", bad.Bag.Items())
	}
	if s := Summarize(results); s.Units != 2 || s.Errors != 1 {
		t.Fatalf("summary = %+v", s)
	}
	var sawError bool
	for _, ev := range sink.events {
		if ev.File == missing && ev.Status == StatusError {
			sawError = true
		}
	}
	if !sawError {
		t.Fatalf("no error event for %s in %+v", missing, sink.events)
	}
}

func TestDeclarationErrorsBecomeDiagnostics(t *testing.T) {
	paths := writeUnits(t, map[string]string{
		"dup.cc": "int x;\nint x;\nint y;\n",
	})
	opts := baseOptions()
	_, results, err := Run(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	r := results[0]
	items := r.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaMultiplyDefined || len(items[0].Notes) != 1 {
		t.Fatalf("diagnostics = %+v", items)
	}
	// без StopOnError объявление пропускается, разбор продолжается
	if r.Err != nil {
		t.Fatalf("skipped declaration surfaced as unit error: %v", r.Err)
	}
	if got := r.Report.Index.Find("y"); len(got) != 1 {
		t.Fatalf("y not declared after the error: %+v", r.Report.Index.Entries)
	}

	opts.StopOnError = true
	_, results, err = Run(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Err == nil {
		t.Fatalf("expected the walk to stop")
	}
	if got := results[0].Report.Index.Find("y"); len(got) != 0 {
		t.Fatalf("y declared after stop: %+v", got)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	paths := writeUnits(t, map[string]string{
		"a.cc": "int f(int);\nint g() { return f(1) + missing; }\n",
	})
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	opts := baseOptions()
	opts.Cache = cache
	opts.WarnUnresolved = true

	_, first, err := Run(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if first[0].Cached {
		t.Fatalf("first run should not hit the cache")
	}
	_, second, err := Run(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !second[0].Cached {
		t.Fatalf("second run should hit the cache")
	}
	if diff := cmp.Diff(first[0].Report, second[0].Report, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("cached report differs (-fresh +cached):\n%s", diff)
	}
	if diff := cmp.Diff(first[0].Bag.Items(), second[0].Bag.Items(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("cached diagnostics differ (-fresh +cached):\n%s", diff)
	}

	opts.WarnUnresolved = false
	_, third, err := Run(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if third[0].Cached {
		t.Fatalf("changed options must miss the cache")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	fs := source.NewFileSet()
	id, err := fs.Load(paths[0])
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var payload DiskPayload
	key := UnitKey(fs.Get(id), symbols.LanguageCXX, false, true)
	if hit, err := cache.Get(key, &payload); err != nil || hit {
		t.Fatalf("Get after DropAll = %v, %v", hit, err)
	}
}

func TestKeepTablesAllowsQueries(t *testing.T) {
	paths := writeUnits(t, map[string]string{
		"q.cc": "namespace A { namespace B { typedef int T; } }\n",
	})
	opts := baseOptions()
	opts.KeepTables = true
	_, results, err := Run(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	r := results[0]
	defer r.Close()
	if r.Table == nil {
		t.Fatalf("table was not kept")
	}
	scope := r.Table.ResolveScope(encoding.Qualified(encoding.SimpleName("A"), encoding.SimpleName("B")))
	if scope == symbols.NoScopeID {
		t.Fatalf("A::B did not resolve")
	}
	got := r.Table.LookupFrom(scope, encoding.SimpleName("T"), symbols.LookupDefault)
	if len(got) != 1 || r.Table.QualifiedName(got[0]) != "A::B::T" {
		t.Fatalf("lookup = %v", got)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	paths := writeUnits(t, map[string]string{"a.cc": "int x;\n", "b.cc": "int y;\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Run(ctx, paths, baseOptions()); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestDetectLanguagePerUnit(t *testing.T) {
	paths := writeUnits(t, map[string]string{
		"a.c":  "int class;\nint new = 1;\n",
		"b.cc": "namespace n { int class_ = 1; }\n",
		"c.h":  "int plain;\n",
	})
	opts := baseOptions()
	opts.DetectLanguage = true
	_, results, err := Run(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var langs []string
	for _, r := range results {
		if r.Bag.HasErrors() {
			t.Fatalf("%s: %v", r.Path, r.Bag.Items())
		}
		langs = append(langs, filepath.Base(r.Path)+"="+r.Report.Symbols.Language)
	}
	want := []string{"a.c=c", "b.cc=c++", "c.h=c++"}
	if diff := cmp.Diff(want, langs); diff != "" {
		t.Fatalf("languages (-want +got):\n%s", diff)
	}
}

func TestTokenizeAndParseFollowDetectedLanguage(t *testing.T) {
	paths := writeUnits(t, map[string]string{"a.c": "int class;\n"})
	opts := baseOptions()
	opts.DetectLanguage = true
	toks, err := Tokenize(paths[0], opts)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if toks.Bag.Len() != 0 || len(toks.Tokens) != 4 {
		t.Fatalf("tokens = %v, diagnostics = %v", toks.Tokens, toks.Bag.Items())
	}
	parsed, err := Parse(paths[0], opts)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Bag.Len() != 0 {
		t.Fatalf("parse diagnostics: %v", parsed.Bag.Items())
	}

	if toks.Tokens[1].Kind != token.Ident {
		t.Fatalf("C mode lexed %v", toks.Tokens[1])
	}

	opts.DetectLanguage = false
	toks, err = Tokenize(paths[0], opts)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if toks.Tokens[1].Kind != token.KwClass {
		t.Fatalf("C++ mode lexed %v", toks.Tokens[1])
	}
}

func TestTimingsAddTotal(t *testing.T) {
	paths := writeUnits(t, map[string]string{
		"a.cc": "int a;\n",
		"b.cc": "int b;\n",
	})
	_, results, err := Run(context.Background(), paths, baseOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	payloads := Timings(results)
	if len(payloads) != 3 {
		t.Fatalf("got %d payloads", len(payloads))
	}
	total := payloads[2]
	if total.Kind != "total" || total.Path != "" {
		t.Fatalf("last payload = %+v", total)
	}
	var names []string
	for _, p := range total.Phases {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"lex", "parse", "walk"}, names); diff != "" {
		t.Fatalf("phases (-want +got):\n%s", diff)
	}
	sum := payloads[0].TotalMS + payloads[1].TotalMS
	if diff := cmp.Diff(sum, total.TotalMS, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("total (-units +total):\n%s", diff)
	}
}

func TestRunTracesUnits(t *testing.T) {
	paths := writeUnits(t, map[string]string{"a.cc": "int a;\n"})
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	opts := baseOptions()
	opts.Cache = cache

	run := func() []trace.Event {
		ring := trace.NewRingTracer(256, trace.LevelPass)
		ctx := trace.WithTracer(context.Background(), ring)
		if _, _, err := Run(ctx, paths, opts); err != nil {
			t.Fatalf("Run: %v", err)
		}
		return ring.Snapshot()
	}

	passes := make(map[string]string)
	for _, ev := range run() {
		if ev.Kind == trace.KindSpanBegin && ev.Scope == trace.ScopePass {
			passes[ev.Name] = ev.Unit
		}
	}
	want := map[string]string{"lex": paths[0], "parse": paths[0], "walk": paths[0]}
	if diff := cmp.Diff(want, passes); diff != "" {
		t.Fatalf("pass spans (-want +got):\n%s", diff)
	}

	hit := false
	for _, ev := range run() {
		if ev.Kind == trace.KindPoint && ev.Name == "cache hit" && ev.Unit == paths[0] {
			hit = true
		}
	}
	if !hit {
		t.Fatalf("second run recorded no cache hit point")
	}
}
