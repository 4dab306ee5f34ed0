package source

import "testing"

func TestFileSetVersions(t *testing.T) {
	fs := NewFileSet()
	first := fs.Add("a.cc", []byte("int x;"), 0)
	second := fs.Add("./a.cc", []byte("int y;"), 0)
	if first == second {
		t.Fatalf("expected distinct ids, got %d twice", first)
	}
	f, ok := fs.Lookup("a.cc")
	if !ok || f.ID != second {
		t.Fatalf("lookup returned %v, %v; want latest version %d", f, ok, second)
	}
	if got := string(fs.Get(first).Content); got != "int x;" {
		t.Fatalf("old version content = %q", got)
	}
}

func TestAddVirtualNormalizes(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem.cc", []byte("\xEF\xBB\xBFint a;\r\nint b;\r\n"))
	f := fs.Get(id)
	if string(f.Content) != "int a;\nint b;\n" {
		t.Fatalf("content = %q", f.Content)
	}
	want := FileVirtual | FileHadBOM | FileNormalizedCRLF
	if f.Flags != want {
		t.Fatalf("flags = %b, want %b", f.Flags, want)
	}
	if f.Line(2) != "int b;" {
		t.Fatalf("line 2 = %q", f.Line(2))
	}
	if f.Line(4) != "" {
		t.Fatalf("line 4 should be empty, got %q", f.Line(4))
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.cc", []byte("ab\ncd\n\nef"))
	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{6, 3, 1},
		{7, 4, 1},
		{8, 4, 2},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start.Line != tc.line || start.Col != tc.col {
			t.Fatalf("offset %d: got %d:%d want %d:%d", tc.off, start.Line, start.Col, tc.line, tc.col)
		}
	}
	if got := fs.Position(Span{File: id, Start: 4, End: 5}); got != "r.cc:2:2" {
		t.Fatalf("position = %q", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got.Start != 5 || got.End != 20 {
		t.Fatalf("cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("cross-file cover changed span: %v", got)
	}
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	a := in.Intern("vector")
	b := in.Intern("vector")
	if a != b || a == NoStringID {
		t.Fatalf("intern ids %d %d", a, b)
	}
	if s, ok := in.Lookup(a); !ok || s != "vector" {
		t.Fatalf("lookup = %q %v", s, ok)
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Fatalf("lookup of unknown id succeeded")
	}
}
