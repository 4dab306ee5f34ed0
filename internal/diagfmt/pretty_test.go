package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cxxscope/internal/diag"
	"cxxscope/internal/source"
)

func TestPrettyCaretAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.cc", []byte("int x;\nint x;\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.SemaMultiplyDefined,
		source.Span{File: fileID, Start: 11, End: 12}, "'x' is already defined").
		WithNote(source.Span{File: fileID, Start: 4, End: 5}, "previous declaration of 'x' is here"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})
	want := strings.Join([]string{
		"a.cc:2:5: ERROR SEM3002: 'x' is already defined",
		" 2 | int x;",
		"   |     ^",
		"a.cc:1:5: NOTE: previous declaration of 'x' is here",
		" 1 | int x;",
		"   |     ^",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("pretty output (-want +got):\n%s", diff)
	}
}

func TestPrettyUnderlinesWholeSpan(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("b.cc", []byte("using namespace Missing;\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.SemaUndefined,
		source.Span{File: fileID, Start: 16, End: 23}, "undefined name 'Missing'"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 2})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 || lines[2] != "   |                 ^~~~~~~" {
		t.Fatalf("underline = %q", lines)
	}
}

func TestPrettyBaseDir(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.Add("/home/user/project/src/main.cc", []byte("x;\n"), 0)
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.SemaUnresolvedRef, source.Span{File: fileID, Start: 0, End: 1}, "unresolved name 'x'"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{BaseDir: "/home/user/project"})
	if !strings.HasPrefix(buf.String(), "src/main.cc:1:1: WARNING SEM3006") {
		t.Fatalf("output = %q", buf.String())
	}
}
