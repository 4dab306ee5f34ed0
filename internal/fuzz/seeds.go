package fuzztests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// languageSeeds cover every construct the table declares or enters.
var languageSeeds = []string{
	"",
	"int main() { return 0; }\n",
	"namespace A { int v; namespace B { int w; } }\nnamespace C = A::B;\n",
	"struct S { int x; void f(); };\nvoid S::f() { x = 1; }\n",
	"class D : public S, virtual private T { public: D(); ~D(); };\n",
	"enum E { a, b = 3, c };\nenum { anon = sizeof(int) };\n",
	"typedef struct T { int m; } T;\ntypedef int (*fp)(int, char);\n",
	"template <class T, int N> struct Array { T data[N]; };\n",
	"template <typename T> void g(T t) { T::value; t.f(); }\n",
	"using namespace std;\nusing A::v;\n",
	"extern \"C\" { int puts(const char*); }\n",
	"void f() { for (int i = 0; i < 10; ++i) { int j = i; } }\n",
	"struct S; struct S s; int S;\nstruct S *p;\n",
	"int x; int x;\nstatic int y; extern int y;\n",
	"#include <stdio.h>\n#define X 1\nint y = X;\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	matches, err := doublestar.Glob(os.DirFS(root), "**/*.{c,cc,cpp,h,hpp}", doublestar.WithFilesOnly())
	if err != nil {
		return
	}
	for _, m := range matches {
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(m)))
		if err != nil {
			continue
		}
		f.Add(clampSeed(src))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
