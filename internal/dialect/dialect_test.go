package dialect

import (
	"testing"

	"cxxscope/internal/source"
	"cxxscope/internal/symbols"
)

func detect(path, src string) Classification {
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(src))
	return Detect(fs.Get(id))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		path string
		src  string
		want Kind
	}{
		{"c extension", "a.c", "int main(void) { return 0; }\n", C},
		{"cc extension", "a.cc", "int main() { return 0; }\n", CXX},
		{"header with classes", "a.h", "namespace n { class A { public: A(); }; }\n", CXX},
		{"header with restrict", "a.h", "void copy(char *restrict dst, const char *restrict src);\n", C},
		{"c++ standard header", "a.h", "#include <vector>\nint f();\n", CXX},
		{"c header only", "a.h", "#include <stdio.h>\nint f(void);\n", C},
		{"no evidence", "a.h", "int f(void);\n", Unknown},
		{"extern C block", "a.h", "extern \"C\" { int g(void); }\n", CXX},
		{"keywords outweigh extension", "a.c", "template <class T> class V { public: T *p; };\nnamespace x {}\n", CXX},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detect(tt.path, tt.src)
			if got.Kind != tt.want {
				t.Fatalf("Detect = %#v (score %d of %d), want %#v", got.Kind, got.Score, got.TotalScore, tt.want)
			}
		})
	}
}

func TestClassificationConfidence(t *testing.T) {
	e := NewEvidence()
	e.Add(Hint{Kind: CXX, Score: 3})
	e.Add(Hint{Kind: C, Score: 1})
	e.Add(Hint{Kind: Unknown, Score: 9})
	got := Classifier{}.Classify(e)
	if got.Kind != CXX || got.Score != 3 || got.TotalScore != 4 || got.RunnerUp != C || got.ObservedSignals != 3 {
		t.Fatalf("classification = %+v", got)
	}
	if got.Confidence != 0.75 {
		t.Fatalf("confidence = %v", got.Confidence)
	}
}

func TestKindLanguage(t *testing.T) {
	if got := Unknown.Language(symbols.LanguageCXX); got != symbols.LanguageCXX {
		t.Fatalf("Unknown.Language = %v", got)
	}
	if got := C.Language(symbols.LanguageCXX); got != symbols.LanguageC {
		t.Fatalf("C.Language = %v", got)
	}
}
