package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cxxscope/internal/symbols"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if path != filepath.Join(root, FileName) {
		t.Fatalf("Find = %s", path)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, FileName)
	writeFile(t, path, `
[analysis]
language = "c"
stop_on_error = true
jobs = 2

[output]
format = "yaml"

[cache]
enabled = true
dir = ".cache"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Language() != symbols.LanguageC || !cfg.Analysis.StopOnError || cfg.Jobs() != 2 {
		t.Fatalf("analysis = %+v", cfg.Analysis)
	}
	if cfg.Analysis.MaxDiagnostics != 100 {
		t.Fatalf("max_diagnostics default lost: %d", cfg.Analysis.MaxDiagnostics)
	}
	if cfg.Output.Format != "yaml" {
		t.Fatalf("format = %q", cfg.Output.Format)
	}
	if got := cfg.CacheDir(); got != filepath.Join(root, ".cache") {
		t.Fatalf("CacheDir = %s", got)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"language": "[analysis]\nlanguage = \"rust\"\n",
		"format":   "[output]\nformat = \"xml\"\n",
		"glob":     "[input]\ninclude = [\"src/[\"]\n",
		"trace":    "[trace]\nlevel = \"loud\"\n",
		"syntax":   "[analysis\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, content)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestFilesAppliesGlobs(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"a.cc", "lib/b.cpp", "lib/b.h", "third_party/x.cc", "notes.txt"} {
		writeFile(t, filepath.Join(root, p), "")
	}
	cfg := Default()
	cfg.Input.Exclude = []string{"third_party/**"}
	got, err := cfg.Files(root)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	want := []string{"a.cc", "lib/b.cpp", "lib/b.h"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("files (-want +got):\n%s", diff)
	}
}

func TestInitWritesLoadableFile(t *testing.T) {
	dir := t.TempDir()
	path, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Analysis.Language != "c++" {
		t.Fatalf("language = %q", cfg.Analysis.Language)
	}
	if _, err := Init(dir); err == nil {
		t.Fatalf("second Init should fail")
	}
}

func TestWriteUsesSections(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Default()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, section := range []string{"[analysis]", "[input]", "[output]", "[cache]", "[trace]"} {
		if !strings.Contains(buf.String(), section) {
			t.Fatalf("missing %s in:\n%s", section, buf.String())
		}
	}
}

func TestAutoLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "[analysis]\nlanguage = \"Auto\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.AutoLanguage() || cfg.Language() != symbols.LanguageCXX {
		t.Fatalf("auto = %v, fallback = %v", cfg.AutoLanguage(), cfg.Language())
	}
}
