package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	_ = GitCommit
	_ = BuildDate
}

func TestStringFallsBackToDev(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "  "
	if got := String(); got != "dev" {
		t.Fatalf("String() = %q, want dev", got)
	}
	Version = " 1.2.3 "
	if got := String(); got != "1.2.3" {
		t.Fatalf("String() = %q", got)
	}
}

func TestColoredKeepsText(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()

	color.NoColor = true
	for _, v := range []string{"0.1.0-dev", "1.2.3", "1.2.3-rc.1+build.123", "7"} {
		Version = v
		if got := Colored(); got != v {
			t.Fatalf("Colored() = %q, want %q", got, v)
		}
	}
}

func BenchmarkColored(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Colored()
	}
}
