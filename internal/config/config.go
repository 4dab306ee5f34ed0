// Package config loads cxxscope.toml project files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/bmatcuk/doublestar/v4"

	"cxxscope/internal/export"
	"cxxscope/internal/symbols"
	"cxxscope/internal/trace"
)

// FileName is the project file looked up by Find.
const FileName = "cxxscope.toml"

const appName = "cxxscope"

type Analysis struct {
	Language       string `toml:"language"`
	StopOnError    bool   `toml:"stop_on_error"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Jobs           int    `toml:"jobs"`
}

type Input struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

type Output struct {
	Format string `toml:"format"`
	Path   string `toml:"path"`
}

type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type Trace struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
}

// Config is the decoded project file. Path and Root are empty for the
// built-in defaults.
type Config struct {
	Path string `toml:"-"`
	Root string `toml:"-"`

	Analysis Analysis `toml:"analysis"`
	Input    Input    `toml:"input"`
	Output   Output   `toml:"output"`
	Cache    Cache    `toml:"cache"`
	Trace    Trace    `toml:"trace"`
}

// Default returns the configuration used when no project file exists.
func Default() Config {
	return Config{
		Analysis: Analysis{
			Language:       "c++",
			MaxDiagnostics: 100,
			Jobs:           runtime.GOMAXPROCS(0),
		},
		Input: Input{
			Include: []string{"**/*.{c,cc,cpp,cxx,h,hh,hpp}"},
		},
		Output: Output{Format: "text"},
		Trace:  Trace{Level: "off", Mode: "ring"},
	}
}

// Find walks up from startDir to locate cxxscope.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest project file above startDir, falling back to
// the user-level file in the XDG config directory and then to Default.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		user, err := xdg.SearchConfigFile(filepath.Join(appName, FileName))
		if err != nil {
			return Default(), nil
		}
		path = user
	}
	return Load(path)
}

// Load decodes path on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated values and glob syntax.
func (c *Config) Validate() error {
	if !c.AutoLanguage() {
		if _, err := symbols.ParseLanguage(c.Analysis.Language); err != nil {
			return fmt.Errorf("[analysis].language: %w", err)
		}
	}
	if c.Analysis.MaxDiagnostics < 0 {
		return fmt.Errorf("[analysis].max_diagnostics must not be negative")
	}
	if c.Analysis.Jobs < 0 {
		return fmt.Errorf("[analysis].jobs must not be negative")
	}
	if _, err := export.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("[output].format: %w", err)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("[trace].mode: %w", err)
	}
	for _, list := range [][]string{c.Input.Include, c.Input.Exclude} {
		for _, p := range list {
			if !doublestar.ValidatePattern(p) {
				return fmt.Errorf("[input]: invalid glob %q", p)
			}
		}
	}
	return nil
}

// AutoLanguage reports language = "auto": each file is classified as C or
// C++ on its own.
func (c *Config) AutoLanguage() bool {
	return strings.EqualFold(c.Analysis.Language, "auto")
}

// Language returns the parsed analysis language. With "auto" it is the
// fallback used for files without evidence either way.
func (c *Config) Language() symbols.Language {
	lang, err := symbols.ParseLanguage(c.Analysis.Language)
	if err != nil {
		return symbols.LanguageCXX
	}
	return lang
}

// Jobs returns the worker count. Zero means one per CPU.
func (c *Config) Jobs() int {
	if c.Analysis.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Analysis.Jobs
}

// CacheDir returns the configured cache directory, or cxxscope under the
// XDG cache home. Relative paths are resolved against Root.
func (c *Config) CacheDir() string {
	dir := c.Cache.Dir
	if dir == "" {
		return filepath.Join(xdg.CacheHome, appName)
	}
	if !filepath.IsAbs(dir) && c.Root != "" {
		dir = filepath.Join(c.Root, dir)
	}
	return dir
}

// Files expands the include globs under root, drops paths matching an
// exclude glob and returns the result sorted. Paths are relative to root
// and slash-separated.
func (c *Config) Files(root string) ([]string, error) {
	if root == "" {
		root = c.Root
	}
	if root == "" {
		root = "."
	}
	fsys := os.DirFS(root)
	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range c.Input.Include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup || c.excluded(m) {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (c *Config) excluded(path string) bool {
	for _, p := range c.Input.Exclude {
		if ok, err := doublestar.Match(p, path); err == nil && ok {
			return true
		}
	}
	return false
}

// Write encodes c as TOML.
func Write(w io.Writer, c Config) error {
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	return enc.Encode(c)
}

// Init writes a default project file into dir. It refuses to overwrite an
// existing one.
func Init(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	cfg := Default()
	cfg.Analysis.Jobs = 0
	if err := Write(f, cfg); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Normalize trims whitespace from string settings.
func (c *Config) Normalize() {
	c.Analysis.Language = strings.TrimSpace(c.Analysis.Language)
	c.Output.Format = strings.TrimSpace(c.Output.Format)
	c.Trace.Level = strings.TrimSpace(c.Trace.Level)
	c.Trace.Mode = strings.TrimSpace(c.Trace.Mode)
}
