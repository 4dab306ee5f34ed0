package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"cxxscope/internal/config"
	"cxxscope/internal/diag"
	"cxxscope/internal/diagfmt"
	"cxxscope/internal/driver"
	"cxxscope/internal/source"
	"cxxscope/internal/symbols"
	"cxxscope/internal/trace"
)

// session is the resolved state shared by every command: the project
// file merged with command-line flags, the logger and the tracer.
type session struct {
	cmd        *cobra.Command
	cfg        config.Config
	lang       symbols.Language
	color      bool
	quiet      bool
	timings    bool
	ui         uiMode
	diagFormat string // pretty, short or json
	logger     zerolog.Logger
	cleanup    func()
}

// withSession builds the session, runs fn and always releases the tracer.
// On failure a ring tracer is dumped to stderr.
func withSession(cmd *cobra.Command, fn func(s *session) error) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	err = fn(s)
	if err != nil {
		if _, dumpErr := trace.DumpRing(trace.FromContext(cmd.Context()), cmd.ErrOrStderr(), trace.FormatText); dumpErr != nil {
			s.logger.Warn().Err(dumpErr).Msg("trace dump failed")
		}
	}
	s.cleanup()
	return err
}

func newSession(cmd *cobra.Command) (*session, error) {
	flags := cmd.Flags()
	s := &session{cmd: cmd}

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		s.cfg, err = config.Load(configPath)
	} else {
		s.cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}
	if err := s.applyFlags(); err != nil {
		return nil, err
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	s.lang = s.cfg.Language()

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(colorFlag) {
	case "on":
		s.color = true
	case "off":
		s.color = false
	case "auto", "":
		s.color = isTerminal(os.Stderr)
	default:
		return nil, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
	color.NoColor = !s.color

	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiFlag); err != nil {
		return nil, err
	}

	if s.diagFormat, err = flags.GetString("diag-format"); err != nil {
		return nil, fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	switch s.diagFormat = strings.ToLower(s.diagFormat); s.diagFormat {
	case "pretty", "short", "json":
	default:
		return nil, fmt.Errorf("invalid --diag-format value %q (expected pretty|short|json)", s.diagFormat)
	}

	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if s.logger, err = newLogger(cmd.ErrOrStderr(), logLevel, s.color); err != nil {
		return nil, err
	}

	stopProfiles, err := setupProfiling(cmd, s.logger)
	if err != nil {
		return nil, err
	}
	stopTracing, err := setupTracing(cmd, s.cfg, s.logger)
	if err != nil {
		stopProfiles()
		return nil, err
	}
	s.cleanup = func() {
		stopTracing()
		stopProfiles()
	}
	s.logger.Debug().
		Str("config", s.cfg.Path).
		Str("language", s.lang.String()).
		Int("jobs", s.cfg.Jobs()).
		Msg("session ready")
	return s, nil
}

// reportAnnotation marks commands whose --format and --output map onto the
// [output] section.
const reportAnnotation = "cxxscope/report"

// applyFlags overrides project settings with flags given explicitly.
func (s *session) applyFlags() error {
	flags := s.cmd.Flags()
	var err error
	if flags.Changed("language") {
		if s.cfg.Analysis.Language, err = flags.GetString("language"); err != nil {
			return fmt.Errorf("failed to get language flag: %w", err)
		}
	}
	if flags.Changed("max-diagnostics") {
		if s.cfg.Analysis.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if flags.Changed("jobs") {
		if s.cfg.Analysis.Jobs, err = flags.GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Changed("stop-on-error") {
		if s.cfg.Analysis.StopOnError, err = flags.GetBool("stop-on-error"); err != nil {
			return fmt.Errorf("failed to get stop-on-error flag: %w", err)
		}
	}
	if flags.Changed("cache") {
		if s.cfg.Cache.Enabled, err = flags.GetBool("cache"); err != nil {
			return fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	// tokenize, parse and lookup have their own --format values
	if s.cmd.Annotations[reportAnnotation] == "" {
		return nil
	}
	if flags.Changed("format") {
		if s.cfg.Output.Format, err = flags.GetString("format"); err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	if flags.Changed("output") {
		if s.cfg.Output.Path, err = flags.GetString("output"); err != nil {
			return fmt.Errorf("failed to get output flag: %w", err)
		}
	}
	return nil
}

func newLogger(w io.Writer, level string, useColor bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: !useColor, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("source", "cxxscope").Logger(), nil
}

// analysisOptions maps the [analysis] section onto driver options.
func (s *session) analysisOptions() driver.Options {
	return driver.Options{
		Language:       s.lang,
		DetectLanguage: s.cfg.AutoLanguage(),
		MaxDiagnostics: s.cfg.Analysis.MaxDiagnostics,
		StopOnError:    s.cfg.Analysis.StopOnError,
		Jobs:           s.cfg.Jobs(),
		Logger:         s.logger,
	}
}

// driverOptions is analysisOptions plus the disk cache when enabled.
func (s *session) driverOptions() (driver.Options, error) {
	opts := s.analysisOptions()
	if s.cfg.Cache.Enabled {
		cache, err := driver.OpenDiskCache(s.cfg.CacheDir())
		if err != nil {
			return opts, err
		}
		opts.Cache = cache
		s.logger.Debug().Str("dir", cache.Dir()).Msg("disk cache enabled")
	}
	return opts, nil
}

// inputs expands directory arguments through the [input] globs. With no
// arguments the project root is scanned.
func (s *session) inputs(args []string) ([]string, error) {
	if len(args) == 0 {
		if s.cfg.Root == "" {
			return nil, fmt.Errorf("no input files and no %s found", config.FileName)
		}
		args = []string{s.cfg.Root}
	}
	var out []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path: %w", err)
		}
		if !st.IsDir() {
			out = append(out, arg)
			continue
		}
		files, err := s.cfg.Files(arg)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			out = append(out, filepath.Join(arg, filepath.FromSlash(f)))
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no source files matched")
	}
	return out, nil
}

// printDiagnostics writes every bag to stderr in the --diag-format layout.
// Warnings are hidden in quiet mode.
func (s *session) printDiagnostics(fs *source.FileSet, bags ...*diag.Bag) {
	base := ""
	if wd, err := os.Getwd(); err == nil {
		base = wd
	}
	w := s.cmd.ErrOrStderr()
	for _, bag := range bags {
		if bag == nil || bag.Len() == 0 {
			continue
		}
		if s.quiet && !bag.HasErrors() {
			continue
		}
		switch s.diagFormat {
		case "short":
			fmt.Fprint(w, diag.FormatShort(bag.Items(), fs, true))
		case "json":
			opts := diagfmt.JSONOpts{IncludePositions: true, BaseDir: base, IncludeNotes: true}
			if err := diagfmt.JSON(w, bag, fs, opts); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write diagnostics")
			}
		default:
			diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{Color: s.color, BaseDir: base, ShowNotes: true, Context: 2})
		}
	}
}
