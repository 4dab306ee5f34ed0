package main

import (
	"fmt"
	"io"
	"os"

	"cxxscope/internal/driver"
	"cxxscope/internal/export"
	"cxxscope/internal/version"
)

// writeReport encodes r in the configured format to the configured path,
// or to stdout.
func (s *session) writeReport(r *export.Report) error {
	format, err := export.ParseFormat(s.cfg.Output.Format)
	if err != nil {
		return err
	}
	var w io.Writer = s.cmd.OutOrStdout()
	if path := s.cfg.Output.Path; path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	} else if format.Binary() && w == os.Stdout && isTerminal(os.Stdout) {
		return fmt.Errorf("refusing to write %s to a terminal; use --output", format)
	}
	return export.Write(w, r, format)
}

func newReport(results []*driver.UnitResult, withSymbols, withIndex bool) *export.Report {
	r := &export.Report{Tool: "cxxscope " + version.String()}
	for _, res := range results {
		u := res.Report
		if !withSymbols {
			u.Symbols = nil
		}
		if !withIndex {
			u.Index = nil
		}
		r.Units = append(r.Units, u)
	}
	return r
}

// finish prints diagnostics, the summary and timings, and turns errors
// into errDiagnostics.
func (s *session) finish(results []*driver.UnitResult, fsPrinter func()) error {
	fsPrinter()
	sum := driver.Summarize(results)
	if s.timings {
		if err := driver.WriteTimingsJSON(s.cmd.ErrOrStderr(), driver.Timings(results)); err != nil {
			return err
		}
	}
	if !s.quiet {
		fmt.Fprintf(s.cmd.ErrOrStderr(), "%d unit(s), %d cached, %d error(s), %d warning(s)",
			sum.Units, sum.Cached, sum.Errors, sum.Warnings)
		if sum.Dropped > 0 {
			fmt.Fprintf(s.cmd.ErrOrStderr(), ", %d diagnostic(s) dropped", sum.Dropped)
		}
		fmt.Fprintln(s.cmd.ErrOrStderr())
	}
	if sum.Errors > 0 {
		return errDiagnostics
	}
	return nil
}
