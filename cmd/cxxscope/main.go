package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cxxscope/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "cxxscope",
	Short: "C and C++ symbol table and scope resolution",
	Long: `cxxscope parses C and C++ translation units, builds their scope trees and
symbol tables, and resolves every name the way a compiler front end would.`,
	SilenceUsage: true,
}

// errDiagnostics is returned when analysis reported errors that were
// already printed.
var errDiagnostics = errors.New("analysis reported errors")

// main executes the root command. Any error exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			rootCmd.PrintErrln("error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.String()

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(xrefCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to cxxscope.toml (default: search upwards from the working directory)")
	flags.String("language", "c++", "source language (c|c++|auto)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.String("diag-format", "pretty", "diagnostics layout (pretty|short|json)")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics per unit")
	flags.Int("jobs", 0, "max parallel workers (0=auto)")
	flags.Bool("stop-on-error", false, "stop a unit at its first declaration error")
	flags.Bool("cache", false, "reuse results from the on-disk cache")
	flags.String("log-level", "warn", "log level (debug|info|warn|error|disabled)")
	flags.String("ui", "off", "progress UI (auto|on|off)")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|unit|pass|table)")
	flags.String("trace-mode", "ring", "trace storage mode (stream|ring|both|log)")
	flags.Int("trace-ring-size", 4096, "ring buffer size for trace events")
	flags.Duration("trace-heartbeat", 0, "heartbeat interval for hang detection (0 = disabled)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
