package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cxxscope/internal/diagfmt"
	"cxxscope/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.cc",
	Short: "Parse a source file and print its declarations",
	Long: `Parse builds the declaration tree of one source file without declaring any
names. Use it to check how a construct was understood before looking at
the symbol table.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "tree" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	return withSession(cmd, func(s *session) error {
		result, err := driver.Parse(args[0], s.analysisOptions())
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		s.printDiagnostics(result.FileSet, result.Bag)

		out := cmd.OutOrStdout()
		if format == "json" {
			err = diagfmt.FormatASTJSON(out, result.Builder, result.FileID, result.FileSet)
		} else {
			err = diagfmt.FormatASTTree(out, result.Builder, result.FileID, result.FileSet)
		}
		if err != nil {
			return err
		}
		if result.Bag.HasErrors() {
			return errDiagnostics
		}
		return nil
	})
}
