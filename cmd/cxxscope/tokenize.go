package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cxxscope/internal/diagfmt"
	"cxxscope/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.cc",
	Short: "Tokenize a C or C++ source file",
	Long:  `Tokenize breaks a source file down into the tokens the parser consumes`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	return withSession(cmd, func(s *session) error {
		result, err := driver.Tokenize(args[0], s.analysisOptions())
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
		s.printDiagnostics(result.FileSet, result.Bag)

		out := cmd.OutOrStdout()
		if format == "json" {
			err = diagfmt.FormatTokensJSON(out, result.Tokens, result.FileSet)
		} else {
			err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
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
