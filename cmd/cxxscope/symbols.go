package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cxxscope/internal/diag"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols [flags] [file.cc|directory]...",
	Short: "Build the symbol table of each translation unit and dump it",
	Long: `Symbols declares every name of each translation unit into a fresh symbol
table and writes the resulting scopes and symbols. Without arguments the
[input] globs of cxxscope.toml are expanded from the project root.`,
	RunE: runSymbols,

	Annotations: map[string]string{reportAnnotation: "true"},
}

func init() {
	symbolsCmd.Flags().String("format", "text", "output format (text|json|yaml|msgpack)")
	symbolsCmd.Flags().StringP("output", "o", "", "write the report to a file")
	symbolsCmd.Flags().Bool("tree", false, "print the scope tree instead of the flat listing")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		tree, err := cmd.Flags().GetBool("tree")
		if err != nil {
			return err
		}
		files, err := s.inputs(args)
		if err != nil {
			return err
		}
		opts, err := s.driverOptions()
		if err != nil {
			return err
		}
		opts.KeepTables = tree
		fs, results, err := s.runUnits(cmd.Context(), "symbols", files, opts)
		if err != nil {
			return err
		}
		defer func() {
			for _, r := range results {
				r.Close()
			}
		}()

		if tree {
			out := cmd.OutOrStdout()
			for i, r := range results {
				if r.Table == nil {
					continue
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "== %s ==\n", r.Path)
				if err := r.Table.Dump(out); err != nil {
					return err
				}
			}
		} else if err := s.writeReport(newReport(results, true, false)); err != nil {
			return err
		}

		return s.finish(results, func() {
			bags := make([]*diag.Bag, 0, len(results))
			for _, r := range results {
				bags = append(bags, r.Bag)
			}
			s.printDiagnostics(fs, bags...)
		})
	})
}
