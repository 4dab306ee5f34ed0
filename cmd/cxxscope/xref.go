package main

import (
	"github.com/spf13/cobra"

	"cxxscope/internal/diag"
)

var xrefCmd = &cobra.Command{
	Use:   "xref [flags] [file.cc|directory]...",
	Short: "Resolve every name and print a cross-reference index",
	Long: `Xref walks each translation unit, resolves every name use against the
symbol table and reports, per symbol, where it was declared and referenced.
Names that could not be resolved are listed separately.`,
	RunE: runXref,

	Annotations: map[string]string{reportAnnotation: "true"},
}

func init() {
	xrefCmd.Flags().String("format", "text", "output format (text|json|yaml|msgpack)")
	xrefCmd.Flags().StringP("output", "o", "", "write the report to a file")
	xrefCmd.Flags().Bool("warn-unresolved", false, "report unresolved names as warnings")
	xrefCmd.Flags().Bool("with-symbols", false, "include the symbol dump in the report")
}

func runXref(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		warnUnresolved, err := cmd.Flags().GetBool("warn-unresolved")
		if err != nil {
			return err
		}
		withSymbols, err := cmd.Flags().GetBool("with-symbols")
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
		opts.WarnUnresolved = warnUnresolved
		fs, results, err := s.runUnits(cmd.Context(), "xref", files, opts)
		if err != nil {
			return err
		}
		if err := s.writeReport(newReport(results, withSymbols, true)); err != nil {
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
