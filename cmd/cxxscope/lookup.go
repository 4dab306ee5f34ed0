package main

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"cxxscope/internal/driver"
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
	"cxxscope/internal/symbols"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [flags] file.cc name...",
	Short: "Look names up in the symbol table of a translation unit",
	Long: `Lookup builds the symbol table of one translation unit and resolves each
name from the global scope, or from the scope given with --scope. Names may
be qualified ("A::B::x", "::x").`,
	Args: cobra.MinimumNArgs(2),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().String("scope", "", "qualified name of the scope to start from")
	lookupCmd.Flags().String("context", "default", "lookup context (default|elaborate|scope|declaration)")
	lookupCmd.Flags().String("format", "text", "output format (text|json)")
}

type lookupMatch struct {
	Qualified string `json:"qualified"`
	Kind      string `json:"kind"`
	Type      string `json:"type,omitempty"`
	Position  string `json:"position"`
}

type lookupAnswer struct {
	Name      string        `json:"name"`
	Context   string        `json:"context"`
	Dependent bool          `json:"dependent,omitempty"`
	Matches   []lookupMatch `json:"matches"`
}

func parseLookupContext(s string) (symbols.LookupContext, error) {
	for _, c := range []symbols.LookupContext{
		symbols.LookupDefault, symbols.LookupElaborate, symbols.LookupScope, symbols.LookupDeclaration,
	} {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return symbols.LookupDefault, fmt.Errorf("invalid lookup context %q (expected default|elaborate|scope|declaration)", s)
}

func runLookup(cmd *cobra.Command, args []string) error {
	scopeName, err := cmd.Flags().GetString("scope")
	if err != nil {
		return err
	}
	ctxName, err := cmd.Flags().GetString("context")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	lctx, err := parseLookupContext(ctxName)
	if err != nil {
		return err
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	return withSession(cmd, func(s *session) error {
		opts, err := s.driverOptions()
		if err != nil {
			return err
		}
		opts.KeepTables = true
		fs, results, err := driver.Run(cmd.Context(), args[:1], opts)
		if err != nil {
			return err
		}
		unit := results[0]
		defer unit.Close()
		s.printDiagnostics(fs, unit.Bag)
		if unit.Table == nil {
			return errDiagnostics
		}

		answers, err := lookupNames(unit.Table, fs, scopeName, args[1:], lctx)
		if err != nil {
			return err
		}
		if format == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(answers)
		}
		missing := writeAnswers(cmd.OutOrStdout(), answers)
		if missing > 0 {
			return errDiagnostics
		}
		return nil
	})
}

func lookupNames(t *symbols.Table, fs *source.FileSet, scopeName string, names []string, ctx symbols.LookupContext) ([]lookupAnswer, error) {
	scope := t.Global()
	if scopeName != "" {
		scope = t.ResolveScope(encoding.ParseQualified(scopeName))
		if scope == symbols.NoScopeID {
			return nil, fmt.Errorf("%s does not name a scope", scopeName)
		}
	}
	answers := make([]lookupAnswer, 0, len(names))
	for _, n := range names {
		name := encoding.ParseQualified(n)
		ans := lookupAnswer{Name: n, Context: ctx.String(), Dependent: t.Dependent(name), Matches: []lookupMatch{}}
		for _, id := range t.LookupFrom(scope, name, ctx) {
			sym := t.Symbol(id)
			if sym == nil {
				continue
			}
			m := lookupMatch{
				Qualified: t.QualifiedName(id),
				Kind:      sym.Kind.String(),
				Position:  fs.Position(sym.Span),
			}
			if !sym.Type.Empty() && sym.Type != sym.Name {
				m.Type = sym.Type.Unmangled()
			}
			ans.Matches = append(ans.Matches, m)
		}
		answers = append(answers, ans)
	}
	return answers, nil
}

// writeAnswers prints one block per name and returns how many names had
// no match.
func writeAnswers(w io.Writer, answers []lookupAnswer) int {
	missing := 0
	for _, a := range answers {
		switch {
		case len(a.Matches) > 0:
			fmt.Fprintf(w, "%s:\n", a.Name)
			for _, m := range a.Matches {
				typ := ""
				if m.Type != "" {
					typ = " : " + m.Type
				}
				fmt.Fprintf(w, "  %s %s%s @ %s\n", m.Kind, m.Qualified, typ, m.Position)
			}
		case a.Dependent:
			fmt.Fprintf(w, "%s: dependent name\n", a.Name)
		default:
			fmt.Fprintf(w, "%s: not found (%s lookup)\n", a.Name, a.Context)
			missing++
		}
	}
	return missing
}
