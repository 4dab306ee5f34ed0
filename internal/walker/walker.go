// Package walker drives a symbols.Table through one depth-first traversal of
// a translation unit.
package walker

import (
	"errors"
	"fmt"

	"cxxscope/internal/ast"
	"cxxscope/internal/diag"
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
	"cxxscope/internal/symbols"
	"cxxscope/internal/trace"
)

// ReferenceKind classifies where a name was used.
type ReferenceKind uint8

const (
	RefName      ReferenceKind = iota // identifier in an expression
	RefCall                           // callee of a call expression
	RefType                           // type name in a declaration, cast or sizeof
	RefBase                           // base specifier
	RefNamespace                      // using-directive or namespace alias target
	RefUsing                          // using-declaration target
	RefMember                         // this->member
)

var refKindNames = [...]string{
	RefName:      "name",
	RefCall:      "call",
	RefType:      "type",
	RefBase:      "base",
	RefNamespace: "namespace",
	RefUsing:     "using",
	RefMember:    "member",
}

func (k ReferenceKind) String() string {
	if int(k) < len(refKindNames) {
		return refKindNames[k]
	}
	return fmt.Sprintf("ReferenceKind(%d)", k)
}

// Reference is one looked-up name. Symbols is empty when the lookup failed.
type Reference struct {
	Kind    ReferenceKind
	Name    encoding.Encoding
	Node    ast.Node
	Span    source.Span
	Scope   symbols.ScopeID // scope the lookup started from
	Symbols []symbols.SymbolID
	// Dependent marks names that start with a template parameter.
	Dependent bool
}

// Resolved reports whether the lookup found anything.
func (r Reference) Resolved() bool { return len(r.Symbols) > 0 }

// Hooks receives declaration and reference events. Both are called while
// the table is still open, so the callee may query it.
type Hooks interface {
	Declared(sym symbols.SymbolID, node ast.Node)
	Referenced(ref Reference)
}

// Options configures a walk.
type Options struct {
	Hooks    Hooks
	Reporter diag.Reporter
	Tracer   trace.Tracer
	// TraceParent is the span the walk pass is nested in.
	TraceParent trace.SpanContext
	// StopOnError aborts at the first failed declaration and returns it.
	// Otherwise the declaration is reported and skipped.
	StopOnError bool
	// WarnUnresolved reports unresolved non-dependent names as warnings.
	WarnUnresolved bool
}

type walker struct {
	t    *symbols.Table
	b    *ast.Builder
	opts Options
	span *trace.Span
	err  error
}

// Walk visits every top-level declaration of file. The scope stack is
// restored before returning, also when the walk is aborted.
func Walk(t *symbols.Table, file ast.FileID, opts Options) error {
	b := t.Builder()
	f := b.Files.Get(file)
	if f == nil {
		return fmt.Errorf("walk: unknown file %d", file)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	sp := trace.BeginIn(tracer, trace.ScopePass, "walk", opts.TraceParent)
	defer sp.End("")

	w := &walker{t: t, b: b, opts: opts, span: sp}
	g := t.Guard()
	defer g.Close()
	w.decls(f.Decls)
	return w.err
}

// stopped reports an aborted walk. w.err is only set under StopOnError.
func (w *walker) stopped() bool {
	return w.err != nil
}

// fail reports a declaration error. Joined errors are reported one by one.
func (w *walker) fail(err error) {
	if err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			w.fail(e)
		}
		return
	}
	var md *symbols.MultiplyDefinedError
	var ud *symbols.UndefinedError
	switch {
	case errors.As(err, &md):
		diag.ReportError(w.opts.Reporter, diag.SemaMultiplyDefined, md.Span, err.Error()).
			WithNote(md.PreviousSpan, fmt.Sprintf("previous declaration of '%s' is here", md.Name.Unmangled())).
			Emit()
	case errors.As(err, &ud):
		diag.ReportError(w.opts.Reporter, diag.SemaUndefined, ud.Span, err.Error()).Emit()
	default:
		diag.ReportError(w.opts.Reporter, diag.SemaInfo, source.Span{}, err.Error()).Emit()
	}
	if !w.opts.StopOnError {
		w.span.Point("skip declaration", err.Error())
		return
	}
	if w.err == nil {
		w.err = err
	}
}

func (w *walker) declared(node ast.Node) {
	if w.opts.Hooks == nil {
		return
	}
	if sym := w.t.SymbolOf(node); sym.IsValid() {
		w.opts.Hooks.Declared(sym, node)
	}
}

func (w *walker) reference(ref Reference) {
	if !ref.Resolved() {
		ref.Dependent = ref.Dependent || w.t.Dependent(ref.Name)
		if w.opts.WarnUnresolved && !ref.Dependent {
			diag.ReportWarning(w.opts.Reporter, diag.SemaUnresolvedRef, ref.Span,
				fmt.Sprintf("unresolved %s '%s'", ref.Kind, ref.Name.Unmangled())).Emit()
		}
	}
	if w.opts.Hooks != nil {
		w.opts.Hooks.Referenced(ref)
	}
}

// lookup resolves name from the current scope and reports it.
func (w *walker) lookup(kind ReferenceKind, name encoding.Encoding, node ast.Node, sp source.Span, ctx symbols.LookupContext) {
	if name.Empty() {
		return
	}
	w.reference(Reference{
		Kind:    kind,
		Name:    name,
		Node:    node,
		Span:    sp,
		Scope:   w.t.CurrentScope(),
		Symbols: w.t.Lookup(name, ctx),
	})
}
