// Package testkit holds checks shared by parser and symbol table tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"cxxscope/internal/ast"
	"cxxscope/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span lies within the file content
// 2) every declaration span is non-empty and belongs to the file
// 3) nested declarations lie within the span of the declaration holding them
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent || f.Span.Start > f.Span.End {
		return fmt.Errorf("file span %v outside content of %d bytes", f.Span, lenContent)
	}
	c := spanChecker{b: b, file: sf.ID}
	for _, d := range f.Decls {
		if err := c.decl(d, f.Span); err != nil {
			return err
		}
	}
	return nil
}

type spanChecker struct {
	b    *ast.Builder
	file source.FileID
}

func (c spanChecker) decl(id ast.DeclID, outer source.Span) error {
	d := c.b.Decls.Get(id)
	if d == nil {
		return fmt.Errorf("nil decl for id=%d", id)
	}
	sp := d.Span
	if sp.End <= sp.Start {
		return fmt.Errorf("empty %s span: %v", d.Kind, sp)
	}
	if sp.File != c.file {
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", d.Kind, sp.File, c.file)
	}
	if sp.Start < outer.Start || sp.End > outer.End {
		return fmt.Errorf("%s span %v is outside enclosing span %v", d.Kind, sp, outer)
	}
	var nested []ast.DeclID
	switch d.Kind {
	case ast.DeclNamespace:
		if nd, ok := c.b.Decls.Namespace(id); ok && nd != nil {
			nested = nd.Body
		}
	case ast.DeclClass:
		if cd, ok := c.b.Decls.Class(id); ok && cd != nil {
			nested = cd.Members
		}
	case ast.DeclLinkage:
		if ld, ok := c.b.Decls.Linkage(id); ok && ld != nil {
			nested = ld.Body
		}
	case ast.DeclTemplate:
		if td, ok := c.b.Decls.Template(id); ok && td != nil && td.Decl.IsValid() {
			nested = []ast.DeclID{td.Decl}
		}
	}
	for _, n := range nested {
		if err := c.decl(n, sp); err != nil {
			return err
		}
	}
	return nil
}
