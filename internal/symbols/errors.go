package symbols

import (
	"errors"
	"fmt"

	"cxxscope/internal/ast"
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
)

var (
	// ErrUndefined matches every *UndefinedError.
	ErrUndefined = errors.New("undefined name")
	// ErrMultiplyDefined matches every *MultiplyDefinedError.
	ErrMultiplyDefined = errors.New("multiply defined name")
)

// UndefinedError reports a qualified declaration, using-declaration or
// using-directive whose name does not resolve.
type UndefinedError struct {
	Name encoding.Encoding
	Node ast.Node
	Span source.Span
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("undefined name '%s'", e.Name.Unmangled())
}

func (e *UndefinedError) Is(target error) bool { return target == ErrUndefined }

// MultiplyDefinedError reports a declaration that conflicts with an
// earlier one in the same scope.
type MultiplyDefinedError struct {
	Name         encoding.Encoding
	Node         ast.Node
	Span         source.Span
	Previous     ast.Node
	PreviousSpan source.Span
}

func (e *MultiplyDefinedError) Error() string {
	return fmt.Sprintf("'%s' is already defined", e.Name.Unmangled())
}

func (e *MultiplyDefinedError) Is(target error) bool { return target == ErrMultiplyDefined }
