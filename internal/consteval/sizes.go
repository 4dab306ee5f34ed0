package consteval

import (
	"strconv"
	"strings"

	"cxxscope/internal/ast"
	"cxxscope/internal/encoding"
	"cxxscope/internal/token"
)

// maxAliasDepth bounds typedef chains followed through the Resolver.
const maxAliasDepth = 16

// LP64
var builtinSizes = map[byte]int64{
	'b': 1,
	'c': 1,
	'w': 4,
	's': 2,
	'i': 4,
	'l': 8,
	'j': 8,
	'f': 4,
	'd': 8,
	'r': 16,
}

const pointerSize = 8

// SizeOf returns the size of t in bytes, resolving names through r.
func SizeOf(t encoding.Encoding, r Resolver) (int64, bool) {
	ev := evaluator{r: r}
	return ev.sizeOf(t, 0)
}

func (ev *evaluator) sizeOf(t encoding.Encoding, depth int) (int64, bool) {
	if t.Empty() || depth > maxAliasDepth {
		return 0, false
	}
	switch t[0] {
	case 'C', 'V', 'S', 'U':
		return ev.sizeOf(t[1:], depth)
	case 'P', 'M':
		return pointerSize, true
	case 'R':
		return ev.sizeOf(t[1:], depth)
	case 'A':
		bound, elem, ok := splitArray(t)
		if !ok || bound < 0 {
			return 0, false
		}
		size, ok := ev.sizeOf(elem, depth)
		return bound * size, ok
	}
	if len(t) == 1 {
		size, ok := builtinSizes[t[0]]
		return size, ok
	}
	if t.IsSimpleName() || t.IsQualified() || t.IsTemplate() {
		if ev.r == nil {
			return 0, false
		}
		target, ok := ev.r.Type(t)
		if !ok || target == t {
			return 0, false
		}
		return ev.sizeOf(target, depth+1)
	}
	return 0, false
}

// splitArray decodes "A<bound>_<elem>"; an unknown bound is -1.
func splitArray(t encoding.Encoding) (int64, encoding.Encoding, bool) {
	s := string(t[1:])
	i := strings.IndexByte(s, '_')
	if i < 0 {
		return 0, "", false
	}
	if i == 0 {
		return -1, encoding.Encoding(s[1:]), true
	}
	bound, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return 0, "", false
	}
	return bound, encoding.Encoding(s[i+1:]), true
}

// sizeOfExpr handles "sizeof expr" for operands whose type is evident
// without type checking.
func (ev *evaluator) sizeOfExpr(x ast.ExprID) (int64, bool) {
	e := ev.b.Exprs.Get(x)
	if e == nil {
		return 0, false
	}
	switch e.Kind {
	case ast.ExprParen:
		inner, _ := ev.b.Exprs.Paren(x)
		return ev.sizeOfExpr(inner)
	case ast.ExprLiteral:
		lit, _ := ev.b.Exprs.Literal(x)
		switch lit.Kind {
		case token.IntLit:
			if strings.ContainsAny(lit.Text, "lL") {
				return 8, true
			}
			return 4, true
		case token.CharLit:
			if strings.HasPrefix(lit.Text, "'") {
				return 1, true
			}
			return 4, true
		case token.KwTrue, token.KwFalse:
			return 1, true
		case token.StringLit:
			if s, err := strconv.Unquote(lit.Text); err == nil {
				return int64(len(s)) + 1, true
			}
		}
	case ast.ExprCast:
		c, _ := ev.b.Exprs.Cast(x)
		return ev.sizeOf(c.Type, 0)
	}
	return 0, false
}

// Convert truncates v to the integral type t, resolving names through r.
func Convert(v int64, t encoding.Encoding, r Resolver) (int64, bool) {
	ev := evaluator{r: r}
	return ev.convert(v, t, 0)
}

func (ev *evaluator) convert(v int64, t encoding.Encoding, depth int) (int64, bool) {
	if t.Empty() || depth > maxAliasDepth {
		return 0, false
	}
	unsigned := false
	for len(t) > 0 && (t[0] == 'C' || t[0] == 'V' || t[0] == 'S' || t[0] == 'U') {
		if t[0] == 'U' {
			unsigned = true
		}
		t = t[1:]
	}
	if len(t) == 1 {
		switch t[0] {
		case 'b':
			return boolValue(v != 0), true
		case 'c':
			if unsigned {
				return int64(uint8(v)), true //nolint:gosec // truncation intended
			}
			return int64(int8(v)), true //nolint:gosec // truncation intended
		case 's':
			if unsigned {
				return int64(uint16(v)), true //nolint:gosec // truncation intended
			}
			return int64(int16(v)), true //nolint:gosec // truncation intended
		case 'i', 'w':
			if unsigned {
				return int64(uint32(v)), true //nolint:gosec // truncation intended
			}
			return int64(int32(v)), true //nolint:gosec // truncation intended
		case 'l', 'j':
			return v, true
		}
		return 0, false
	}
	if t.IsSimpleName() || t.IsQualified() || t.IsTemplate() {
		if ev.r == nil {
			return 0, false
		}
		target, ok := ev.r.Type(t)
		if !ok || target == t {
			return 0, false
		}
		return ev.convert(v, target, depth+1)
	}
	return 0, false
}
