// Package consteval folds integral constant expressions: enumerator values,
// array bounds, template value arguments.
package consteval

import (
	"strconv"
	"strings"

	"cxxscope/internal/ast"
	"cxxscope/internal/encoding"
	"cxxscope/internal/token"
)

// Resolver answers the name queries an expression needs.
type Resolver interface {
	// Constant returns the value of a named constant.
	Constant(name encoding.Encoding) (int64, bool)
	// Type returns the type a type name denotes.
	Type(name encoding.Encoding) (encoding.Encoding, bool)
}

type evaluator struct {
	b *ast.Builder
	r Resolver
}

// Evaluate folds expr to an int64. ok is false for anything that is not an
// integral constant expression, including division by zero.
func Evaluate(b *ast.Builder, expr ast.ExprID, r Resolver) (int64, bool) {
	if b == nil || !expr.IsValid() {
		return 0, false
	}
	ev := evaluator{b: b, r: r}
	return ev.eval(expr)
}

func (ev *evaluator) eval(id ast.ExprID) (int64, bool) {
	e := ev.b.Exprs.Get(id)
	if e == nil {
		return 0, false
	}
	switch e.Kind {
	case ast.ExprLiteral:
		lit, _ := ev.b.Exprs.Literal(id)
		return literal(lit.Kind, lit.Text)
	case ast.ExprName:
		n, _ := ev.b.Exprs.Name(id)
		if ev.r == nil {
			return 0, false
		}
		return ev.r.Constant(n.Name)
	case ast.ExprParen:
		x, _ := ev.b.Exprs.Paren(id)
		return ev.eval(x)
	case ast.ExprUnary:
		u, _ := ev.b.Exprs.Unary(id)
		if u.Postfix {
			return 0, false
		}
		return ev.unary(u.Op, u.X)
	case ast.ExprBinary:
		bin, _ := ev.b.Exprs.Binary(id)
		return ev.binary(bin.Op, bin.X, bin.Y)
	case ast.ExprCond:
		c, _ := ev.b.Exprs.Cond(id)
		cond, ok := ev.eval(c.Cond)
		if !ok {
			return 0, false
		}
		if cond != 0 {
			return ev.eval(c.Then)
		}
		return ev.eval(c.Else)
	case ast.ExprSizeof:
		s, _ := ev.b.Exprs.Sizeof(id)
		if !s.Type.Empty() {
			return ev.sizeOf(s.Type, 0)
		}
		return ev.sizeOfExpr(s.X)
	case ast.ExprCast:
		c, _ := ev.b.Exprs.Cast(id)
		if len(c.Args) != 1 {
			return 0, false
		}
		v, ok := ev.eval(c.Args[0])
		if !ok {
			return 0, false
		}
		return ev.convert(v, c.Type, 0)
	case ast.ExprCall:
		// T(x) with T a typedef or enum name
		call, _ := ev.b.Exprs.Call(id)
		n, ok := ev.b.Exprs.Name(call.Fn)
		if !ok || len(call.Args) != 1 || ev.r == nil {
			return 0, false
		}
		if _, isType := ev.r.Type(n.Name); !isType {
			return 0, false
		}
		v, ok := ev.eval(call.Args[0])
		if !ok {
			return 0, false
		}
		return ev.convert(v, n.Name, 0)
	}
	return 0, false
}

func (ev *evaluator) unary(op token.Kind, x ast.ExprID) (int64, bool) {
	v, ok := ev.eval(x)
	if !ok {
		return 0, false
	}
	switch op {
	case token.Plus:
		return v, true
	case token.Minus:
		return -v, true
	case token.Bang:
		return boolValue(v == 0), true
	case token.Tilde:
		return ^v, true
	}
	return 0, false
}

func (ev *evaluator) binary(op token.Kind, x, y ast.ExprID) (int64, bool) {
	a, ok := ev.eval(x)
	if !ok {
		return 0, false
	}
	switch op {
	case token.AndAnd:
		if a == 0 {
			return 0, true
		}
		b, ok := ev.eval(y)
		return boolValue(b != 0), ok
	case token.OrOr:
		if a != 0 {
			return 1, true
		}
		b, ok := ev.eval(y)
		return boolValue(b != 0), ok
	}
	b, ok := ev.eval(y)
	if !ok {
		return 0, false
	}
	switch op {
	case token.Plus:
		return a + b, true
	case token.Minus:
		return a - b, true
	case token.Star:
		return a * b, true
	case token.Slash:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case token.Percent:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	case token.Amp:
		return a & b, true
	case token.Pipe:
		return a | b, true
	case token.Caret:
		return a ^ b, true
	case token.Shl:
		if b < 0 || b > 63 {
			return 0, false
		}
		return a << uint(b), true
	case token.Shr:
		if b < 0 || b > 63 {
			return 0, false
		}
		return a >> uint(b), true
	case token.EqEq:
		return boolValue(a == b), true
	case token.BangEq:
		return boolValue(a != b), true
	case token.Lt:
		return boolValue(a < b), true
	case token.LtEq:
		return boolValue(a <= b), true
	case token.Gt:
		return boolValue(a > b), true
	case token.GtEq:
		return boolValue(a >= b), true
	case token.Comma:
		return b, true
	}
	return 0, false
}

func boolValue(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// literal decodes integer, character and boolean literals.
func literal(kind token.Kind, text string) (int64, bool) {
	switch kind {
	case token.KwTrue:
		return 1, true
	case token.KwFalse, token.KwNullptr:
		return 0, true
	case token.IntLit:
		return intLiteral(text)
	case token.CharLit:
		return charLiteral(text)
	}
	return 0, false
}

func intLiteral(text string) (int64, bool) {
	v, ok := token.IntValue(text)
	return int64(v), ok //nolint:gosec // wraps like the target does
}

func charLiteral(text string) (int64, bool) {
	open := strings.IndexByte(text, '\'')
	if open < 0 || len(text) < open+3 || text[len(text)-1] != '\'' {
		return 0, false
	}
	body := text[open+1 : len(text)-1]
	var value int64
	n := 0
	for i := 0; i < len(body); n++ {
		c, next, ok := decodeChar(body, i)
		if !ok {
			return 0, false
		}
		// multi-character constants pack bytes, high first
		value = value<<8 | c
		i = next
	}
	if open == 0 && n == 1 {
		return int64(int8(value)), true //nolint:gosec // plain char is signed
	}
	return value, true
}

func decodeChar(s string, i int) (int64, int, bool) {
	if s[i] != '\\' {
		return int64(s[i]), i + 1, true
	}
	i++
	if i >= len(s) {
		return 0, i, false
	}
	switch c := s[i]; c {
	case 'n':
		return '\n', i + 1, true
	case 't':
		return '\t', i + 1, true
	case 'r':
		return '\r', i + 1, true
	case 'a':
		return 7, i + 1, true
	case 'b':
		return 8, i + 1, true
	case 'f':
		return 12, i + 1, true
	case 'v':
		return 11, i + 1, true
	case '\\', '\'', '"', '?':
		return int64(c), i + 1, true
	case 'x':
		j := i + 1
		for j < len(s) && isHex(s[j]) {
			j++
		}
		v, err := strconv.ParseUint(s[i+1:j], 16, 64)
		if err != nil {
			return 0, j, false
		}
		return int64(v), j, true //nolint:gosec // bounded by the literal
	default:
		if c < '0' || c > '7' {
			return 0, i, false
		}
		j := i
		for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
			j++
		}
		v, _ := strconv.ParseUint(s[i:j], 8, 64)
		return int64(v), j, true //nolint:gosec // at most 0777
	}
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
