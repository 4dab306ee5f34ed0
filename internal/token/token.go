package token

import "cxxscope/internal/source"

// Token is one lexeme.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

func (t Token) String() string {
	switch t.Kind {
	case Ident, IntLit, FloatLit, CharLit, StringLit:
		return t.Kind.String() + "(" + t.Text + ")"
	}
	return t.Kind.String()
}
