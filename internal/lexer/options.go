package lexer

import (
	"cxxscope/internal/diag"
	"cxxscope/internal/source"
)

type Options struct {
	Reporter diag.Reporter // nil: ошибки молча пропускаются, лексинг продолжается
	// C disables C++-only keywords.
	C bool
	// Interner, when set, makes equal identifier spellings share one string.
	Interner *source.Interner
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
