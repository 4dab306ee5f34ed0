package dialect

import (
	"fmt"

	"cxxscope/internal/symbols"
)

// Kind is the language a file resembles.
type Kind uint8

const (
	Unknown Kind = iota
	C
	CXX

	kindCount
)

func (k Kind) String() string {
	switch k {
	case C:
		return "c"
	case CXX:
		return "c++"
	default:
		return "unknown"
	}
}

func (k Kind) GoString() string {
	return fmt.Sprintf("dialect.Kind(%s)", k.String())
}

// Language maps k onto a table language. Unknown yields fallback.
func (k Kind) Language(fallback symbols.Language) symbols.Language {
	switch k {
	case C:
		return symbols.LanguageC
	case CXX:
		return symbols.LanguageCXX
	}
	return fallback
}
