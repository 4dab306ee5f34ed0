package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedChar         Code = 1003
	LexUnterminatedBlockComment Code = 1004
	LexBadNumber                Code = 1005
	LexNameTooLong              Code = 1006

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectType         Code = 2004
	SynExpectExpression   Code = 2005
	SynUnclosedParen      Code = 2006
	SynUnclosedBrace      Code = 2007
	SynUnclosedBracket    Code = 2008
	SynUnclosedAngle      Code = 2009
	SynBadDeclarator      Code = 2010
	SynUnexpectedTopLevel Code = 2011

	// Поиск имён и объявления
	SemaInfo            Code = 3000
	SemaUndefined       Code = 3001
	SemaMultiplyDefined Code = 3002
	SemaConstEval       Code = 3003
	SemaNotAScope       Code = 3004
	SemaAmbiguous       Code = 3005
	SemaUnresolvedRef   Code = 3006

	// Ввод-вывод и инфраструктура
	IOInfo        Code = 4000
	IOLoadFailed  Code = 4001
	IOCacheFailed Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedChar:         "Unterminated character literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed numeric literal",
	LexNameTooLong:              "Identifier too long",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectSemicolon:          "Expected ';'",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectType:               "Expected type",
	SynExpectExpression:         "Expected expression",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedBracket:          "Unclosed bracket",
	SynUnclosedAngle:            "Unclosed template argument list",
	SynBadDeclarator:            "Malformed declarator",
	SynUnexpectedTopLevel:       "Unexpected token at namespace scope",
	SemaInfo:                    "Semantic information",
	SemaUndefined:               "Undefined name",
	SemaMultiplyDefined:         "Multiply defined name",
	SemaConstEval:               "Cannot evaluate constant expression",
	SemaNotAScope:               "Name does not denote a scope",
	SemaAmbiguous:               "Ambiguous name",
	SemaUnresolvedRef:           "Unresolved reference",
	IOInfo:                      "I/O information",
	IOLoadFailed:                "Cannot load file",
	IOCacheFailed:               "Cache failure",
}

// ID is the stable short form used in output, e.g. "SEM3001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 4000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 3000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 2000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 1000:
		return fmt.Sprintf("LEX%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string { return c.ID() }
