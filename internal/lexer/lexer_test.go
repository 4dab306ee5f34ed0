package lexer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cxxscope/internal/diag"
	"cxxscope/internal/encoding"
	"cxxscope/internal/source"
	"cxxscope/internal/token"
)

func lex(t *testing.T, src string, opts Options) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cc", []byte(src))
	bag := diag.NewBag(0)
	if opts.Reporter == nil {
		opts.Reporter = diag.BagReporter{Bag: bag}
	}
	return All(fs.Get(id), opts), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func TestLexDeclarations(t *testing.T) {
	toks, bag := lex(t, "namespace N { struct A; int f(int x = 0x1F); }", Options{})
	want := []token.Kind{
		token.KwNamespace, token.Ident, token.LBrace,
		token.KwStruct, token.Ident, token.Semicolon,
		token.KwInt, token.Ident, token.LParen, token.KwInt, token.Ident, token.Assign, token.IntLit, token.RParen, token.Semicolon,
		token.RBrace, token.EOF,
	}
	if diff := cmp.Diff(want, kinds(toks)); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestLexSkipsCommentsAndDirectives(t *testing.T) {
	src := "#include <vector>\n#define X \\\n  1\n// line\nint /* block */ a; # \n"
	toks, _ := lex(t, src, Options{})
	got := kinds(toks)
	want := []token.Kind{token.KwInt, token.Ident, token.Semicolon, token.Invalid, token.EOF}
	// '#' after a token on the same line is not a directive
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestLexPunctuators(t *testing.T) {
	toks, _ := lex(t, "a->*b .* :: <<= ... ->", Options{})
	want := []token.Kind{token.Ident, token.ArrowStar, token.Ident, token.DotStar, token.ColonColon,
		token.ShlAssign, token.Ellipsis, token.Arrow, token.EOF}
	if diff := cmp.Diff(want, kinds(toks)); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestLexNumbers(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
		bad  bool
	}{
		{"42", token.IntLit, false},
		{"1'000'000ull", token.IntLit, false},
		{"0b1010", token.IntLit, false},
		{"3.14f", token.FloatLit, false},
		{".5e-3", token.FloatLit, false},
		{"12abc", token.IntLit, true},
	}
	for _, tc := range cases {
		toks, bag := lex(t, tc.src, Options{})
		if toks[0].Kind != tc.kind || toks[0].Text != tc.src {
			t.Fatalf("%q: got %v", tc.src, toks[0])
		}
		if bag.HasErrors() != tc.bad {
			t.Fatalf("%q: errors=%v want %v", tc.src, bag.Items(), tc.bad)
		}
	}
}

func TestLexStringsAndChars(t *testing.T) {
	toks, bag := lex(t, `L"wide\"" u8"x" '\n' 'a`, Options{})
	if toks[0].Kind != token.StringLit || toks[0].Text != `L"wide\""` {
		t.Fatalf("first token = %v", toks[0])
	}
	if toks[1].Kind != token.StringLit || toks[2].Kind != token.CharLit {
		t.Fatalf("tokens = %v", toks)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedChar {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestLexCModeKeywords(t *testing.T) {
	toks, _ := lex(t, "struct class", Options{C: true})
	if toks[0].Kind != token.KwStruct || toks[1].Kind != token.Ident {
		t.Fatalf("tokens = %v", toks)
	}
}

func TestLexNormalizesIdentifiers(t *testing.T) {
	// "é" precomposed vs e + combining acute
	toks, _ := lex(t, "café café", Options{})
	if toks[0].Text != toks[1].Text {
		t.Fatalf("identifiers differ after normalisation: %q vs %q", toks[0].Text, toks[1].Text)
	}
}

func TestLexReportsOverlongIdentifier(t *testing.T) {
	name := strings.Repeat("x", encoding.MaxNameLen)
	if _, bag := lex(t, name, Options{}); bag.Len() != 0 {
		t.Fatalf("limit-length name reported: %v", bag.Items())
	}
	toks, bag := lex(t, name+"y", Options{})
	if toks[0].Kind != token.Ident || len(toks[0].Text) != encoding.MaxNameLen+1 {
		t.Fatalf("got %v (%d bytes)", toks[0].Kind, len(toks[0].Text))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexNameTooLong {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
}

func TestInternerCanonicalisesIdentifiers(t *testing.T) {
	in := source.NewInterner()
	// "é" precomposed and as e + combining acute
	toks, bag := lex(t, "caf\u00e9 cafe\u0301 int caf\u00e9", Options{Interner: in})
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	if toks[0].Text != toks[1].Text || toks[1].Text != toks[3].Text {
		t.Fatalf("spellings differ: %q %q %q", toks[0].Text, toks[1].Text, toks[3].Text)
	}
	// "" plus one identifier; keywords are not interned
	if in.Len() != 2 {
		t.Fatalf("interner holds %d strings", in.Len())
	}
}
