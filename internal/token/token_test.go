package token

import "testing"

func TestLookupKeywordLanguage(t *testing.T) {
	cases := []struct {
		word string
		cxx  bool
		want Kind
		ok   bool
	}{
		{"namespace", true, KwNamespace, true},
		{"namespace", false, Ident, false},
		{"struct", false, KwStruct, true},
		{"class", false, Ident, false},
		{"wchar_t", true, KwWcharT, true},
		{"vector", true, Ident, false},
	}
	for _, tc := range cases {
		got, ok := LookupKeyword(tc.word, tc.cxx)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("LookupKeyword(%q, %v) = %v, %v; want %v, %v", tc.word, tc.cxx, got, ok, tc.want, tc.ok)
		}
	}
}

func TestKindString(t *testing.T) {
	for _, tc := range []struct {
		k    Kind
		want string
	}{
		{KwTypename, "typename"},
		{ColonColon, "::"},
		{ArrowStar, "->*"},
		{Ident, "Ident"},
	} {
		if got := tc.k.String(); got != tc.want {
			t.Fatalf("%d.String() = %q, want %q", tc.k, got, tc.want)
		}
	}
	for word, k := range keywords {
		if !k.IsKeyword() {
			t.Fatalf("%q maps to non-keyword kind %v", word, k)
		}
	}
}

func TestIntValue(t *testing.T) {
	for _, tc := range []struct {
		text string
		want uint64
		ok   bool
	}{
		{"0", 0, true},
		{"42", 42, true},
		{"42u", 42, true},
		{"7ULL", 7, true},
		{"0x1F", 31, true},
		{"0XffU", 255, true},
		{"017", 15, true},
		{"0b101", 5, true},
		{"1'000", 1000, true},
		{"18446744073709551615u", 1<<64 - 1, true},
		{"1_000", 0, false},
		{"0o17", 0, false},
		{"0x_1F", 0, false},
		{"09", 0, false},
		{"0x", 0, false},
		{"u", 0, false},
		{"18446744073709551616", 0, false},
	} {
		got, ok := IntValue(tc.text)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("IntValue(%q) = %d, %v; want %d, %v", tc.text, got, ok, tc.want, tc.ok)
		}
	}
}
