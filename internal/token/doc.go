// Package token defines the lexical vocabulary of the C++ subset understood by
// cxxscope.
//
// Invariants:
//   - Token.Text is a slice of the source, except identifiers, which are NFC
//     normalised by the lexer.
//   - Comments and preprocessor directive lines never reach the token stream.
//   - Builtin type names (int, char, ...) are keywords; typedef-names are Ident.
package token
