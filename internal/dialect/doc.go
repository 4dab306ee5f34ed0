// Package dialect guesses whether a source file is C or C++ when the
// language is configured as "auto".
//
// Evidence is collected from the file extension, include directives and
// tokens lexed in C++ mode, then scored by a Classifier. Collection never
// changes lexing or parsing; it only picks the language the unit is analyzed
// with.
package dialect
