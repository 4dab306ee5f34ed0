package dialect

import (
	"bytes"
	"path/filepath"
	"strings"

	"cxxscope/internal/source"
	"cxxscope/internal/token"
)

var extensionSignals = map[string]signal{
	".c":   {C, 10, "file extension `.c`"},
	".cc":  {CXX, 10, "file extension `.cc`"},
	".cpp": {CXX, 10, "file extension `.cpp`"},
	".cxx": {CXX, 10, "file extension `.cxx`"},
	".c++": {CXX, 10, "file extension `.c++`"},
	".hh":  {CXX, 8, "file extension `.hh`"},
	".hpp": {CXX, 8, "file extension `.hpp`"},
	".hxx": {CXX, 8, "file extension `.hxx`"},
}

// ObservePath records evidence from the file extension. ".h" says nothing.
func ObservePath(e *Evidence, path string) {
	if e == nil {
		return
	}
	if sig, ok := extensionSignals[strings.ToLower(filepath.Ext(path))]; ok {
		recordSignal(e, sig, source.Span{})
	}
}

// ObserveTokenPair records token-pattern evidence using a sliding 2-token
// window. The caller feeds tokens in source order.
func ObserveTokenPair(e *Evidence, prev, tok token.Token) {
	if e == nil {
		return
	}
	// std:: and other qualified names
	if prev.Kind == token.Ident && tok.Kind == token.ColonColon {
		score := 2
		if prev.Text == "std" {
			score = 5
		}
		recordSignal(e, signal{CXX, score, "qualified name `" + prev.Text + "::`"}, prev.Span.Cover(tok.Span))
	}
	// extern "C" only appears in C++
	if prev.Kind == token.KwExtern && tok.Kind == token.StringLit && tok.Text == `"C"` {
		recordSignal(e, signal{CXX, 5, "linkage specification `extern \"C\"`"}, prev.Span.Cover(tok.Span))
	}
}

// ObserveIncludes scans #include lines. Extensionless standard headers
// such as <vector> are C++; <stdio.h> style headers weigh little either way.
func ObserveIncludes(e *Evidence, f *source.File) {
	if e == nil || f == nil {
		return
	}
	var off uint32
	for line := range bytes.Lines(f.Content) {
		start := off
		off += uint32(len(line))
		trimmed := bytes.TrimSpace(line)
		if !bytes.HasPrefix(trimmed, []byte("#")) {
			continue
		}
		rest := bytes.TrimSpace(trimmed[1:])
		if !bytes.HasPrefix(rest, []byte("include")) {
			continue
		}
		rest = bytes.TrimSpace(rest[len("include"):])
		if len(rest) < 2 || rest[0] != '<' {
			continue
		}
		end := bytes.IndexByte(rest, '>')
		if end < 0 {
			continue
		}
		header := string(rest[1:end])
		span := source.Span{File: f.ID, Start: start, End: off}
		switch {
		case strings.HasPrefix(header, "c") && !strings.Contains(header, "."):
			// <cstdio> and friends
			recordSignal(e, signal{CXX, 4, "C++ wrapper header <" + header + ">"}, span)
		case !strings.Contains(header, "."):
			recordSignal(e, signal{CXX, 5, "C++ standard header <" + header + ">"}, span)
		case strings.HasSuffix(header, ".h"):
			recordSignal(e, signal{C, 1, "C header <" + header + ">"}, span)
		}
	}
}
