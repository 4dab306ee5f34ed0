// Package fuzztests houses Go fuzz harnesses that push arbitrary bytes
// through the analysis pipeline (source -> lexer -> parser -> symbol table).
// Its goal is to smoke test robustness and guard against panics, hangs and
// scope stack imbalance on malformed input.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер, парсер и обход с таблицей символов.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser, internal/diag,
// internal/ast, internal/symbols, internal/walker.
package fuzztests
