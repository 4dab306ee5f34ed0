// Package diag defines the diagnostic model shared by the lexer, the parser,
// the walker and the driver.
//
// Producers emit through a Reporter so they stay independent of storage and
// rendering. BagReporter collects into a Bag; DedupReporter drops repeats;
// ReportBuilder attaches notes before emitting exactly once.
//
// Rendering lives in internal/diagfmt.
package diag
