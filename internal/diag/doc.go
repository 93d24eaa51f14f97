// Package diag defines the diagnostic model shared by the driver and the CLI.
//
// The lexer and parser never produce diagnostics themselves: they fail with a
// single typed error (*lexer.LexError, *parser.ParseError). FromError turns such
// an error into a Diagnostic; code generation failures are converted by the
// driver.
//
// # Data model
//
//   - Severity – Info, Warning, Error.
//   - Code – numeric identifier with a stable string form (LEX1001, SYN2002, ...).
//   - Message – short human text. For core errors it is the error message verbatim.
//   - File + Primary – the file and the source.Range the finding points to.
//   - Notes – optional secondary ranges with extra context.
//
// Bag collects diagnostics with an optional limit and supports deterministic
// sorting and deduplication. Reporter / BagReporter / ReportBuilder decouple
// producers from storage. Rendering lives in internal/diagfmt.
package diag
