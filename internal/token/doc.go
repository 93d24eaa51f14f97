// Package token defines lexical token kinds for the aliasc front end.
// Invariants:
//   - Token.Value is the scanned substring exactly as it appears in the source.
//   - Token.Range covers Value: Range.Len() equals the number of characters in Value.
//   - Int tokens carry a non-empty, digit-only Value (no sign, no normalisation).
//   - There is no EOF or "empty" kind; absence of a token is reported
//     out of band (ok == false) by whoever yields tokens.
package token
