package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"aliasc/internal/source"
	"aliasc/internal/token"
)

type TokenOutput struct {
	Kind  string       `json:"kind"`
	Value string       `json:"value"`
	Range source.Range `json:"range"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%3d: %-15s %q at %s\n", i+1, tok.Kind.String(), tok.Value, tok.Range); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind:  tok.Kind.String(),
			Value: tok.Value,
			Range: tok.Range,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
