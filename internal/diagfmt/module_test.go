package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"aliasc/internal/ast"
	"aliasc/internal/lexer"
	"aliasc/internal/parser"
	"aliasc/internal/token"
)

func parseAlias(t *testing.T, src string) (*ast.Builder, *ast.Module) {
	t.Helper()
	tokens, err := lexer.Lex(src, lexer.Options{Grammar: lexer.GrammarAlias})
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	b := ast.NewBuilder(ast.Hints{})
	m, err := parser.ParseModule("demo", tokens, b, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return b, m
}

func TestFormatModulePretty(t *testing.T) {
	b, m := parseAlias(t, "x = 1\n7")

	var buf bytes.Buffer
	if err := FormatModulePretty(&buf, b, m); err != nil {
		t.Fatal(err)
	}
	want := "Module demo (range: 0:0-1:1)\n" +
		"├─ Decl[0]: Alias x (range: 0:0-0:5)\n" +
		"│  └─ Value: IntLit 1\n" +
		"└─ Decl[1]: IntLit 7\n"
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatModuleJSON(t *testing.T) {
	b, m := parseAlias(t, "answer = 42")

	var buf bytes.Buffer
	if err := FormatModuleJSON(&buf, b, m); err != nil {
		t.Fatal(err)
	}
	var root ASTNodeOutput
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if root.Type != "Module" || len(root.Children) != 1 {
		t.Fatalf("unexpected root %+v", root)
	}
	alias := root.Children[0]
	if alias.Type != "Alias" || alias.Name != "answer" || len(alias.Children) != 1 {
		t.Fatalf("unexpected alias %+v", alias)
	}
	if v := alias.Children[0].Value; v == nil || *v != 42 {
		t.Errorf("unexpected value node %+v", alias.Children[0])
	}
}

func TestFormatModuleTree(t *testing.T) {
	b, m := parseAlias(t, "a = 1 b = 2")

	var buf bytes.Buffer
	if err := FormatModuleTree(&buf, b, m, nil, 0); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Module demo", "Alias a", "Alias b", "IntLit 1", "IntLit 2", "/", "\\"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree lacks %q:\n%s", want, out)
		}
	}
}

func TestFormatTokens(t *testing.T) {
	tokens, err := lexer.Lex("256", lexer.Options{})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, tokens); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "  1: Int             \"256\" at 0:0-0:3\n"; got != want {
		t.Errorf("pretty = %q, want %q", got, want)
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, []token.Token{}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty tokens JSON = %q", buf.String())
	}
}
