package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"aliasc/internal/ast"
	"aliasc/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Name     string          `json:"name,omitempty"`
	Range    source.Range    `json:"range"`
	Value    *int32          `json:"value,omitempty"`
	Text     string          `json:"text,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatModulePretty печатает модуль списком объявлений с ветками ├─ / └─.
func FormatModulePretty(w io.Writer, builder *ast.Builder, m *ast.Module) error {
	if m == nil {
		return fmt.Errorf("module is nil")
	}
	fmt.Fprintf(w, "Module %s (range: %s)\n", m.Name, m.Range)

	for i, d := range m.Decls {
		branch, prefix := "├─", "│  "
		if i == len(m.Decls)-1 {
			branch, prefix = "└─", "   "
		}
		if d.IsAlias() {
			fmt.Fprintf(w, "%s Decl[%d]: Alias %s (range: %s)\n", branch, i, d.Name, d.Range)
			fmt.Fprintf(w, "%s└─ Value: %s\n", prefix, exprLabel(builder, d.Value))
			continue
		}
		fmt.Fprintf(w, "%s Decl[%d]: %s\n", branch, i, exprLabel(builder, d.Value))
	}
	return nil
}

// FormatModuleJSON выводит модуль как дерево узлов в JSON.
func FormatModuleJSON(w io.Writer, builder *ast.Builder, m *ast.Module) error {
	if m == nil {
		return fmt.Errorf("module is nil")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildModuleOutput(builder, m))
}

// BuildModuleOutput converts a module into its JSON node tree.
func BuildModuleOutput(builder *ast.Builder, m *ast.Module) ASTNodeOutput {
	children := make([]ASTNodeOutput, 0, len(m.Decls))
	for _, d := range m.Decls {
		value := exprNode(builder, d.Value)
		if !d.IsAlias() {
			children = append(children, value)
			continue
		}
		children = append(children, ASTNodeOutput{
			Type:     "Alias",
			Name:     d.Name,
			Range:    d.Range,
			Children: []ASTNodeOutput{value},
		})
	}
	return ASTNodeOutput{
		Type:     "Module",
		Name:     m.Name,
		Range:    m.Range,
		Children: children,
	}
}

func exprNode(builder *ast.Builder, id ast.ExprID) ASTNodeOutput {
	expr := builder.Exprs.Get(id)
	if expr == nil {
		return ASTNodeOutput{Type: "Invalid"}
	}
	node := ASTNodeOutput{Type: expr.Kind.String(), Range: expr.Range}
	if lit, ok := builder.Exprs.IntLit(id); ok {
		v := lit.Value
		node.Value = &v
		node.Text = lit.Text
	}
	return node
}

func exprLabel(builder *ast.Builder, id ast.ExprID) string {
	expr := builder.Exprs.Get(id)
	if expr == nil {
		return "<nil>"
	}
	if lit, ok := builder.Exprs.IntLit(id); ok {
		return fmt.Sprintf("IntLit %d", lit.Value)
	}
	return expr.Kind.String()
}
