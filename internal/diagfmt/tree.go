package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"aliasc/internal/ast"
	"aliasc/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

type treeBlock struct {
	lines []string
	width int // в колонках терминала
	root  int
}

// FormatModuleTree рисует модуль вертикальным деревом:
// корень сверху, объявления веером ниже.
func FormatModuleTree(w io.Writer, builder *ast.Builder, m *ast.Module, fs *source.FileSet, file source.FileID) error {
	block := renderTree(buildModuleTreeNode(builder, m, fs, file))
	for _, line := range block.lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func buildModuleTreeNode(builder *ast.Builder, m *ast.Module, fs *source.FileSet, file source.FileID) *treeNode {
	header := "Module " + m.Name
	if fs != nil {
		if f := fs.Get(file); f != nil {
			header += " (" + f.FormatPath("auto", fs.BaseDir()) + ")"
		}
	}
	root := &treeNode{label: header}
	for _, d := range m.Decls {
		root.children = append(root.children, buildDeclTreeNode(builder, d))
	}
	return root
}

func buildDeclTreeNode(builder *ast.Builder, d ast.Decl) *treeNode {
	value := &treeNode{label: exprLabel(builder, d.Value)}
	if !d.IsAlias() {
		return value
	}
	return &treeNode{
		label:    "Alias " + d.Name,
		children: []*treeNode{value},
	}
}

func renderTree(node *treeNode) treeBlock {
	label := node.label
	labelWidth := runewidth.StringWidth(label)

	if len(node.children) == 0 {
		return treeBlock{
			lines: []string{label},
			width: labelWidth,
			root:  labelWidth / 2,
		}
	}

	childBlocks := make([]treeBlock, len(node.children))
	maxChildHeight := 0
	for i, child := range node.children {
		childBlocks[i] = renderTree(child)
		if len(childBlocks[i].lines) > maxChildHeight {
			maxChildHeight = len(childBlocks[i].lines)
		}
	}

	const spacing = 3

	positions := make([]int, len(childBlocks))
	totalWidth := 0
	for i, block := range childBlocks {
		positions[i] = totalWidth + block.root
		totalWidth += block.width
		if i != len(childBlocks)-1 {
			totalWidth += spacing
		}
	}

	childrenCenter := (positions[0] + positions[len(positions)-1]) / 2
	rootPos := labelWidth / 2
	shift := childrenCenter - rootPos

	childPrefix := 0
	if shift < 0 {
		childPrefix = -shift
		for i := range positions {
			positions[i] += childPrefix
		}
		totalWidth += childPrefix
		shift = 0
		rootPos = labelWidth / 2
	} else {
		rootPos += shift
	}

	width := totalWidth
	rootLine := label
	if shift > 0 {
		rootLine = strings.Repeat(" ", shift) + label
	}
	if runewidth.StringWidth(rootLine) < width {
		rootLine += strings.Repeat(" ", width-runewidth.StringWidth(rootLine))
	} else if runewidth.StringWidth(rootLine) > width {
		width = runewidth.StringWidth(rootLine)
		for i := range positions {
			if positions[i] >= width {
				width = positions[i] + 1
			}
		}
		if runewidth.StringWidth(rootLine) < width {
			rootLine += strings.Repeat(" ", width-runewidth.StringWidth(rootLine))
		}
	}

	connector := make([]byte, width)
	for i := range connector {
		connector[i] = ' '
	}
	if rootPos >= width {
		needed := rootPos - width + 1
		rootLine += strings.Repeat(" ", needed)
		connector = append(connector, make([]byte, needed)...)
		for i := width; i < len(connector); i++ {
			connector[i] = ' '
		}
		width = len(connector)
	}
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		default:
			connector[pos] = '|'
		}
	}
	connectorLine := string(connector)

	childLines := make([]string, maxChildHeight)
	for row := range maxChildHeight {
		var sb strings.Builder
		if childPrefix > 0 {
			sb.WriteString(strings.Repeat(" ", childPrefix))
		}
		for i, block := range childBlocks {
			line := ""
			if row < len(block.lines) {
				line = block.lines[row]
			}
			if lw := runewidth.StringWidth(line); lw < block.width {
				line += strings.Repeat(" ", block.width-lw)
			}
			sb.WriteString(line)
			if i != len(childBlocks)-1 {
				sb.WriteString(strings.Repeat(" ", spacing))
			}
		}
		rowStr := sb.String()
		if rw := runewidth.StringWidth(rowStr); rw < width {
			rowStr += strings.Repeat(" ", width-rw)
		}
		childLines[row] = rowStr
	}

	lines := make([]string, 0, 2+len(childLines))
	lines = append(lines, rootLine, connectorLine)
	lines = append(lines, childLines...)

	return treeBlock{
		lines: lines,
		width: width,
		root:  rootPos,
	}
}
