package util

import (
	"fmt"
	"io"
	"strings"
)

// treeWidth is the column at which node values wrap.
const treeWidth = 70

// TreeNode is a node in a printable tree.
type TreeNode struct {
	Value    string
	Children []*TreeNode
}

// NewTreeNode creates a node, perhaps with children.
func NewTreeNode(value string, children ...*TreeNode) *TreeNode {
	return &TreeNode{Value: value, Children: children}
}

// Add appends a child node.
func (n *TreeNode) Add(child *TreeNode) {
	n.Children = append(n.Children, child)
}

// PrintTree pretty-prints the tree rooted at node, wrapping long values with
// a hanging indent.
func PrintTree(w io.Writer, node *TreeNode) {
	printTree(w, node, "", true)
}

func printTree(w io.Writer, node *TreeNode, prefix string, last bool) {
	branch := "|- "
	if last {
		branch = "`- "
	}
	fmt.Fprintf(w, "%s%s%s\n", prefix, branch, wrapToWidth(node.Value, prefix))

	if last {
		prefix += "   "
	} else {
		prefix += "|  "
	}
	for i, child := range node.Children {
		printTree(w, child, prefix, i == len(node.Children)-1)
	}
}

func wrapToWidth(value, prefix string) string {
	lines := wrapWords(value, treeWidth)
	if len(lines) <= 1 {
		return value
	}
	indent := strings.Repeat(" ", len(prefix)+3)
	return lines[0] + "\n" + indent + strings.Join(lines[1:], "\n"+indent)
}

func wrapWords(value string, width int) []string {
	words := strings.Fields(value)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}
