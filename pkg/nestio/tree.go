package nestio

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/vivify/pkg/nested"
)

var (
	treeRootStyle   = lipgloss.NewStyle().Bold(true)
	treeBranchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RenderTree draws m as an indented text tree. Maps are shown by key with
// their children below; leaves are shown as "key = value". Styling degrades
// to plain text when the output is not a color terminal.
func RenderTree[V any](m *nested.Map[string, V], opts WriteOptions) string {
	t := buildTree(tree.Root(opts.root()), m)
	return t.
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(treeBranchStyle).
		RootStyle(treeRootStyle).
		String()
}

func buildTree[V any](t *tree.Tree, m *nested.Map[string, V]) *tree.Tree {
	for k, n := range m.All() {
		if v, ok := n.Leaf(); ok {
			t.Child(fmt.Sprintf("%s = %s", k, FormatValue(v)))
			continue
		}
		child, _ := n.Map()
		t.Child(buildTree(tree.Root(k), child))
	}
	return t
}
