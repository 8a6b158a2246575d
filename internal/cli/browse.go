package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vivify/pkg/nested"
	"github.com/matzehuels/vivify/pkg/nestio"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command, an interactive tree browser
// over a built mapping.
func (c *CLI) browseCommand() *cobra.Command {
	var in mapOpts

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Explore a nested map interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyDefaults(&in, nil)
			m, name, err := readMap(cmd, args, in)
			if err != nil {
				return err
			}
			p := tea.NewProgram(
				NewBrowseModel(m, name, in.pathSep),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			_, err = p.Run()
			return err
		},
	}

	in.register(cmd)
	return cmd
}

// =============================================================================
// BrowseModel - Interactive nested map browser
// =============================================================================

// browseLevel is one open map in the browser, with its own cursor.
type browseLevel struct {
	key    string
	m      *nested.Map[string, any]
	keys   []string
	cursor int
	offset int
}

func newBrowseLevel(key string, m *nested.Map[string, any]) browseLevel {
	return browseLevel{key: key, m: m, keys: m.Keys()}
}

// scroll moves offset so the cursor is inside a window of height rows.
func (l *browseLevel) scroll(height int) {
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+height {
		l.offset = l.cursor - height + 1
	}
	l.offset = max(min(l.offset, len(l.keys)-height), 0)
}

// BrowseModel is the bubbletea model for exploring a nested map. Enter or
// right descends into the selected map; backspace or left returns to the
// parent.
type BrowseModel struct {
	Root   string
	Sep    string
	Height int

	stack []browseLevel
}

// NewBrowseModel creates a browser positioned at the top of m.
func NewBrowseModel(m *nested.Map[string, any], root, sep string) BrowseModel {
	if sep == "" {
		sep = nestio.DefaultSeparator
	}
	return BrowseModel{
		Root:   root,
		Sep:    sep,
		Height: 15,
		stack:  []browseLevel{newBrowseLevel("", m)},
	}
}

// Path returns the keys from the root to the map being shown.
func (m BrowseModel) Path() []string {
	path := make([]string, 0, len(m.stack)-1)
	for _, lvl := range m.stack[1:] {
		path = append(path, lvl.key)
	}
	return path
}

// Selected returns the key under the cursor, or false for an empty map.
func (m BrowseModel) Selected() (string, bool) {
	lvl := m.stack[len(m.stack)-1]
	if len(lvl.keys) == 0 {
		return "", false
	}
	return lvl.keys[lvl.cursor], true
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Earlier models keep their own cursors.
		m.stack = slices.Clone(m.stack)
		lvl := &m.stack[len(m.stack)-1]

		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if lvl.cursor > 0 {
				lvl.cursor--
				lvl.scroll(m.Height)
			}
		case "down", "j":
			if lvl.cursor < len(lvl.keys)-1 {
				lvl.cursor++
				lvl.scroll(m.Height)
			}
		case "enter", "right", "l":
			key, ok := m.Selected()
			if !ok {
				return m, nil
			}
			n, _ := lvl.m.Peek(key)
			if child, isMap := n.Map(); isMap {
				m.stack = append(m.stack, newBrowseLevel(key, child))
			}
		case "backspace", "left", "h":
			if len(m.stack) > 1 {
				m.stack = m.stack[:len(m.stack)-1]
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
		m.stack = slices.Clone(m.stack)
		for i := range m.stack {
			m.stack[i].scroll(m.Height)
		}
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder
	lvl := m.stack[len(m.stack)-1]

	title := m.Root
	if path := m.Path(); len(path) > 0 {
		title += " " + iconArrow + " " + strings.Join(path, m.Sep)
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  ⌫ back  q quit"))
	b.WriteString("\n\n")

	if len(lvl.keys) == 0 {
		b.WriteString(listDimStyle.Render("  (empty)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(lvl.offset+m.Height, len(lvl.keys))
	for i := lvl.offset; i < end; i++ {
		key := lvl.keys[i]
		n, _ := lvl.m.Peek(key)

		cursor := "  "
		if i == lvl.cursor {
			cursor = "> "
		}

		var line string
		if child, isMap := n.Map(); isMap {
			line = fmt.Sprintf("%s%s %s %s", cursor, iconBranch, StyleHighlight.Render(key),
				listDimStyle.Render(fmt.Sprintf("(%d)", child.Len())))
		} else {
			line = fmt.Sprintf("%s  %s = %s", cursor, key, StyleValue.Render(nestio.FormatValue(n.Value())))
		}

		if i == lvl.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", lvl.cursor+1, len(lvl.keys))))
	return b.String()
}
