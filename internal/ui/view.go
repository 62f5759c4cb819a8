package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/statebox/internal/demo"
)

// renderMain renders header, pane grid and footer.
func (m Model) renderMain() string {
	sections := []string{m.renderHeader(), m.renderPanes(), m.renderFooter()}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	snap := m.store.Snapshot()

	parts := []string{
		styles.AccentText.Render("statebox"),
		styles.MutedText.Render(fmt.Sprintf("v%d", snap.Version)),
		styles.FaintText.Render(shortID(snap.StoreID.String())),
		styles.MutedText.Render(fmt.Sprintf("%d subscribers", m.store.Subscribers())),
		styles.FaintText.Render(m.theme.Name),
	}
	return styles.Header.Width(m.viewWidth()).Render(strings.Join(parts, "  "))
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.inputMode {
		return styles.Footer.Render(m.input.View())
	}

	var parts []string
	if err := m.panes.lastErr; err != nil {
		parts = append(parts, styles.DangerText.Render(err.Error()))
	} else if m.status != "" {
		parts = append(parts, styles.Text.Render(m.status))
	}
	parts = append(parts, styles.FaintText.Render("+/- count  h history  a todo  x done  tab focus  ? help  q quit"))
	return styles.Footer.Render(strings.Join(parts, "  "))
}

// renderPanes lays panes out in two columns, or one on narrow terminals.
func (m Model) renderPanes() string {
	width := m.viewWidth()
	columns := 2
	if m.ready && width < LayoutCompactWidth {
		columns = 1
	}
	// Border adds two columns on each box.
	inner := width/columns - 2
	if inner < 10 {
		inner = 10
	}

	boxes := make([]string, 0, len(paneOrder))
	for _, name := range paneOrder {
		boxes = append(boxes, m.renderPane(name, inner))
	}

	if columns == 1 {
		return lipgloss.JoinVertical(lipgloss.Left, boxes...)
	}
	rows := make([]string, 0, (len(boxes)+1)/2)
	for i := 0; i < len(boxes); i += 2 {
		if i+1 < len(boxes) {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes[i], boxes[i+1]))
		} else {
			rows = append(rows, boxes[i])
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderPane(name string, width int) string {
	styles := m.theme.Styles()
	box := styles.Pane
	if m.panes.isFresh(name) {
		box = styles.PaneFresh
	}

	renders := m.panes.refreshes()[name] + 1
	title := styles.AccentText.Render(paneTitle(name, m.panes.focusKey)) +
		"  " + styles.FaintText.Render(fmt.Sprintf("renders %d", renders))

	body := m.paneBody(name, styles)
	return box.Width(width).Render(title + "\n" + body)
}

func (m Model) paneBody(name string, styles Styles) string {
	p := m.panes
	switch name {
	case paneCounter:
		return styles.Text.Render(fmt.Sprintf("count = %d", demo.Int(p.counter.Value())))
	case paneHistory:
		return renderList(styles, demo.Strings(p.history.Value()), "no history")
	case paneActive:
		return renderList(styles, p.active.Value(), "nothing open")
	case paneParity:
		if p.parity.Value() {
			return styles.SuccessText.Render("even")
		}
		return styles.WarningText.Render("odd")
	case paneFocus:
		return styles.Text.Render(formatValue(p.focus.Value()))
	case paneTicks:
		return styles.MutedText.Render(fmt.Sprintf("ticks = %d", demo.Int(p.ticks.Value())))
	}
	return ""
}

func paneTitle(name, focusKey string) string {
	switch name {
	case paneCounter:
		return "Counter"
	case paneHistory:
		return "History"
	case paneActive:
		return "Active todos"
	case paneParity:
		return "Parity"
	case paneFocus:
		return "Focus: " + focusKey
	case paneTicks:
		return "Ticks"
	}
	return name
}

// renderList shows the last MaxListLines entries.
func renderList(styles Styles, items []string, empty string) string {
	if len(items) == 0 {
		return styles.FaintText.Render(empty)
	}
	hidden := 0
	if len(items) > MaxListLines {
		hidden = len(items) - MaxListLines
		items = items[hidden:]
	}
	lines := make([]string, 0, len(items)+1)
	if hidden > 0 {
		lines = append(lines, styles.FaintText.Render(fmt.Sprintf("… %d more", hidden)))
	}
	for _, item := range items {
		lines = append(lines, styles.Text.Render("• "+item))
	}
	return strings.Join(lines, "\n")
}

// formatValue renders an arbitrary document entry on one line.
func formatValue(raw any) string {
	switch v := raw.(type) {
	case nil:
		return "(unset)"
	case []any:
		if len(v) == 0 {
			return "(empty)"
		}
		if todos := demo.TodoList(v); isTodoList(v) {
			open := 0
			for _, t := range todos {
				if !t.Done {
					open++
				}
			}
			return fmt.Sprintf("%d todos, %d open", len(todos), open)
		}
		return truncate(strings.Join(demo.Strings(v), ", "), 60)
	default:
		return truncate(fmt.Sprint(v), 60)
	}
}

func isTodoList(entries []any) bool {
	_, ok := entries[0].(map[string]any)
	return ok
}

func (m Model) viewWidth() int {
	if m.width > 0 {
		return m.width
	}
	return DefaultPaneWidth*2 + 4
}
