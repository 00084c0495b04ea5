package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"corkboard-cli/internal/model"
	"corkboard-cli/internal/move"
)

const (
	colGap    = 2
	minColW   = 18
	maxColW   = 34
	layoutTop = 2 // title row + blank line
)

func cardHeight(c model.Card) int {
	lines := 1
	if c.Assignee != "" || len(c.LabelIDs) > 0 {
		lines++
	}
	return lines + 2 // border
}

// layout computes screen rects for columns and cards. View and the mouse
// handlers must agree on this geometry, so both go through here.
func (m *Model) layout() {
	m.colRects = m.colRects[:0]
	m.cardRects = m.cardRects[:0]
	n := len(m.board.Columns)
	if n == 0 {
		return
	}
	w := m.width
	if w <= 0 {
		w = 80
	}
	colW := clamp((w-colGap*(n-1))/n, minColW, maxColW)
	for i, col := range m.board.Columns {
		x := i * (colW + colGap)
		m.colRects = append(m.colRects, move.Rect{X: x, Y: layoutTop, W: colW, H: m.height - layoutTop - 1})
		rects := make([]move.Rect, 0, len(col.Cards))
		y := layoutTop + 1
		for _, c := range col.Cards {
			h := cardHeight(c)
			rects = append(rects, move.Rect{X: x, Y: y, W: colW, H: h})
			y += h
		}
		m.cardRects = append(m.cardRects, rects)
	}
}

func (m *Model) View() string {
	switch m.mode {
	case modeDetail:
		return m.viewDetail()
	case modePrompt:
		return m.viewBoard() + "\n" + m.viewPrompt()
	case modeConfirm:
		return m.viewBoard() + "\n" + m.viewConfirm()
	default:
		return m.viewBoard() + "\n" + m.viewHelp()
	}
}

func (m *Model) viewBoard() string {
	m.layout()

	title := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Render(m.board.Name)
	if m.board.Name == "" {
		title = styleMuted().Render("(untitled board)")
	}
	head := title
	if m.busy {
		head += " " + m.spin.View()
	}
	if m.status != "" {
		st := styleMuted()
		if m.isErr {
			st = styleError()
		}
		head += "  " + st.Render(ansi.Truncate(m.status, max(0, m.width-lipgloss.Width(head)-2), "…"))
	}

	if len(m.board.Columns) == 0 {
		return head + "\n\n" + styleMuted().Render("No columns yet. Press A to add one.")
	}

	cols := make([]string, len(m.board.Columns))
	for i := range m.board.Columns {
		cols[i] = m.viewColumn(i)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, interleave(cols, strings.Repeat(" ", colGap))...)
	return head + "\n\n" + body
}

func (m *Model) viewColumn(i int) string {
	col := m.board.Columns[i]
	w := m.colRects[i].W

	headStyle := lipgloss.NewStyle().Bold(true).Width(w).Foreground(colorSurfaceFg)
	if i == m.colIdx {
		headStyle = headStyle.Foreground(colorAccent)
	}
	count := styleMuted().Render(fmt.Sprintf(" %d", len(col.Cards)))
	header := headStyle.Render(ansi.Truncate(col.Title, w-lipgloss.Width(count)-1, "…") + count)

	parts := []string{header}
	for j := range col.Cards {
		parts = append(parts, m.viewCard(i, j, w))
	}
	if len(col.Cards) == 0 {
		parts = append(parts, styleMuted().Render("  (empty)"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) viewCard(i, j, w int) string {
	c := m.board.Columns[i].Cards[j]

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder).
		Width(w - 2)
	if i == m.colIdx && j == m.cardIdx {
		border = border.BorderForeground(colorSelectedBorder)
	}

	title := ansi.Truncate(c.Title, w-4, "…")
	if c.IsCompleted {
		title = lipgloss.NewStyle().Foreground(colorCompletedFg).Render("✓ " + ansi.Truncate(c.Title, w-6, "…"))
	}

	lines := []string{title}
	if meta := m.cardMeta(c, w-4); meta != "" {
		lines = append(lines, meta)
	}
	return border.Render(strings.Join(lines, "\n"))
}

func (m *Model) cardMeta(c model.Card, w int) string {
	var parts []string
	for _, id := range c.LabelIDs {
		if l := m.board.FindLabel(id); l != nil {
			parts = append(parts, labelSwatch(l.Color))
		}
	}
	if c.Assignee != "" {
		parts = append(parts, styleMuted().Render("@"+c.Assignee))
	}
	if len(parts) == 0 {
		return ""
	}
	return ansi.Truncate(strings.Join(parts, " "), w, "…")
}

func (m *Model) viewPrompt() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1)
	title := lipgloss.NewStyle().Bold(true).Render(m.prompt.title)
	hint := styleMuted().Render("enter: save  esc: cancel")
	return box.Render(title + "\n" + m.prompt.input.View() + "\n" + hint)
}

func (m *Model) viewConfirm() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorErrorFg).
		Padding(0, 1)
	hint := styleMuted().Render("y: confirm  n: cancel")
	return box.Render(m.confirm.message + "\n" + hint)
}

func (m *Model) viewDetail() string {
	card, ok := m.detailCard()
	if !ok {
		return styleMuted().Render("Card no longer exists. Press esc.")
	}
	w := m.width
	if w <= 0 {
		w = 80
	}
	w = min(w, 100)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Render(card.Title)
	if card.IsCompleted {
		title += "  " + lipgloss.NewStyle().Foreground(colorCompletedFg).Render("✓ done")
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	if card.Assignee != "" {
		b.WriteString(styleMuted().Render("assigned to @"+card.Assignee) + "\n")
	}
	if meta := m.cardMeta(card, w); meta != "" {
		b.WriteString(meta + "\n")
	}
	b.WriteString("\n")
	if card.Description != "" {
		b.WriteString(renderMarkdown(card.Description, w-2) + "\n\n")
	}

	b.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Comments (%d)", len(m.detail.comments))) + "\n")
	for _, c := range m.detail.comments {
		author := c.Author
		if author == "" {
			author = "anonymous"
		}
		b.WriteString(styleMuted().Render("• "+author) + "\n")
		b.WriteString(renderMarkdown(c.Content, w-4) + "\n")
	}

	hint := styleMuted().Render("c: comment  e: edit title  x: toggle done  esc: back")
	content := b.String()

	// Plain line scrolling; comments can outgrow the screen.
	lines := strings.Split(content, "\n")
	maxScroll := max(0, len(lines)-(m.height-2))
	scroll := clamp(m.detail.scroll, 0, maxScroll)
	if scroll > 0 {
		lines = lines[scroll:]
	}
	if m.height > 2 && len(lines) > m.height-2 {
		lines = lines[:m.height-2]
	}
	return strings.Join(lines, "\n") + "\n" + hint
}

func (m *Model) viewHelp() string {
	return styleMuted().Render("hjkl: navigate  J/K/H/L: move card  [ ]: move column  a: card  A: column  e: edit  d: delete  enter: open  q: quit")
}

func interleave(items []string, sep string) []string {
	out := make([]string, 0, len(items)*2)
	for i, it := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, it)
	}
	return out
}
