package tui

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/evanschultz/kanban/internal/board"
)

// editCaret marks the end of the text being edited.
const editCaret = "_"

// columnOverhead is border (2), horizontal padding (2) and right margin (1).
const columnOverhead = 5

// palette groups the colors shared by every render helper.
type palette struct {
	accent color.Color
	text   color.Color
	muted  color.Color
	dim    color.Color
}

func defaultPalette() palette {
	return palette{
		accent: lipgloss.Color("203"),
		text:   lipgloss.Color("252"),
		muted:  lipgloss.Color("241"),
		dim:    lipgloss.Color("239"),
	}
}

// View handles view.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render builds the full screen as a string.
func (m Model) render() string {
	snap := m.board.Snapshot()
	p := defaultPalette()
	statusStyle := lipgloss.NewStyle().Foreground(p.dim)

	header := lipgloss.NewStyle().Bold(true).Foreground(p.text).Render("kanban") + "  " + m.boardName
	header += statusStyle.Render(fmt.Sprintf("  %d lists • %d cards", len(snap.Lists), snap.CardCount()))

	preview := ""
	if m.showPreview {
		preview = m.renderPreview(p)
	}

	footer := []string{m.renderModeLine(snap, p)}
	footer = append(footer, m.renderHelpLine(snap, p))
	footerText := strings.Join(footer, "\n")

	cardRows := 0
	if m.height > 0 {
		reserved := lipgloss.Height(header) + 1 + lipgloss.Height(footerText)
		if preview != "" {
			reserved += lipgloss.Height(preview)
		}
		// title line plus top and bottom border
		cardRows = max(1, m.height-reserved-3)
	}

	sections := []string{header, "", m.renderColumns(snap, p, cardRows)}
	if preview != "" {
		sections = append(sections, preview)
	}
	content := strings.Join(sections, "\n")
	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(footerText)))
	}
	full := content + "\n" + footerText

	if m.help.ShowAll {
		height := lipgloss.Height(full)
		if m.height > 0 {
			height = m.height
		}
		full = overlayOnContent(full, m.renderHelpOverlay(p, m.width-8), max(1, m.width), max(1, height))
	}
	return full
}

// renderColumns lays out the visible lists side by side. cardRows limits the
// card lines per column; zero shows every card.
func (m Model) renderColumns(snap board.Snapshot, p palette, cardRows int) string {
	if len(snap.Lists) == 0 {
		return ""
	}
	visible := len(snap.Lists)
	if m.width > 0 {
		visible = max(1, m.width/(m.columnWidth+columnOverhead))
	}
	start, end := windowBounds(len(snap.Lists), snap.Cursor.Col, visible)

	base := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.dim).
		Padding(0, 1).
		MarginRight(1).
		Width(m.columnWidth + 4)
	selected := base.BorderForeground(p.accent)

	views := make([]string, 0, end-start)
	for col := start; col < end; col++ {
		content := m.renderColumn(snap, p, col, cardRows)
		if col == snap.Cursor.Col {
			views = append(views, selected.Render(content))
			continue
		}
		views = append(views, base.Render(content))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

// renderColumn renders the title line and card lines of one list.
func (m Model) renderColumn(snap board.Snapshot, p palette, col, cardRows int) string {
	list := snap.Lists[col]
	width := m.columnWidth
	isCurrent := col == snap.Cursor.Col

	titleColor := p.text
	if isCurrent {
		titleColor = p.accent
	}
	live, editing := m.board.EditText()
	name := list.Name
	if isCurrent && editing && snap.Mode == board.ModeListEdit {
		name = truncateLeft(live+editCaret, max(1, width-8))
	}
	count := strconv.Itoa(len(list.Cards))
	left := truncate(strconv.Itoa(col)+" "+name, max(1, width-len(count)-1))
	gap := max(1, width-lipgloss.Width(left)-len(count))
	title := lipgloss.NewStyle().Bold(true).Foreground(titleColor).Render(left + strings.Repeat(" ", gap) + count)

	lines := []string{title}
	if len(list.Cards) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(p.muted).Render("(empty)"))
		return fitColumn(lines, cardRows)
	}

	selectedRow := 0
	if isCurrent {
		selectedRow = snap.Cursor.Row
	}
	first, last := 0, len(list.Cards)
	if cardRows > 0 {
		first, last = windowBounds(len(list.Cards), selectedRow, cardRows)
	}
	cardStyle := lipgloss.NewStyle().Foreground(p.text)
	selectedStyle := lipgloss.NewStyle().Foreground(p.accent).Bold(true)
	for row := first; row < last; row++ {
		text := list.Cards[row]
		if !snap.Selected(col, row) {
			lines = append(lines, cardStyle.Render("  "+truncate(firstLine(text), width-2)))
			continue
		}
		if editing && snap.Mode == board.ModeCardEdit {
			text = truncateLeft(live+editCaret, width-2)
		} else {
			text = truncate(firstLine(text), width-2)
		}
		lines = append(lines, selectedStyle.Render("│ "+text))
	}
	return fitColumn(lines, cardRows)
}

// fitColumn pads lines to the title plus cardRows when a height is known.
func fitColumn(lines []string, cardRows int) string {
	content := strings.Join(lines, "\n")
	if cardRows <= 0 {
		return content
	}
	return fitLines(content, cardRows+1)
}

// renderPreview renders the selected card as markdown.
func (m Model) renderPreview(p palette) string {
	width := m.width - 4
	if width <= 0 {
		width = m.columnWidth * 2
	}
	body := lipgloss.NewStyle().Foreground(p.muted).Render("(no card selected)")
	if card, ok := m.board.CurrentCard(); ok {
		if rendered := m.preview.render(card, width-2); rendered != "" {
			body = rendered
		}
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(p.accent).Render("Preview")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.dim).
		Padding(0, 1).
		Width(width).
		Render(title + "\n" + body)
}

// renderModeLine shows the mode name with the latest status.
func (m Model) renderModeLine(snap board.Snapshot, p palette) string {
	modeStyle := lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	line := modeStyle.Render("[" + snap.Mode.String() + "]")
	if m.status != "" && m.status != "ready" {
		line += lipgloss.NewStyle().Foreground(p.dim).Render("  " + m.status)
	}
	return line
}

// renderHelpLine renders the short help for the active mode.
func (m Model) renderHelpLine(snap board.Snapshot, p palette) string {
	h := m.help
	h.ShowAll = false
	h.SetWidth(max(0, m.width-2))
	var text string
	if snap.Mode.Editing() {
		text = h.View(m.editKeys)
	} else {
		text = h.View(m.keys)
	}
	return lipgloss.NewStyle().
		Foreground(p.muted).
		BorderTop(true).
		BorderForeground(p.dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(text)
}

// renderHelpOverlay renders the full key reference.
func (m Model) renderHelpOverlay(p palette, maxWidth int) string {
	width := clamp(maxWidth, 48, 96)
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(width - 4)

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(p.accent).Render("Kanban Help"),
		"",
		hb.View(m.keys),
		"",
		lipgloss.NewStyle().Foreground(p.muted).Render("while editing: enter confirm • esc cancel • backspace delete"),
		lipgloss.NewStyle().Foreground(p.muted).Render("press " + m.keys.toggleHelp.Help().Key + " or esc to close"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.dim).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// windowBounds returns an inclusive-exclusive window that keeps selected visible.
func windowBounds(total, selected, windowSize int) (int, int) {
	if total <= 0 || windowSize <= 0 {
		return 0, 0
	}
	if total <= windowSize {
		return 0, total
	}
	selected = clamp(selected, 0, total-1)
	start := max(0, selected-windowSize/2)
	end := start + windowSize
	if end > total {
		end = total
		start = max(0, end-windowSize)
	}
	return start, end
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	return min(max(v, minV), maxV)
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		lines = append(lines, make([]string, maxLines-len(lines))...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay above base on a layered canvas.
func overlayOnContent(base, overlay string, width, height int) string {
	if strings.TrimSpace(overlay) == "" {
		return base
	}
	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	centered := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
	canvas.Compose(lipgloss.NewLayer(base).X(0).Y(0).Z(0))
	canvas.Compose(lipgloss.NewLayer(centered).X(0).Y(0).Z(10))
	return canvas.Render()
}

// truncate keeps the head of s within limit terminal cells.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	w := xansi.StringWidth(s)
	if w <= limit {
		return s
	}
	if limit == 1 {
		return xansi.Cut(s, 0, 1)
	}
	return xansi.Cut(s, 0, limit-1) + "…"
}

// truncateLeft keeps the tail of s within limit cells so a trailing caret
// stays visible.
func truncateLeft(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	w := xansi.StringWidth(s)
	if w <= limit {
		return s
	}
	if limit == 1 {
		return xansi.Cut(s, w-1, w)
	}
	return "…" + xansi.Cut(s, w-limit+1, w)
}

// firstLine returns the text before the first newline.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx] + " …"
	}
	return s
}
