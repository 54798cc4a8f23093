package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/git-popup/internal/render"
)

const (
	cursorIndicator = "▌"
	promptListRows  = 8
)

// View implements tea.Model.
func (m *Model) View() string {
	top := make([]string, 0, len(m.lines)+2)
	if title := strings.TrimSpace(m.buffer.Title); title != "" {
		top = append(top, paint(styles.Header, title))
	}
	m.syncViewport()
	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		top = append(top, m.renderLine(i, m.lines[i]))
	}
	if len(m.lines) == 0 {
		top = append(top, paint(styles.Info, "loading…"))
	}

	bottom := m.bottomLines()
	height := m.height
	if height > 0 {
		height -= len(bottom)
	}
	top = limitHeight(top, height, m.width)
	return strings.Join(applyWidth(append(top, bottom...), m.width), "\n")
}

func (m *Model) renderLine(idx int, line render.Line) string {
	indicator := paint(styles.ItemIndicator, " ")
	if idx == m.cursor && m.prompt == nil {
		indicator = paint(styles.SelectedItemIndicator, cursorIndicator)
	}
	var b strings.Builder
	b.WriteString(indicator)
	for _, span := range line.Spans {
		b.WriteString(paint(styles.Token(span.Highlight), span.Text))
	}
	return b.String()
}

// bottomLines renders the area below the popup: the active prompt, pending
// keys, the latest notice and the footer.
func (m *Model) bottomLines() []string {
	var lines []string
	if m.prompt != nil {
		lines = append(lines, "")
		lines = append(lines, m.promptLines()...)
	}
	if km := m.buffer.Keymap; km != nil && km.Pending() != "" && m.prompt == nil {
		lines = append(lines, "", paint(styles.Pending, km.Pending()+"-"))
	}
	if n := m.currentNotice(); n.text != "" {
		lines = append(lines, "", m.renderNotice(n))
	}
	if m.showFooter {
		lines = append(lines, "", paint(styles.Footer, footerHint()))
	}
	return lines
}

func (m *Model) renderNotice(n notice) string {
	switch n.level {
	case noticeError:
		return paint(styles.Error, "Error: "+n.text)
	case noticeWarn:
		return paint(styles.Warning, n.text)
	default:
		return paint(styles.Info, n.text)
	}
}

func (m *Model) promptLines() []string {
	p := m.prompt
	label := paint(styles.FilterPrompt, p.label)
	switch p.kind {
	case promptConfirm:
		return []string{label + " " + paint(styles.FilterPlaceholder, "(y or n)")}
	case promptSelect:
		level := p.choices
		lines := []string{label + " " + paint(styles.FilterPrompt, "» ") + paint(styles.Filter, level.Filter)}
		if len(level.Items) == 0 {
			return append(lines, paint(styles.Info, fmt.Sprintf("No matches for %q", level.Filter)))
		}
		current, _ := level.Current()
		for _, item := range level.Visible(promptListRows) {
			if item.ID == current.ID {
				lines = append(lines, paint(styles.SelectedItemIndicator, cursorIndicator)+paint(styles.SelectedItem, " "+item.Label))
				continue
			}
			lines = append(lines, paint(styles.ItemIndicator, " ")+paint(styles.Item, " "+item.Label))
		}
		return lines
	default:
		return []string{label + " " + paint(styles.FilterPrompt, "» ") + p.input.View()}
	}
}

func paint(style *lipgloss.Style, text string) string {
	if style == nil || text == "" {
		return text
	}
	return style.Render(text)
}

func limitHeight(lines []string, height, width int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []string{truncateText("…", width)}
	}
	trimmed := make([]string, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	return append(trimmed, truncateText("…", width))
}

// applyWidth truncates styled lines to width cells without breaking escape
// sequences.
func applyWidth(lines []string, width int) []string {
	if width <= 0 {
		return lines
	}
	result := make([]string, len(lines))
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			line = truncate.StringWithTail(line, uint(width-1), "…")
		}
		result[i] = line
	}
	return result
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
