package ui

import (
	"strings"

	"github.com/atomicstack/git-popup/internal/logging/events"
	"github.com/atomicstack/git-popup/internal/render"
)

// interactive reports whether a line carries a component that <tab> acts on.
// Action rows are reached through their keys only.
func interactive(line render.Line) bool {
	for _, n := range line.Stack {
		if n.ID == "" {
			continue
		}
		switch n.Tag {
		case render.TagSwitch, render.TagOption, render.TagConfig:
			return true
		}
	}
	return false
}

// lineOf returns the first line rendering the component id.
func (m *Model) lineOf(id string) int {
	if id == "" {
		return -1
	}
	for i, line := range m.lines {
		for _, n := range line.Stack {
			if n.ID == id {
				return i
			}
		}
	}
	return -1
}

// nextInteractive returns the next interactive line after from in direction
// dir, wrapping around. It returns from when no line qualifies.
func (m *Model) nextInteractive(from, dir int) int {
	n := len(m.lines)
	if n == 0 {
		return 0
	}
	i := from
	for step := 0; step < n; step++ {
		i = ((i+dir)%n + n) % n
		if interactive(m.lines[i]) {
			return i
		}
	}
	if from < 0 {
		return 0
	}
	return from
}

func (m *Model) moveCursor(dir int) {
	next := m.nextInteractive(m.cursor, dir)
	if next == m.cursor {
		return
	}
	m.cursor = next
	m.syncViewport()
	events.UI.Cursor(m.buffer.Name, m.cursor)
}

// visibleRows returns how many popup lines fit between the title and the
// bottom area, or 0 when the height is unbounded.
func (m *Model) visibleRows() int {
	if m.height <= 0 {
		return 0
	}
	rows := m.height - len(m.bottomLines())
	if strings.TrimSpace(m.buffer.Title) != "" {
		rows--
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// syncViewport adjusts the viewport offset so the cursor line stays visible.
// On the first and last interactive lines it also reveals as much as fits of
// the lines before or after them, so headings and actions can be seen.
func (m *Model) syncViewport() {
	rows := m.visibleRows()
	total := len(m.lines)
	if rows <= 0 || total <= rows {
		m.offset = 0
		return
	}
	maxOffset := total - rows
	cursor := max(m.cursor, 0)
	if cursor < m.offset {
		m.offset = cursor
	}
	if cursor > m.offset+rows-1 {
		m.offset = cursor - rows + 1
	}
	if cursor == m.nextInteractive(total, -1) {
		m.offset = min(cursor, maxOffset)
	}
	if cursor == m.nextInteractive(-1, 1) {
		m.offset = max(cursor-rows+1, 0)
	}
	m.offset = min(max(m.offset, 0), maxOffset)
}

// visibleRange returns the slice of lines inside the viewport.
func (m *Model) visibleRange() (int, int) {
	rows := m.visibleRows()
	if rows <= 0 || len(m.lines) <= rows {
		return 0, len(m.lines)
	}
	start := min(max(m.offset, 0), len(m.lines)-rows)
	return start, start + rows
}

// Cursor returns the line under the cursor.
func (m *Model) Cursor() int {
	return m.cursor
}
