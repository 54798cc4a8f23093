// Package state holds the filterable choice list behind selection prompts.
package state

// Item is one selectable choice.
type Item struct {
	ID    string
	Label string
}

// Level tracks the choices of a selection prompt along with its cursor,
// filter and viewport.
type Level struct {
	ID             string
	Title          string
	Items          []Item
	Full           []Item
	Filter         string
	FilterCursor   int
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewLevel constructs a level over choices. Each choice is both the ID and
// the label of its item.
func NewLevel(id, title string, choices []string) *Level {
	items := make([]Item, len(choices))
	for i, c := range choices {
		items[i] = Item{ID: c, Label: c}
	}
	l := &Level{ID: id, Title: title, LastCursor: -1}
	l.UpdateItems(items)
	l.Cursor = 0
	return l
}

// IndexOf returns the index of the visible item with the given id.
func (l *Level) IndexOf(id string) int {
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// UpdateItems replaces the choices and reapplies the filter.
func (l *Level) UpdateItems(items []Item) {
	l.Full = append([]Item(nil), items...)
	l.applyFilter()
}

// Current returns the item under the cursor.
func (l *Level) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}
