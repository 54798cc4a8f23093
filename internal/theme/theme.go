package theme

import "github.com/charmbracelet/lipgloss"

// Highlight tokens attached to display nodes. The renderer resolves them to
// styles through Styles.Token.
const (
	SectionTitle   = "section-title"
	SwitchKey      = "switch-key"
	SwitchEnabled  = "switch-enabled"
	SwitchDisabled = "switch-disabled"
	OptionKey      = "option-key"
	OptionEnabled  = "option-enabled"
	OptionDisabled = "option-disabled"
	ConfigKey      = "config-key"
	ConfigEnabled  = "config-enabled"
	ConfigDisabled = "config-disabled"
	ActionKey      = "action-key"
	ActionDisabled = "action-disabled"
	EnvValue       = "env-value"
	Muted          = "muted"
)

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Item                  *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	SelectedItem          *lipgloss.Style
	Error                 *lipgloss.Style
	Warning               *lipgloss.Style
	Info                  *lipgloss.Style
	Header                *lipgloss.Style
	Footer                *lipgloss.Style
	Filter                *lipgloss.Style
	FilterPrompt          *lipgloss.Style
	FilterPlaceholder     *lipgloss.Style
	Cursor                *lipgloss.Style
	Pending               *lipgloss.Style

	tokens map[string]*lipgloss.Style
}

var defaultStyles = Styles{
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SelectedItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Background(lipgloss.Color("238")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Warning: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Blink(true),
	),
	Pending: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	tokens: map[string]*lipgloss.Style{
		SectionTitle:   ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Bold(true)),
		SwitchKey:      ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("176"))),
		SwitchEnabled:  ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)),
		SwitchDisabled: ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("243"))),
		OptionKey:      ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("176"))),
		OptionEnabled:  ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)),
		OptionDisabled: ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("243"))),
		ConfigKey:      ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("176"))),
		ConfigEnabled:  ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)),
		ConfigDisabled: ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("243"))),
		ActionKey:      ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("176")).Bold(true)),
		ActionDisabled: ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))),
		EnvValue:       ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true)),
		Muted:          ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))),
	},
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// Token resolves a highlight token. Unknown or empty tokens render unstyled.
func (s *Styles) Token(name string) *lipgloss.Style {
	if s == nil || name == "" {
		return nil
	}
	return s.tokens[name]
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
