// Package ui contains the Bubble Tea program that hosts a git popup.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function.
//   - Key presses are fed to the popup keymap. A completed binding is
//     dispatched through the internal/ui/command bus on its own goroutine,
//     because popup operations may block while the user answers a prompt.
//   - The popup talks back through a Bridge. Redraws arrive as laid out lines,
//     prompts arrive as requests carrying a reply channel, and notifications
//     arrive as notices shown below the popup.
//
// State ownership:
//   - The popup owns its display tree; the model only holds the lines laid out
//     from it by the dispatching goroutine.
//   - Selection prompts use internal/ui/state.Level for filtering and cursor
//     movement; text prompts use a bubbles textinput.
package ui
