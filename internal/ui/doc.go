// Package ui provides the terminal components of the chatkit host.
//
// # Layout
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line)                                     │
//	├─────────────────────────────────────────────────────┤
//	│                                                     │
//	│   MessageList (day sections, grouped rows)          │
//	│                                                     │
//	├─────────────────────────────────────────────────────┤
//	│ InputBar (status line + textarea)                   │
//	├─────────────────────────────────────────────────────┤
//	│ Footer (1 line)                                     │
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// ViewContext: singleton holding layout calculations.
//
// Header: title, conversation name and the input state.
//
// MessageList: a viewport rendering sections newest day last, as a
// terminal reads top to bottom. It reports the oldest visible row after
// every scroll so the pagination pipeline can request history.
//
// InputBar: textarea plus a status line that reflects the input state:
// picked media, the live recording waveform, playback progress, the reply
// target and the permission prompt.
//
// Footer: key bindings for the current input state, or a flash message.
//
// # Styles
//
// Styles live in styles.go and are rebuilt from the active Theme
// (theme.go) by SetTheme.
package ui
