package keys

import "testing"

// TestKeyStringValues verifies that all key constants produce the expected
// string representations. This acts as a safety net if Bubble Tea ever changes
// its key string format.
func TestKeyStringValues(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		// Navigation
		{"Home", Home, "home"},
		{"End", End, "end"},
		{"PgUp", PgUp, "pgup"},
		{"PgDown", PgDown, "pgdown"},

		// Actions
		{"Enter", Enter, "enter"},
		{"ShiftEnter", ShiftEnter, "shift+enter"},
		{"AltEnter", AltEnter, "alt+enter"},
		{"Escape", Escape, "esc"},

		// Ctrl combos
		{"CtrlC", CtrlC, "ctrl+c"},
		{"CtrlD", CtrlD, "ctrl+d"},
		{"CtrlE", CtrlE, "ctrl+e"},
		{"CtrlH", CtrlH, "ctrl+h"},
		{"CtrlL", CtrlL, "ctrl+l"},
		{"CtrlP", CtrlP, "ctrl+p"},
		{"CtrlR", CtrlR, "ctrl+r"},
		{"CtrlS", CtrlS, "ctrl+s"},
		{"CtrlV", CtrlV, "ctrl+v"},
		{"CtrlX", CtrlX, "ctrl+x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("keys.%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestComposeBindingsAreDistinct(t *testing.T) {
	bindings := map[string]string{
		"Send":        Send,
		"Newline":     Newline,
		"RecordTap":   RecordTap,
		"RecordHold":  RecordHold,
		"RecordLock":  RecordLock,
		"StopRecord":  StopRecord,
		"DeleteAudio": DeleteAudio,
		"PlayPause":   PlayPause,
		"PasteImage":  PasteImage,
		"RemoveMedia": RemoveMedia,
		"Reply":       Reply,
		"Cancel":      Cancel,
		"Quit":        Quit,
	}
	seen := make(map[string]string)
	for name, key := range bindings {
		if other, ok := seen[key]; ok {
			t.Errorf("%s and %s are both bound to %q", name, other, key)
		}
		seen[key] = name
	}
}
