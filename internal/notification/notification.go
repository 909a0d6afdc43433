// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"strings"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/rivo/uniseg"

	"github.com/zhubert/chatkit/internal/logger"
)

// AppName is the title used for every notification
const AppName = "chatkit"

// previewLength is the number of grapheme clusters of message text shown
const previewLength = 40

// Notifier matches beeep.Notify
type Notifier func(title, message string, icon any) error

var (
	mu     sync.Mutex
	notify Notifier = beeep.Notify
)

// SetNotifier replaces the notification backend, for tests
func SetNotifier(n Notifier) {
	mu.Lock()
	defer mu.Unlock()
	notify = n
}

// ResetNotifier restores beeep as the backend
func ResetNotifier() {
	SetNotifier(beeep.Notify)
}

// Send sends a desktop notification with the given title and message.
func Send(title, message string) error {
	log := logger.ComponentLogger("Notification")
	log.Debug("sending notification", "title", title, "message", message)

	mu.Lock()
	n := notify
	mu.Unlock()

	// Empty icon lets beeep pick the platform default
	err := n(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// SendFailed reports a message that could not be delivered. text is the
// draft text, shortened for the notification body.
func SendFailed(text string) error {
	msg := "Message not delivered"
	if preview := Preview(text); preview != "" {
		msg += ": " + preview
	}
	return Send(AppName, msg)
}

// Preview flattens text to one line and cuts it to a short prefix
func Preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if uniseg.GraphemeClusterCount(text) <= previewLength {
		return text
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(text)
	for i := 0; i < previewLength && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	return strings.TrimRight(b.String(), " ") + "…"
}
