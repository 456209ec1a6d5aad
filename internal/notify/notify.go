// Package notify bridges remediation events to chat platforms (Slack,
// Discord). Delivery is one-way: the bridge posts event cards and digests
// to a channel and never reads anything back.
package notify

import "context"

// Adapter is the interface platform-specific senders must satisfy.
type Adapter interface {
	// Send delivers a message to the platform.
	Send(ctx context.Context, msg Message) error

	// Close gracefully shuts down the adapter connection.
	Close() error
}

// Message is an outbound chat message.
type Message struct {
	ChannelID string  // target channel (empty uses the adapter default)
	Text      string  // plain text, used as fallback when Events is set
	Events    []Event // structured event attachments
}

// Event is a remediation event formatted for display in chat.
type Event struct {
	Title    string  // headline (e.g. "Critical pen FZ-0142 opened")
	Body     string  // detail text
	Severity string  // "info", "warning", "error", "success"
	Color    string  // sidebar color hint
	Fields   []Field // key-value metadata pairs
}

// Field is a key-value pair displayed in an event card.
type Field struct {
	Name  string
	Value string
	Short bool // hint: render side-by-side with another field
}

// Color constants for event severity.
const (
	ColorSuccess = "#36a64f"
	ColorInfo    = "#2196f3"
	ColorWarning = "#ff9800"
	ColorError   = "#e53935"
)

// SeverityColor maps a severity string to a sidebar color.
func SeverityColor(severity string) string {
	switch severity {
	case "success":
		return ColorSuccess
	case "info":
		return ColorInfo
	case "warning":
		return ColorWarning
	case "error":
		return ColorError
	default:
		return ColorInfo
	}
}
