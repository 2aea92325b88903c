package testutil

// Notification is one message recorded by RecordingNotifier.
type Notification struct {
	Kind    string // "success" or "error"
	Message string
}

// RecordingNotifier implements workflow.Notifier by remembering every message.
type RecordingNotifier struct {
	Notifications []Notification
}

// Success implements workflow.Notifier.
func (n *RecordingNotifier) Success(message string) {
	n.Notifications = append(n.Notifications, Notification{Kind: "success", Message: message})
}

// Error implements workflow.Notifier.
func (n *RecordingNotifier) Error(message string) {
	n.Notifications = append(n.Notifications, Notification{Kind: "error", Message: message})
}

// Errors returns the recorded error messages.
func (n *RecordingNotifier) Errors() []string {
	return n.messages("error")
}

// Successes returns the recorded success messages.
func (n *RecordingNotifier) Successes() []string {
	return n.messages("success")
}

// Last returns the most recent notification, or the zero value.
func (n *RecordingNotifier) Last() Notification {
	if len(n.Notifications) == 0 {
		return Notification{}
	}
	return n.Notifications[len(n.Notifications)-1]
}

// Reset forgets recorded notifications.
func (n *RecordingNotifier) Reset() {
	n.Notifications = nil
}

func (n *RecordingNotifier) messages(kind string) []string {
	var result []string
	for _, notification := range n.Notifications {
		if notification.Kind == kind {
			result = append(result, notification.Message)
		}
	}
	return result
}
