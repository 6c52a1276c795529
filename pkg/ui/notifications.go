package ui

import (
	"fmt"
	"os/exec"
	"runtime"
)

// NotificationSender interface for platform-specific notification implementations
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", title, message).Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	return exec.Command("osascript", "-e", script).Run()
}

// Notifier sends a desktop notification when a post is published. Printing
// to the terminal is left to the caller.
type Notifier struct {
	sender NotificationSender
}

// NewNotifier creates a Notifier for the current platform. On platforms
// without a sender it does nothing.
func NewNotifier() *Notifier {
	var sender NotificationSender

	switch runtime.GOOS {
	case "linux":
		sender = &LinuxNotificationSender{}
	case "darwin":
		sender = &MacOSNotificationSender{}
	}

	return &Notifier{sender: sender}
}

// NewNotifierWithSender creates a Notifier using sender
func NewNotifierWithSender(sender NotificationSender) *Notifier {
	return &Notifier{sender: sender}
}

// Notify sends title and message. Failures are returned so the caller can
// decide whether to log them.
func (n *Notifier) Notify(title, message string) error {
	if n == nil || n.sender == nil {
		return nil
	}
	return n.sender.Send(title, message)
}
