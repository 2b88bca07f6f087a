package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/quipe/internal/notify"
)

const notifierBuffer = 32

// Notifier forwards controller notifications into the Bubble Tea loop.
type Notifier struct {
	ch chan notify.Notification
}

// NewNotifier creates a buffered notifier.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan notify.Notification, notifierBuffer)}
}

// Notify implements notify.Notifier. It drops the notification when the
// buffer is full so a request never blocks on the UI.
func (n *Notifier) Notify(note notify.Notification) {
	select {
	case n.ch <- note:
	default:
	}
}

func (n *Notifier) wait() tea.Msg {
	return noteMsg(<-n.ch)
}
