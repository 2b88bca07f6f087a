// Package notify defines transient user notifications.
package notify

import "time"

// Kind classifies a notification.
type Kind int

// Notification kinds.
const (
	KindInfo Kind = iota
	KindSuccess
	KindWarning
	KindError
	KindLoading
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	case KindLoading:
		return "loading"
	default:
		return "info"
	}
}

// Duration is how long a notification of this kind stays visible.
// Loading notifications stay until replaced.
func (k Kind) Duration() time.Duration {
	switch k {
	case KindSuccess, KindWarning:
		return 3 * time.Second
	case KindError:
		return 4 * time.Second
	case KindLoading:
		return 0
	default:
		return 2 * time.Second
	}
}

// Notification is a short message shown to the user.
type Notification struct {
	Kind Kind
	Text string
}

// Sticky reports whether the notification has no timeout.
func (n Notification) Sticky() bool {
	return n.Kind.Duration() == 0
}

// Notifier receives notifications.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) {
	if f != nil {
		f(n)
	}
}

// Recorder collects notifications in order.
type Recorder struct {
	Items []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(n Notification) {
	r.Items = append(r.Items, n)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	if len(r.Items) == 0 {
		return Notification{}, false
	}
	return r.Items[len(r.Items)-1], true
}
