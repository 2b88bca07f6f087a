package notify

import (
	"testing"
	"time"
)

func TestKindDurations(t *testing.T) {
	cases := map[Kind]time.Duration{
		KindSuccess: 3 * time.Second,
		KindError:   4 * time.Second,
		KindWarning: 3 * time.Second,
		KindInfo:    2 * time.Second,
		KindLoading: 0,
	}
	for kind, want := range cases {
		if got := kind.Duration(); got != want {
			t.Fatalf("%s: expected %s, got %s", kind, want, got)
		}
	}
	if !(Notification{Kind: KindLoading}).Sticky() {
		t.Fatalf("expected loading to be sticky")
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	if _, ok := r.Last(); ok {
		t.Fatalf("expected no notification")
	}
	r.Notify(Notification{Kind: KindInfo, Text: "a"})
	r.Notify(Notification{Kind: KindError, Text: "b"})
	last, ok := r.Last()
	if !ok || last.Text != "b" || last.Kind != KindError {
		t.Fatalf("unexpected last notification: %+v", last)
	}
}
