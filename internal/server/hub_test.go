package server

import (
	"testing"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

func TestHub_SlowSubscriberKeepsNewest(t *testing.T) {
	h := NewHub(nil)
	ch, unsubscribe := h.subscribe("ws-1")

	for i := range subscriberBuffer + 3 {
		h.Publish(worksheet.Worksheet{ID: "ws-1", Title: string(rune('a' + i))})
	}
	h.Publish(worksheet.Worksheet{ID: "other"})

	var last worksheet.Worksheet
	n := 0
	for len(ch) > 0 {
		last = <-ch
		n++
	}
	if n != subscriberBuffer {
		t.Errorf("buffered %d snapshots, want %d", n, subscriberBuffer)
	}
	if want := string(rune('a' + subscriberBuffer + 2)); last.Title != want {
		t.Errorf("last snapshot = %q, want %q", last.Title, want)
	}

	unsubscribe()
	if got := h.Subscribers("ws-1"); got != 0 {
		t.Errorf("Subscribers() = %d after unsubscribe", got)
	}
	h.Publish(worksheet.Worksheet{ID: "ws-1"})
}
