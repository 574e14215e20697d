package events

import (
	"encoding/json"
	"testing"
)

func TestHubEmit(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	h.Emit("req-1", TypeLeadsScored, map[string]int{"scoredCount": 3})

	var e Event
	if err := json.Unmarshal([]byte(<-ch), &e); err != nil {
		t.Fatal(err)
	}
	if e.Type != TypeLeadsScored || e.Version != 1 || e.RequestID != "req-1" || string(e.Data) != `{"scoredCount":3}` {
		t.Fatalf("event = %+v", e)
	}
}

func TestHubDropsForSlowClients(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	for i := 0; i < 50; i++ {
		h.Publish("x")
	}
	if len(ch) != cap(ch) {
		t.Fatalf("buffered = %d, want %d", len(ch), cap(ch))
	}

	var nilHub *Hub
	nilHub.Emit("", TypeLeadsIngested, nil)
}

func TestTypeOf(t *testing.T) {
	cases := []struct {
		evt  string
		want string
	}{
		{MakeEvent("", TypeScrapeFinished, 1, nil), TypeScrapeFinished},
		{"x", ""},
		{`{"v":1}`, ""},
	}
	for _, c := range cases {
		if got := TypeOf(c.evt); got != c.want {
			t.Errorf("TypeOf(%q) = %q, want %q", c.evt, got, c.want)
		}
	}
	if !Known(TypeLeadsScored) || !Known("ping") || Known("lead_scored") {
		t.Fatal("Known mismatch")
	}
}
