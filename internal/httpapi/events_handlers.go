package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"leadgen-engine/internal/events"
)

const (
	defaultKeepAlive = 25 * time.Second
	sseRetryMillis   = 3000
)

type EventsHandler struct {
	Hub *events.Hub
	// KeepAlive is the idle gap before a comment line is written. Zero means 25s.
	KeepAlive time.Duration
}

// eventFilter parses ?types=a,b. A nil filter passes everything.
func eventFilter(r *http.Request) (map[string]bool, error) {
	raw := r.URL.Query().Get("types")
	if raw == "" {
		return nil, nil
	}
	want := map[string]bool{}
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !events.Known(t) {
			return nil, fmt.Errorf("unknown event type %q", t)
		}
		want[t] = true
	}
	return want, nil
}

// ServeSSE streams hub events as "message" frames. Clients may narrow the
// stream with ?types=leads_scored,scrape_finished.
func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "Streaming unsupported")
		return
	}
	want, err := eventFilter(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	every := h.KeepAlive
	if every <= 0 {
		every = defaultKeepAlive
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(ch)

	reqID := RequestIDFrom(r.Context())
	fmt.Fprintf(w, "retry: %d\n", sseRetryMillis)
	fmt.Fprintf(w, "event: message\ndata: %s\n\n", events.MakeEvent(reqID, "ping", 1, nil))
	flusher.Flush()

	idle := time.NewTicker(every)
	defer idle.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-idle.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case msg := <-ch:
			if want != nil && !want[events.TypeOf(msg)] {
				continue
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
			flusher.Flush()
			idle.Reset(every)
		}
	}
}
