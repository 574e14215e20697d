package events

import (
	"encoding/json"
	"time"
)

// Event types pushed to SSE clients.
const (
	TypeLeadsIngested  = "leads_ingested"
	TypeLeadsScored    = "leads_scored"
	TypeScrapeStarted  = "scrape_started"
	TypeScrapeFinished = "scrape_finished"
	TypeConfigReloaded = "config_reloaded"
)

// Known reports whether typ is one of the event types above or "ping".
func Known(typ string) bool {
	switch typ {
	case TypeLeadsIngested, TypeLeadsScored, TypeScrapeStarted, TypeScrapeFinished, TypeConfigReloaded, "ping":
		return true
	}
	return false
}

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}

// TypeOf returns the type field of an encoded event, or "" when evt is not one.
func TypeOf(evt string) string {
	var e struct {
		Type string `json:"type"`
	}
	if json.Unmarshal([]byte(evt), &e) != nil {
		return ""
	}
	return e.Type
}
