package usecases

import (
	"bytes"
	"encoding/json"
)

// PlanDocument is the staged decoding of one planner response. Every field is
// kept as raw JSON so a malformed field never aborts the whole document; each
// consumer interprets its own field leniently.
type PlanDocument struct {
	Status       string
	City         string
	Route        []json.RawMessage
	Places       []json.RawMessage
	Days         []json.RawMessage
	Instructions []string
	Food         []string
	Notes        string
}

// planEnvelope mirrors the shapes the backend has been observed to emit.
// days and itinerary are aliases across backend versions.
type planEnvelope struct {
	Status       json.RawMessage `json:"status"`
	City         json.RawMessage `json:"city"`
	Route        json.RawMessage `json:"route"`
	Places       json.RawMessage `json:"places"`
	Days         json.RawMessage `json:"days"`
	Itinerary    json.RawMessage `json:"itinerary"`
	Instructions json.RawMessage `json:"instructions"`
	Food         json.RawMessage `json:"food"`
	Notes        json.RawMessage `json:"notes"`
}

// ParsePlanDocument decodes raw backend JSON into a PlanDocument. It never
// returns an error for field-level garbage: unusable fields come back empty.
// Only a non-object top level fails, which callers treat as the empty document.
func ParsePlanDocument(raw []byte) (*PlanDocument, bool) {
	var env planEnvelope
	if err := json.Unmarshal(bytes.TrimSpace(raw), &env); err != nil {
		return &PlanDocument{}, false
	}

	doc := &PlanDocument{
		Status:       decodeString(env.Status),
		City:         decodeString(env.City),
		Route:        decodeArray(env.Route),
		Places:       decodeArray(env.Places),
		Instructions: decodeStringList(env.Instructions),
		Food:         decodeStringList(env.Food),
		Notes:        decodeString(env.Notes),
	}

	// days wins over itinerary when both are present.
	if days := decodeArray(env.Days); len(days) > 0 {
		doc.Days = days
	} else {
		doc.Days = decodeArray(env.Itinerary)
	}
	return doc, true
}

func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func decodeArray(raw json.RawMessage) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func decodeStringList(raw json.RawMessage) []string {
	var out []string
	for _, item := range decodeArray(raw) {
		var s string
		if err := json.Unmarshal(item, &s); err == nil && s != "" {
			out = append(out, s)
		}
	}
	return out
}
