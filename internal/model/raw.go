package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// RawRecord is one managed object decoded from an APIC class query. The
// controller wraps every object in a single-key envelope naming its class,
// e.g. {"l1PhysIf": {"attributes": {...}, "children": [...]}}; the sole key
// becomes Class. Records are produced fresh per API call, never mutated, and
// discarded after normalization.
type RawRecord struct {
	Class    string
	Attrs    map[string]string
	Children []RawRecord
}

// Attr returns the named attribute, or "" when absent.
func (r RawRecord) Attr(name string) string {
	return r.Attrs[name]
}

// envelope is the top-level shape of every APIC class-query response.
type envelope struct {
	TotalCount string            `json:"totalCount"`
	Imdata     []json.RawMessage `json:"imdata"`
}

// classWrapper is the single-key object inside imdata. The class name is the
// key, so the body is decoded per key rather than into a fixed struct.
type classWrapper struct {
	Attributes map[string]any    `json:"attributes"`
	Children   []json.RawMessage `json:"children"`
}

// DecodeEnvelope parses one APIC class-query response body into RawRecords.
// Entries that do not carry exactly one class key are skipped; a nil or empty
// imdata yields an empty slice. Only the outer JSON being unparsable is an
// error.
func DecodeEnvelope(body []byte) ([]RawRecord, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("DecodeEnvelope: %w", err)
	}
	recs := make([]RawRecord, 0, len(env.Imdata))
	for _, entry := range env.Imdata {
		if rec, ok := decodeClassWrapper(entry); ok {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

// decodeClassWrapper unwraps one single-key class object. The key is the
// class discriminant; a wrapper with zero or multiple keys is malformed and
// reported as not-ok.
func decodeClassWrapper(entry json.RawMessage) (RawRecord, bool) {
	var wrapper map[string]classWrapper
	if err := json.Unmarshal(entry, &wrapper); err != nil || len(wrapper) != 1 {
		return RawRecord{}, false
	}
	for class, body := range wrapper {
		rec := RawRecord{
			Class: class,
			Attrs: stringifyAttrs(body.Attributes),
		}
		for _, child := range body.Children {
			if c, ok := decodeClassWrapper(child); ok {
				rec.Children = append(rec.Children, c)
			}
		}
		return rec, true
	}
	return RawRecord{}, false
}

// stringifyAttrs flattens attribute values to strings. The controller emits
// strings even for numerics, but raw JSON numbers and bools are tolerated.
// Nested values are not attributes and are dropped.
func stringifyAttrs(attrs map[string]any) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		switch t := v.(type) {
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(t)
		}
	}
	return out
}
