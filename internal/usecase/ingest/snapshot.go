package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/triagebot-ai/triagebot/internal/domain"
	"github.com/triagebot-ai/triagebot/internal/domain/document"
)

// Snapshot is the incident export format. Each record group lives under
// an explicit key; SizeOfTotalIncident is kept as a consistency check
// against the ticket group.
type Snapshot struct {
	Result                  []json.RawMessage `json:"result"`
	CountOfIncidentsByStatus struct {
		Count []json.RawMessage `json:"count"`
	} `json:"countOfIncidentsByStatus"`
	HowToResolveBook struct {
		Resolutions []json.RawMessage `json:"incidentResolutionByincidentDescription"`
	} `json:"howToResolveBook"`
	SizeOfTotalIncident *int `json:"sizeOfTotalIncident"`
}

// ParseSnapshot decodes and validates an incident snapshot, returning
// the renderable documents in snapshot order with exact duplicates
// removed, plus the number of duplicates dropped. A declared ticket
// total that contradicts the ticket group is a fatal
// domain.ErrMalformedSnapshot.
func ParseSnapshot(data []byte) ([]document.Document, int, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrMalformedSnapshot, err)
	}

	if snap.SizeOfTotalIncident == nil {
		return nil, 0, fmt.Errorf("%w: missing sizeOfTotalIncident", domain.ErrMalformedSnapshot)
	}
	if *snap.SizeOfTotalIncident != len(snap.Result) {
		return nil, 0, fmt.Errorf("%w: declared %d incidents, found %d",
			domain.ErrMalformedSnapshot, *snap.SizeOfTotalIncident, len(snap.Result))
	}

	total := len(snap.Result) + len(snap.CountOfIncidentsByStatus.Count) + len(snap.HowToResolveBook.Resolutions)
	docs := make([]document.Document, 0, total)
	seen := make(map[string]bool)

	for i, raw := range dedupRaw(snap.Result) {
		var rec IncidentRecord
		if err := decodeRecord(raw, &rec); err != nil {
			return nil, 0, fmt.Errorf("%w: incident record %d: %w", domain.ErrMalformedSnapshot, i, err)
		}
		doc, err := incidentDocument(&rec)
		if err != nil {
			return nil, 0, fmt.Errorf("incident record %d: %w", i, err)
		}
		docs = appendUnique(docs, seen, doc)
	}

	for i, raw := range dedupRaw(snap.CountOfIncidentsByStatus.Count) {
		var rec StatusCountRecord
		if err := decodeRecord(raw, &rec); err != nil {
			return nil, 0, fmt.Errorf("%w: status count record %d: %w", domain.ErrMalformedSnapshot, i, err)
		}
		doc, err := statusCountDocument(&rec)
		if err != nil {
			return nil, 0, fmt.Errorf("status count record %d: %w", i, err)
		}
		docs = appendUnique(docs, seen, doc)
	}

	for i, raw := range dedupRaw(snap.HowToResolveBook.Resolutions) {
		var rec ResolutionRecord
		if err := decodeRecord(raw, &rec); err != nil {
			return nil, 0, fmt.Errorf("%w: resolution record %d: %w", domain.ErrMalformedSnapshot, i, err)
		}
		doc, err := resolutionDocument(&rec)
		if err != nil {
			return nil, 0, fmt.Errorf("resolution record %d: %w", i, err)
		}
		docs = appendUnique(docs, seen, doc)
	}

	return docs, total - len(docs), nil
}

// decodeRecord unmarshals a record that may arrive either as a JSON
// object or as a JSON string wrapping one (upstream double-encodes some
// exports).
func decodeRecord(raw json.RawMessage, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return fmt.Errorf("unwrap string record: %w", err)
		}
		trimmed = []byte(inner)
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// dedupRaw removes byte-identical records, preserving order.
func dedupRaw(records []json.RawMessage) []json.RawMessage {
	if len(records) < 2 {
		return records
	}
	seen := make(map[string]bool, len(records))
	out := records[:0]
	for _, r := range records {
		key := string(bytes.TrimSpace(r))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// appendUnique drops documents whose ID was already produced, so exact
// duplicate records collapse to one indexed document.
func appendUnique(docs []document.Document, seen map[string]bool, doc document.Document) []document.Document {
	if seen[doc.ID()] {
		return docs
	}
	seen[doc.ID()] = true
	return append(docs, doc)
}
