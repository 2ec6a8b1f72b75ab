// Package mode defines the retrieval modes the dispatcher understands.
package mode

// Mode selects the retrieval strategy.
type Mode string

const (
	// General is the default mode: similarity search filtered to incident
	// detail and resolution documents, confidence-gated, re-ranked by MMR.
	General Mode = "general"

	// IncidentNumber bypasses semantic search and matches documents by
	// exact incident number metadata.
	IncidentNumber Mode = "incident_number"

	// MMROnly runs maximal marginal relevance over the whole index with
	// no type filter and no confidence gate.
	MMROnly Mode = "mmr_only"
)

// IsValid reports whether m is a known retrieval mode.
func (m Mode) IsValid() bool {
	switch m {
	case General, IncidentNumber, MMROnly:
		return true
	}
	return false
}

// String returns the wire representation.
func (m Mode) String() string { return string(m) }

// Parse maps a wire string to a Mode. Empty input defaults to General;
// anything else unknown returns ok=false.
func Parse(s string) (Mode, bool) {
	if s == "" {
		return General, true
	}
	m := Mode(s)
	return m, m.IsValid()
}
