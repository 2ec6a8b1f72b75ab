package triagebot

// Mode selects the retrieval strategy for a question.
type Mode string

const (
	// ModeGeneral is semantic retrieval with a confidence gate and
	// diversity re-ranking.
	ModeGeneral Mode = "general"
	// ModeIncidentNumber is exact lookup by INC ticket tokens.
	ModeIncidentNumber Mode = "incident_number"
	// ModeMMROnly is diversity-first retrieval without filtering.
	ModeMMROnly Mode = "mmr_only"
)

// Source is a context document an answer was grounded on.
type Source struct {
	ID             string `json:"id"`
	IncidentNumber string `json:"incident_number,omitempty"`
	Type           string `json:"type,omitempty"`
	Content        string `json:"content"`
}

// AskResponse is the answer to a question.
type AskResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// IngestSummary reports the outcome of a snapshot ingestion.
type IngestSummary struct {
	Total             int      `json:"total"`
	Indexed           int      `json:"indexed"`
	SkippedDuplicates int      `json:"skipped_duplicates"`
	Failed            int      `json:"failed"`
	Errors            []string `json:"errors,omitempty"`
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
