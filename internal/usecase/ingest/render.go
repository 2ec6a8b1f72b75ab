package ingest

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/triagebot-ai/triagebot/internal/domain/document"
)

// sourceIncidentData tags documents produced from the incident snapshot.
const sourceIncidentData = "incident_data"

// IncidentRecord is a single ticket from the snapshot result set.
type IncidentRecord struct {
	IncidentNumber      string `json:"incidentNumber"`
	IncidentDescription string `json:"incidentDescription"`
	StateOfTicket       string `json:"stateOfTicket"`
	IncidentAssignedTo  string `json:"incidentAssignedTo"`
	SeverityPriority    string `json:"severity_priority"`
	WorkNotes           string `json:"workNotes"`
	HowItWasResolved    string `json:"howItWasResolved"`
	IncidentTag         string `json:"incidentTag"`
}

// StatusCountRecord is a per-state incident tally.
type StatusCountRecord struct {
	IncidentState string `json:"incidentState"`
	Count         any    `json:"incidentByStateCount"`
}

// ResolutionRecord maps an incident description to its fix steps.
type ResolutionRecord struct {
	IncidentDescription string `json:"incidentDescription"`
	IncidentResolution  string `json:"incidentResolution"`
}

// renderIncidentDetails produces the canonical text form of a ticket.
// Field values are lowercased; the incident number keeps its case so
// exact-match retrieval can find it.
func renderIncidentDetails(r *IncidentRecord) string {
	assignee := r.IncidentAssignedTo
	if assignee == "" {
		assignee = "no one"
	}
	return fmt.Sprintf(
		"the incident number %s\n"+
			"has description: %s\n"+
			"with current state: %s\n"+
			"and is currently assigned to: %s\n"+
			"and has priority of: %s\n"+
			"and work notes provided for this incident number is: %s\n"+
			"resolution provided for this incident number %s was: %s\n"+
			"This incident number: %s has the tag %s\n",
		r.IncidentNumber,
		strings.ToLower(r.IncidentDescription),
		strings.ToLower(r.StateOfTicket),
		strings.ToLower(assignee),
		strings.ToLower(r.SeverityPriority),
		strings.ToLower(r.WorkNotes),
		r.IncidentNumber,
		strings.ToLower(r.HowItWasResolved),
		r.IncidentNumber,
		strings.ToLower(r.IncidentTag),
	)
}

func renderStatusCount(r *StatusCountRecord) string {
	return fmt.Sprintf(
		"count of incident number with state: %s\nis: %s\n",
		r.IncidentState,
		countToString(r.Count),
	)
}

func renderResolution(r *ResolutionRecord) string {
	return fmt.Sprintf(
		"incident with description: %s\nwas closed and fixed with these steps provided as: %s\n",
		r.IncidentDescription,
		r.IncidentResolution,
	)
}

// countToString normalizes the tally field, which upstream serializes as
// either a number or a string.
func countToString(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%g", n)
	default:
		return fmt.Sprintf("%v", n)
	}
}

// incidentDocument builds the indexed document for a ticket.
func incidentDocument(r *IncidentRecord) (document.Document, error) {
	content := renderIncidentDetails(r)
	metadata := map[string]string{
		document.MetaIncidentNumber: r.IncidentNumber,
		document.MetaDescription:    r.IncidentDescription,
		document.MetaStatus:         strings.ToLower(r.StateOfTicket),
		document.MetaAssignedTo:     strings.ToLower(r.IncidentAssignedTo),
		document.MetaWorkNotes:      r.WorkNotes,
		document.MetaResolution:     r.HowItWasResolved,
		document.MetaTags:           strings.ToLower(r.IncidentTag),
		document.MetaType:           document.TypeIncidentDetails,
		document.MetaSource:         sourceIncidentData,
	}
	return document.New(incidentDocID(r.IncidentNumber, content), content, metadata)
}

func statusCountDocument(r *StatusCountRecord) (document.Document, error) {
	content := renderStatusCount(r)
	metadata := map[string]string{
		document.MetaStatus: r.IncidentState,
		"count":             countToString(r.Count),
		document.MetaType:   document.TypeStatusCount,
		document.MetaSource: sourceIncidentData,
	}
	return document.New(contentDocID(content), content, metadata)
}

func resolutionDocument(r *ResolutionRecord) (document.Document, error) {
	content := renderResolution(r)
	metadata := map[string]string{
		document.MetaDescription: r.IncidentDescription,
		document.MetaResolution:  r.IncidentResolution,
		document.MetaType:        document.TypeResolution,
		document.MetaSource:      sourceIncidentData,
	}
	return document.New(contentDocID(content), content, metadata)
}

// incidentDocID is deterministic so re-ingesting a snapshot overwrites
// the previous version of the same ticket.
func incidentDocID(number, content string) string {
	if number != "" {
		return "incident-" + number
	}
	return contentDocID(content)
}

// contentDocID derives a stable UUIDv5 from the rendered text.
func contentDocID(content string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(content)).String()
}
