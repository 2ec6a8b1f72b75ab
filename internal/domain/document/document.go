// Package document defines the single concrete document type shared by
// ingestion, the vector index, and retrieval. Every producer goes through
// New or Reconstruct; there is exactly one document shape in the system.
package document

import (
	"fmt"
	"regexp"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Metadata keys populated by the ingestion pipeline.
const (
	MetaIncidentNumber = "incident_number"
	MetaDescription    = "incident_description"
	MetaStatus         = "status"
	MetaAssignedTo     = "assigned_to"
	MetaWorkNotes      = "work_notes"
	MetaResolution     = "resolution"
	MetaTags           = "tags"
	MetaType           = "type"
	MetaSource         = "source"
)

// Document type discriminators carried in the MetaType field.
const (
	TypeIncidentDetails = "incident_details"
	TypeStatusCount     = "incident_status_count"
	TypeResolution      = "incident_resolution"
)

// MaxContentSize is the maximum document content size in bytes.
const MaxContentSize = 163840 // 160KB

// Document is an immutable text+metadata pair. Once indexed it is never
// mutated; re-ingestion replaces it wholesale.
type Document struct {
	id       string
	content  string
	metadata map[string]string
	vector   []float32
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Content: non-empty, max 160KB.
func New(id, content string, metadata map[string]string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("document ID must be alphanumeric with underscores and hyphens")
	}
	if content == "" {
		return Document{}, fmt.Errorf("content is required")
	}
	if len(content) > MaxContentSize {
		return Document{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}

	return Document{id: id, content: content, metadata: cloneMap(metadata)}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id, content string, metadata map[string]string, vector []float32) Document {
	return Document{id: id, content: content, metadata: metadata, vector: vector}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Content returns the document text.
func (d *Document) Content() string { return d.content }

// Metadata returns the structured metadata fields.
func (d *Document) Metadata() map[string]string { return d.metadata }

// Meta returns a single metadata field, or "" when absent.
func (d *Document) Meta(key string) string { return d.metadata[key] }

// Type returns the document type discriminator.
func (d *Document) Type() string { return d.metadata[MetaType] }

// IncidentNumber returns the incident number metadata, or "" when absent.
func (d *Document) IncidentNumber() string { return d.metadata[MetaIncidentNumber] }

// Vector returns the embedding vector.
func (d *Document) Vector() []float32 { return d.vector }

// SetVector sets the vector in place (mutation, pre-index only).
func (d *Document) SetVector(v []float32) { d.vector = v }

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
