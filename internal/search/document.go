// Package search provides full-text poem search using Bleve.
// Poem text and signatures are mostly Japanese, so text fields use the CJK
// analyzer for bigram tokenization.
package search

import (
	"time"

	"github.com/chizurashi/chizurashi-server/internal/domain"
	"github.com/chizurashi/chizurashi-server/internal/normalize"
)

// PoemDocument is the document structure for the Bleve index.
type PoemDocument struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Text    string `json:"text"`
	Author  string `json:"author"`
	OwnerID string `json:"owner_id,omitempty"`

	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	// Unix millis, for recency sorting.
	CreatedAt int64 `json:"created_at"`
}

// NewPoemDocument builds an index document from a poem record. Text and
// author are normalized the same way queries will be, so matches are not
// sensitive to width variants.
func NewPoemDocument(p *domain.Poem) *PoemDocument {
	return &PoemDocument{
		ID:        p.ID,
		Kind:      string(p.Kind),
		Text:      normalize.ForSearch(p.Text),
		Author:    normalize.ForSearch(p.Author),
		OwnerID:   p.OwnerID,
		Lat:       p.Position.Lat,
		Lon:       p.Position.Lon,
		CreatedAt: p.CreatedAt.UnixNano() / int64(time.Millisecond),
	}
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *PoemDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"kind":       d.Kind,
		"text":       d.Text,
		"author":     d.Author,
		"lat":        d.Lat,
		"lon":        d.Lon,
		"created_at": d.CreatedAt,
	}
	if d.OwnerID != "" {
		m["owner_id"] = d.OwnerID
	}
	return m
}
