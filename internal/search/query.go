package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/chizurashi/chizurashi-server/internal/normalize"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query string // User's search query, matched against text and author
	Kind  string // Filter to haiku or tanka (empty = both)
	Owner string // Filter to poems by one identity (empty = all)

	// Pagination
	Limit  int
	Offset int

	// Options
	Highlight bool // Include match highlighting
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:     20,
		Offset:    0,
		Highlight: true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Kind       string            `json:"kind"`
	Text       string            `json:"text"`
	Author     string            `json:"author,omitempty"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search executes a search query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultSearchParams().Limit
	}

	searchQuery := buildSearchQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	// Relevance first, recency as tiebreaker.
	searchRequest.SortBy([]string{"-_score", "-created_at"})

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("text")
		searchRequest.Highlight.AddField("author")
	}

	searchRequest.Fields = []string{"kind", "text", "author", "lat", "lon"}

	result, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]SearchHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		h := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if v, ok := hit.Fields["kind"].(string); ok {
			h.Kind = v
		}
		if v, ok := hit.Fields["text"].(string); ok {
			h.Text = v
		}
		if v, ok := hit.Fields["author"].(string); ok {
			h.Author = v
		}
		if v, ok := hit.Fields["lat"].(float64); ok {
			h.Lat = v
		}
		if v, ok := hit.Fields["lon"].(float64); ok {
			h.Lon = v
		}

		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string, len(hit.Fragments))
			for field, fragments := range hit.Fragments {
				h.Highlights[field] = strings.Join(fragments, " … ")
			}
		}

		hits = append(hits, h)
	}

	return &SearchResult{
		Query:  params.Query,
		Total:  result.Total,
		TookMs: result.Took.Milliseconds(),
		Hits:   hits,
	}, nil
}

// buildSearchQuery assembles the Bleve query from the search parameters.
func buildSearchQuery(params SearchParams) query.Query {
	var parts []query.Query

	q := normalize.ForSearch(params.Query)
	if q != "" {
		textQuery := bleve.NewMatchQuery(q)
		textQuery.SetField("text")

		authorQuery := bleve.NewMatchQuery(q)
		authorQuery.SetField("author")
		authorQuery.SetBoost(2.0)

		parts = append(parts, bleve.NewDisjunctionQuery(textQuery, authorQuery))
	} else {
		parts = append(parts, bleve.NewMatchAllQuery())
	}

	if params.Kind != "" {
		kindQuery := bleve.NewTermQuery(params.Kind)
		kindQuery.SetField("kind")
		parts = append(parts, kindQuery)
	}

	if params.Owner != "" {
		ownerQuery := bleve.NewTermQuery(params.Owner)
		ownerQuery.SetField("owner_id")
		parts = append(parts, ownerQuery)
	}

	if len(parts) == 1 {
		return parts[0]
	}
	return bleve.NewConjunctionQuery(parts...)
}
