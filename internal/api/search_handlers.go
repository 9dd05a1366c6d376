package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/chizurashi/chizurashi-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchPoems",
		Method:      http.MethodGet,
		Path:        "/api/v1/poems/search",
		Summary:     "Search poems",
		Description: "Full-text search across poem text and author signatures",
		Tags:        []string{"Search"},
	}, s.handleSearchPoems)
}

// === DTOs ===

// SearchPoemsInput contains parameters for searching poems.
type SearchPoemsInput struct {
	Query     string `query:"q" validate:"required,min=1,max=200" doc:"Search query"`
	Kind      string `query:"kind" validate:"omitempty,oneof=haiku tanka" doc:"Restrict to haiku or tanka"`
	Owner     string `query:"owner" validate:"omitempty,max=100" doc:"Restrict to poems owned by this identity handle"`
	Limit     int    `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Max results (default 20)"`
	Offset    int    `query:"offset" validate:"omitempty,gte=0" doc:"Pagination offset (default 0)"`
	Highlight bool   `query:"highlight" doc:"Include highlighted match fragments"`
}

// SearchHitResult contains a single matching poem.
type SearchHitResult struct {
	ID         string            `json:"id" doc:"Poem ID"`
	Score      float64           `json:"score" doc:"Search relevance score"`
	Kind       string            `json:"kind" doc:"Poem kind: haiku or tanka"`
	Text       string            `json:"text" doc:"Poem text"`
	Author     string            `json:"author,omitempty" doc:"Signature shown with the poem"`
	Lat        float64           `json:"lat" doc:"Latitude in degrees"`
	Lon        float64           `json:"lon" doc:"Longitude in degrees"`
	Highlights map[string]string `json:"highlights,omitempty" doc:"Highlighted matches"`
}

// SearchPoemsResponse contains search results.
type SearchPoemsResponse struct {
	Query  string            `json:"query" doc:"Original search query"`
	Total  uint64            `json:"total" doc:"Total matches"`
	TookMs int64             `json:"took_ms" doc:"Search duration in milliseconds"`
	Hits   []SearchHitResult `json:"hits" doc:"Matching poems"`
}

// SearchPoemsOutput wraps the search response for Huma.
type SearchPoemsOutput struct {
	Body SearchPoemsResponse
}

// === Handlers ===

func (s *Server) handleSearchPoems(ctx context.Context, input *SearchPoemsInput) (*SearchPoemsOutput, error) {
	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.Kind = input.Kind
	params.Owner = input.Owner
	params.Highlight = input.Highlight
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	if input.Offset > 0 {
		params.Offset = input.Offset
	}

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHitResult, 0, len(result.Hits))
	for _, h := range result.Hits {
		hits = append(hits, SearchHitResult{
			ID:         h.ID,
			Score:      h.Score,
			Kind:       h.Kind,
			Text:       h.Text,
			Author:     h.Author,
			Lat:        h.Lat,
			Lon:        h.Lon,
			Highlights: h.Highlights,
		})
	}

	return &SearchPoemsOutput{
		Body: SearchPoemsResponse{
			Query:  result.Query,
			Total:  result.Total,
			TookMs: result.TookMs,
			Hits:   hits,
		},
	}, nil
}
