package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/chizurashi/chizurashi-server/internal/color"
	"github.com/chizurashi/chizurashi-server/internal/domain"
	"github.com/chizurashi/chizurashi-server/internal/service"
)

func (s *Server) registerPoemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createPoem",
		Method:      http.MethodPost,
		Path:        "/api/v1/poems",
		Summary:     "Submit a poem",
		Description: "Creates a haiku or tanka pinned to the given coordinates, owned by the caller",
		Tags:        []string{"Poems"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreatePoem)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPoems",
		Method:      http.MethodGet,
		Path:        "/api/v1/poems",
		Summary:     "List poems",
		Description: "Returns all poems, newest first",
		Tags:        []string{"Poems"},
	}, s.handleListPoems)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPoem",
		Method:      http.MethodGet,
		Path:        "/api/v1/poems/{id}",
		Summary:     "Get a poem",
		Description: "Returns a single poem by ID",
		Tags:        []string{"Poems"},
	}, s.handleGetPoem)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePoemText",
		Method:      http.MethodPatch,
		Path:        "/api/v1/poems/{id}",
		Summary:     "Edit a poem's text",
		Description: "Rewrites the poem's lines. Only the owner may edit.",
		Tags:        []string{"Poems"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePoemText)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePoem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/poems/{id}",
		Summary:     "Delete a poem",
		Description: "Removes the poem. Only the owner may delete.",
		Tags:        []string{"Poems"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePoem)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleAppreciation",
		Method:      http.MethodPut,
		Path:        "/api/v1/poems/{id}/appreciation",
		Summary:     "Toggle appreciation",
		Description: "Adds the caller to the poem's appreciation list, or removes them if already present",
		Tags:        []string{"Poems"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleAppreciation)
}

// === DTOs ===

// PositionResponse is a map coordinate in API responses.
type PositionResponse struct {
	Lat float64 `json:"lat" doc:"Latitude in degrees"`
	Lon float64 `json:"lon" doc:"Longitude in degrees"`
}

// PoemResponse contains poem data in API responses.
type PoemResponse struct {
	ID                string           `json:"id" doc:"Poem ID"`
	Kind              string           `json:"kind" doc:"Poem kind: haiku or tanka"`
	Text              string           `json:"text" doc:"Full poem text, lines joined by newlines"`
	Lines             []string         `json:"lines" doc:"Individual poem lines"`
	Position          PositionResponse `json:"position" doc:"Map coordinates the poem is pinned to"`
	Author            string           `json:"author" doc:"Signature shown with the poem"`
	OwnerID           string           `json:"owner_id,omitempty" doc:"Identity handle of the poem's owner"`
	CreatedAt         time.Time        `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt         time.Time        `json:"updated_at" doc:"Last update timestamp"`
	AppreciatedBy     []string         `json:"appreciated_by" doc:"Identity handles that appreciated this poem"`
	AppreciationCount int              `json:"appreciation_count" doc:"Number of appreciations"`
	PinColor          string           `json:"pin_color" doc:"Deterministic map pin color derived from the owner"`
}

// CreatePoemBody is the request body for submitting a poem.
type CreatePoemBody struct {
	Kind   string  `json:"kind" validate:"required,oneof=haiku tanka" doc:"Poem kind: haiku (3 lines) or tanka (5 lines)"`
	Text   string  `json:"text" validate:"required" doc:"Poem text, lines separated by newlines"`
	Lat    float64 `json:"lat" validate:"gte=-90,lte=90" doc:"Latitude in degrees"`
	Lon    float64 `json:"lon" validate:"gte=-180,lte=180" doc:"Longitude in degrees"`
	Author string  `json:"author,omitempty" validate:"omitempty,max=64" doc:"Signature override (defaults to the caller's display name)"`
}

// CreatePoemInput wraps the create request for Huma.
type CreatePoemInput struct {
	Authorization string `header:"Authorization"`
	Body          CreatePoemBody
}

// UpdatePoemTextBody is the request body for editing a poem's text.
type UpdatePoemTextBody struct {
	Text string `json:"text" validate:"required" doc:"Replacement poem text, lines separated by newlines"`
}

// UpdatePoemTextInput wraps the edit request for Huma.
type UpdatePoemTextInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Poem ID"`
	Body          UpdatePoemTextBody
}

// PoemIDInput identifies a poem by path parameter.
type PoemIDInput struct {
	ID string `path:"id" doc:"Poem ID"`
}

// AuthedPoemIDInput identifies a poem and carries the Authorization header.
type AuthedPoemIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Poem ID"`
}

// PoemOutput wraps a single poem for Huma.
type PoemOutput struct {
	Body PoemResponse
}

// PoemListResponse contains a page of poems.
type PoemListResponse struct {
	Poems []PoemResponse `json:"poems" doc:"Poems, newest first"`
	Total int            `json:"total" doc:"Number of poems returned"`
}

// PoemListOutput wraps the poem list for Huma.
type PoemListOutput struct {
	Body PoemListResponse
}

// AppreciationResponse contains the poem after an appreciation toggle.
type AppreciationResponse struct {
	Poem        PoemResponse `json:"poem" doc:"Updated poem"`
	Appreciated bool         `json:"appreciated" doc:"Whether the caller now appreciates the poem"`
}

// AppreciationOutput wraps the appreciation response for Huma.
type AppreciationOutput struct {
	Body AppreciationResponse
}

func mapPoem(p *domain.Poem) PoemResponse {
	return PoemResponse{
		ID:                p.ID,
		Kind:              string(p.Kind),
		Text:              p.Text,
		Lines:             p.Lines(),
		Position:          PositionResponse{Lat: p.Position.Lat, Lon: p.Position.Lon},
		Author:            p.Author,
		OwnerID:           p.OwnerID,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		AppreciatedBy:     p.AppreciatedBy,
		AppreciationCount: p.AppreciationCount(),
		PinColor:          color.ForPin(p.OwnerID),
	}
}

// === Handlers ===

func (s *Server) handleCreatePoem(ctx context.Context, input *CreatePoemInput) (*PoemOutput, error) {
	ident, err := s.requireIdentity(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	poem, err := s.services.Poem.Create(ctx, service.CreatePoemRequest{
		Kind:   input.Body.Kind,
		Text:   input.Body.Text,
		Lat:    input.Body.Lat,
		Lon:    input.Body.Lon,
		Author: input.Body.Author,
	}, ident)
	if err != nil {
		return nil, err
	}

	return &PoemOutput{Body: mapPoem(poem)}, nil
}

func (s *Server) handleListPoems(ctx context.Context, _ *struct{}) (*PoemListOutput, error) {
	poems, err := s.services.Poem.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]PoemResponse, 0, len(poems))
	for _, p := range poems {
		responses = append(responses, mapPoem(p))
	}

	return &PoemListOutput{
		Body: PoemListResponse{
			Poems: responses,
			Total: len(responses),
		},
	}, nil
}

func (s *Server) handleGetPoem(ctx context.Context, input *PoemIDInput) (*PoemOutput, error) {
	poem, err := s.services.Poem.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &PoemOutput{Body: mapPoem(poem)}, nil
}

func (s *Server) handleUpdatePoemText(ctx context.Context, input *UpdatePoemTextInput) (*PoemOutput, error) {
	ident, err := s.requireIdentity(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	poem, err := s.services.Poem.UpdateText(ctx, input.ID, input.Body.Text, ident)
	if err != nil {
		return nil, err
	}

	return &PoemOutput{Body: mapPoem(poem)}, nil
}

func (s *Server) handleDeletePoem(ctx context.Context, input *AuthedPoemIDInput) (*MessageOutput, error) {
	ident, err := s.requireIdentity(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Poem.Delete(ctx, input.ID, ident); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Poem deleted"}}, nil
}

func (s *Server) handleToggleAppreciation(ctx context.Context, input *AuthedPoemIDInput) (*AppreciationOutput, error) {
	ident, err := s.requireIdentity(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	poem, err := s.services.Poem.ToggleAppreciation(ctx, input.ID, ident)
	if err != nil {
		return nil, err
	}

	return &AppreciationOutput{
		Body: AppreciationResponse{
			Poem:        mapPoem(poem),
			Appreciated: poem.IsAppreciatedBy(ident.Handle),
		},
	}, nil
}
