// Package client implements the map-client core: the poem store gateway,
// the reconciled poem list, identity resolution, and the session that ties
// them to the composition draft.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/chizurashi/chizurashi-server/internal/domain"
	domainerrors "github.com/chizurashi/chizurashi-server/internal/errors"
)

// TokenProvider supplies the current access token, or "" when signed out.
type TokenProvider func() string

// CreateRequest carries a finished draft to the store.
type CreateRequest struct {
	Kind   string  `json:"kind"`
	Text   string  `json:"text"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Author string  `json:"author,omitempty"`
}

// Gateway is the poem store boundary. Implementations translate transport
// and protocol failures into the domain error taxonomy: transport errors
// become StoreUnavailable, rejected reads QueryFailed, rejected writes
// WriteRejected, and 401 responses IdentityRequired.
type Gateway interface {
	List(ctx context.Context) ([]*domain.Poem, error)
	Create(ctx context.Context, req CreateRequest) (*domain.Poem, error)
	UpdateText(ctx context.Context, poemID, text string) (*domain.Poem, error)
	ToggleAppreciation(ctx context.Context, poemID string) (*domain.Poem, error)
	Delete(ctx context.Context, poemID string) error
}

// HTTPGateway talks to a chizurashi server over its JSON API.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	tokens  TokenProvider
	logger  *slog.Logger
}

// NewHTTPGateway creates a gateway for the given server base URL.
// The token provider may be nil for read-only, signed-out use.
func NewHTTPGateway(baseURL string, tokens TokenProvider, logger *slog.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
		logger:  logger,
	}
}

// envelope mirrors the server response envelope.
type envelope[T any] struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// poemPayload is the wire shape of a poem. AppreciatedBy is a pointer so a
// null from the store can be coerced to an empty list instead of failing.
type poemPayload struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Text     string `json:"text"`
	Position struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"position"`
	Author        string    `json:"author"`
	OwnerID       string    `json:"owner_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	AppreciatedBy *[]string `json:"appreciated_by"`
}

// toDomain coerces a wire poem into a validated domain record.
// Null appreciation lists become empty, duplicate handles are dropped.
func (p *poemPayload) toDomain() (*domain.Poem, error) {
	appreciated := []string{}
	if p.AppreciatedBy != nil {
		for _, handle := range *p.AppreciatedBy {
			if handle != "" && !slices.Contains(appreciated, handle) {
				appreciated = append(appreciated, handle)
			}
		}
	}

	poem := &domain.Poem{
		ID:            p.ID,
		Kind:          domain.Kind(p.Kind),
		Text:          p.Text,
		Position:      domain.Position{Lat: p.Position.Lat, Lon: p.Position.Lon},
		Author:        p.Author,
		OwnerID:       p.OwnerID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		AppreciatedBy: appreciated,
	}

	if err := poem.Validate(); err != nil {
		return nil, fmt.Errorf("record %q: %w", p.ID, err)
	}
	return poem, nil
}

// appreciationPayload wraps the toggle endpoint's response body.
type appreciationPayload struct {
	Poem        poemPayload `json:"poem"`
	Appreciated bool        `json:"appreciated"`
}

// poemListPayload wraps the list endpoint's response body.
type poemListPayload struct {
	Poems []poemPayload `json:"poems"`
	Total int           `json:"total"`
}

func (g *HTTPGateway) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.tokens != nil {
		if token := g.tokens(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// doRead executes a read request, translating failures per the taxonomy.
func doRead[T any](g *HTTPGateway, req *http.Request) (*T, error) {
	return do[T](g, req, false)
}

// doWrite executes a write request, translating failures per the taxonomy.
func doWrite[T any](g *HTTPGateway, req *http.Request) (*T, error) {
	return do[T](g, req, true)
}

func do[T any](g *HTTPGateway, req *http.Request, write bool) (*T, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, domainerrors.StoreUnavailable("poem store unreachable").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, domainerrors.StoreUnavailable("reading store response").WithCause(err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domainerrors.IdentityRequired("sign in to continue")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := storeErrorMessage(body, resp.StatusCode)
		if write {
			return nil, domainerrors.WriteRejected(msg)
		}
		return nil, domainerrors.QueryFailed(msg)
	}

	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil || !env.Success {
		if g.logger != nil {
			g.logger.Warn("Malformed store response", "path", req.URL.Path, "error", err)
		}
		if write {
			return nil, domainerrors.WriteRejected("store returned a malformed confirmation")
		}
		return nil, domainerrors.QueryFailed("store returned a malformed response")
	}

	return &env.Data, nil
}

// storeErrorMessage pulls the error message out of an error envelope,
// falling back to the HTTP status.
func storeErrorMessage(body []byte, status int) string {
	var env envelope[struct{}]
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil && env.Error.Message != "" {
		return env.Error.Message
	}
	return fmt.Sprintf("store returned status %d", status)
}

// List fetches all poems, newest first. Records that fail validation are
// skipped rather than poisoning the whole refresh.
func (g *HTTPGateway) List(ctx context.Context) ([]*domain.Poem, error) {
	req, err := g.newRequest(ctx, http.MethodGet, "/api/v1/poems", nil)
	if err != nil {
		return nil, err
	}

	payload, err := doRead[poemListPayload](g, req)
	if err != nil {
		return nil, err
	}

	poems := make([]*domain.Poem, 0, len(payload.Poems))
	for i := range payload.Poems {
		poem, err := payload.Poems[i].toDomain()
		if err != nil {
			if g.logger != nil {
				g.logger.Warn("Dropping invalid poem record", "error", err)
			}
			continue
		}
		poems = append(poems, poem)
	}
	return poems, nil
}

// Create submits a new poem and returns the stored record.
func (g *HTTPGateway) Create(ctx context.Context, createReq CreateRequest) (*domain.Poem, error) {
	req, err := g.newRequest(ctx, http.MethodPost, "/api/v1/poems", createReq)
	if err != nil {
		return nil, err
	}

	payload, err := doWrite[poemPayload](g, req)
	if err != nil {
		return nil, err
	}
	return payload.toDomain()
}

// UpdateText rewrites a poem's text and returns the stored record.
func (g *HTTPGateway) UpdateText(ctx context.Context, poemID, text string) (*domain.Poem, error) {
	req, err := g.newRequest(ctx, http.MethodPatch, "/api/v1/poems/"+poemID, map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	payload, err := doWrite[poemPayload](g, req)
	if err != nil {
		return nil, err
	}
	return payload.toDomain()
}

// ToggleAppreciation flips the caller's appreciation and returns the
// stored record.
func (g *HTTPGateway) ToggleAppreciation(ctx context.Context, poemID string) (*domain.Poem, error) {
	req, err := g.newRequest(ctx, http.MethodPut, "/api/v1/poems/"+poemID+"/appreciation", nil)
	if err != nil {
		return nil, err
	}

	payload, err := doWrite[appreciationPayload](g, req)
	if err != nil {
		return nil, err
	}
	return payload.Poem.toDomain()
}

// Delete removes a poem.
func (g *HTTPGateway) Delete(ctx context.Context, poemID string) error {
	req, err := g.newRequest(ctx, http.MethodDelete, "/api/v1/poems/"+poemID, nil)
	if err != nil {
		return err
	}

	_, err = doWrite[struct{}](g, req)
	return err
}
