package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chizurashi/chizurashi-server/internal/domain"
	domainerrors "github.com/chizurashi/chizurashi-server/internal/errors"
	"github.com/chizurashi/chizurashi-server/internal/id"
	"github.com/chizurashi/chizurashi-server/internal/normalize"
	"github.com/chizurashi/chizurashi-server/internal/store"
)

// PoemService implements the poem record lifecycle: validated creation,
// owner-gated text edits and deletion, and appreciation toggling. Every
// mutation is a full-record replace confirmed by the store; nothing is
// applied optimistically.
type PoemService struct {
	store  store.Store
	logger *slog.Logger
}

// NewPoemService creates a new poem service.
func NewPoemService(store store.Store, logger *slog.Logger) *PoemService {
	return &PoemService{
		store:  store,
		logger: logger,
	}
}

// CreatePoemRequest contains a validated submission from the composer.
type CreatePoemRequest struct {
	Kind   string  `json:"kind" validate:"required,oneof=haiku tanka"`
	Text   string  `json:"text" validate:"required"`
	Lat    float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon    float64 `json:"lon" validate:"gte=-180,lte=180"`
	Author string  `json:"author" validate:"max=64"`
}

// Create validates and stores a new poem. The display signature falls back
// from the explicit author override, to the identity's default signature,
// to the unsigned marker. OwnerID is taken from the identity and is empty
// only when no identity is present.
func (s *PoemService) Create(ctx context.Context, req CreatePoemRequest, ident *domain.Identity) (*domain.Poem, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	author := normalize.Signature(req.Author)
	if author == "" {
		author = normalize.Signature(domain.DefaultSignature(ident))
	}
	if author == "" {
		author = domain.UnsignedSignature
	}

	var ownerID string
	if ident != nil {
		ownerID = ident.Handle
	}

	poemID, err := id.Generate("poem")
	if err != nil {
		return nil, fmt.Errorf("generate poem ID: %w", err)
	}

	now := time.Now()
	poem := &domain.Poem{
		ID:            poemID,
		Kind:          domain.Kind(req.Kind),
		Text:          normalizeText(req.Text),
		Position:      domain.Position{Lat: req.Lat, Lon: req.Lon},
		Author:        author,
		OwnerID:       ownerID,
		CreatedAt:     now,
		UpdatedAt:     now,
		AppreciatedBy: []string{},
	}

	if err := poem.Validate(); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	if err := s.store.CreatePoem(ctx, poem); err != nil {
		return nil, fmt.Errorf("create poem: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Poem created",
			"poem_id", poemID,
			"kind", poem.Kind,
			"owner_id", ownerID,
		)
	}

	return poem, nil
}

// Get retrieves a single poem by ID.
func (s *PoemService) Get(ctx context.Context, poemID string) (*domain.Poem, error) {
	poem, err := s.store.GetPoem(ctx, poemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("poem not found")
		}
		return nil, fmt.Errorf("get poem: %w", err)
	}
	return poem, nil
}

// List returns all poems, newest first.
func (s *PoemService) List(ctx context.Context) ([]*domain.Poem, error) {
	poems, err := s.store.ListPoems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list poems: %w", err)
	}
	if poems == nil {
		poems = []*domain.Poem{}
	}
	return poems, nil
}

// UpdateText replaces a poem's text. Only the owning identity may edit;
// the check here is the authoritative one, independent of any client-side
// gating.
func (s *PoemService) UpdateText(ctx context.Context, poemID, text string, ident *domain.Identity) (*domain.Poem, error) {
	if ident == nil || ident.Handle == "" {
		return nil, domainerrors.IdentityRequired("editing requires a signed-in identity")
	}

	poem, err := s.Get(ctx, poemID)
	if err != nil {
		return nil, err
	}

	if !domain.CanMutate(poem, ident) {
		return nil, domainerrors.Forbidden("only the owner may edit this poem")
	}

	candidate := *poem
	candidate.Text = normalizeText(text)
	if err := candidate.Validate(); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	updated, err := s.store.UpdatePoemText(ctx, poemID, candidate.Text)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("poem not found")
		}
		return nil, fmt.Errorf("update poem text: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Poem edited", "poem_id", poemID, "owner_id", poem.OwnerID)
	}

	return updated, nil
}

// ToggleAppreciation flips the actor's appreciation mark on a poem and
// returns the confirmed record. Any authenticated identity may toggle;
// applying it twice restores the original set.
func (s *PoemService) ToggleAppreciation(ctx context.Context, poemID string, ident *domain.Identity) (*domain.Poem, error) {
	if ident == nil || ident.Handle == "" {
		return nil, domainerrors.IdentityRequired("appreciation requires a signed-in identity")
	}

	poem, err := s.Get(ctx, poemID)
	if err != nil {
		return nil, err
	}

	next := domain.NextAppreciation(poem.AppreciatedBy, ident.Handle)

	updated, err := s.store.ReplaceAppreciations(ctx, poemID, next)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("poem not found")
		}
		return nil, fmt.Errorf("replace appreciations: %w", err)
	}

	return updated, nil
}

// Delete removes a poem. Only the owning identity may delete.
func (s *PoemService) Delete(ctx context.Context, poemID string, ident *domain.Identity) error {
	if ident == nil || ident.Handle == "" {
		return domainerrors.IdentityRequired("deletion requires a signed-in identity")
	}

	poem, err := s.Get(ctx, poemID)
	if err != nil {
		return err
	}

	if !domain.CanMutate(poem, ident) {
		return domainerrors.Forbidden("only the owner may delete this poem")
	}

	if err := s.store.DeletePoem(ctx, poemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("poem not found")
		}
		return fmt.Errorf("delete poem: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Poem deleted", "poem_id", poemID, "owner_id", poem.OwnerID)
	}

	return nil
}

// normalizeText normalizes each line of a newline-joined poem body.
func normalizeText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = normalize.Line(line)
	}
	return domain.JoinLines(lines)
}
