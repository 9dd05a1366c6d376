package client

import (
	"context"
	"log/slog"
	"slices"

	"github.com/chizurashi/chizurashi-server/internal/compose"
	"github.com/chizurashi/chizurashi-server/internal/domain"
	domainerrors "github.com/chizurashi/chizurashi-server/internal/errors"
)

// Session wires the composition draft, identity resolver, authorization
// guard, gateway, and poem list into one client session. It never mutates
// the poem list optimistically: the list changes only after the store
// confirms a write, and any failure leaves it untouched.
//
// Back-to-back writes to the same poem are not queued or fenced; the last
// confirmed result wins.
type Session struct {
	draft      *compose.Draft
	resolver   Resolver
	gateway    Gateway
	list       *PoemList
	signatures *SignatureStore
	logger     *slog.Logger
}

// NewSession creates a client session. The signature store may be nil;
// when present, the stored signature seeds the draft's author slot.
func NewSession(resolver Resolver, gateway Gateway, signatures *SignatureStore, logger *slog.Logger) *Session {
	s := &Session{
		draft:      compose.NewDraft(domain.KindHaiku, compose.DefaultOptions()),
		resolver:   resolver,
		gateway:    gateway,
		list:       NewPoemList(),
		signatures: signatures,
		logger:     logger,
	}

	if signatures != nil {
		if name, err := signatures.Signature(); err == nil && name != "" {
			s.draft.SetAuthor(name)
		} else if err != nil && logger != nil {
			logger.Warn("Could not load stored signature", "error", err)
		}
	}

	return s
}

// Draft returns the session's composition draft.
func (s *Session) Draft() *compose.Draft {
	return s.draft
}

// Poems returns a snapshot of the reconciled poem list.
func (s *Session) Poems() []*domain.Poem {
	return s.list.Poems()
}

// Identity returns the current identity, or nil when signed out.
func (s *Session) Identity() *domain.Identity {
	return s.resolver.Current()
}

// CanMutate reports whether the current identity may edit or delete the
// given poem. UIs use this to hide controls the guard would reject anyway.
func (s *Session) CanMutate(poem *domain.Poem) bool {
	return domain.CanMutate(poem, s.resolver.Current())
}

// Refresh replaces the poem list with a fresh store snapshot.
// On failure the list keeps its previous contents.
func (s *Session) Refresh(ctx context.Context) error {
	poems, err := s.gateway.List(ctx)
	if err != nil {
		return err
	}
	s.list.ReplaceAll(poems)
	return nil
}

// Submit sends the finished draft to the store. The confirmed poem lands
// at the front of the list, the draft resets, and a non-empty signature is
// persisted for next time.
func (s *Session) Submit(ctx context.Context) (*domain.Poem, error) {
	if s.resolver.Current() == nil {
		return nil, domainerrors.IdentityRequired("sign in to submit poems")
	}

	if !s.draft.CanSubmit() {
		return nil, domainerrors.Validationf("a %s draft needs all its lines filled", s.draft.Kind())
	}

	pos := s.draft.Position()
	if pos == nil {
		return nil, domainerrors.Validation("pick a spot on the map first")
	}

	author := s.draft.Author()
	poem, err := s.gateway.Create(ctx, CreateRequest{
		Kind:   string(s.draft.Kind()),
		Text:   s.draft.BuildText(),
		Lat:    pos.Lat,
		Lon:    pos.Lon,
		Author: author,
	})
	if err != nil {
		return nil, err
	}

	s.list.UpsertFront(poem)
	s.draft.Reset()

	if s.signatures != nil && author != "" {
		if err := s.signatures.SetSignature(author); err != nil && s.logger != nil {
			s.logger.Warn("Could not persist signature", "error", err)
		}
	}

	return poem, nil
}

// EditText rewrites a poem's text. The guard runs before any store call:
// a non-owner is rejected locally and the store never sees the request.
func (s *Session) EditText(ctx context.Context, poemID, text string) (*domain.Poem, error) {
	poem, err := s.guardMutation(poemID)
	if err != nil {
		return nil, err
	}

	updated, err := s.gateway.UpdateText(ctx, poem.ID, text)
	if err != nil {
		return nil, err
	}

	s.list.UpsertByID(updated)
	return updated, nil
}

// Delete removes a poem. Guarded like EditText.
func (s *Session) Delete(ctx context.Context, poemID string) error {
	poem, err := s.guardMutation(poemID)
	if err != nil {
		return err
	}

	if err := s.gateway.Delete(ctx, poem.ID); err != nil {
		return err
	}

	s.list.RemoveByID(poem.ID)
	return nil
}

// ToggleAppreciation flips the current identity's appreciation of a poem.
// Any signed-in identity may toggle; ownership is not required.
func (s *Session) ToggleAppreciation(ctx context.Context, poemID string) (*domain.Poem, error) {
	ident := s.resolver.Current()
	if ident == nil {
		return nil, domainerrors.IdentityRequired("sign in to appreciate poems")
	}

	poem, ok := s.list.Get(poemID)
	if !ok {
		return nil, domainerrors.NotFoundf("poem %q is not in the list", poemID)
	}

	intended := domain.NextAppreciation(poem.AppreciatedBy, ident.Handle)

	updated, err := s.gateway.ToggleAppreciation(ctx, poem.ID)
	if err != nil {
		return nil, err
	}

	// A concurrent toggle can make the confirmed list differ from the
	// intended one; the store's answer wins.
	if s.logger != nil && !slices.Equal(intended, updated.AppreciatedBy) {
		s.logger.Debug("Appreciation resolved differently than intended",
			"poem_id", poem.ID,
			"intended", intended,
			"confirmed", updated.AppreciatedBy,
		)
	}

	s.list.UpsertByID(updated)
	return updated, nil
}

// guardMutation resolves the identity and checks ownership of the poem
// before any gateway call.
func (s *Session) guardMutation(poemID string) (*domain.Poem, error) {
	ident := s.resolver.Current()
	if ident == nil {
		return nil, domainerrors.IdentityRequired("sign in to change poems")
	}

	poem, ok := s.list.Get(poemID)
	if !ok {
		return nil, domainerrors.NotFoundf("poem %q is not in the list", poemID)
	}

	if !domain.CanMutate(poem, ident) {
		return nil, domainerrors.Forbidden("only the poem's owner may change it")
	}

	return poem, nil
}
