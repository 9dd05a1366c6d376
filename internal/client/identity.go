package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/chizurashi/chizurashi-server/internal/domain"
)

// Resolver reports who the client is acting as. A nil identity means
// signed out; resolution failures are swallowed and reported as signed out
// so the map stays usable in read-only mode.
type Resolver interface {
	// Current returns the resolved identity, or nil when signed out.
	Current() *domain.Identity
	// Subscribe registers a callback invoked with the current identity
	// immediately and again on every change. It returns an unsubscribe func.
	Subscribe(fn func(*domain.Identity)) func()
}

// StaticResolver always reports the same identity. Used in tests and in
// identity-less deployments (nil identity, everything read-only).
type StaticResolver struct {
	ident *domain.Identity
}

// NewStaticResolver creates a resolver pinned to the given identity.
func NewStaticResolver(ident *domain.Identity) *StaticResolver {
	return &StaticResolver{ident: ident}
}

// Current implements Resolver.
func (r *StaticResolver) Current() *domain.Identity {
	return r.ident
}

// Subscribe implements Resolver. The identity never changes, so the
// callback fires once.
func (r *StaticResolver) Subscribe(fn func(*domain.Identity)) func() {
	fn(r.ident)
	return func() {}
}

// TokenResolver resolves the identity behind an access token by asking the
// server. Call Refresh after sign-in or sign-out to re-resolve.
type TokenResolver struct {
	baseURL string
	client  *http.Client
	tokens  TokenProvider
	logger  *slog.Logger

	mu          sync.Mutex
	current     *domain.Identity
	subscribers map[int]func(*domain.Identity)
	nextSubID   int
}

// NewTokenResolver creates a resolver backed by the server's /users/me
// endpoint. The initial state is signed out until Refresh is called.
func NewTokenResolver(baseURL string, tokens TokenProvider, logger *slog.Logger) *TokenResolver {
	return &TokenResolver{
		baseURL:     baseURL,
		client:      &http.Client{Timeout: 10 * time.Second},
		tokens:      tokens,
		logger:      logger,
		subscribers: make(map[int]func(*domain.Identity)),
	}
}

// Current implements Resolver.
func (r *TokenResolver) Current() *domain.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Subscribe implements Resolver.
func (r *TokenResolver) Subscribe(fn func(*domain.Identity)) func() {
	r.mu.Lock()
	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = fn
	current := r.current
	r.mu.Unlock()

	// Initial resolution fires the callback with whatever we know now.
	fn(current)

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subscribers, id)
	}
}

// Refresh re-resolves the identity and notifies subscribers on change.
// Any failure resolves to signed out rather than an error.
func (r *TokenResolver) Refresh(ctx context.Context) {
	r.set(r.resolve(ctx))
}

func (r *TokenResolver) set(ident *domain.Identity) {
	r.mu.Lock()
	changed := !identityEqual(r.current, ident)
	r.current = ident
	var fns []func(*domain.Identity)
	if changed {
		for _, fn := range r.subscribers {
			fns = append(fns, fn)
		}
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(ident)
	}
}

func identityEqual(a, b *domain.Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// currentUserPayload is the wire shape of the /users/me response body.
type currentUserPayload struct {
	Identity struct {
		Handle      string `json:"handle"`
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
	} `json:"identity"`
}

func (r *TokenResolver) resolve(ctx context.Context) *domain.Identity {
	token := ""
	if r.tokens != nil {
		token = r.tokens()
	}
	if token == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/api/v1/users/me", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := r.client.Do(req)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("Identity resolution failed", "error", err)
		}
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil
	}

	var env envelope[currentUserPayload]
	if err := json.Unmarshal(body, &env); err != nil || !env.Success {
		return nil
	}

	ident := &domain.Identity{
		Handle:      env.Data.Identity.Handle,
		DisplayName: env.Data.Identity.DisplayName,
		Email:       env.Data.Identity.Email,
	}
	if ident.Handle == "" {
		return nil
	}
	return ident
}
