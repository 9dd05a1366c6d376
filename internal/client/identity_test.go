package client

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chizurashi/chizurashi-server/internal/domain"
)

func TestStaticResolver_SubscribeFiresImmediately(t *testing.T) {
	r := NewStaticResolver(identU1())

	var got *domain.Identity
	unsubscribe := r.Subscribe(func(ident *domain.Identity) { got = ident })
	defer unsubscribe()

	require.NotNil(t, got)
	assert.Equal(t, "user_1", got.Handle)
}

func TestTokenResolver_ResolvesViaServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/me", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"v":1,"success":true,"data":{"user":{"id":"user_1"},"identity":{"handle":"user_1","display_name":"芭蕉","email":"basho@example.com"}}}`))
	}))
	t.Cleanup(srv.Close)

	r := NewTokenResolver(srv.URL, func() string { return "tok" }, slog.New(slog.DiscardHandler))
	assert.Nil(t, r.Current(), "unresolved resolver starts signed out")

	r.Refresh(context.Background())

	ident := r.Current()
	require.NotNil(t, ident)
	assert.Equal(t, "user_1", ident.Handle)
	assert.Equal(t, "芭蕉", ident.DisplayName)
}

func TestTokenResolver_FailuresResolveToSignedOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	r := NewTokenResolver(srv.URL, func() string { return "expired" }, slog.New(slog.DiscardHandler))
	r.Refresh(context.Background())
	assert.Nil(t, r.Current())

	// No token at all short-circuits without a request.
	r = NewTokenResolver(srv.URL, func() string { return "" }, slog.New(slog.DiscardHandler))
	r.Refresh(context.Background())
	assert.Nil(t, r.Current())
}

func TestTokenResolver_SubscribeSeesChanges(t *testing.T) {
	signedIn := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if !signedIn {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"v":1,"success":true,"data":{"identity":{"handle":"user_1","display_name":"芭蕉"}}}`))
	}))
	t.Cleanup(srv.Close)

	r := NewTokenResolver(srv.URL, func() string { return "tok" }, slog.New(slog.DiscardHandler))

	var events []*domain.Identity
	unsubscribe := r.Subscribe(func(ident *domain.Identity) { events = append(events, ident) })

	// Initial fire with the signed-out state.
	require.Len(t, events, 1)
	assert.Nil(t, events[0])

	signedIn = true
	r.Refresh(context.Background())
	require.Len(t, events, 2)
	require.NotNil(t, events[1])
	assert.Equal(t, "user_1", events[1].Handle)

	// Unsubscribed callbacks see nothing further.
	unsubscribe()
	signedIn = false
	r.Refresh(context.Background())
	assert.Len(t, events, 2)
}
