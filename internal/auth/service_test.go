package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/hospital-booking-client/internal/gateway"
	"github.com/wolfman30/hospital-booking-client/internal/gateway/gatewaytest"
	"github.com/wolfman30/hospital-booking-client/internal/navigation"
	"github.com/wolfman30/hospital-booking-client/pkg/logging"
)

type stubAuthenticator struct {
	result *gateway.LoginResult
	err    error
	calls  int
}

func (s *stubAuthenticator) Login(context.Context, gateway.Credentials) (*gateway.LoginResult, error) {
	s.calls++
	return s.result, s.err
}

func TestServiceLoginLogout(t *testing.T) {
	srv := gatewaytest.NewServer(t)
	srv.AddUser("pat@example.com", "secret")
	client := gateway.NewClient(gateway.Config{AuthBaseURL: srv.URL, BaseURL: srv.URL, Logger: logging.Discard()})

	store := NewMemoryTokenStore()
	nav := &navigation.Recorder{}
	svc := NewService(client, store, nav, logging.Discard())
	guard := NewGuard(store, logging.Discard())
	ctx := context.Background()

	require.NoError(t, svc.Login(ctx, gateway.Credentials{Email: " pat@example.com ", Password: "secret"}))
	assert.True(t, guard.IsAuthenticated(ctx))
	token, _ := store.Token(ctx)
	assert.Equal(t, "test-session-token", token)

	require.NoError(t, svc.Logout(ctx))
	assert.False(t, guard.IsAuthenticated(ctx))
	assert.Equal(t, []navigation.Intent{navigation.ToHome, navigation.ToLogin}, nav.Intents())
}

func TestServiceLoginRejected(t *testing.T) {
	srv := gatewaytest.NewServer(t)
	srv.AddUser("pat@example.com", "secret")
	client := gateway.NewClient(gateway.Config{AuthBaseURL: srv.URL, Logger: logging.Discard()})

	store := NewMemoryTokenStore()
	nav := &navigation.Recorder{}
	svc := NewService(client, store, nav, logging.Discard())

	err := svc.Login(context.Background(), gateway.Credentials{Email: "pat@example.com", Password: "nope"})
	require.Error(t, err)
	token, _ := store.Token(context.Background())
	assert.Empty(t, token)
	assert.Empty(t, nav.Intents())
}

func TestServiceLoginValidation(t *testing.T) {
	stub := &stubAuthenticator{result: &gateway.LoginResult{Token: "t"}}
	svc := NewService(stub, NewMemoryTokenStore(), nil, logging.Discard())

	assert.ErrorIs(t, svc.Login(context.Background(), gateway.Credentials{Email: "  ", Password: "x"}), ErrMissingCredentials)
	assert.ErrorIs(t, svc.Login(context.Background(), gateway.Credentials{Email: "a@b.c"}), ErrMissingCredentials)
	assert.Equal(t, 0, stub.calls)
}

func TestServiceLoginWithoutToken(t *testing.T) {
	stub := &stubAuthenticator{result: &gateway.LoginResult{}}
	store := NewMemoryTokenStore()
	svc := NewService(stub, store, nil, logging.Discard())

	err := svc.Login(context.Background(), gateway.Credentials{Email: "a@b.c", Password: "x"})
	assert.ErrorIs(t, err, ErrNoToken)
}
