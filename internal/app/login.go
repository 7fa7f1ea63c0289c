package app

import (
	"context"

	"github.com/wolfman30/hospital-booking-client/internal/auth"
	"github.com/wolfman30/hospital-booking-client/internal/gateway"
	"github.com/wolfman30/hospital-booking-client/internal/notify"
)

// Login is the sign-in view.
type Login struct {
	service  *auth.Service
	notifier notify.Notifier
}

// Submit signs in with creds. On success the user is sent home.
func (l *Login) Submit(ctx context.Context, creds gateway.Credentials) error {
	if err := l.service.Login(ctx, creds); err != nil {
		l.notifier.Failure(MsgLoginFailed, err)
		return err
	}
	l.notifier.Success(MsgLoggedIn)
	return nil
}

// Logout forgets the session token.
func (l *Login) Logout(ctx context.Context) error {
	return l.service.Logout(ctx)
}
