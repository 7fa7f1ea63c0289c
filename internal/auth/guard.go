package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wolfman30/hospital-booking-client/internal/navigation"
	"github.com/wolfman30/hospital-booking-client/pkg/logging"
)

// Guard gates the booking views on the presence of a session token.
type Guard struct {
	store  TokenStore
	logger *logging.Logger
	now    func() time.Time
}

// NewGuard creates a guard reading from store.
func NewGuard(store TokenStore, logger *logging.Logger) *Guard {
	if store == nil {
		panic("auth: token store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Guard{store: store, logger: logger, now: time.Now}
}

// IsAuthenticated reports whether a usable token is stored. Tokens that are
// not JWTs count as present; JWTs whose exp has passed do not. Signatures are
// not checked here, the API does that.
func (g *Guard) IsAuthenticated(ctx context.Context) bool {
	_, ok := g.usableToken(ctx)
	return ok
}

// Require returns true when authenticated. Otherwise it signals navigation to
// the login view and returns false.
func (g *Guard) Require(ctx context.Context, nav navigation.Navigator) bool {
	if g.IsAuthenticated(ctx) {
		return true
	}
	if nav != nil {
		nav.Navigate(navigation.ToLogin)
	}
	return false
}

// Token returns the stored token when it is usable, so a Guard can be handed
// to the gateway client as its token source.
func (g *Guard) Token(ctx context.Context) (string, error) {
	token, _ := g.usableToken(ctx)
	return token, nil
}

func (g *Guard) usableToken(ctx context.Context) (string, bool) {
	token, err := g.store.Token(ctx)
	if err != nil {
		g.logger.Warn("auth: token store unavailable", "error", err)
		return "", false
	}
	if token == "" {
		return "", false
	}
	if expired(token, g.now()) {
		g.logger.Debug("auth: stored token expired")
		return "", false
	}
	return token, true
}

func expired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil {
		// Opaque session tokens carry no expiry.
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
