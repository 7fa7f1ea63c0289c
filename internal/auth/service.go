package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfman30/hospital-booking-client/internal/gateway"
	"github.com/wolfman30/hospital-booking-client/internal/navigation"
	"github.com/wolfman30/hospital-booking-client/pkg/logging"
)

var (
	// ErrMissingCredentials is returned when email or password is blank.
	ErrMissingCredentials = errors.New("auth: email and password are required")

	// ErrNoToken is returned when the auth endpoint accepts the login but issues no token.
	ErrNoToken = errors.New("auth: login response carried no token")
)

// Service signs the user in and out.
type Service struct {
	authenticator gateway.Authenticator
	store         TokenStore
	nav           navigation.Navigator
	logger        *logging.Logger
}

// NewService wires login/logout.
func NewService(authenticator gateway.Authenticator, store TokenStore, nav navigation.Navigator, logger *logging.Logger) *Service {
	if authenticator == nil || store == nil {
		panic("auth: authenticator and token store required")
	}
	if nav == nil {
		nav = navigation.Discard
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{authenticator: authenticator, store: store, nav: nav, logger: logger}
}

// Login exchanges creds for a token, stores it and navigates home.
func (s *Service) Login(ctx context.Context, creds gateway.Credentials) error {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return ErrMissingCredentials
	}

	res, err := s.authenticator.Login(ctx, creds)
	if err != nil {
		s.logger.Warn("login failed", "email", creds.Email, "error", err)
		return fmt.Errorf("auth: login: %w", err)
	}
	if res == nil || res.Token == "" {
		return ErrNoToken
	}
	if err := s.store.SetToken(ctx, res.Token); err != nil {
		return err
	}

	s.logger.Info("user logged in", "email", creds.Email)
	s.nav.Navigate(navigation.ToHome)
	return nil
}

// Logout forgets the token and navigates to the login view.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("user logged out")
	s.nav.Navigate(navigation.ToLogin)
	return nil
}
