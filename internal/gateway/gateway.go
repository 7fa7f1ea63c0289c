package gateway

import "context"

// Gateway is the remote persistence API for doctors and appointments.
type Gateway interface {
	ListDoctors(ctx context.Context) ([]Doctor, error)
	ListAppointments(ctx context.Context) ([]Appointment, error)
	CreateAppointment(ctx context.Context, req NewAppointment) (*Appointment, error)
	UpdateAppointment(ctx context.Context, id ID, req AppointmentUpdate) (*Appointment, error)
	DeleteAppointment(ctx context.Context, id ID) error
}

// Authenticator exchanges credentials for a session token.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (*LoginResult, error)
}

// TokenSource supplies the bearer token attached to outgoing calls. An empty
// token means the call is sent without an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

var (
	_ Gateway       = (*Client)(nil)
	_ Authenticator = (*Client)(nil)
)
