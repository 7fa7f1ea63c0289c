// Package app composes the booking core into the three views a user moves
// between: login, home (doctor search and booking) and appointments.
package app

import (
	"context"
	"errors"

	"github.com/wolfman30/hospital-booking-client/internal/appointments"
	"github.com/wolfman30/hospital-booking-client/internal/auth"
	"github.com/wolfman30/hospital-booking-client/internal/booking"
	"github.com/wolfman30/hospital-booking-client/internal/directory"
	"github.com/wolfman30/hospital-booking-client/internal/gateway"
	"github.com/wolfman30/hospital-booking-client/internal/navigation"
	"github.com/wolfman30/hospital-booking-client/internal/notify"
	"github.com/wolfman30/hospital-booking-client/pkg/logging"
)

// User-visible messages.
const (
	MsgLoggedIn           = "User login successful!"
	MsgLoginFailed        = "Login failed"
	MsgBooked             = "Appointment booked successfully!"
	MsgBookFailed         = "Error booking appointment"
	MsgUpdated            = "Appointment updated successfully!"
	MsgUpdateFailed       = "Error updating appointment"
	MsgDeleted            = "Appointment deleted successfully"
	MsgDeleteFailed       = "Error deleting appointment"
	MsgDoctorsFailed      = "Error fetching doctors"
	MsgAppointmentsFailed = "Error fetching appointments"
	MsgNothingToSubmit    = "No booking in progress"
)

var (
	// ErrUnauthenticated is returned by view actions when no session token is stored.
	ErrUnauthenticated = errors.New("app: not logged in")
	// ErrUnknownDoctor is returned when a doctor id is not in the roster.
	ErrUnknownDoctor = errors.New("app: unknown doctor")
	// ErrUnknownAppointment is returned when an appointment id is not in the local list.
	ErrUnknownAppointment = errors.New("app: unknown appointment")
)

// Deps are the collaborators shared by every view.
type Deps struct {
	Gateway       gateway.Gateway
	Authenticator gateway.Authenticator
	Tokens        auth.TokenStore
	Navigator     navigation.Navigator
	Notifier      notify.Notifier
	Logger        *logging.Logger
}

// App holds one instance of each view over a shared core. Home and
// Appointments share a single booking session.
type App struct {
	Guard        *auth.Guard
	Directory    *directory.Directory
	Store        *appointments.Store
	Session      *booking.Session
	Home         *Home
	Appointments *Appointments
	Login        *Login
}

// New wires the views.
func New(deps Deps) *App {
	if deps.Gateway == nil || deps.Tokens == nil {
		panic("app: gateway and token store required")
	}
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	if deps.Navigator == nil {
		deps.Navigator = navigation.Discard
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NewLogNotifier(deps.Logger)
	}

	guard := auth.NewGuard(deps.Tokens, deps.Logger)
	dir := directory.New(deps.Gateway, deps.Logger)
	store := appointments.NewStore(deps.Gateway, deps.Logger)
	session := booking.NewSession(store, deps.Logger)

	a := &App{
		Guard:     guard,
		Directory: dir,
		Store:     store,
		Session:   session,
		Home: &Home{
			guard: guard, dir: dir, session: session,
			nav: deps.Navigator, notifier: deps.Notifier, logger: deps.Logger,
		},
		Appointments: &Appointments{
			guard: guard, store: store, session: session,
			nav: deps.Navigator, notifier: deps.Notifier, logger: deps.Logger,
		},
	}
	if deps.Authenticator != nil {
		a.Login = &Login{
			service:  auth.NewService(deps.Authenticator, deps.Tokens, deps.Navigator, deps.Logger),
			notifier: deps.Notifier,
		}
	}
	return a
}

// submitSession commits the open session and reports the outcome through n.
func submitSession(ctx context.Context, s *booking.Session, n notify.Notifier, date, timeOfDay string) (*booking.Result, error) {
	open, ok := s.Current()
	if !ok {
		n.Failure(MsgNothingToSubmit, booking.ErrNoSession)
		return nil, booking.ErrNoSession
	}
	_, editing := open.Mode.(booking.EditMode)

	res, err := s.Submit(ctx, date, timeOfDay)
	if err != nil {
		if editing {
			n.Failure(MsgUpdateFailed, err)
		} else {
			n.Failure(MsgBookFailed, err)
		}
		return nil, err
	}
	if _, ok := res.Mode.(booking.EditMode); ok {
		n.Success(MsgUpdated)
	} else {
		n.Success(MsgBooked)
	}
	return res, nil
}
