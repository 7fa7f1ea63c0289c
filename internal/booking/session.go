package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wolfman30/hospital-booking-client/internal/gateway"
	"github.com/wolfman30/hospital-booking-client/pkg/logging"
)

// ErrNoSession is returned by Submit when nothing is open.
var ErrNoSession = errors.New("booking: no session open")

// Committer persists a submitted session. *appointments.Store satisfies it.
type Committer interface {
	Create(ctx context.Context, doctor gateway.Doctor, disease, date, timeOfDay string) (*gateway.Appointment, error)
	Update(ctx context.Context, original gateway.Appointment, doctor gateway.Doctor, date, timeOfDay string) error
}

// Result describes a successful submit.
type Result struct {
	Mode    Mode
	Created *gateway.Appointment
}

// Session is the single booking/edit slot. Opening a new session replaces
// whatever was open.
type Session struct {
	committer Committer
	logger    *logging.Logger

	mu    sync.Mutex
	state State
	// gen increments every time a session is opened or closed.
	gen uint64
}

// NewSession creates a closed session.
func NewSession(committer Committer, logger *logging.Logger) *Session {
	if committer == nil {
		panic("booking: committer required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Session{committer: committer, logger: logger, state: Closed{}}
}

// BeginBooking opens a create session for doctor.
func (s *Session) BeginBooking(doctor gateway.Doctor, searchTerm string) Open {
	open := Open{Doctor: doctor.Clone(), Mode: CreateMode{Disease: searchTerm}}
	s.replace(open)
	return open.clone()
}

// BeginEdit opens an edit session for appt, showing the doctor rebuilt from
// the appointment's snapshot.
func (s *Session) BeginEdit(appt gateway.Appointment) Open {
	open := Open{Doctor: DoctorFromAppointment(appt), Mode: EditMode{Original: appt}}
	s.replace(open)
	return open.clone()
}

// Cancel closes the session.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Closed{}
	s.gen++
}

// ChangeDoctor swaps the doctor of the open session, keeping its mode. In edit
// mode the new doctor's name and specialty are what Submit sends.
func (s *Session) ChangeDoctor(doctor gateway.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	open, ok := s.state.(Open)
	if !ok {
		return ErrNoSession
	}
	open.Doctor = doctor.Clone()
	s.state = open
	return nil
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if open, ok := s.state.(Open); ok {
		return open.clone()
	}
	return s.state
}

// Current returns the open session, if any.
func (s *Session) Current() (Open, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	open, ok := s.state.(Open)
	if !ok {
		return Open{}, false
	}
	return open.clone(), true
}

// IsOpen reports whether a booking or edit is in progress.
func (s *Session) IsOpen() bool {
	_, ok := s.Current()
	return ok
}

// Submit commits the open session with the chosen date and time. On success
// the session closes; on failure it stays open, unchanged, so the user can
// retry or cancel.
func (s *Session) Submit(ctx context.Context, date, timeOfDay string) (*Result, error) {
	s.mu.Lock()
	open, ok := s.state.(Open)
	gen := s.gen
	s.mu.Unlock()
	if !ok {
		return nil, ErrNoSession
	}
	open.Doctor = open.Doctor.Clone()

	result := &Result{Mode: open.Mode}
	switch mode := open.Mode.(type) {
	case CreateMode:
		created, err := s.committer.Create(ctx, open.Doctor, mode.Disease, date, timeOfDay)
		if err != nil {
			return nil, fmt.Errorf("booking: submit: %w", err)
		}
		result.Created = created
	case EditMode:
		if err := s.committer.Update(ctx, mode.Original, open.Doctor, date, timeOfDay); err != nil {
			return nil, fmt.Errorf("booking: submit: %w", err)
		}
	default:
		return nil, fmt.Errorf("booking: unknown mode %T", open.Mode)
	}

	s.mu.Lock()
	// A session opened while the call was in flight wins over this close.
	if s.gen == gen {
		s.state = Closed{}
		s.gen++
	}
	s.mu.Unlock()
	return result, nil
}

func (s *Session) replace(open Open) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.state.(Open); ok {
		s.logger.Debug("booking session replaced", "previous_doctor_id", prev.Doctor.ID, "doctor_id", open.Doctor.ID)
	}
	s.state = open
	s.gen++
}
