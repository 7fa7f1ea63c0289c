// Package appointments keeps the client's list of booked appointments in step
// with the booking API.
package appointments

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/hospital-booking-client/internal/gateway"
	"github.com/wolfman30/hospital-booking-client/pkg/logging"
)

var appointmentsTracer = otel.Tracer("hms.internal.appointments")

// DeletePrompt is shown before an appointment is deleted.
const DeletePrompt = "Are you sure you want to delete this appointment?"

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Store owns the local appointment list. Local state only changes after the
// server confirms a call; a failed call leaves it untouched.
//
// Create does not insert locally. Callers see a new appointment after the
// next Load.
type Store struct {
	api    gateway.Gateway
	logger *logging.Logger

	mu    sync.RWMutex
	items []gateway.Appointment
}

// NewStore creates an empty store.
func NewStore(api gateway.Gateway, logger *logging.Logger) *Store {
	if api == nil {
		panic("appointments: gateway required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{api: api, logger: logger}
}

// Load replaces the local list with the server's.
func (s *Store) Load(ctx context.Context) error {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.load")
	defer span.End()

	appts, err := s.api.ListAppointments(ctx)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("error fetching appointments", "error", err)
		return fmt.Errorf("appointments: load: %w", err)
	}

	s.mu.Lock()
	s.items = append([]gateway.Appointment(nil), appts...)
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("hms.appointment_count", len(appts)))
	return nil
}

// Create books an appointment with doctor. disease is the snapshot of what the
// patient searched for and may be empty.
func (s *Store) Create(ctx context.Context, doctor gateway.Doctor, disease, date, timeOfDay string) (*gateway.Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.create")
	defer span.End()
	span.SetAttributes(attribute.String("hms.doctor_id", doctor.ID.String()))

	if doctor.ID == "" {
		return nil, ErrMissingDoctor
	}

	created, err := s.api.CreateAppointment(ctx, gateway.NewAppointment{
		DoctorID:       doctor.ID,
		DoctorName:     doctor.Name,
		Specialization: doctor.Specialty,
		Disease:        disease,
		Date:           date,
		Time:           timeOfDay,
	})
	if err != nil {
		span.RecordError(err)
		s.logger.Error("error booking appointment", "doctor_id", doctor.ID, "error", err)
		return nil, fmt.Errorf("appointments: create: %w", err)
	}

	var id gateway.ID
	if created != nil {
		id = created.ID
	}
	s.logger.Info("appointment booked", "appointment_id", id, "doctor_id", doctor.ID, "date", date, "time", timeOfDay)
	return created, nil
}

// Update rewrites an appointment. The doctor id and disease are inherited from
// original; doctor name, specialization, date and time come from the edit. On
// success the local record's doctor name, date and time are replaced in place.
func (s *Store) Update(ctx context.Context, original gateway.Appointment, doctor gateway.Doctor, date, timeOfDay string) error {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.update")
	defer span.End()
	span.SetAttributes(attribute.String("hms.appointment_id", original.ID.String()))

	if original.ID == "" {
		return ErrMissingID
	}

	_, err := s.api.UpdateAppointment(ctx, original.ID, gateway.AppointmentUpdate{
		DoctorID:       original.DoctorID,
		DoctorName:     doctor.Name,
		Specialization: doctor.Specialty,
		Disease:        original.Disease,
		Date:           date,
		Time:           timeOfDay,
	})
	if err != nil {
		span.RecordError(err)
		s.logger.Error("error updating appointment", "appointment_id", original.ID, "error", err)
		return fmt.Errorf("appointments: update: %w", err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == original.ID {
			s.items[i].DoctorName = doctor.Name
			s.items[i].Date = date
			s.items[i].Time = timeOfDay
		}
	}
	s.mu.Unlock()

	s.logger.Info("appointment updated", "appointment_id", original.ID, "date", date, "time", timeOfDay)
	return nil
}

// Delete removes an appointment after confirm agrees. A declined confirmation
// returns (false, nil) without calling the server.
func (s *Store) Delete(ctx context.Context, id gateway.ID, confirm Confirmer) (bool, error) {
	if id == "" {
		return false, ErrMissingID
	}
	if confirm == nil || !confirm.Confirm(DeletePrompt) {
		s.logger.Debug("appointment delete not confirmed", "appointment_id", id)
		return false, nil
	}

	ctx, span := appointmentsTracer.Start(ctx, "appointments.delete")
	defer span.End()
	span.SetAttributes(attribute.String("hms.appointment_id", id.String()))

	if err := s.api.DeleteAppointment(ctx, id); err != nil {
		span.RecordError(err)
		s.logger.Error("error deleting appointment", "appointment_id", id, "error", err)
		return false, fmt.Errorf("appointments: delete: %w", err)
	}

	s.mu.Lock()
	kept := make([]gateway.Appointment, 0, len(s.items))
	for _, a := range s.items {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.items = kept
	s.mu.Unlock()

	s.logger.Info("appointment deleted", "appointment_id", id)
	return true, nil
}

// List returns a copy of the local list in server order.
func (s *Store) List() []gateway.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]gateway.Appointment{}, s.items...)
}

// Get returns the local record with id.
func (s *Store) Get(id gateway.ID) (gateway.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.items {
		if a.ID == id {
			return a, true
		}
	}
	return gateway.Appointment{}, false
}
