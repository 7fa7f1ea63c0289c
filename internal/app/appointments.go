package app

import (
	"context"
	"fmt"

	"github.com/wolfman30/hospital-booking-client/internal/appointments"
	"github.com/wolfman30/hospital-booking-client/internal/auth"
	"github.com/wolfman30/hospital-booking-client/internal/booking"
	"github.com/wolfman30/hospital-booking-client/internal/gateway"
	"github.com/wolfman30/hospital-booking-client/internal/navigation"
	"github.com/wolfman30/hospital-booking-client/internal/notify"
	"github.com/wolfman30/hospital-booking-client/pkg/logging"
)

// Appointments is the view listing booked appointments with edit and delete.
type Appointments struct {
	guard    *auth.Guard
	store    *appointments.Store
	session  *booking.Session
	nav      navigation.Navigator
	notifier notify.Notifier
	logger   *logging.Logger
}

// Mount checks the session token and loads the appointment list.
func (a *Appointments) Mount(ctx context.Context) error {
	if !a.guard.Require(ctx, a.nav) {
		return ErrUnauthenticated
	}
	if err := a.store.Load(ctx); err != nil {
		a.notifier.Failure(MsgAppointmentsFailed, err)
	}
	return nil
}

// List returns the local appointment list.
func (a *Appointments) List() []gateway.Appointment {
	return a.store.List()
}

// Edit opens an edit session for the appointment with id.
func (a *Appointments) Edit(id gateway.ID) (booking.Open, error) {
	appt, ok := a.store.Get(id)
	if !ok {
		return booking.Open{}, fmt.Errorf("%w: %s", ErrUnknownAppointment, id)
	}
	return a.session.BeginEdit(appt), nil
}

// Submit saves the open edit with the new date and time.
func (a *Appointments) Submit(ctx context.Context, date, timeOfDay string) error {
	if _, err := submitSession(ctx, a.session, a.notifier, date, timeOfDay); err != nil {
		a.logger.Warn("appointments: submit failed", "date", date, "time", timeOfDay, "error", err)
		return err
	}
	return nil
}

// Cancel closes the edit without saving.
func (a *Appointments) Cancel() {
	a.session.Cancel()
}

// Delete removes the appointment with id once confirm agrees. It reports
// whether the appointment was deleted.
func (a *Appointments) Delete(ctx context.Context, id gateway.ID, confirm appointments.Confirmer) (bool, error) {
	deleted, err := a.store.Delete(ctx, id, confirm)
	if err != nil {
		a.logger.Warn("appointments: delete failed", "appointment_id", id, "error", err)
		a.notifier.Failure(MsgDeleteFailed, err)
		return false, err
	}
	if !deleted {
		a.logger.Debug("appointments: delete declined", "appointment_id", id)
		return false, nil
	}
	a.notifier.Success(MsgDeleted)
	return deleted, nil
}
