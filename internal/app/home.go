package app

import (
	"context"
	"fmt"

	"github.com/wolfman30/hospital-booking-client/internal/auth"
	"github.com/wolfman30/hospital-booking-client/internal/booking"
	"github.com/wolfman30/hospital-booking-client/internal/directory"
	"github.com/wolfman30/hospital-booking-client/internal/gateway"
	"github.com/wolfman30/hospital-booking-client/internal/navigation"
	"github.com/wolfman30/hospital-booking-client/internal/notify"
	"github.com/wolfman30/hospital-booking-client/pkg/logging"
)

// Home is the doctor search and booking view.
type Home struct {
	guard    *auth.Guard
	dir      *directory.Directory
	session  *booking.Session
	nav      navigation.Navigator
	notifier notify.Notifier
	logger   *logging.Logger
}

// Mount checks the session token and loads the roster. It returns
// ErrUnauthenticated after redirecting to login. A failed roster load is
// reported but leaves the view usable with whatever roster it had.
func (h *Home) Mount(ctx context.Context) error {
	if !h.guard.Require(ctx, h.nav) {
		return ErrUnauthenticated
	}
	if err := h.dir.Load(ctx); err != nil {
		h.notifier.Failure(MsgDoctorsFailed, err)
	}
	return nil
}

// Search runs the explicit disease search and returns the matches.
func (h *Home) Search(term string) []gateway.Doctor {
	return h.dir.Search(term)
}

// Results returns the doctors currently listed and whether a search has run.
func (h *Home) Results() ([]gateway.Doctor, bool) {
	return h.dir.Results()
}

// SelectDoctor opens a booking for the doctor with id, replacing any open
// booking or edit. Only doctors listed by the last search can be picked, and
// that search term becomes the disease snapshot.
func (h *Home) SelectDoctor(id gateway.ID) (booking.Open, error) {
	doctor, term, ok := h.dir.Result(id)
	if !ok {
		return booking.Open{}, fmt.Errorf("%w: %s is not among the search results", ErrUnknownDoctor, id)
	}
	return h.session.BeginBooking(doctor, term), nil
}

// Submit books the selected doctor at date and time. On success the user is
// sent to the appointments view; on failure the booking stays open.
func (h *Home) Submit(ctx context.Context, date, timeOfDay string) error {
	res, err := submitSession(ctx, h.session, h.notifier, date, timeOfDay)
	if err != nil {
		h.logger.Warn("home: submit failed", "date", date, "time", timeOfDay, "error", err)
		return err
	}
	if _, created := res.Mode.(booking.CreateMode); created {
		h.logger.Debug("home: booking submitted", "date", date, "time", timeOfDay)
		h.nav.Navigate(navigation.ToAppointments)
	}
	return nil
}

// Cancel closes the booking without saving.
func (h *Home) Cancel() {
	h.session.Cancel()
}
