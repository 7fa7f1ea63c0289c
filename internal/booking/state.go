// Package booking models the single booking/edit session: which doctor or
// appointment the user is acting on and what happens on submit.
package booking

import "github.com/wolfman30/hospital-booking-client/internal/gateway"

// State is either Closed or Open.
type State interface {
	isState()
}

// Closed means no booking or edit is in progress.
type Closed struct{}

// Open is an in-progress booking or edit. Doctor is a private copy; it never
// aliases the directory's roster.
type Open struct {
	Doctor gateway.Doctor
	Mode   Mode
}

func (Closed) isState() {}
func (Open) isState()   {}

func (o Open) clone() Open {
	o.Doctor = o.Doctor.Clone()
	return o
}

// Mode is either CreateMode or EditMode.
type Mode interface {
	isMode()
}

// CreateMode books a new appointment. Disease is the search term the doctor
// was found with and becomes the appointment's disease snapshot.
type CreateMode struct {
	Disease string
}

// EditMode rewrites Original.
type EditMode struct {
	Original gateway.Appointment
}

func (CreateMode) isMode() {}
func (EditMode) isMode()   {}

// DoctorFromAppointment rebuilds the doctor shown while editing from the
// appointment's snapshot fields. It is not the live roster entry.
func DoctorFromAppointment(a gateway.Appointment) gateway.Doctor {
	return gateway.Doctor{
		ID:        a.DoctorID,
		Name:      a.DoctorName,
		Specialty: a.Specialization,
		Diseases:  []string{a.Disease},
	}
}
