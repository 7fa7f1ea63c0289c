package appointments

import "errors"

var (
	// ErrMissingDoctor is returned when a booking has no doctor id.
	ErrMissingDoctor = errors.New("appointments: doctor id is required")

	// ErrMissingID is returned when an update or delete target has no id.
	ErrMissingID = errors.New("appointments: appointment id is required")
)
