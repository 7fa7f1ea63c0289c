// Package gateway contains the booking API types and the REST client used to
// read doctors and read/write appointments.
package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a doctor or appointment. The API may hand out numeric or
// string identifiers; both decode into ID and it always encodes as a string.
type ID string

// String returns the identifier text.
func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts JSON strings and numbers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("gateway: id must be a string or number: %w", err)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}

// Doctor is a roster entry. Clients never modify doctors.
type Doctor struct {
	ID        ID       `json:"id"`
	Name      string   `json:"name"`
	Specialty string   `json:"specialty"`
	Diseases  []string `json:"diseases"`
}

// Clone returns a deep copy so callers never share the Diseases backing array.
func (d Doctor) Clone() Doctor {
	out := d
	if d.Diseases != nil {
		out.Diseases = append([]string(nil), d.Diseases...)
	}
	return out
}

// Appointment is a booked appointment.
//
// DoctorName, Specialization and Disease are copied when the appointment is
// booked and are not kept in sync with the doctor record afterwards.
type Appointment struct {
	ID             ID     `json:"id"`
	DoctorID       ID     `json:"doctorId"`
	DoctorName     string `json:"doctorName"`
	Specialization string `json:"specialization"`
	Disease        string `json:"disease"`
	Date           string `json:"date"`
	Time           string `json:"time"`
}

// NewAppointment is the create request body.
type NewAppointment struct {
	DoctorID       ID     `json:"doctorId"`
	DoctorName     string `json:"doctorName"`
	Specialization string `json:"specialization"`
	Disease        string `json:"disease,omitempty"`
	Date           string `json:"date"`
	Time           string `json:"time"`
}

// AppointmentUpdate is the update request body. All fields are sent.
type AppointmentUpdate struct {
	DoctorID       ID     `json:"doctorId"`
	DoctorName     string `json:"doctorName"`
	Specialization string `json:"specialization"`
	Disease        string `json:"disease"`
	Date           string `json:"date"`
	Time           string `json:"time"`
}

// Credentials are posted to the auth endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the session token issued by the auth endpoint.
type LoginResult struct {
	Token string `json:"token"`
}
