package main

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/wolfman30/hospital-booking-client/internal/gateway"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var errInvalidInput = errors.New("invalid input")

// validateSlot checks the date and time fields before anything is sent.
func validateSlot(date, timeOfDay string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: date %q must be YYYY-MM-DD", errInvalidInput, date)
	}
	if _, err := time.Parse(timeLayout, timeOfDay); err != nil {
		return fmt.Errorf("%w: time %q must be HH:MM", errInvalidInput, timeOfDay)
	}
	return nil
}

func validateCredentials(creds gateway.Credentials) error {
	email := strings.TrimSpace(creds.Email)
	if email == "" {
		return fmt.Errorf("%w: email is required", errInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email", errInvalidInput)
	}
	if creds.Password == "" {
		return fmt.Errorf("%w: password is required", errInvalidInput)
	}
	return nil
}

func joinDiseases(diseases []string) string {
	return strings.Join(diseases, ", ")
}
