package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/hospital-booking-client/internal/gateway"
	"github.com/wolfman30/hospital-booking-client/internal/gateway/gatewaytest"
)

var drA = gateway.Doctor{ID: "d1", Name: "Dr. A", Specialty: "Cardio", Diseases: []string{"flu", "cold"}}

func setupEnv(t *testing.T) *gatewaytest.Server {
	t.Helper()
	srv := gatewaytest.NewServer(t, drA)
	srv.AddUser("pat@example.com", "secret")
	srv.RequireToken(true)

	t.Setenv("API_BASE_URL", srv.URL)
	t.Setenv("AUTH_BASE_URL", srv.URL)
	t.Setenv("TOKEN_STORE", "file")
	t.Setenv("TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("LOG_LEVEL", "error")
	return srv
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := execute(strings.NewReader(stdin), &out, &errOut, append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	return out.String(), err
}

func login(t *testing.T) {
	t.Helper()
	out, err := run(t, "", "login", "--email", "pat@example.com", "--password", "secret")
	require.NoError(t, err)
	require.Contains(t, out, "User login successful!")
}

func TestDoctorsRequiresLogin(t *testing.T) {
	srv := setupEnv(t)

	_, err := run(t, "", "doctors", "search", "flu")
	require.Error(t, err)
	assert.Equal(t, 0, srv.Calls(gatewaytest.OpListDoctors))
}

func TestLoginSearchBookList(t *testing.T) {
	srv := setupEnv(t)
	login(t)

	out, err := run(t, "", "doctors", "search", "FLU")
	require.NoError(t, err)
	assert.Contains(t, out, "Dr. A")

	out, err = run(t, "", "doctors", "search", "cancer")
	require.NoError(t, err)
	assert.Contains(t, out, "No doctors found")

	out, err = run(t, "", "book", "d1", "--date", "2024-05-01", "--time", "10:00", "--disease", "flu")
	require.NoError(t, err)
	assert.Contains(t, out, "Appointment booked successfully!")
	require.Len(t, srv.Appointments(), 1)
	assert.Equal(t, "flu", srv.Appointments()[0].Disease)

	out, err = run(t, "", "appointments", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Dr. A")
	assert.Contains(t, out, "2024-05-01")
}

func TestBookValidatesSlot(t *testing.T) {
	srv := setupEnv(t)
	login(t)

	_, err := run(t, "", "book", "d1", "--date", "05/01/2024", "--time", "10:00")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errInvalidInput))
	assert.Equal(t, 0, srv.Calls(gatewaytest.OpCreateAppointment))
}

func TestBookRejectsDoctorOutsideSearch(t *testing.T) {
	srv := setupEnv(t)
	login(t)

	_, err := run(t, "", "book", "d1", "--date", "2024-05-01", "--time", "10:00", "--disease", "cancer")
	require.Error(t, err)
	assert.Equal(t, 0, srv.Calls(gatewaytest.OpCreateAppointment))

	_, err = run(t, "", "book", "d1", "--date", "2024-05-01", "--time", "10:00")
	require.NoError(t, err)
	require.Len(t, srv.Appointments(), 1)
	assert.Empty(t, srv.Appointments()[0].Disease)
}

func TestEditAndDelete(t *testing.T) {
	srv := setupEnv(t)
	srv.SeedAppointment(gateway.Appointment{ID: "7", DoctorID: "d1", DoctorName: "Dr. A", Specialization: "Cardio", Disease: "flu", Date: "2024-05-01", Time: "10:00"})
	login(t)

	out, err := run(t, "", "appointments", "edit", "7", "--date", "2024-06-01", "--time", "11:30")
	require.NoError(t, err)
	assert.Contains(t, out, "Appointment updated successfully!")
	assert.Equal(t, "2024-06-01", srv.Appointments()[0].Date)

	out, err = run(t, "n\n", "appointments", "delete", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Are you sure you want to delete this appointment?")
	assert.Contains(t, out, "Nothing deleted")
	assert.Equal(t, 0, srv.Calls(gatewaytest.OpDeleteAppointment))

	out, err = run(t, "yes\n", "appointments", "delete", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Appointment deleted successfully")
	assert.Empty(t, srv.Appointments())
}

func TestLogout(t *testing.T) {
	setupEnv(t)
	login(t)

	out, err := run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = run(t, "", "appointments", "list")
	assert.Error(t, err)
}

func TestMetricsFile(t *testing.T) {
	setupEnv(t)
	login(t)
	path := filepath.Join(t.TempDir(), "hms.prom")

	_, err := run(t, "", "--metrics-file", path, "doctors", "search", "flu")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `hms_gateway_calls_total{operation="list_doctors",outcome="ok"} 1`)
}

func TestMetricsFileWrittenOnFailure(t *testing.T) {
	srv := setupEnv(t)
	login(t)
	srv.FailNext(gatewaytest.OpCreateAppointment, 503)
	path := filepath.Join(t.TempDir(), "hms.prom")

	_, err := run(t, "", "--metrics-file", path, "book", "d1", "--date", "2024-05-01", "--time", "10:00", "--disease", "flu")
	require.Error(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `hms_gateway_calls_total{operation="create_appointment",outcome="network"} 1`)
}

func TestLoginPromptsForPassword(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "secret\n", "login", "--email", "pat@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "--password")
	assert.Contains(t, out, "User login successful!")
}

func TestValidateSlot(t *testing.T) {
	tests := []struct {
		date, time string
		ok         bool
	}{
		{"2024-05-01", "10:00", true},
		{"2024-02-30", "10:00", false},
		{"2024-05-01", "25:00", false},
		{"", "10:00", false},
		{"2024-05-01", "", false},
	}
	for _, tt := range tests {
		err := validateSlot(tt.date, tt.time)
		if tt.ok {
			assert.NoError(t, err, "%s %s", tt.date, tt.time)
		} else {
			assert.ErrorIs(t, err, errInvalidInput, "%s %s", tt.date, tt.time)
		}
	}
}

func TestValidateCredentials(t *testing.T) {
	assert.NoError(t, validateCredentials(gateway.Credentials{Email: "pat@example.com", Password: "x"}))
	assert.ErrorIs(t, validateCredentials(gateway.Credentials{Email: "not-an-email", Password: "x"}), errInvalidInput)
	assert.ErrorIs(t, validateCredentials(gateway.Credentials{Email: "pat@example.com"}), errInvalidInput)
}
