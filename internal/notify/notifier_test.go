package notify

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/hospital-booking-client/pkg/logging"
)

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriterNotifier(&buf)
	n.Success("Appointment booked successfully!")
	n.Failure("Could not delete appointment", errors.New("boom"))
	n.Failure("Nothing selected", nil)

	assert.Equal(t, "Appointment booked successfully!\nCould not delete appointment: boom\nNothing selected\n", buf.String())
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logging.NewWithWriter("info", &buf))
	n.Success("saved")
	n.Failure("failed", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"message":"saved"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	_, ok := r.Last()
	require.False(t, ok)

	r.Success("ok")
	r.Failure("bad", nil)

	items := r.Notifications()
	require.Len(t, items, 2)
	assert.False(t, items[0].Failed())
	assert.True(t, items[1].Failed())

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, "bad", last.Message)
}
