// Package navigation carries view-change intents from the booking workflow to
// whatever renders views. It does no routing itself.
package navigation

import "sync"

// Intent names a destination view.
type Intent string

const (
	ToLogin        Intent = "login"
	ToHome         Intent = "home"
	ToAppointments Intent = "appointments"
)

// Navigator receives navigation intents.
type Navigator interface {
	Navigate(intent Intent)
}

// Func adapts a function to Navigator.
type Func func(Intent)

func (f Func) Navigate(intent Intent) { f(intent) }

// Discard ignores every intent.
var Discard Navigator = Func(func(Intent) {})

// Recorder remembers intents in order.
type Recorder struct {
	mu      sync.Mutex
	intents []Intent
}

func (r *Recorder) Navigate(intent Intent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intents = append(r.intents, intent)
}

// Intents returns a copy of everything recorded so far.
func (r *Recorder) Intents() []Intent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Intent(nil), r.intents...)
}

// Last returns the most recent intent.
func (r *Recorder) Last() (Intent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.intents) == 0 {
		return "", false
	}
	return r.intents[len(r.intents)-1], true
}
