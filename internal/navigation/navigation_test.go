package navigation

import "testing"

func TestRecorder(t *testing.T) {
	var r Recorder
	if _, ok := r.Last(); ok {
		t.Fatal("empty recorder should have no last intent")
	}
	r.Navigate(ToLogin)
	r.Navigate(ToAppointments)

	got := r.Intents()
	if len(got) != 2 || got[0] != ToLogin || got[1] != ToAppointments {
		t.Fatalf("Intents() = %v", got)
	}
	if last, _ := r.Last(); last != ToAppointments {
		t.Fatalf("Last() = %s, want %s", last, ToAppointments)
	}
}

func TestFunc(t *testing.T) {
	var seen Intent
	var nav Navigator = Func(func(i Intent) { seen = i })
	nav.Navigate(ToHome)
	if seen != ToHome {
		t.Fatalf("seen = %s, want %s", seen, ToHome)
	}
	Discard.Navigate(ToHome)
}
