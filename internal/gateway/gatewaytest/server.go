// Package gatewaytest provides an in-process booking API for tests. It serves
// the same routes as the real backend from in-memory tables and can be told
// to fail individual operations.
package gatewaytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/hospital-booking-client/internal/gateway"
)

// Operation names accepted by FailNext and Calls.
const (
	OpListDoctors       = "list_doctors"
	OpListAppointments  = "list_appointments"
	OpCreateAppointment = "create_appointment"
	OpUpdateAppointment = "update_appointment"
	OpDeleteAppointment = "delete_appointment"
	OpLogin             = "login"
)

// Server is a fake booking API.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	doctors      []gateway.Doctor
	appointments []gateway.Appointment
	nextID       int
	failures     map[string][]int
	calls        map[string]int
	users        map[string]string
	token        string
	requireToken bool
	lastAuth     string
}

// NewServer starts a fake API seeded with the given doctors. The server is
// closed when the test finishes.
func NewServer(t interface{ Cleanup(func()) }, doctors ...gateway.Doctor) *Server {
	s := &Server{
		nextID:   1,
		failures: make(map[string][]int),
		calls:    make(map[string]int),
		users:    make(map[string]string),
		token:    "test-session-token",
	}
	for _, d := range doctors {
		s.doctors = append(s.doctors, d.Clone())
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/user/", s.handleLogin)

	r.Group(func(api chi.Router) {
		api.Use(s.authorize)
		api.Get("/doctors", s.handleListDoctors)
		api.Route("/appointments", func(r chi.Router) {
			r.Get("/", s.handleListAppointments)
			r.Post("/", s.handleCreateAppointment)
			r.Put("/{id}", s.handleUpdateAppointment)
			r.Delete("/{id}", s.handleDeleteAppointment)
		})
	})
	return r
}

// SeedAppointment stores an appointment as-is. An empty ID gets the next
// numeric id.
func (s *Server) SeedAppointment(a gateway.Appointment) gateway.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = s.allocateID()
	} else if n, err := strconv.Atoi(a.ID.String()); err == nil && n >= s.nextID {
		s.nextID = n + 1
	}
	s.appointments = append(s.appointments, a)
	return a
}

// Appointments returns a copy of the server-side appointment table.
func (s *Server) Appointments() []gateway.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]gateway.Appointment(nil), s.appointments...)
}

// RemoveAppointment deletes a row behind the client's back.
func (s *Server) RemoveAppointment(id gateway.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = removeByID(s.appointments, id)
}

// FailNext makes the next call of op answer with status instead of being served.
// Multiple calls queue up.
func (s *Server) FailNext(op string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = append(s.failures[op], status)
}

// Calls reports how many times op reached the server, failed ones included.
func (s *Server) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// AddUser registers credentials accepted by the login endpoint.
func (s *Server) AddUser(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = password
}

// SetToken changes the token issued on login and, when required, expected on API calls.
func (s *Server) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// RequireToken makes every API route other than login demand the issued bearer token.
func (s *Server) RequireToken(require bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireToken = require
}

// LastAuthorization returns the Authorization header of the most recent API call.
func (s *Server) LastAuthorization() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		auth := r.Header.Get("Authorization")
		s.lastAuth = auth
		ok := !s.requireToken || auth == "Bearer "+s.token
		s.mu.Unlock()
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// begin counts the call and pops a queued failure. It returns false when the
// response was already written.
func (s *Server) begin(w http.ResponseWriter, op string) bool {
	s.mu.Lock()
	s.calls[op]++
	var status int
	if queued := s.failures[op]; len(queued) > 0 {
		status = queued[0]
		s.failures[op] = queued[1:]
	}
	s.mu.Unlock()
	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return false
	}
	return true
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, OpLogin) {
		return
	}
	var creds gateway.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	password, known := s.users[creds.Email]
	token := s.token
	s.mu.Unlock()
	if !known || password != creds.Password {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, gateway.LoginResult{Token: token})
}

func (s *Server) handleListDoctors(w http.ResponseWriter, _ *http.Request) {
	if !s.begin(w, OpListDoctors) {
		return
	}
	s.mu.Lock()
	out := make([]gateway.Doctor, 0, len(s.doctors))
	for _, d := range s.doctors {
		out = append(out, d.Clone())
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListAppointments(w http.ResponseWriter, _ *http.Request) {
	if !s.begin(w, OpListAppointments) {
		return
	}
	writeJSON(w, http.StatusOK, s.Appointments())
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, OpCreateAppointment) {
		return
	}
	var req gateway.NewAppointment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	appt := gateway.Appointment{
		ID:             s.allocateID(),
		DoctorID:       req.DoctorID,
		DoctorName:     req.DoctorName,
		Specialization: req.Specialization,
		Disease:        req.Disease,
		Date:           req.Date,
		Time:           req.Time,
	}
	s.appointments = append(s.appointments, appt)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, appt)
}

func (s *Server) handleUpdateAppointment(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, OpUpdateAppointment) {
		return
	}
	id := gateway.ID(chi.URLParam(r, "id"))
	var req gateway.AppointmentUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID != id {
			continue
		}
		s.appointments[i] = gateway.Appointment{
			ID:             id,
			DoctorID:       req.DoctorID,
			DoctorName:     req.DoctorName,
			Specialization: req.Specialization,
			Disease:        req.Disease,
			Date:           req.Date,
			Time:           req.Time,
		}
		writeJSON(w, http.StatusOK, s.appointments[i])
		return
	}
	http.Error(w, "appointment not found", http.StatusNotFound)
}

func (s *Server) handleDeleteAppointment(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, OpDeleteAppointment) {
		return
	}
	id := gateway.ID(chi.URLParam(r, "id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.appointments)
	s.appointments = removeByID(s.appointments, id)
	if len(s.appointments) == before {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

// allocateID must be called with mu held.
func (s *Server) allocateID() gateway.ID {
	id := gateway.ID(strconv.Itoa(s.nextID))
	s.nextID++
	return id
}

func removeByID(appts []gateway.Appointment, id gateway.ID) []gateway.Appointment {
	out := appts[:0]
	for _, a := range appts {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
