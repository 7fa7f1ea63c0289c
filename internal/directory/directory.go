// Package directory holds the doctor roster fetched from the booking API and
// the disease search over it.
package directory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/hospital-booking-client/internal/gateway"
	"github.com/wolfman30/hospital-booking-client/pkg/logging"
)

var directoryTracer = otel.Tracer("hms.internal.directory")

// DoctorLister is the slice of the gateway the directory needs.
type DoctorLister interface {
	ListDoctors(ctx context.Context) ([]gateway.Doctor, error)
}

// Directory owns the roster. The displayed result list only changes on an
// explicit Search, never while a term is being typed.
type Directory struct {
	source DoctorLister
	logger *logging.Logger

	mu       sync.RWMutex
	roster   []gateway.Doctor
	results  []gateway.Doctor
	searched bool
	term     string
}

// New creates an empty directory.
func New(source DoctorLister, logger *logging.Logger) *Directory {
	if source == nil {
		panic("directory: doctor source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Directory{source: source, logger: logger}
}

// Load replaces the roster with the server's. On failure the previous roster
// is kept and the error is returned.
func (d *Directory) Load(ctx context.Context) error {
	ctx, span := directoryTracer.Start(ctx, "directory.load")
	defer span.End()

	doctors, err := d.source.ListDoctors(ctx)
	if err != nil {
		span.RecordError(err)
		d.logger.Error("error fetching doctors", "error", err)
		return fmt.Errorf("directory: load: %w", err)
	}

	roster := make([]gateway.Doctor, 0, len(doctors))
	for _, doc := range doctors {
		roster = append(roster, doc.Clone())
	}
	d.mu.Lock()
	d.roster = roster
	d.mu.Unlock()

	span.SetAttributes(attribute.Int("hms.doctor_count", len(roster)))
	d.logger.Debug("doctors loaded", "count", len(roster))
	return nil
}

// Filter returns, in roster order, the doctors treating at least one disease
// that contains term case-insensitively. It has no side effects.
func (d *Directory) Filter(term string) []gateway.Doctor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return filter(d.roster, term)
}

// Search runs Filter and makes the outcome the displayed result list.
func (d *Directory) Search(term string) []gateway.Doctor {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results = filter(d.roster, term)
	d.searched = true
	d.term = term
	d.logger.Debug("doctor search", "term", term, "matches", len(d.results))
	return cloneAll(d.results)
}

// Results returns the displayed list and whether a search has happened yet.
// Before the first Search it is empty with searched == false.
func (d *Directory) Results() (doctors []gateway.Doctor, searched bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return cloneAll(d.results), d.searched
}

// Result looks id up among the displayed search results and returns it with
// the term that found it. It reports false before the first Search.
func (d *Directory) Result(id gateway.ID) (doctor gateway.Doctor, term string, ok bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.searched {
		return gateway.Doctor{}, "", false
	}
	for _, doc := range d.results {
		if doc.ID == id {
			return doc.Clone(), d.term, true
		}
	}
	return gateway.Doctor{}, "", false
}

// LastTerm returns the term of the most recent Search.
func (d *Directory) LastTerm() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.term
}

// Doctor looks a doctor up in the roster by id.
func (d *Directory) Doctor(id gateway.ID) (gateway.Doctor, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, doc := range d.roster {
		if doc.ID == id {
			return doc.Clone(), true
		}
	}
	return gateway.Doctor{}, false
}

// Doctors returns a copy of the whole roster.
func (d *Directory) Doctors() []gateway.Doctor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return cloneAll(d.roster)
}

// Len reports the roster size.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.roster)
}

func filter(roster []gateway.Doctor, term string) []gateway.Doctor {
	needle := strings.ToLower(term)
	out := make([]gateway.Doctor, 0)
	for _, doc := range roster {
		if treats(doc, needle) {
			out = append(out, doc.Clone())
		}
	}
	return out
}

func treats(doc gateway.Doctor, needle string) bool {
	for _, disease := range doc.Diseases {
		if strings.Contains(strings.ToLower(disease), needle) {
			return true
		}
	}
	return false
}

func cloneAll(doctors []gateway.Doctor) []gateway.Doctor {
	out := make([]gateway.Doctor, 0, len(doctors))
	for _, doc := range doctors {
		out = append(out, doc.Clone())
	}
	return out
}
