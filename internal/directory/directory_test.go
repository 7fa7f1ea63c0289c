package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/hospital-booking-client/internal/gateway"
	"github.com/wolfman30/hospital-booking-client/internal/gateway/gatewaytest"
	"github.com/wolfman30/hospital-booking-client/pkg/logging"
)

type stubLister struct {
	doctors []gateway.Doctor
	err     error
	calls   int
}

func (s *stubLister) ListDoctors(context.Context) ([]gateway.Doctor, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.doctors, nil
}

func roster() []gateway.Doctor {
	return []gateway.Doctor{
		{ID: "d1", Name: "Dr. A", Specialty: "Cardio", Diseases: []string{"flu", "cold"}},
		{ID: "d2", Name: "Dr. B", Specialty: "Pulmonology", Diseases: []string{"Asthma", "Influenza"}},
		{ID: "d3", Name: "Dr. C", Specialty: "Oncology", Diseases: []string{"cancer"}},
		{ID: "d4", Name: "Dr. D", Specialty: "General", Diseases: nil},
	}
}

func loaded(t *testing.T) *Directory {
	t.Helper()
	d := New(&stubLister{doctors: roster()}, logging.Discard())
	require.NoError(t, d.Load(context.Background()))
	return d
}

func ids(doctors []gateway.Doctor) []gateway.ID {
	out := make([]gateway.ID, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, d.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	d := loaded(t)

	tests := []struct {
		name string
		term string
		want []gateway.ID
	}{
		{"exact lower", "flu", []gateway.ID{"d1", "d2"}},
		{"upper case term", "FLU", []gateway.ID{"d1", "d2"}},
		{"mixed case disease", "asth", []gateway.ID{"d2"}},
		{"substring", "anc", []gateway.ID{"d3"}},
		{"no match", "measles", []gateway.ID{}},
		{"empty term matches any listed disease", "", []gateway.ID{"d1", "d2", "d3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Filter(tt.term)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterScenario(t *testing.T) {
	d := New(&stubLister{doctors: []gateway.Doctor{
		{ID: "d1", Name: "Dr. A", Specialty: "Cardio", Diseases: []string{"flu", "cold"}},
	}}, logging.Discard())
	require.NoError(t, d.Load(context.Background()))

	assert.Equal(t, []gateway.ID{"d1"}, ids(d.Search("FLU")))
	assert.Empty(t, d.Search("cancer"))
}

func TestFilterIsPure(t *testing.T) {
	d := loaded(t)
	got := d.Filter("flu")
	got[0].Name = "mutated"
	got[0].Diseases[0] = "mutated"

	again := d.Filter("flu")
	assert.Equal(t, "Dr. A", again[0].Name)
	assert.Equal(t, "flu", again[0].Diseases[0])
	assert.Len(t, d.Doctors(), 4)

	_, searched := d.Results()
	assert.False(t, searched, "Filter must not count as an explicit search")
}

func TestResultsBeforeAndAfterSearch(t *testing.T) {
	d := loaded(t)

	results, searched := d.Results()
	assert.Empty(t, results)
	assert.False(t, searched, "nothing displayed until the user searches")

	d.Search("cancer")
	results, searched = d.Results()
	assert.True(t, searched)
	assert.Equal(t, []gateway.ID{"d3"}, ids(results))
	assert.Equal(t, "cancer", d.LastTerm())

	d.Search("measles")
	results, searched = d.Results()
	assert.True(t, searched, "searched with zero matches is distinct from not searched")
	assert.Empty(t, results)
}

func TestLoadFailureKeepsRoster(t *testing.T) {
	lister := &stubLister{doctors: roster()}
	d := New(lister, logging.Discard())
	require.NoError(t, d.Load(context.Background()))

	lister.err = errors.New("connection refused")
	err := d.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, 4, d.Len())
	assert.Equal(t, 2, lister.calls)
}

func TestLoadReplacesRoster(t *testing.T) {
	lister := &stubLister{doctors: roster()}
	d := New(lister, logging.Discard())
	require.NoError(t, d.Load(context.Background()))

	lister.doctors = roster()[:1]
	require.NoError(t, d.Load(context.Background()))
	assert.Equal(t, 1, d.Len())

	_, ok := d.Doctor("d3")
	assert.False(t, ok)
	doc, ok := d.Doctor("d1")
	require.True(t, ok)
	assert.Equal(t, "Dr. A", doc.Name)
}

func TestLoadFromAPI(t *testing.T) {
	srv := gatewaytest.NewServer(t, roster()...)
	client := gateway.NewClient(gateway.Config{BaseURL: srv.URL, Logger: logging.Discard()})
	d := New(client, logging.Discard())

	require.NoError(t, d.Load(context.Background()))
	assert.Equal(t, []gateway.ID{"d1", "d2", "d3", "d4"}, ids(d.Doctors()), "roster keeps fetch order")

	srv.FailNext(gatewaytest.OpListDoctors, 500)
	err := d.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrNetwork)
	assert.Equal(t, 4, d.Len())
}

func TestResultOnlyFromDisplayedList(t *testing.T) {
	d := loaded(t)

	_, _, ok := d.Result("d1")
	assert.False(t, ok, "nothing is displayed before a search")

	d.Search("cancer")
	_, _, ok = d.Result("d1")
	assert.False(t, ok, "d1 does not treat cancer")

	doc, term, ok := d.Result("d3")
	require.True(t, ok)
	assert.Equal(t, gateway.ID("d3"), doc.ID)
	assert.Equal(t, "cancer", term)
}
