package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brizzai/unhinged/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocator(t *testing.T, handler http.HandlerFunc, lat, lon float64) *Locator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewLocator(&config.Config{Geo: config.GeoConfig{
		NominatimURL: server.URL + "/",
		Latitude:     lat,
		Longitude:    lon,
	}}, nil)
}

func TestLocator_Locate(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    Place
	}{
		{name: "city", address: `{"city":"Lisbon","town":"x","country":"Portugal"}`, want: Place{City: "Lisbon", Country: "Portugal"}},
		{name: "town", address: `{"town":"Sintra","country":"Portugal"}`, want: Place{City: "Sintra", Country: "Portugal"}},
		{name: "village", address: `{"village":"Monsanto","country":"Portugal"}`, want: Place{City: "Monsanto", Country: "Portugal"}},
		{name: "suburb", address: `{"suburb":"Belém"}`, want: Place{City: "Belém"}},
		{name: "nothing", address: `{}`, want: Place{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLocator(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/reverse", r.URL.Path)
				q := r.URL.Query()
				assert.Equal(t, "38.7223", q.Get("lat"))
				assert.Equal(t, "-9.1393", q.Get("lon"))
				assert.Equal(t, "json", q.Get("format"))
				assert.Equal(t, "10", q.Get("zoom"))
				assert.Equal(t, "1", q.Get("addressdetails"))
				assert.NotEmpty(t, r.Header.Get("User-Agent"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"address":` + tt.address + `}`))
			}, 38.7223, -9.1393)

			got, err := l.Locate(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocator_Errors(t *testing.T) {
	l := newTestLocator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, 1, 1)
	_, err := l.Locate(context.Background())
	assert.EqualError(t, err, "location lookup failed (429)")

	l = newTestLocator(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}, 1, 1)
	_, err = l.Locate(context.Background())
	assert.Error(t, err)

	unset := NewLocator(&config.Config{}, nil)
	assert.False(t, unset.Configured())
	_, err = unset.Locate(context.Background())
	assert.ErrorIs(t, err, ErrNoCoordinates)
}
