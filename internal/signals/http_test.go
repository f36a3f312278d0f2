package signals

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roomrank/internal/score"
	"roomrank/internal/score/scheme"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTP_Attributes(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rooms/Room A":
			w.Write([]byte(`{"HVAC Temp": 22.5, "Current Occupancy": 3}`))
		case "/rooms/Broken":
			w.WriteHeader(http.StatusBadGateway)
		case "/rooms/Huge":
			w.Write([]byte(`{"HVAC Temp": 22.5, "Padding": "`))
			w.Write([]byte(strings.Repeat("x", maxResponseBytes)))
			w.Write([]byte(`"}`))
		case "/rooms/Garbled":
			w.Write([]byte(`{"HVAC Temp": [}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer gateway.Close()

	h := NewHTTP(gateway.URL, time.Second)

	attrs, err := h.Attributes(context.Background(), "Room A")
	require.NoError(t, err)
	assert.Equal(t, score.Number(22.5), attrs[scheme.TemperatureCriterion])
	assert.Equal(t, score.Number(3), attrs[scheme.OccupancyCriterion])

	attrs, err = h.Attributes(context.Background(), "Room Z")
	require.NoError(t, err)
	assert.Empty(t, attrs)

	_, err = h.Attributes(context.Background(), "Broken")
	assert.ErrorContains(t, err, "code=502")

	_, err = h.Attributes(context.Background(), "Garbled")
	assert.Error(t, err)

	_, err = h.Attributes(context.Background(), "Huge")
	assert.ErrorContains(t, err, "exceeds")
}

func TestHTTP_Attributes_Canceled(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer gateway.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTP(gateway.URL, time.Second).Attributes(ctx, "Room A")
	assert.ErrorIs(t, err, context.Canceled)
}
