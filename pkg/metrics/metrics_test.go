package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.Command('V', "ack")
	m.Command('V', "ack")
	m.Command('Q', "error")
	m.ModeEntered("training")
	m.TrainerRound()
	m.TrainerError()
	m.TrainerError()
	m.BeaconFired()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.commands.WithLabelValues("V", "ack")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("Q", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.modeEntries.WithLabelValues("training")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.trainerRounds))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.trainerErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.beaconFired))
}

func TestNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Command('A', "ack")
		m.ModeEntered("command")
		m.TrainerRound()
		m.TrainerError()
		m.BeaconFired()
	})
	assert.Nil(t, m.Registry())
}

func TestHandler(t *testing.T) {
	m := New()
	m.BeaconFired()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "yackgo_beacon_fired_total 1"))
}
