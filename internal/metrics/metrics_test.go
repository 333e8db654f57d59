package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameCounters(t *testing.T) {
	m := New()

	m.GameStarted()
	m.GameStarted()
	m.Guess("correct")
	m.Guess("wrong")
	m.Guess("wrong")
	m.HintUsed()
	m.GameFinished("won", "word_completed", 28)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.gamesStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeGames))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.guesses.WithLabelValues("wrong")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.hintsUsed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gamesFinished.WithLabelValues("won", "word_completed")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	done := m.RequestStarted()
	m.ObserveRequest("GET", "/api/v1/leaderboard", 200, 12*time.Millisecond)
	done()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="GET",route="/api/v1/leaderboard",status="200"} 1`)
	assert.Contains(t, string(body), "http_requests_in_flight 0")
	assert.Contains(t, string(body), "hangman_games_started_total 0")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.GameStarted()
		m.GameFinished("lost", "surrender", 0)
		m.Guess("wrong")
		m.HintUsed()
		m.ObserveRequest("GET", "/", 200, time.Millisecond)
		m.RequestStarted()()
	})
}
