package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nariman739/ramadan-bot/internal/domain"
	"github.com/Nariman739/ramadan-bot/internal/metrics"
)

type fakeCompleter struct {
	err     error
	gotSt   domain.LinkState
	gotCode string
	calls   int
}

func (f *fakeCompleter) Complete(ctx context.Context, st domain.LinkState, code string) error {
	f.calls++
	f.gotSt = st
	f.gotCode = code
	return f.err
}

func newTestServer(t *testing.T, c Completer) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(c, metrics.NewCollector(), zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeCompleter{})
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeCompleter{})
	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCallbackSuccess(t *testing.T) {
	completer := &fakeCompleter{}
	srv := newTestServer(t, completer)

	resp, err := http.Get(srv.URL + "/callback?code=abc&state=42:shymkent")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, completer.calls)
	assert.Equal(t, domain.LinkState{ChatID: 42, CityKey: "shymkent"}, completer.gotSt)
	assert.Equal(t, "abc", completer.gotCode)
}

func TestCallbackMissingParams(t *testing.T) {
	completer := &fakeCompleter{}
	srv := newTestServer(t, completer)

	for _, q := range []string{"", "?code=abc", "?state=42:astana"} {
		resp, err := http.Get(srv.URL + "/callback" + q)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Zero(t, completer.calls, "no handshake without both params (%q)", q)
	}
}

func TestCallbackBadState(t *testing.T) {
	completer := &fakeCompleter{}
	srv := newTestServer(t, completer)

	resp, err := http.Get(srv.URL + "/callback?code=abc&state=garbage")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Zero(t, completer.calls)
}

func TestCallbackCompleterError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("seeding blew up")}
	srv := newTestServer(t, completer)

	// The page is still 200: the user-facing outcome went out via Telegram.
	resp, err := http.Get(srv.URL + "/callback?code=abc&state=1:astana")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, completer.calls)
}
