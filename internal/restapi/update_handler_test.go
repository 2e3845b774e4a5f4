package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linedeck/linedeck/internal/upstream"
)

func TestUpdateHandler(t *testing.T) {
	env := newTestEnv(t, &fakeFetcher{statuses: map[string]string{
		"Central":  "Minor Delays",
		"Victoria": "Good Service",
	}})

	resp, body := env.post(t, "/update", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "datastream", body["sentTo"])

	status, err := env.api.Lines.Get("Central")
	require.NoError(t, err)
	assert.Equal(t, "Minor Delays", status.DisplayText)
	assert.False(t, status.ManualOverride)

	require.Len(t, env.recordedPushes(), 1)
}

func TestUpdateHandlerPreservesOverrides(t *testing.T) {
	env := newTestEnv(t, &fakeFetcher{statuses: map[string]string{
		"Central": "Good Service",
	}})
	require.NoError(t, env.api.Lines.SetManual("Central", "Closed for filming"))

	resp, _ := env.post(t, "/update", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, err := env.api.Lines.Get("Central")
	require.NoError(t, err)
	assert.Equal(t, "Closed for filming", status.DisplayText)
}

func TestUpdateHandlerUpstreamUnavailable(t *testing.T) {
	env := newTestEnv(t, &fakeFetcher{err: upstream.ErrUpstreamUnavailable})

	resp, _ := env.post(t, "/update", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Empty(t, env.recordedPushes())
}

func TestAutoRefreshHandler(t *testing.T) {
	env := newTestEnv(t, &fakeFetcher{})

	resp, body := env.post(t, "/auto", `{"enabled": true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["autoRefresh"])
	assert.True(t, env.api.AutoRefreshEnabled())

	resp, _ = env.post(t, "/auto", `{"enabled": false}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, env.api.AutoRefreshEnabled())
}

func TestEventsHandler(t *testing.T) {
	env := newTestEnv(t, &fakeFetcher{})
	env.api.Events.Record("manual_set", map[string]string{"line": "Central"})
	env.api.Events.Record("manual_send", nil)

	resp, body := env.get(t, "/events?n=1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	list, ok := body["list"].([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "manual_send", list[0].(map[string]any)["kind"])
}

func TestEventsHandlerBadLimit(t *testing.T) {
	env := newTestEnv(t, &fakeFetcher{})

	resp, _ := env.get(t, "/events?n=banana")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
