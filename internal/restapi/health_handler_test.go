package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linedeck/linedeck/internal/app"
	"github.com/linedeck/linedeck/internal/lines"
)

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(t, &fakeFetcher{})

	resp, body := env.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, app.Version, body["version"])
	assert.Equal(t, float64(3113), body["port"])
	assert.Equal(t, false, body["autoRefresh"])
}

func TestStatusHandler(t *testing.T) {
	env := newTestEnv(t, &fakeFetcher{})
	require.NoError(t, env.api.Lines.SetManual("Central", "Severe Delays"))

	resp, body := env.get(t, "/status")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	list, ok := body["list"].([]any)
	require.True(t, ok)
	assert.Len(t, list, len(lines.Catalogue))

	var central map[string]any
	for _, raw := range list {
		entry := raw.(map[string]any)
		if entry["lineId"] == "Central" {
			central = entry
		}
	}
	require.NotNil(t, central)
	assert.Equal(t, "Severe Delays", central["displayText"])
	assert.Equal(t, true, central["isManualOverride"])
}

func TestLinesHandler(t *testing.T) {
	env := newTestEnv(t, &fakeFetcher{})

	resp, body := env.get(t, "/lines")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	list, ok := body["lines"].([]any)
	require.True(t, ok)
	assert.Len(t, list, len(lines.Catalogue))

	first := list[0].(map[string]any)
	assert.Equal(t, "Bakerloo", first["id"])
	assert.Equal(t, "underground", first["group"])
	assert.Equal(t, "#B36305", first["colour"])
}
