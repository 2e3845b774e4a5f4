package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"github.com/linedeck/linedeck/internal/app"
	"github.com/linedeck/linedeck/internal/lines"
	"github.com/linedeck/linedeck/internal/singular"
)

type fakeFetcher struct {
	statuses map[string]string
	err      error
}

func (f *fakeFetcher) FetchAll(ctx context.Context) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.statuses, nil
}

const testControlModel = `{
  "subcompositions": [
    {
      "id": "sub-1",
      "name": "Lower Third",
      "model": [
        {"id": "title", "type": "text"},
        {"id": "visible", "type": "checkbox"},
        {"id": "clock", "type": "timecontrol"}
      ]
    }
  ]
}`

// testEnv wires a full API around recording fakes for the datastream
// and the control app.
type testEnv struct {
	api    *RestAPI
	server *httptest.Server

	mu             sync.Mutex
	pushes         []singular.StreamPayload
	patches        [][]singular.ControlItem
	streamStatus   int
	streamRespBody string
}

func (env *testEnv) recordedPushes() []singular.StreamPayload {
	env.mu.Lock()
	defer env.mu.Unlock()
	return append([]singular.StreamPayload(nil), env.pushes...)
}

func (env *testEnv) recordedPatches() [][]singular.ControlItem {
	env.mu.Lock()
	defer env.mu.Unlock()
	return append([][]singular.ControlItem(nil), env.patches...)
}

func (env *testEnv) setStreamStatus(status int) {
	env.mu.Lock()
	defer env.mu.Unlock()
	env.streamStatus = status
}

func newTestEnv(t *testing.T, fetcher *fakeFetcher) *testEnv {
	t.Helper()

	env := &testEnv{streamStatus: http.StatusOK}

	streamServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload singular.StreamPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		env.mu.Lock()
		status := env.streamStatus
		if status == http.StatusOK {
			env.pushes = append(env.pushes, payload)
		}
		env.mu.Unlock()

		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte("stream rejected"))
		}
	}))
	t.Cleanup(streamServer.Close)

	controlServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/model"):
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(testControlModel))
		case r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/control"):
			var items []singular.ControlItem
			require.NoError(t, json.NewDecoder(r.Body).Decode(&items))
			env.mu.Lock()
			env.patches = append(env.patches, items)
			env.mu.Unlock()
			_, _ = w.Write([]byte("OK"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(controlServer.Close)

	application := &app.Application{
		Config:   app.Config{Port: 3113, Env: "test"},
		Lines:    lines.NewStore(),
		Fetcher:  fetcher,
		Stream:   singular.NewDatastream(streamServer.URL, nil),
		Control:  singular.NewControlClient("test-token", controlServer.URL, nil),
		Registry: singular.NewRegistry(),
		Events:   app.NewEventLog(),
	}
	require.NoError(t, application.RebuildRegistry(context.Background()))

	env.api = NewRestAPI(application)

	router := httprouter.New()
	env.api.SetRoutes(router)
	env.server = httptest.NewServer(router)
	t.Cleanup(env.server.Close)

	return env
}

func (env *testEnv) get(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(env.server.URL + path)
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func (env *testEnv) post(t *testing.T, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(env.server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var decoded any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	if m, ok := decoded.(map[string]any); ok {
		return m
	}
	return map[string]any{"list": decoded}
}
