package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTfLResponse = `[
  {"name": "Central", "lineStatuses": [{"statusSeverityDescription": "Good Service"}]},
  {"name": "Victoria", "lineStatuses": [{"statusSeverityDescription": "Minor Delays"}]},
  {"name": "DLR", "lineStatuses": []}
]`

func TestTfLFetchAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleTfLResponse))
	}))
	defer server.Close()

	client := NewTfLClient(server.URL, "", "", nil)
	statuses, err := client.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Good Service", statuses["Central"])
	assert.Equal(t, "Minor Delays", statuses["Victoria"])
	assert.Equal(t, "Unknown", statuses["DLR"])
}

func TestTfLFetchAllSendsCredentials(t *testing.T) {
	var gotID, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.URL.Query().Get("app_id")
		gotKey = r.URL.Query().Get("app_key")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewTfLClient(server.URL, "my-id", "my-key", nil)
	_, err := client.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "my-id", gotID)
	assert.Equal(t, "my-key", gotKey)
}

func TestTfLFetchAllKeepsExistingQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	// A custom URL may carry its own parameters; credentials must not
	// wipe them out.
	client := NewTfLClient(server.URL+"/Line/Mode/tube/Status?detail=true", "my-id", "my-key", nil)
	_, err := client.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"true"}, gotQuery["detail"])
	assert.Equal(t, []string{"my-id"}, gotQuery["app_id"])
	assert.Equal(t, []string{"my-key"}, gotQuery["app_key"])
}

func TestTfLFetchAllNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewTfLClient(server.URL, "", "", nil)
	_, err := client.FetchAll(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestTfLFetchAllConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening any more

	client := NewTfLClient(server.URL, "", "", nil)
	_, err := client.FetchAll(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestTfLFetchAllBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"`))
	}))
	defer server.Close()

	client := NewTfLClient(server.URL, "", "", nil)
	_, err := client.FetchAll(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestTfLDefaultURL(t *testing.T) {
	client := NewTfLClient("", "", "", nil)
	assert.Equal(t, DefaultTfLURL, client.URL)
}
