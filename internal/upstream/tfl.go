package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/linedeck/linedeck/internal/logging"
)

// DefaultTfLURL covers every mode the panel tracks in one request.
const DefaultTfLURL = "https://api.tfl.gov.uk/Line/Mode/" +
	"tube,overground,dlr,elizabeth-line,tram,cable-car/Status"

// ErrUpstreamUnavailable wraps any failure to reach or decode the
// upstream status source. Callers leave the status store untouched and
// simply try again on the next cycle.
var ErrUpstreamUnavailable = errors.New("upstream status source unavailable")

// TfLClient fetches line statuses from the TfL Unified API.
type TfLClient struct {
	URL    string
	AppID  string
	AppKey string

	httpClient *http.Client
	logger     *slog.Logger
}

// NewTfLClient builds a TfL client. An empty rawURL selects DefaultTfLURL.
// The app ID/key pair is optional; TfL serves anonymous requests at a
// lower rate limit.
func NewTfLClient(rawURL, appID, appKey string, logger *slog.Logger) *TfLClient {
	if rawURL == "" {
		rawURL = DefaultTfLURL
	}
	return &TfLClient{
		URL:        rawURL,
		AppID:      appID,
		AppKey:     appKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// tflLine is the slice of the TfL response we care about.
type tflLine struct {
	Name         string `json:"name"`
	LineStatuses []struct {
		StatusSeverityDescription string `json:"statusSeverityDescription"`
	} `json:"lineStatuses"`
}

// FetchAll performs one status request against the TfL API.
func (c *TfLClient) FetchAll(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if c.AppID != "" && c.AppKey != "" {
		// Keep any query parameters already baked into a custom URL
		q := req.URL.Query()
		q.Set("app_id", c.AppID)
		q.Set("app_key", c.AppKey)
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.logger, "tfl_response_body")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: tfl api returned %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var payload []tflLine
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUpstreamUnavailable, err)
	}

	out := make(map[string]string, len(payload))
	for _, line := range payload {
		text := "Unknown"
		if len(line.LineStatuses) > 0 {
			text = line.LineStatuses[0].StatusSeverityDescription
		}
		out[line.Name] = text
	}
	return out, nil
}
