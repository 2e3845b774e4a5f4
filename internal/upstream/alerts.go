package upstream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jamespfennell/gtfs"

	"github.com/linedeck/linedeck/internal/lines"
	"github.com/linedeck/linedeck/internal/logging"
)

// disruptionFallback is used when a feed publishes an alert without any
// header text for us to display.
const disruptionFallback = "Service Disruption"

// AlertsClient derives line statuses from a GTFS-Realtime service-alerts
// feed, for agencies that publish Alerts instead of a bespoke status API.
// Lines without an active alert report Good Service.
type AlertsClient struct {
	FeedURL string

	// Optional auth header, e.g. an API key the feed requires.
	AuthHeaderKey   string
	AuthHeaderValue string

	// RouteToLine maps feed route IDs onto catalogue line IDs. When nil,
	// route IDs are assumed to already be line IDs.
	RouteToLine map[string]string

	httpClient *http.Client
	logger     *slog.Logger
}

// NewAlertsClient builds a GTFS-RT alerts fetcher for the given feed.
func NewAlertsClient(feedURL string, routeToLine map[string]string, logger *slog.Logger) *AlertsClient {
	return &AlertsClient{
		FeedURL:     feedURL,
		RouteToLine: routeToLine,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
}

// FetchAll downloads and parses the alerts feed once.
func (c *AlertsClient) FetchAll(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if c.AuthHeaderKey != "" && c.AuthHeaderValue != "" {
		req.Header.Add(c.AuthHeaderKey, c.AuthHeaderValue)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.logger, "alerts_response_body")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: alerts feed returned %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	realtime, err := gtfs.ParseRealtime(b, &gtfs.ParseRealtimeOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: parsing alerts feed: %v", ErrUpstreamUnavailable, err)
	}

	return statusTextsFromAlerts(realtime.Alerts, c.RouteToLine), nil
}

// statusTextsFromAlerts folds a set of parsed alerts into per-line status
// text. Every catalogue line starts at Good Service; the first alert whose
// informed entities name the line's route wins.
func statusTextsFromAlerts(alerts []gtfs.Alert, routeToLine map[string]string) map[string]string {
	out := make(map[string]string, len(lines.Catalogue))
	for _, id := range lines.IDs() {
		out[id] = lines.GoodService
	}

	for _, alert := range alerts {
		text := alertHeaderText(alert)
		for _, entity := range alert.InformedEntities {
			if entity.RouteID == nil {
				continue
			}
			lineID := *entity.RouteID
			if routeToLine != nil {
				mapped, ok := routeToLine[lineID]
				if !ok {
					continue
				}
				lineID = mapped
			}
			if _, ok := lines.ByID(lineID); !ok {
				continue
			}
			if lines.IsGoodService(out[lineID]) {
				out[lineID] = text
			}
		}
	}
	return out
}

func alertHeaderText(alert gtfs.Alert) string {
	for _, h := range alert.Header {
		if h.Text != "" {
			return h.Text
		}
	}
	return disruptionFallback
}
