// Package singular talks to the two Singular.live ingestion surfaces:
// the Data Stream API (line-status payloads) and the Control App API
// (subcomposition control).
package singular

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/linedeck/linedeck/internal/lines"
	"github.com/linedeck/linedeck/internal/logging"
)

// Canonical panel colours: teal for good service, red for any disruption.
const (
	ColourGoodService = "#0c6473"
	ColourDisruption  = "#db422d"
)

const datastreamBase = "https://datastream.singular.live/datastreams/"

// ErrStreamNotConfigured is returned when no datastream URL has been set.
var ErrStreamNotConfigured = errors.New("no datastream URL configured")

// ForwardError reports a rejected or failed datastream/control write.
// The local status store is never rolled back because of one.
type ForwardError struct {
	StatusCode int
	Body       string
}

func (e *ForwardError) Error() string {
	return fmt.Sprintf("singular api returned %d: %s", e.StatusCode, e.Body)
}

// StreamField is the per-line value sent to the datastream overlay.
type StreamField struct {
	Text   string `json:"text"`
	Colour string `json:"colour"`
}

// StreamPayload maps line IDs to their forwarded field.
type StreamPayload map[string]StreamField

// FieldForText derives the forwarded field for a status text. Empty text
// and "good service" (case-insensitive) render teal; everything else red.
func FieldForText(text string) StreamField {
	colour := ColourDisruption
	if lines.IsGoodService(text) {
		colour = ColourGoodService
	}
	display := text
	if strings.TrimSpace(display) == "" {
		display = lines.GoodService
	}
	return StreamField{Text: display, Colour: colour}
}

// PayloadFromSnapshot serializes a store snapshot into the datastream shape.
func PayloadFromSnapshot(snapshot []lines.LineStatus) StreamPayload {
	payload := make(StreamPayload, len(snapshot))
	for _, st := range snapshot {
		payload[st.ID] = FieldForText(st.DisplayText)
	}
	return payload
}

// ConstantPayload builds a payload with the same text for every
// catalogue line, used by the TEST push.
func ConstantPayload(text string) StreamPayload {
	payload := make(StreamPayload, len(lines.Catalogue))
	for _, id := range lines.IDs() {
		payload[id] = FieldForText(text)
	}
	return payload
}

// BlankPayload clears the overlay: genuinely empty text on every line,
// keeping the good-service colour. Unlike FieldForText, no display text
// is substituted for the empty string.
func BlankPayload() StreamPayload {
	payload := make(StreamPayload, len(lines.Catalogue))
	for _, id := range lines.IDs() {
		payload[id] = StreamField{Text: "", Colour: ColourGoodService}
	}
	return payload
}

// NormalizeStreamURL accepts either a full datastream URL or a bare
// datastream ID and returns the full URL.
func NormalizeStreamURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "http") {
		return raw
	}
	return datastreamBase + raw
}

// Datastream pushes payloads to one Singular data stream. Pushes are
// throttled so a busy operator cannot hammer the upstream API.
type Datastream struct {
	URL string

	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewDatastream builds a forwarder for the given (already normalized)
// datastream URL.
func NewDatastream(url string, logger *slog.Logger) *Datastream {
	return &Datastream{
		URL:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		logger:     logger,
	}
}

// Push serializes the payload and issues one PUT to the datastream.
func (d *Datastream) Push(ctx context.Context, payload StreamPayload) error {
	if d.URL == "" {
		return ErrStreamNotConfigured
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for push slot: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding datastream payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, d.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building datastream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return &ForwardError{StatusCode: 0, Body: err.Error()}
	}
	defer logging.SafeCloseWithLogging(resp.Body, d.logger, "datastream_response_body")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &ForwardError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	logging.LogOperation(d.logger, "datastream_push",
		slog.Int("line_count", len(payload)),
		slog.Int("status", resp.StatusCode))
	return nil
}
