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
	"time"

	"github.com/linedeck/linedeck/internal/logging"
)

// DefaultAPIBase is the public Singular.live API root.
const DefaultAPIBase = "https://app.singular.live/apiv2"

// ErrNoControlToken is returned when control-app calls are attempted
// without a configured token.
var ErrNoControlToken = errors.New("no control app token configured")

// ControlItem is one element of a control PATCH body.
type ControlItem struct {
	SubCompositionID string         `json:"subCompositionId"`
	State            string         `json:"state,omitempty"`
	Payload          map[string]any `json:"payload,omitempty"`
}

// ControlResult carries the upstream response for operator display.
type ControlResult struct {
	StatusCode int
	Body       string
}

// ControlClient drives a Singular Control App through its public API.
type ControlClient struct {
	Token   string
	APIBase string

	httpClient *http.Client
	logger     *slog.Logger
}

// NewControlClient builds a control client for the given app token. An
// empty apiBase selects the public endpoint.
func NewControlClient(token, apiBase string, logger *slog.Logger) *ControlClient {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &ControlClient{
		Token:      token,
		APIBase:    apiBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// FetchModel retrieves the control app's composition model. The model is
// free-form JSON; the registry walks it for subcomposition nodes.
func (c *ControlClient) FetchModel(ctx context.Context) (any, error) {
	if c.Token == "" {
		return nil, ErrNoControlToken
	}

	url := fmt.Sprintf("%s/controlapps/%s/model", c.APIBase, c.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building model request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching control app model: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.logger, "control_model_body")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &ForwardError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var model any
	if err := json.NewDecoder(resp.Body).Decode(&model); err != nil {
		return nil, fmt.Errorf("decoding control app model: %w", err)
	}
	return model, nil
}

// Patch sends control items to the control app.
func (c *ControlClient) Patch(ctx context.Context, items []ControlItem) (ControlResult, error) {
	if c.Token == "" {
		return ControlResult{}, ErrNoControlToken
	}

	body, err := json.Marshal(items)
	if err != nil {
		return ControlResult{}, fmt.Errorf("encoding control items: %w", err)
	}

	url := fmt.Sprintf("%s/controlapps/%s/control", c.APIBase, c.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return ControlResult{}, fmt.Errorf("building control request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ControlResult{}, &ForwardError{StatusCode: 0, Body: err.Error()}
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.logger, "control_response_body")

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	result := ControlResult{StatusCode: resp.StatusCode, Body: string(respBody)}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &ForwardError{StatusCode: resp.StatusCode, Body: result.Body}
	}

	logging.LogOperation(c.logger, "control_patch",
		slog.Int("item_count", len(items)),
		slog.Int("status", resp.StatusCode))
	return result, nil
}
