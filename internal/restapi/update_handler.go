package restapi

import (
	"errors"
	"net/http"

	"github.com/linedeck/linedeck/internal/singular"
	"github.com/linedeck/linedeck/internal/upstream"
)

// updateHandler fetches fresh statuses from the upstream source, applies
// them to non-overridden lines, and pushes the result downstream.
func (api *RestAPI) updateHandler(w http.ResponseWriter, r *http.Request) {
	err := api.RefreshFromUpstream(r.Context())
	if errors.Is(err, upstream.ErrUpstreamUnavailable) {
		api.upstreamUnavailableResponse(w, r, err)
		return
	}
	if err != nil {
		api.sendPushError(w, r, err)
		return
	}

	api.sendJSON(w, r, struct {
		SentTo  string                `json:"sentTo"`
		Payload singular.StreamPayload `json:"payload"`
	}{
		SentTo:  "datastream",
		Payload: singular.PayloadFromSnapshot(api.Lines.Snapshot()),
	})
}

// autoRefreshHandler toggles the background upstream poll.
func (api *RestAPI) autoRefreshHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Enabled bool `json:"enabled"`
	}
	if err := readJSONBody(r, &input); err != nil {
		api.badRequestResponse(w, r, err.Error())
		return
	}

	api.SetAutoRefresh(input.Enabled)
	api.sendJSON(w, r, struct {
		AutoRefresh bool `json:"autoRefresh"`
	}{AutoRefresh: input.Enabled})
}
