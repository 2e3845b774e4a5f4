package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/linedeck/linedeck/internal/lines"
	"github.com/linedeck/linedeck/internal/singular"
)

func readJSONBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

// manualSetHandler stores manual overrides from a lineId to text
// payload. Unknown line IDs are skipped silently so a stale client
// whose catalogue has drifted still applies the lines that do match.
// Nothing is pushed until the operator hits send, so a batch of edits
// goes out as one payload.
func (api *RestAPI) manualSetHandler(w http.ResponseWriter, r *http.Request) {
	var payload map[string]string
	if err := readJSONBody(r, &payload); err != nil {
		api.badRequestResponse(w, r, err.Error())
		return
	}

	applied := 0
	for id, text := range payload {
		if err := api.Lines.SetManual(id, text); err == nil {
			applied++
		}
	}

	api.Events.Record("manual_set", map[string]int{"linesApplied": applied})

	api.sendJSON(w, r, struct {
		Applied  int                `json:"applied"`
		Statuses []lines.LineStatus `json:"statuses"`
	}{Applied: applied, Statuses: api.Lines.Snapshot()})
}

// manualSendHandler pushes the current store contents downstream. A
// rejected push reports 502 and leaves the store exactly as it was.
func (api *RestAPI) manualSendHandler(w http.ResponseWriter, r *http.Request) {
	if err := api.PushSnapshot(r.Context()); err != nil {
		api.sendPushError(w, r, err)
		return
	}

	api.Events.Record("manual_send", nil)
	api.sendJSON(w, r, struct {
		SentTo  string                 `json:"sentTo"`
		Payload singular.StreamPayload `json:"payload"`
	}{
		SentTo:  "datastream",
		Payload: singular.PayloadFromSnapshot(api.Lines.Snapshot()),
	})
}

// manualResetHandler clears every override back to Good Service and
// pushes the cleared state.
func (api *RestAPI) manualResetHandler(w http.ResponseWriter, r *http.Request) {
	api.Lines.ResetAll()
	api.Events.Record("manual_reset", nil)

	if err := api.PushSnapshot(r.Context()); err != nil {
		api.sendPushError(w, r, err)
		return
	}
	api.sendJSON(w, r, api.Lines.Snapshot())
}

// manualTestHandler pushes an all-"TEST" payload. The store is not
// touched; the next real push restores the live state.
func (api *RestAPI) manualTestHandler(w http.ResponseWriter, r *http.Request) {
	payload := singular.ConstantPayload("TEST")
	if err := api.Stream.Push(r.Context(), payload); err != nil {
		api.sendPushError(w, r, err)
		return
	}

	api.Events.Record("manual_test", nil)
	api.sendJSON(w, r, struct {
		SentTo  string                 `json:"sentTo"`
		Payload singular.StreamPayload `json:"payload"`
	}{SentTo: "datastream", Payload: payload})
}

// manualBlankHandler pushes an all-blank payload to clear the overlay.
// The store is not touched.
func (api *RestAPI) manualBlankHandler(w http.ResponseWriter, r *http.Request) {
	payload := singular.BlankPayload()
	if err := api.Stream.Push(r.Context(), payload); err != nil {
		api.sendPushError(w, r, err)
		return
	}

	api.Events.Record("manual_blank", nil)
	api.sendJSON(w, r, struct {
		SentTo  string                 `json:"sentTo"`
		Payload singular.StreamPayload `json:"payload"`
	}{SentTo: "datastream", Payload: payload})
}
