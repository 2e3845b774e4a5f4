package restapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/linedeck/linedeck/internal/singular"
)

// controlKey pulls the :key route parameter and resolves it against the
// registry, accepting either a slug or a raw subcomposition ID.
func (api *RestAPI) controlKey(w http.ResponseWriter, r *http.Request) (singular.Subcomposition, bool) {
	params := httprouter.ParamsFromContext(r.Context())
	key := params.ByName("key")

	sub, err := api.Registry.Find(key)
	if err != nil {
		api.notFoundResponse(w, r, fmt.Sprintf("unknown subcomposition: %s", key))
		return singular.Subcomposition{}, false
	}
	return sub, true
}

func (api *RestAPI) patchState(w http.ResponseWriter, r *http.Request, state string) {
	sub, ok := api.controlKey(w, r)
	if !ok {
		return
	}

	result, err := api.Control.Patch(r.Context(), []singular.ControlItem{
		{SubCompositionID: sub.ID, State: state},
	})
	if err != nil {
		api.sendPushError(w, r, err)
		return
	}

	api.Events.Record("control_"+state, map[string]string{"slug": sub.Slug, "id": sub.ID})
	api.sendJSON(w, r, struct {
		Status   int    `json:"status"`
		ID       string `json:"id"`
		Response string `json:"response"`
	}{Status: result.StatusCode, ID: sub.ID, Response: result.Body})
}

// controlInHandler animates a subcomposition in.
func (api *RestAPI) controlInHandler(w http.ResponseWriter, r *http.Request) {
	api.patchState(w, r, "In")
}

// controlOutHandler animates a subcomposition out.
func (api *RestAPI) controlOutHandler(w http.ResponseWriter, r *http.Request) {
	api.patchState(w, r, "Out")
}

// controlSetHandler sets one payload field, coercing the value to the
// field's declared type unless asString=1.
func (api *RestAPI) controlSetHandler(w http.ResponseWriter, r *http.Request) {
	sub, ok := api.controlKey(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	field := query.Get("field")
	if field == "" {
		api.badRequestResponse(w, r, "field query parameter is required")
		return
	}
	if !query.Has("value") {
		api.badRequestResponse(w, r, "value query parameter is required")
		return
	}

	meta, found := sub.Fields[field]
	if !found {
		api.notFoundResponse(w, r, fmt.Sprintf("field not found on %s: %s", sub.Slug, field))
		return
	}

	asString := query.Get("asString") == "1"
	value := singular.CoerceValue(meta, query.Get("value"), asString)

	items := []singular.ControlItem{
		{SubCompositionID: sub.ID, Payload: map[string]any{field: value}},
	}
	result, err := api.Control.Patch(r.Context(), items)
	if err != nil {
		api.sendPushError(w, r, err)
		return
	}

	api.Events.Record("control_set", map[string]string{
		"slug":  sub.Slug,
		"field": field,
		"value": query.Get("value"),
	})
	api.sendJSON(w, r, struct {
		Status   int                    `json:"status"`
		ID       string                 `json:"id"`
		Sent     []singular.ControlItem `json:"sent"`
		Response string                 `json:"response"`
	}{Status: result.StatusCode, ID: sub.ID, Sent: items, Response: result.Body})
}

// controlTimecontrolHandler starts or stops a timecontrol field.
// Supported query parameters: field (required), run (default true),
// value (default 0), utc (ms, default now), seconds (optional countdown).
func (api *RestAPI) controlTimecontrolHandler(w http.ResponseWriter, r *http.Request) {
	sub, ok := api.controlKey(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	field := query.Get("field")
	if field == "" {
		api.badRequestResponse(w, r, "field query parameter is required")
		return
	}

	meta, found := sub.Fields[field]
	if !found {
		api.notFoundResponse(w, r, fmt.Sprintf("field not found on %s: %s", sub.Slug, field))
		return
	}
	if meta.Type != "timecontrol" {
		api.badRequestResponse(w, r, fmt.Sprintf("field %s is not a timecontrol", field))
		return
	}

	run := true
	if raw := query.Get("run"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			api.badRequestResponse(w, r, "run must be a boolean")
			return
		}
		run = parsed
	}

	value := 0
	if raw := query.Get("value"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.badRequestResponse(w, r, "value must be an integer")
			return
		}
		value = parsed
	}

	utc := float64(time.Now().UnixMilli())
	if raw := query.Get("utc"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			api.badRequestResponse(w, r, "utc must be a number of milliseconds")
			return
		}
		utc = parsed
	}

	payload := map[string]any{}
	if raw := query.Get("seconds"); raw != "" {
		if _, err := strconv.Atoi(raw); err != nil {
			api.badRequestResponse(w, r, "seconds must be an integer")
			return
		}
		payload["Countdown Seconds"] = raw
	}
	payload[field] = map[string]any{
		"UTC":       utc,
		"isRunning": run,
		"value":     value,
	}

	result, err := api.Control.Patch(r.Context(), []singular.ControlItem{
		{SubCompositionID: sub.ID, Payload: payload},
	})
	if err != nil {
		api.sendPushError(w, r, err)
		return
	}

	api.Events.Record("control_timecontrol", map[string]any{
		"slug":  sub.Slug,
		"field": field,
		"run":   run,
	})
	api.sendJSON(w, r, struct {
		Status   int            `json:"status"`
		ID       string         `json:"id"`
		Sent     map[string]any `json:"sent"`
		Response string         `json:"response"`
	}{Status: result.StatusCode, ID: sub.ID, Sent: payload, Response: result.Body})
}

// controlHelpHandler returns the command catalogue for one
// subcomposition.
func (api *RestAPI) controlHelpHandler(w http.ResponseWriter, r *http.Request) {
	sub, ok := api.controlKey(w, r)
	if !ok {
		return
	}

	api.sendJSON(w, r, struct {
		Commands subcompositionCommands `json:"commands"`
	}{Commands: commandsFor(baseURL(r), sub)})
}
