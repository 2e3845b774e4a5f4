package restapi

import (
	"net/http"
	"strconv"
)

// eventsHandler returns the most recent operator-visible events, newest
// last. ?n= limits the tail; the default returns everything retained.
func (api *RestAPI) eventsHandler(w http.ResponseWriter, r *http.Request) {
	n := 0
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			api.badRequestResponse(w, r, "n must be a non-negative integer")
			return
		}
		n = parsed
	}

	api.sendJSON(w, r, api.Events.Tail(n))
}
