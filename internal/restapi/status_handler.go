package restapi

import (
	"net/http"
)

// statusHandler returns the current store contents, overrides included.
func (api *RestAPI) statusHandler(w http.ResponseWriter, r *http.Request) {
	api.sendJSON(w, r, api.Lines.Snapshot())
}
