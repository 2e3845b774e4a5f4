package restapi

import (
	"net/http"

	"github.com/linedeck/linedeck/internal/app"
)

func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := struct {
		Status      string `json:"status"`
		Version     string `json:"version"`
		Port        int    `json:"port"`
		AutoRefresh bool   `json:"autoRefresh"`
	}{
		Status:      "ok",
		Version:     app.Version,
		Port:        api.Config.Port,
		AutoRefresh: api.AutoRefreshEnabled(),
	}
	api.sendJSON(w, r, response)
}
