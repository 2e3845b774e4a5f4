package restapi

import (
	"net/http"

	"github.com/linedeck/linedeck/internal/lines"
)

type lineInfo struct {
	ID        string `json:"id"`
	Group     string `json:"group"`
	Colour    string `json:"colour"`
	DarkLabel bool   `json:"darkLabel"`
}

// linesHandler returns the fixed line catalogue for UI clients.
func (api *RestAPI) linesHandler(w http.ResponseWriter, r *http.Request) {
	out := make([]lineInfo, 0, len(lines.Catalogue))
	for _, line := range lines.Catalogue {
		out = append(out, lineInfo{
			ID:        line.ID,
			Group:     line.Group.String(),
			Colour:    line.Colour,
			DarkLabel: line.DarkLabel,
		})
	}
	api.sendJSON(w, r, struct {
		Lines []lineInfo `json:"lines"`
	}{Lines: out})
}
