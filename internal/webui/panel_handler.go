package webui

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/linedeck/linedeck/internal/app"
	"github.com/linedeck/linedeck/internal/lines"
)

//go:embed panel.html debug_index.html
var templateFS embed.FS

type panelLine struct {
	ID         string
	SafeID     string
	Colour     string
	TextColour string
}

type panelData struct {
	Version     string
	AutoRefresh bool
	Underground []panelLine
	Overground  []panelLine
}

// safeID turns a line name into a DOM-friendly element id.
func safeID(id string) string {
	return strings.ReplaceAll(strings.ReplaceAll(id, " ", "-"), "&", "and")
}

func panelLineFor(line lines.Line) panelLine {
	textColour := "#fff"
	if line.DarkLabel {
		textColour = "#000"
	}
	return panelLine{
		ID:         line.ID,
		SafeID:     safeID(line.ID),
		Colour:     line.Colour,
		TextColour: textColour,
	}
}

func (webUI *WebUI) panelHandler(w http.ResponseWriter, r *http.Request) {
	data := panelData{
		Version:     app.Version,
		AutoRefresh: webUI.AutoRefreshEnabled(),
	}
	for _, line := range lines.Catalogue {
		if line.Group == lines.Underground {
			data.Underground = append(data.Underground, panelLineFor(line))
		} else {
			data.Overground = append(data.Overground, panelLineFor(line))
		}
	}

	tmpl, err := template.ParseFS(templateFS, "panel.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	if err := tmpl.Execute(w, data); err != nil {
		webUI.Logger.Error("failed to render panel", "error", err)
	}
}
