package webui

import (
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"
)

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	content := spew.Sdump(data)
	w.Header().Set("Content-Type", "text/html")
	tmpl, err := template.ParseFS(templateFS, "debug_index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dataStruct := debugData{
		Title: title,
		Pre:   content,
	}

	err = tmpl.Execute(w, dataStruct)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	switch dataType {
	case "statuses":
		data = webUI.Lines.Snapshot()
		title = "Status Store - Snapshot"
	case "registry":
		data = webUI.Registry.List()
		title = "Singular Control App - Registry"
	case "events":
		data = webUI.Events.Tail(0)
		title = "Event Log - Tail"
	case "config":
		data = webUI.Config
		title = "Application - Config"
	default:
		data = map[string]string{
			"error": "Please use one of the following: statuses, registry, events, config.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
