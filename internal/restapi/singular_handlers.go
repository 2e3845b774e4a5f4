package restapi

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/linedeck/linedeck/internal/singular"
)

type subcompositionSummary struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// singularListHandler returns the registry keyed by slug.
func (api *RestAPI) singularListHandler(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]subcompositionSummary)
	for _, sub := range api.Registry.List() {
		fields := make([]string, 0, len(sub.Fields))
		for id := range sub.Fields {
			fields = append(fields, id)
		}
		out[sub.Slug] = subcompositionSummary{ID: sub.ID, Name: sub.Name, Fields: fields}
	}
	api.sendJSON(w, r, out)
}

// singularRefreshHandler refetches the control app model and rebuilds
// the registry.
func (api *RestAPI) singularRefreshHandler(w http.ResponseWriter, r *http.Request) {
	if err := api.RebuildRegistry(r.Context()); err != nil {
		api.sendPushError(w, r, err)
		return
	}

	api.sendJSON(w, r, struct {
		OK    bool `json:"ok"`
		Count int  `json:"count"`
	}{OK: true, Count: api.Registry.Len()})
}

// singularPingHandler checks that the configured control app is
// reachable by fetching its model and describing the top of it.
func (api *RestAPI) singularPingHandler(w http.ResponseWriter, r *http.Request) {
	model, err := api.Control.FetchModel(r.Context())
	if err != nil {
		api.sendPushError(w, r, err)
		return
	}

	var modelType string
	var topKeys []string
	switch m := model.(type) {
	case map[string]any:
		modelType = "object"
		for k := range m {
			if len(topKeys) == 5 {
				break
			}
			topKeys = append(topKeys, k)
		}
	case []any:
		modelType = "list"
		topKeys = []string{fmt.Sprintf("list(len=%d)", len(m))}
	default:
		modelType = fmt.Sprintf("%T", model)
	}

	api.sendJSON(w, r, struct {
		OK           bool     `json:"ok"`
		Message      string   `json:"message"`
		ModelType    string   `json:"modelType"`
		TopLevelKeys []string `json:"topLevelKeys"`
	}{
		OK:           true,
		Message:      "Connected to Singular",
		ModelType:    modelType,
		TopLevelKeys: topKeys,
	})
}

type fieldCommands struct {
	SetURL              string `json:"setUrl"`
	TimecontrolStartURL string `json:"timecontrolStartUrl,omitempty"`
	TimecontrolStopURL  string `json:"timecontrolStopUrl,omitempty"`
}

type subcompositionCommands struct {
	ID     string                   `json:"id"`
	Name   string                   `json:"name"`
	InURL  string                   `json:"inUrl"`
	OutURL string                   `json:"outUrl"`
	Fields map[string]fieldCommands `json:"fields"`
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

func commandsFor(base string, sub singular.Subcomposition) subcompositionCommands {
	entry := subcompositionCommands{
		ID:     sub.ID,
		Name:   sub.Name,
		InURL:  fmt.Sprintf("%s/controls/%s/in", base, sub.Slug),
		OutURL: fmt.Sprintf("%s/controls/%s/out", base, sub.Slug),
		Fields: map[string]fieldCommands{},
	}
	for id, meta := range sub.Fields {
		cmds := fieldCommands{
			SetURL: fmt.Sprintf("%s/controls/%s/set?field=%s&value=VALUE", base, sub.Slug, url.QueryEscape(id)),
		}
		if meta.Type == "timecontrol" {
			cmds.TimecontrolStartURL = fmt.Sprintf("%s/controls/%s/timecontrol?field=%s&run=true", base, sub.Slug, url.QueryEscape(id))
			cmds.TimecontrolStopURL = fmt.Sprintf("%s/controls/%s/timecontrol?field=%s&run=false", base, sub.Slug, url.QueryEscape(id))
		}
		entry.Fields[id] = cmds
	}
	return entry
}

// singularCommandsHandler returns a ready-to-paste URL catalogue for
// every registered subcomposition.
func (api *RestAPI) singularCommandsHandler(w http.ResponseWriter, r *http.Request) {
	base := baseURL(r)
	catalog := make(map[string]subcompositionCommands)
	for _, sub := range api.Registry.List() {
		catalog[sub.Slug] = commandsFor(base, sub)
	}

	api.sendJSON(w, r, struct {
		Note    string                            `json:"note"`
		Catalog map[string]subcompositionCommands `json:"catalog"`
	}{
		Note:    "Control endpoints accept GET for convenience; use POST in automation.",
		Catalog: catalog,
	})
}
