// Package webui serves the operator-facing control panel and a debug
// state dump.
package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/linedeck/linedeck/internal/app"
)

type WebUI struct {
	*app.Application
}

// NewWebUI creates the web UI around the shared Application.
func NewWebUI(app *app.Application) *WebUI {
	return &WebUI{Application: app}
}

// SetRoutes registers the panel and debug pages.
func (webUI *WebUI) SetRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/", webUI.panelHandler)
	router.HandlerFunc(http.MethodGet, "/debug", webUI.debugIndexHandler)
}
