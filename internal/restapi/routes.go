package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// SetRoutes registers every API endpoint on the router. Control app
// routes accept GET as well as POST so operators can fire them from a
// browser bar or a hardware controller that only speaks GET.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/health", api.healthHandler)
	router.HandlerFunc(http.MethodGet, "/status", api.statusHandler)
	router.HandlerFunc(http.MethodGet, "/lines", api.linesHandler)
	router.HandlerFunc(http.MethodGet, "/events", api.eventsHandler)

	router.HandlerFunc(http.MethodPost, "/update", api.updateHandler)
	router.HandlerFunc(http.MethodPost, "/auto", api.autoRefreshHandler)

	router.HandlerFunc(http.MethodPost, "/manual", api.manualSetHandler)
	router.HandlerFunc(http.MethodPost, "/manual/send", api.manualSendHandler)
	router.HandlerFunc(http.MethodPost, "/manual/reset", api.manualResetHandler)
	router.HandlerFunc(http.MethodPost, "/manual/test", api.manualTestHandler)
	router.HandlerFunc(http.MethodPost, "/manual/blank", api.manualBlankHandler)

	router.HandlerFunc(http.MethodGet, "/singular/list", api.singularListHandler)
	router.HandlerFunc(http.MethodPost, "/singular/refresh", api.singularRefreshHandler)
	router.HandlerFunc(http.MethodGet, "/singular/ping", api.singularPingHandler)
	router.HandlerFunc(http.MethodGet, "/singular/commands", api.singularCommandsHandler)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		router.HandlerFunc(method, "/controls/:key/in", api.controlInHandler)
		router.HandlerFunc(method, "/controls/:key/out", api.controlOutHandler)
		router.HandlerFunc(method, "/controls/:key/set", api.controlSetHandler)
		router.HandlerFunc(method, "/controls/:key/timecontrol", api.controlTimecontrolHandler)
	}
	router.HandlerFunc(http.MethodGet, "/controls/:key/help", api.controlHelpHandler)
}
