// Package restapi exposes the control panel's HTTP surface: line status
// endpoints, datastream pushes, and the Singular control app proxy.
package restapi

import (
	"github.com/linedeck/linedeck/internal/app"
)

type RestAPI struct {
	*app.Application
}

// NewRestAPI creates a new RestAPI instance around the shared Application.
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{Application: app}
}
