package restapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/linedeck/linedeck/internal/singular"
)

func (api *RestAPI) writeErrorResponse(w http.ResponseWriter, status int, text string) {
	response := struct {
		Code int    `json:"code"`
		Text string `json:"text"`
	}{
		Code: status,
		Text: text,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.Logger.Error("failed to encode error response", "error", err)
	}
}

func (api *RestAPI) notFoundResponse(w http.ResponseWriter, r *http.Request, text string) {
	api.writeErrorResponse(w, http.StatusNotFound, text)
}

func (api *RestAPI) badRequestResponse(w http.ResponseWriter, r *http.Request, text string) {
	api.writeErrorResponse(w, http.StatusBadRequest, text)
}

// upstreamUnavailableResponse maps a failed TfL/GTFS fetch to 503: the
// panel itself is healthy, the data source is not.
func (api *RestAPI) upstreamUnavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.writeErrorResponse(w, http.StatusServiceUnavailable, err.Error())
}

// forwardErrorResponse maps a rejected Singular write to 502 and passes
// the upstream status/body through for operator display.
func (api *RestAPI) forwardErrorResponse(w http.ResponseWriter, r *http.Request, fwdErr *singular.ForwardError) {
	response := struct {
		Code           int    `json:"code"`
		Text           string `json:"text"`
		UpstreamStatus int    `json:"upstreamStatus"`
		UpstreamBody   string `json:"upstreamBody"`
	}{
		Code:           http.StatusBadGateway,
		Text:           "singular api rejected the request",
		UpstreamStatus: fwdErr.StatusCode,
		UpstreamBody:   fwdErr.Body,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	encoderErr := json.NewEncoder(w).Encode(response)
	if encoderErr != nil {
		api.Logger.Error("failed to encode forward error response", "error", encoderErr)
	}
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.Logger.Error("internal server error", "error", err, "path", r.URL.Path)
	api.writeErrorResponse(w, http.StatusInternalServerError, "internal server error")
}

// sendPushError routes a datastream/control failure to the right error
// response.
func (api *RestAPI) sendPushError(w http.ResponseWriter, r *http.Request, err error) {
	var fwdErr *singular.ForwardError
	switch {
	case errors.As(err, &fwdErr):
		api.forwardErrorResponse(w, r, fwdErr)
	case errors.Is(err, singular.ErrStreamNotConfigured):
		api.badRequestResponse(w, r, err.Error())
	case errors.Is(err, singular.ErrNoControlToken):
		api.badRequestResponse(w, r, err.Error())
	default:
		api.serverErrorResponse(w, r, err)
	}
}
