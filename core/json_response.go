package core

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/authsession/pkg/environment"
)

// Response renders itself onto an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// JSONResponse is the standard JSON envelope.
type JSONResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	// Debug carries the underlying error text in development only
	Debug string `json:"debug,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
	cause  error
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	body := j.body
	if j.cause != nil && body.Error != nil && environment.FromContext(r.Context()).IsDevelopment() {
		detail := *body.Error
		detail.Debug = j.cause.Error()
		body.Error = &detail
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(body)
}

// JSON creates a response with data and the given status.
func JSON(status int, data any) Response {
	return jsonResponse{status: status, body: JSONResponse{Data: data}}
}

// JSONError renders err. An HTTPError anywhere in the chain sets the status
// and key; anything else is an opaque 500.
func JSONError(err error) Response {
	var httpErr HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = ErrInternalServerError
	}

	return jsonResponse{
		status: httpErr.Code,
		body: JSONResponse{Error: &ErrorDetail{
			Code:    httpErr.Key,
			Message: http.StatusText(httpErr.Code),
		}},
		cause: err,
	}
}

// NoContent responds 204 without a body.
func NoContent() Response {
	return noContent{}
}

type noContent struct{}

func (noContent) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}
