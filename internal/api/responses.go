package api

import (
	"encoding/json"
	"net/http"
)

// JSONResponse is a small builder for JSON replies.
type JSONResponse struct {
	statusCode int
	w          http.ResponseWriter
}

// NewJSONResponse creates a new JSONResponse instance.
func NewJSONResponse(w http.ResponseWriter) *JSONResponse {
	return &JSONResponse{w: w}
}

// WithStatusCode sets the status code of the response.
func (r *JSONResponse) WithStatusCode(code int) *JSONResponse {
	r.statusCode = code
	return r
}

// Send sends the data as JSON to the client.
func (r *JSONResponse) Send(data any) {
	statusCode := r.statusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	r.w.Header().Set("Content-Type", "application/json")

	body, err := json.Marshal(data)
	if err != nil {
		r.w.WriteHeader(http.StatusInternalServerError)
		_, _ = r.w.Write([]byte(err.Error()))
		return
	}

	r.w.WriteHeader(statusCode)
	_, _ = r.w.Write(body)
}

// SimpleResponse reports the outcome of an operation without a payload.
type SimpleResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
