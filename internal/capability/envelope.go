package capability

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Payload is the uniform response envelope for every capability.
type Payload struct {
	OK          bool           `json:"ok"`
	Capability  string         `json:"capability"`
	Input       *InputEcho     `json:"input,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
	Attribution []Attribution  `json:"attribution,omitempty"`
	Meta        *Meta          `json:"meta,omitempty"`
	Error       *ErrorBody     `json:"error,omitempty"`
}

// InputEcho echoes the resolved request input back to the caller.
type InputEcho struct {
	Address string  `json:"address,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Meta carries response metadata and the optional debug payload.
type Meta struct {
	Version string         `json:"version"`
	Note    string         `json:"note,omitempty"`
	Debug   map[string]any `json:"debug,omitempty"`
}

// ErrorBody is the error half of the envelope.
type ErrorBody struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// WriteJSON serializes a payload with the fixed response headers: JSON
// content type, no-store caching, and a permissive cross-origin header on
// every response including errors.
func WriteJSON(w http.ResponseWriter, status int, payload *Payload) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

// WriteError writes the error envelope for an APIError.
func WriteError(w http.ResponseWriter, capability string, apiErr *APIError) {
	WriteJSON(w, apiErr.Code.HTTPStatus(), &Payload{
		Capability: capability,
		Error:      &ErrorBody{Code: apiErr.Code, Message: apiErr.Message},
	})
}
