package apierror

import (
	"encoding/json"
	"net/http"
)

// Envelope is the standard response shape every endpoint returns (§6).
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data"`
	Errors  []FieldError `json:"errors,omitempty"`
}

const correlationHeader = "X-Correlation-ID"

// WriteJSON writes err as the standard error envelope, setting the HTTP
// status from its Kind and stamping the correlation id header so a client
// and the server logs can be matched (§7).
func WriteJSON(w http.ResponseWriter, correlationID string, err *Error) {
	if correlationID != "" {
		w.Header().Set(correlationHeader, correlationID)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Kind.HTTPStatus())
	_ = json.NewEncoder(w).Encode(Envelope{
		Success: false,
		Message: err.Message,
		Data:    nil,
		Errors:  err.Fields,
	})
}

// WriteSuccess writes a successful envelope with the given HTTP status.
func WriteSuccess(w http.ResponseWriter, correlationID string, status int, message string, data interface{}) {
	if correlationID != "" {
		w.Header().Set(correlationHeader, correlationID)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}
