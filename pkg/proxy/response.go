package proxy

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"tavola-hq/menugate/pkg/proxy/types"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError classifies err and writes the resulting envelope.
func WriteError(w http.ResponseWriter, err error) {
	envelope := Classify(err)
	WriteEnvelope(w, envelope)
}

// WriteEnvelope writes a pre-built error envelope.
func WriteEnvelope(w http.ResponseWriter, envelope *types.ErrorEnvelope) {
	WriteJSON(w, envelope.HTTPStatus(), envelope)
}
