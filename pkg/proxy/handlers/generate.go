// Package handlers contains the HTTP handlers of the gateway API.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"tavola-hq/menugate/pkg/gateway"
	"tavola-hq/menugate/pkg/proxy"
	"tavola-hq/menugate/pkg/proxy/types"
)

// Generator produces a menu from a prompt. Satisfied by *gateway.Gateway.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*gateway.Result, error)
}

// Response headers carrying generation attribution. The body is the menu
// payload alone, so provider and model travel out of band.
const (
	ProviderHeader = "X-Menugate-Provider"
	ModelHeader    = "X-Menugate-Model"
)

// GenerateHandler serves POST /api/generate-menu.
type GenerateHandler struct {
	gateway Generator
	logger  *slog.Logger
}

// NewGenerateHandler creates the generation endpoint handler.
func NewGenerateHandler(g Generator) *GenerateHandler {
	return &GenerateHandler{
		gateway: g,
		logger:  slog.Default().With("component", "generate_handler"),
	}
}

func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		proxy.WriteEnvelope(w, types.NewError(types.KindValidation, "method not allowed").
			WithStatus(http.StatusMethodNotAllowed))
		return
	}

	var req types.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		proxy.WriteEnvelope(w, types.NewError(types.KindValidation, "invalid request body: expected JSON with a \"prompt\" field"))
		return
	}

	if err := req.Validate(); err != nil {
		proxy.WriteError(w, err)
		return
	}

	result, err := h.gateway.Generate(r.Context(), req.Prompt)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "generation failed", "error", err)
		proxy.WriteError(w, err)
		return
	}

	// The body is the sanitized menu JSON verbatim; clients consume it
	// directly as the menu object.
	w.Header().Set(ProviderHeader, result.Provider)
	w.Header().Set(ModelHeader, result.Model)
	proxy.WriteJSON(w, http.StatusOK, result.Menu)
}
