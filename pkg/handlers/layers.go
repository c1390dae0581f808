package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shariquekazmi/plan-generation-api/pkg/auth"
	"github.com/shariquekazmi/plan-generation-api/pkg/models"
	"github.com/shariquekazmi/plan-generation-api/pkg/services"
)

// CreateDraftRequest is the payload for opening a refinement session.
type CreateDraftRequest struct {
	Prompt string `json:"prompt"`
}

// ReplyRequest is the payload for replying to the agent.
type ReplyRequest struct {
	Action  string `json:"action"`
	Content string `json:"content"`
}

// LayersHandler handles layer lifecycle HTTP requests.
type LayersHandler struct {
	layerService services.LayerService
	logger       *zap.Logger
}

// NewLayersHandler creates a new layers handler.
func NewLayersHandler(layerService services.LayerService, logger *zap.Logger) *LayersHandler {
	return &LayersHandler{
		layerService: layerService,
		logger:       logger,
	}
}

// RegisterRoutes registers the layers handler's routes on the given mux.
func (h *LayersHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/layers/draft", authMiddleware.RequireAuth(h.CreateDraft))
	mux.HandleFunc("POST /api/layers/{id}/reply", authMiddleware.RequireAuth(h.Reply))
	mux.HandleFunc("POST /api/layers/{id}/generate", authMiddleware.RequireAuth(h.Generate))
	mux.HandleFunc("GET /api/layers/{id}", authMiddleware.RequireAuth(h.Get))
}

// CreateDraft handles POST /api/layers/draft.
// Opens a new refinement session seeded with the caller's prompt.
func (h *LayersHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	var req CreateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	layer, err := h.layerService.CreateDraft(r.Context(), userID, req.Prompt)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, layer); err != nil {
		h.logger.Error("Failed to encode layer response", zap.Error(err))
	}
}

// Reply handles POST /api/layers/{id}/reply.
// Applies an edit or confirm reply to a layer awaiting user input.
func (h *LayersHandler) Reply(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	layerID, ok := h.layerID(w, r)
	if !ok {
		return
	}

	var req ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	layer, err := h.layerService.ReplyToAgent(r.Context(), userID, layerID, services.ReplyInput{
		Action:  models.ReplyAction(req.Action),
		Content: req.Content,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, layer); err != nil {
		h.logger.Error("Failed to encode layer response", zap.Error(err))
	}
}

// Generate handles POST /api/layers/{id}/generate.
// Produces the final answer for a finalized layer.
func (h *LayersHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	layerID, ok := h.layerID(w, r)
	if !ok {
		return
	}

	layer, err := h.layerService.GenerateFromFinal(r.Context(), userID, layerID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, layer); err != nil {
		h.logger.Error("Failed to encode layer response", zap.Error(err))
	}
}

// Get handles GET /api/layers/{id}.
func (h *LayersHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	layerID, ok := h.layerID(w, r)
	if !ok {
		return
	}

	layer, err := h.layerService.GetLayerByID(r.Context(), userID, layerID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, layer); err != nil {
		h.logger.Error("Failed to encode layer response", zap.Error(err))
	}
}

func (h *LayersHandler) callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

func (h *LayersHandler) layerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	layerID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_layer_id", "Layer ID must be a UUID")
		return uuid.Nil, false
	}
	return layerID, true
}

func (h *LayersHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

func (h *LayersHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn("Layer operation failed",
		zap.String("path", r.URL.Path),
		zap.Error(err))
	if werr := ServiceError(w, err); werr != nil {
		h.logger.Error("Failed to write error response", zap.Error(werr))
	}
}
