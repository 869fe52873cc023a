package server

import (
	"encoding/json"
	"net/http"

	"github.com/Abhi-2104/Auralis/config"
	"github.com/Abhi-2104/Auralis/core/events"
	"github.com/Abhi-2104/Auralis/core/streaming"
	"github.com/Abhi-2104/Auralis/repository"
)

// APIHandler carries the dependencies of every HTTP handler.
type APIHandler struct {
	songRepo     repository.SongRepository
	playlistRepo repository.PlaylistRepository
	userRepo     repository.UserRepository
	issuer       *streaming.Issuer
	hub          *events.Hub
	cfg          *config.Config
}

// NewAPIHandler creates the API handler set.
func NewAPIHandler(
	songRepo repository.SongRepository,
	playlistRepo repository.PlaylistRepository,
	userRepo repository.UserRepository,
	issuer *streaming.Issuer,
	hub *events.Hub,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		songRepo:     songRepo,
		playlistRepo: playlistRepo,
		userRepo:     userRepo,
		issuer:       issuer,
		hub:          hub,
		cfg:          cfg,
	}
}

// errorResponse is the canonical error envelope: {message, error?}.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// respondJSON writes a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError writes the error envelope with just a message.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Message: message})
}

// respondErrorDetail writes the error envelope including the cause. Used for
// upstream failures, where the caller gets a generic message and the detail
// rides along for debugging.
func respondErrorDetail(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	respondJSON(w, status, resp)
}
