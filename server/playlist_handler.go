package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Abhi-2104/Auralis/logger"
	"github.com/Abhi-2104/Auralis/model"
	"github.com/Abhi-2104/Auralis/repository"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// CreatePlaylistRequest is the body of POST /playlists.
type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AddSongRequest is the body of POST /playlists/{id}/songs.
type AddSongRequest struct {
	SongID string `json:"songId"`
}

// CreatePlaylistHandler creates an empty playlist owned by the caller.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreatePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Playlist name is required")
		return
	}

	now := time.Now()
	playlist := &model.Playlist{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		UserID:      userID,
		Songs:       []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.playlistRepo.CreatePlaylist(playlist); err != nil {
		logger.Error("[Playlist] Create failed", logger.ErrorField(err))
		respondErrorDetail(w, http.StatusInternalServerError, "Failed to create playlist", err)
		return
	}

	logger.Info("[Playlist] Created",
		logger.String("playlistId", playlist.ID),
		logger.Int64("userId", userID))
	respondJSON(w, http.StatusCreated, playlist)
}

// GetPlaylistsHandler lists the caller's playlists.
func (h *APIHandler) GetPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlists, err := h.playlistRepo.GetPlaylistsByUserID(userID)
	if err != nil {
		logger.Error("[Playlist] List failed", logger.Int64("userId", userID), logger.ErrorField(err))
		respondErrorDetail(w, http.StatusInternalServerError, "Failed to load playlists", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"playlists": playlists,
		"count":     len(playlists),
	})
}

// GetPlaylistHandler returns one playlist, owner only.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlist, err := h.authorizePlaylist(mux.Vars(r)["id"], userID)
	if err != nil {
		h.respondPlaylistError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, playlist)
}

// AddSongToPlaylistHandler appends a song reference to a playlist. The
// ownership check runs before the song is even looked at, so a non-owner
// always gets 403 regardless of whether the song exists.
func (h *APIHandler) AddSongToPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlistID := mux.Vars(r)["id"]

	var req AddSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SongID == "" {
		respondError(w, http.StatusBadRequest, "songId is required")
		return
	}

	if _, err := h.authorizePlaylist(playlistID, userID); err != nil {
		h.respondPlaylistError(w, err)
		return
	}

	if _, err := h.songRepo.GetSongByID(req.SongID); err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			respondError(w, http.StatusNotFound, "Song not found")
			return
		}
		logger.Error("[Playlist] Song lookup failed", logger.ErrorField(err))
		respondErrorDetail(w, http.StatusInternalServerError, "Failed to add song to playlist", err)
		return
	}

	if err := h.playlistRepo.AppendSong(playlistID, req.SongID); err != nil {
		if errors.Is(err, repository.ErrDuplicateSong) {
			respondError(w, http.StatusBadRequest, "Song already exists in this playlist")
			return
		}
		logger.Error("[Playlist] Append failed",
			logger.String("playlistId", playlistID),
			logger.String("songId", req.SongID),
			logger.ErrorField(err))
		respondErrorDetail(w, http.StatusInternalServerError, "Failed to add song to playlist", err)
		return
	}

	logger.Info("[Playlist] Song added",
		logger.String("playlistId", playlistID),
		logger.String("songId", req.SongID))
	respondJSON(w, http.StatusOK, map[string]string{
		"message":    "Song added to playlist successfully",
		"playlistId": playlistID,
		"songId":     req.SongID,
	})
}

// authorizePlaylist loads a playlist and verifies the acting principal owns
// it. Callers must run this before any mutating playlist operation.
func (h *APIHandler) authorizePlaylist(playlistID string, userID int64) (*model.Playlist, error) {
	playlist, err := h.playlistRepo.GetPlaylistByID(playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.UserID != userID {
		return nil, repository.ErrNotOwner
	}
	return playlist, nil
}

// respondPlaylistError maps playlist lookup/ownership errors onto statuses.
func (h *APIHandler) respondPlaylistError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrPlaylistNotFound):
		respondError(w, http.StatusNotFound, "Playlist not found")
	case errors.Is(err, repository.ErrNotOwner):
		respondError(w, http.StatusForbidden, "You don't have permission to modify this playlist")
	default:
		logger.Error("[Playlist] Lookup failed", logger.ErrorField(err))
		respondErrorDetail(w, http.StatusInternalServerError, "Failed to load playlist", err)
	}
}
