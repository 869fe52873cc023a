package server

import (
	"errors"
	"net/http"

	"github.com/Abhi-2104/Auralis/logger"
	"github.com/Abhi-2104/Auralis/repository"
	"github.com/Abhi-2104/Auralis/storage"

	"github.com/gorilla/mux"
)

// StreamSongHandler issues a time-limited playback URL for one song, echoing
// display metadata alongside it.
func (h *APIHandler) StreamSongHandler(w http.ResponseWriter, r *http.Request) {
	songID := mux.Vars(r)["id"]

	info, err := h.issuer.Issue(r.Context(), songID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSongNotFound):
			respondError(w, http.StatusNotFound, "Song not found")
		case errors.Is(err, storage.ErrInvalidObjectRef):
			respondError(w, http.StatusBadRequest, "Song does not have a valid audio reference")
		default:
			logger.Error("[Stream] Failed to issue URL", logger.String("songId", songID), logger.ErrorField(err))
			respondErrorDetail(w, http.StatusInternalServerError, "Failed to generate stream URL", err)
		}
		return
	}

	logger.Info("[Stream] Issued playback URL", logger.String("songId", songID))
	respondJSON(w, http.StatusOK, info)
}
