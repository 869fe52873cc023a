package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Abhi-2104/Auralis/logger"
	"github.com/Abhi-2104/Auralis/model"
	"github.com/Abhi-2104/Auralis/repository"

	"github.com/gorilla/mux"
)

// songsResponse is the page envelope for GET /songs.
type songsResponse struct {
	Songs     []*model.Song `json:"songs"`
	Count     int           `json:"count"`
	NextToken string        `json:"nextToken,omitempty"`
}

// GetSongsHandler lists the catalog with optional exact-match filters and
// keyset pagination. The nextToken is opaque and must round-trip verbatim.
func (h *APIHandler) GetSongsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repository.SongFilter{
		Genre:  query.Get("genre"),
		Artist: query.Get("artist"),
		Album:  query.Get("album"),
	}

	limit := repository.DefaultPageLimit
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	page, err := h.songRepo.SearchSongs(filter, limit, query.Get("nextToken"))
	if err != nil {
		if errors.Is(err, repository.ErrInvalidToken) {
			respondError(w, http.StatusBadRequest, "Invalid nextToken")
			return
		}
		logger.Error("[Songs] Search failed", logger.ErrorField(err))
		respondErrorDetail(w, http.StatusInternalServerError, "Could not load songs", err)
		return
	}

	respondJSON(w, http.StatusOK, songsResponse{
		Songs:     page.Songs,
		Count:     page.Count,
		NextToken: page.NextToken,
	})
}

// GetSongHandler returns a single song by ID.
func (h *APIHandler) GetSongHandler(w http.ResponseWriter, r *http.Request) {
	songID := mux.Vars(r)["id"]

	song, err := h.songRepo.GetSongByID(songID)
	if err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			respondError(w, http.StatusNotFound, "Song not found")
			return
		}
		logger.Error("[Songs] Lookup failed", logger.String("songId", songID), logger.ErrorField(err))
		respondErrorDetail(w, http.StatusInternalServerError, "Could not load song", err)
		return
	}

	respondJSON(w, http.StatusOK, song)
}
