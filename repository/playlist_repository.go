package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abhi-2104/Auralis/model"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the MySQL error number for a unique-key violation.
const mysqlDuplicateEntry = 1062

// PlaylistRepository defines the catalog store operations for playlists.
type PlaylistRepository interface {
	CreatePlaylist(playlist *model.Playlist) error
	GetPlaylistByID(id string) (*model.Playlist, error)
	GetPlaylistsByUserID(userID int64) ([]*model.Playlist, error)
	AppendSong(playlistID, songID string) error
}

// mysqlPlaylistRepository implements PlaylistRepository for MySQL.
type mysqlPlaylistRepository struct {
	db *sql.DB
}

// NewMySQLPlaylistRepository creates a new mysqlPlaylistRepository.
func NewMySQLPlaylistRepository(db *sql.DB) PlaylistRepository {
	return &mysqlPlaylistRepository{db: db}
}

// CreatePlaylist inserts a new, empty playlist.
func (r *mysqlPlaylistRepository) CreatePlaylist(playlist *model.Playlist) error {
	query := `INSERT INTO playlists (id, name, description, user_id, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?)`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for CreatePlaylist: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(playlist.ID, playlist.Name, playlist.Description,
		playlist.UserID, playlist.CreatedAt, playlist.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute CreatePlaylist: %w", err)
	}
	return nil
}

// GetPlaylistByID retrieves a playlist with its ordered song IDs.
// Returns ErrPlaylistNotFound when absent.
func (r *mysqlPlaylistRepository) GetPlaylistByID(id string) (*model.Playlist, error) {
	query := `SELECT id, name, description, user_id, created_at, updated_at FROM playlists WHERE id = ?`
	row := r.db.QueryRow(query, id)

	playlist := &model.Playlist{}
	err := row.Scan(&playlist.ID, &playlist.Name, &playlist.Description,
		&playlist.UserID, &playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("failed to scan playlist by ID %s: %w", id, err)
	}

	songs, err := r.getSongIDs(id)
	if err != nil {
		return nil, err
	}
	playlist.Songs = songs
	return playlist, nil
}

// GetPlaylistsByUserID retrieves every playlist owned by a user, newest first.
func (r *mysqlPlaylistRepository) GetPlaylistsByUserID(userID int64) ([]*model.Playlist, error) {
	query := `SELECT id, name, description, user_id, created_at, updated_at
	           FROM playlists WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists for user ID %d: %w", userID, err)
	}
	defer rows.Close()

	playlists := make([]*model.Playlist, 0)
	for rows.Next() {
		playlist := &model.Playlist{}
		err := rows.Scan(&playlist.ID, &playlist.Name, &playlist.Description,
			&playlist.UserID, &playlist.CreatedAt, &playlist.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist in GetPlaylistsByUserID: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in GetPlaylistsByUserID: %w", err)
	}

	for _, playlist := range playlists {
		songs, err := r.getSongIDs(playlist.ID)
		if err != nil {
			return nil, err
		}
		playlist.Songs = songs
	}
	return playlists, nil
}

// AppendSong adds a song reference to the end of a playlist and refreshes
// updated_at. The membership insert computes the next position and relies on
// the (playlist_id, song_id) unique key, so two concurrent appends of
// distinct songs both land while a duplicate append loses with a key
// violation instead of overwriting. There is no read-modify-write in the
// caller. Returns ErrDuplicateSong when the song is already present.
func (r *mysqlPlaylistRepository) AppendSong(playlistID, songID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for AppendSong: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	insert := `INSERT INTO playlist_songs (playlist_id, song_id, position, added_at)
	            SELECT ?, ?, COALESCE(MAX(position) + 1, 0), ?
	            FROM playlist_songs WHERE playlist_id = ?`
	if _, err = tx.Exec(insert, playlistID, songID, now, playlistID); err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return ErrDuplicateSong
		}
		return fmt.Errorf("failed to append song %s to playlist %s: %w", songID, playlistID, err)
	}

	if _, err = tx.Exec(`UPDATE playlists SET updated_at = ? WHERE id = ?`, now, playlistID); err != nil {
		return fmt.Errorf("failed to touch playlist %s: %w", playlistID, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit AppendSong: %w", err)
	}
	return nil
}

// getSongIDs loads the ordered song IDs of one playlist.
func (r *mysqlPlaylistRepository) getSongIDs(playlistID string) ([]string, error) {
	rows, err := r.db.Query(
		`SELECT song_id FROM playlist_songs WHERE playlist_id = ? ORDER BY position`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs of playlist %s: %w", playlistID, err)
	}
	defer rows.Close()

	songs := make([]string, 0)
	for rows.Next() {
		var songID string
		if err := rows.Scan(&songID); err != nil {
			return nil, fmt.Errorf("failed to scan playlist song: %w", err)
		}
		songs = append(songs, songID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in getSongIDs: %w", err)
	}
	return songs, nil
}
