package repository

import (
	"database/sql"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/Abhi-2104/Auralis/model"
)

// DefaultPageLimit is the page size used when the caller does not ask for one.
const DefaultPageLimit = 50

// SongFilter restricts a catalog search. Empty fields are ignored; set fields
// are combined conjunctively with exact, case-sensitive matches.
type SongFilter struct {
	Genre  string
	Artist string
	Album  string
}

// SongPage is one page of search results. NextToken is empty on the last
// page; otherwise it must be passed back verbatim to resume.
type SongPage struct {
	Songs     []*model.Song
	Count     int
	NextToken string
}

// SongRepository defines the catalog store operations for songs.
type SongRepository interface {
	CreateSong(song *model.Song) error
	GetSongByID(id string) (*model.Song, error)
	SearchSongs(filter SongFilter, limit int, nextToken string) (*SongPage, error)
}

// mysqlSongRepository implements SongRepository for MySQL.
type mysqlSongRepository struct {
	db *sql.DB
}

// NewMySQLSongRepository creates a new mysqlSongRepository.
func NewMySQLSongRepository(db *sql.DB) SongRepository {
	return &mysqlSongRepository{db: db}
}

const songColumns = "id, title, artist, album, genre, duration, audio_url, image_url, created_at"

// CreateSong inserts a new song record. Songs are immutable after creation.
func (r *mysqlSongRepository) CreateSong(song *model.Song) error {
	query := `INSERT INTO songs (id, title, artist, album, genre, duration, audio_url, image_url, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for CreateSong: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(song.ID, song.Title, song.Artist, song.Album, song.Genre,
		song.Duration, song.AudioURL, song.ImageURL, song.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute CreateSong: %w", err)
	}
	return nil
}

// GetSongByID retrieves a song by its ID. Returns ErrSongNotFound when absent.
func (r *mysqlSongRepository) GetSongByID(id string) (*model.Song, error) {
	query := fmt.Sprintf("SELECT %s FROM songs WHERE id = ?", songColumns)
	row := r.db.QueryRow(query, id)

	song := &model.Song{}
	err := row.Scan(&song.ID, &song.Title, &song.Artist, &song.Album, &song.Genre,
		&song.Duration, &song.AudioURL, &song.ImageURL, &song.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSongNotFound
		}
		return nil, fmt.Errorf("failed to scan song by ID %s: %w", id, err)
	}
	return song, nil
}

// SearchSongs returns one page of songs matching the filter, in primary-key
// order. Issuing the same (filter, limit, token) against an unmodified table
// yields the same page.
func (r *mysqlSongRepository) SearchSongs(filter SongFilter, limit int, nextToken string) (*SongPage, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	var conds []string
	var args []interface{}

	if nextToken != "" {
		afterID, err := decodeContinuationToken(nextToken)
		if err != nil {
			return nil, err
		}
		conds = append(conds, "id > ?")
		args = append(args, afterID)
	}
	if filter.Genre != "" {
		conds = append(conds, "genre = ?")
		args = append(args, filter.Genre)
	}
	if filter.Artist != "" {
		conds = append(conds, "artist = ?")
		args = append(args, filter.Artist)
	}
	if filter.Album != "" {
		conds = append(conds, "album = ?")
		args = append(args, filter.Album)
	}

	query := fmt.Sprintf("SELECT %s FROM songs", songColumns)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	// Fetch one extra row to learn whether another page exists.
	query += " ORDER BY id LIMIT ?"
	args = append(args, limit+1)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := make([]*model.Song, 0, limit)
	for rows.Next() {
		song := &model.Song{}
		err := rows.Scan(&song.ID, &song.Title, &song.Artist, &song.Album, &song.Genre,
			&song.Duration, &song.AudioURL, &song.ImageURL, &song.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song in SearchSongs: %w", err)
		}
		songs = append(songs, song)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in SearchSongs: %w", err)
	}

	page := &SongPage{}
	if len(songs) > limit {
		songs = songs[:limit]
		page.NextToken = encodeContinuationToken(songs[len(songs)-1].ID)
	}
	page.Songs = songs
	page.Count = len(songs)
	return page, nil
}

// encodeContinuationToken wraps the resume position into an opaque string.
func encodeContinuationToken(afterID string) string {
	return base64.URLEncoding.EncodeToString([]byte(afterID))
}

// decodeContinuationToken recovers the resume position from a token.
func decodeContinuationToken(token string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil || len(raw) == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}
	return string(raw), nil
}
