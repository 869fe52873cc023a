package model

import "time"

// Playlist is a user-owned ordered collection of song references.
// Song membership lives in playlist_songs; the Songs slice is populated on
// reads and holds song IDs in playlist order.
type Playlist struct {
	ID          string    `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"size:1024"`
	UserID      int64     `json:"userId" gorm:"not null;index"`
	Songs       []string  `json:"songs" gorm:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaylistSong is one membership row. The composite unique key on
// (playlist_id, song_id) is what makes an append-if-absent a single atomic
// insert: a concurrent duplicate loses with a key violation instead of
// silently overwriting.
type PlaylistSong struct {
	ID         int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	PlaylistID string    `json:"playlistId" gorm:"type:char(36);not null;uniqueIndex:idx_playlist_song;index:idx_playlist_position,priority:1"`
	SongID     string    `json:"songId" gorm:"type:char(36);not null;uniqueIndex:idx_playlist_song"`
	Position   int       `json:"position" gorm:"not null;index:idx_playlist_position,priority:2"`
	AddedAt    time.Time `json:"addedAt"`
}
