package model

import "time"

// Default values applied by the metadata extractor when a tag is missing.
const (
	DefaultArtist = "Unknown Artist"
	DefaultAlbum  = "Unknown Album"
	DefaultGenre  = "Uncategorized"
)

// Song represents one catalog record. Songs are created exactly once by the
// metadata extractor when an upload lands in the music prefix and are never
// updated afterwards.
type Song struct {
	ID    string `json:"id" gorm:"type:char(36);primaryKey"`
	Title string `json:"title" gorm:"size:512;not null"`
	// The filterable columns carry a binary collation so that catalog
	// filters match case-sensitively; the MySQL 8 default collation is
	// accent- and case-insensitive.
	Artist   string `json:"artist" gorm:"type:varchar(255) COLLATE utf8mb4_bin;not null;index"`
	Album    string `json:"album" gorm:"type:varchar(255) COLLATE utf8mb4_bin;not null;index"`
	Genre    string `json:"genre" gorm:"type:varchar(128) COLLATE utf8mb4_bin;not null;index"`
	Duration int    `json:"duration" gorm:"not null"` // seconds, 0 when unknown
	// AudioURL is an opaque reference of the form store://bucket/key pointing
	// at the uploaded object.
	AudioURL  string    `json:"audioUrl" gorm:"column:audio_url;size:1024;not null"`
	ImageURL  string    `json:"imageUrl" gorm:"column:image_url;size:1024"`
	CreatedAt time.Time `json:"createdAt"`
}
