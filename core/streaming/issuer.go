package streaming

import (
	"context"
	"time"

	"github.com/Abhi-2104/Auralis/cache"
	"github.com/Abhi-2104/Auralis/logger"
	"github.com/Abhi-2104/Auralis/model"
	"github.com/Abhi-2104/Auralis/storage"
)

// cacheSafetyMargin is subtracted from the signing window when caching an
// issued URL, so a cached URL is never handed out with less than a minute of
// validity left.
const cacheSafetyMargin = 60 * time.Second

// SongGetter is the slice of the catalog store the issuer reads from.
type SongGetter interface {
	GetSongByID(id string) (*model.Song, error)
}

// Signer produces time-limited bearer URLs for stored objects.
type Signer interface {
	PresignedGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// StreamInfo is the playback grant returned to the client: the signed URL
// plus display metadata echoed for convenience.
type StreamInfo struct {
	SignedURL string `json:"signedUrl"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Album     string `json:"album"`
	Duration  int    `json:"duration"`
}

// Issuer converts a song ID into a playback grant. Issuance is a catalog read
// plus a pure signing computation; there is no revocation.
type Issuer struct {
	songs  SongGetter
	signer Signer
	urls   *cache.StreamURLCache
	ttl    time.Duration
}

// NewIssuer creates an Issuer with the given signing window. urls may be nil
// to disable caching.
func NewIssuer(songs SongGetter, signer Signer, urls *cache.StreamURLCache, ttl time.Duration) *Issuer {
	return &Issuer{songs: songs, signer: signer, urls: urls, ttl: ttl}
}

// Issue returns a playback grant for one song.
// Fails with repository.ErrSongNotFound when the song does not exist and
// storage.ErrInvalidObjectRef when its audio reference is malformed; no URL
// is issued in either case.
func (i *Issuer) Issue(ctx context.Context, songID string) (*StreamInfo, error) {
	song, err := i.songs.GetSongByID(songID)
	if err != nil {
		return nil, err
	}

	ref, err := storage.ParseObjectRef(song.AudioURL)
	if err != nil {
		return nil, err
	}

	info := &StreamInfo{
		Title:    song.Title,
		Artist:   song.Artist,
		Album:    song.Album,
		Duration: song.Duration,
	}

	if cached, err := i.urls.Get(ctx, songID); err == nil && cached != "" {
		info.SignedURL = cached
		return info, nil
	} else if err != nil {
		// Cache trouble must not block playback.
		logger.Warn("[Stream] URL cache read failed", logger.ErrorField(err))
	}

	signed, err := i.signer.PresignedGetURL(ctx, ref.Bucket, ref.Key, i.ttl)
	if err != nil {
		return nil, err
	}
	info.SignedURL = signed

	if err := i.urls.Set(ctx, songID, signed, i.ttl-cacheSafetyMargin); err != nil {
		logger.Warn("[Stream] URL cache write failed", logger.ErrorField(err))
	}

	return info, nil
}
