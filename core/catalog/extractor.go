package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/Abhi-2104/Auralis/core/events"
	"github.com/Abhi-2104/Auralis/logger"
	"github.com/Abhi-2104/Auralis/model"
	"github.com/Abhi-2104/Auralis/storage"

	"github.com/dhowden/tag"
	"github.com/google/uuid"
	"github.com/tcolgate/mp3"
)

// supportedExtensions is the set of audio formats the extractor accepts.
var supportedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".flac": true,
	".m4a":  true,
}

// timestampSlug matches upload keys of the form <timestamp>-<slug>.
var timestampSlug = regexp.MustCompile(`^\d+-(.+)$`)

// Status classifies the outcome of processing one upload notification.
type Status string

const (
	StatusCreated         Status = "created"
	StatusSkippedNotAudio Status = "skipped_not_audio"
	StatusSkippedLocation Status = "skipped_wrong_location"
	StatusFailed          Status = "failed"
)

// Notification describes a newly stored object.
type Notification struct {
	Bucket      string
	Key         string
	ContentType string
	Size        int64
}

// Result reports what the extractor did with one notification. Skips are
// deliberate no-ops, not errors.
type Result struct {
	Status Status
	SongID string
	Key    string
	Reason string
}

// ObjectGetter is the slice of the object store the extractor reads from.
type ObjectGetter interface {
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// SongWriter is the slice of the catalog store the extractor writes to.
type SongWriter interface {
	CreateSong(song *model.Song) error
}

// Publisher receives catalog events for fan-out to subscribers.
type Publisher interface {
	Publish(event events.Event)
}

// Extractor turns upload notifications into song records. It reads embedded
// tag metadata from the object bytes, falls back to filename heuristics, and
// writes exactly one record per successful invocation.
//
// Processing is not idempotent: at-least-once delivery of the same upload
// notification creates a second record with a fresh ID, matching the upstream
// event source's contract.
type Extractor struct {
	store       ObjectGetter
	songs       SongWriter
	hub         Publisher
	musicPrefix string
}

// NewExtractor creates an Extractor. hub may be nil when no event feed is
// running.
func NewExtractor(store ObjectGetter, songs SongWriter, hub Publisher, musicPrefix string) *Extractor {
	return &Extractor{
		store:       store,
		songs:       songs,
		hub:         hub,
		musicPrefix: musicPrefix,
	}
}

// Process handles one upload notification.
func (e *Extractor) Process(ctx context.Context, n Notification) Result {
	if !strings.HasPrefix(n.Key, e.musicPrefix) {
		logger.Info("[Extractor] Upload outside music prefix, skipping",
			logger.String("key", n.Key), logger.String("prefix", e.musicPrefix))
		return Result{Status: StatusSkippedLocation, Key: n.Key}
	}

	ext := strings.ToLower(path.Ext(n.Key))
	if !supportedExtensions[ext] {
		logger.Info("[Extractor] Not an audio file, skipping", logger.String("key", n.Key))
		return Result{Status: StatusSkippedNotAudio, Key: n.Key}
	}

	obj, err := e.store.Get(ctx, n.Bucket, n.Key)
	if err != nil {
		return e.fail(n.Key, fmt.Errorf("failed to fetch object: %w", err))
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return e.fail(n.Key, fmt.Errorf("failed to read object: %w", err))
	}

	song := e.buildSong(n, data)
	if err := e.songs.CreateSong(song); err != nil {
		return e.fail(n.Key, fmt.Errorf("failed to create song record: %w", err))
	}

	logger.Info("[Extractor] Song created",
		logger.String("songId", song.ID),
		logger.String("title", song.Title),
		logger.String("artist", song.Artist))

	if e.hub != nil {
		e.hub.Publish(events.Event{Type: events.EventSongCreated, Song: song})
	}

	return Result{Status: StatusCreated, SongID: song.ID, Key: n.Key}
}

// buildSong derives a catalog record from embedded tags, filling gaps from
// the filename and the field defaults.
func (e *Extractor) buildSong(n Notification, data []byte) *model.Song {
	var tagTitle, tagArtist, tagAlbum, tagGenre string
	meta, err := tag.ReadFrom(bytes.NewReader(data))
	if err == nil {
		tagTitle = strings.TrimSpace(meta.Title())
		tagArtist = strings.TrimSpace(meta.Artist())
		tagAlbum = strings.TrimSpace(meta.Album())
		tagGenre = strings.TrimSpace(meta.Genre())
	} else {
		logger.Debug("[Extractor] No embedded tags", logger.String("key", n.Key), logger.ErrorField(err))
	}

	stem := fileStem(n.Key)
	fallbackTitle, fallbackArtist := parseStem(stem)

	song := &model.Song{
		ID:        uuid.NewString(),
		Title:     firstNonEmpty(tagTitle, fallbackTitle, stem),
		Artist:    firstNonEmpty(tagArtist, fallbackArtist, model.DefaultArtist),
		Album:     firstNonEmpty(tagAlbum, model.DefaultAlbum),
		Genre:     firstNonEmpty(tagGenre, model.DefaultGenre),
		Duration:  audioDuration(n.Key, data),
		AudioURL:  storage.FormatObjectRef(n.Bucket, n.Key),
		ImageURL:  "",
		CreatedAt: time.Now(),
	}
	return song
}

// audioDuration measures the playing time in whole seconds, or 0 when the
// format cannot be measured. Only MP3 is walked; the other containers would
// need a full decode.
func audioDuration(key string, data []byte) int {
	if strings.ToLower(path.Ext(key)) != ".mp3" {
		return 0
	}

	decoder := mp3.NewDecoder(bytes.NewReader(data))
	var (
		frame   mp3.Frame
		skipped int
		total   time.Duration
	)
	for {
		if err := decoder.Decode(&frame, &skipped); err != nil {
			break
		}
		total += frame.Duration()
	}
	return int(total.Round(time.Second).Seconds())
}

// fileStem returns the object key's base name without its extension.
func fileStem(key string) string {
	base := path.Base(key)
	return strings.TrimSuffix(base, path.Ext(base))
}

// parseStem applies the filename heuristics:
//   - "<timestamp>-<slug>"  -> title is the slug with hyphens as spaces
//   - "<artist> - <title>"  -> split on the first hyphen surrounded by spaces
//   - anything else         -> title is the whole stem
func parseStem(stem string) (title, artist string) {
	if m := timestampSlug.FindStringSubmatch(stem); m != nil {
		return strings.ReplaceAll(m[1], "-", " "), ""
	}
	if before, after, found := strings.Cut(stem, " - "); found {
		return strings.TrimSpace(after), strings.TrimSpace(before)
	}
	return stem, ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (e *Extractor) fail(key string, err error) Result {
	logger.Error("[Extractor] Processing failed", logger.String("key", key), logger.ErrorField(err))
	return Result{Status: StatusFailed, Key: key, Reason: err.Error()}
}
