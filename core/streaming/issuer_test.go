package streaming

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhi-2104/Auralis/cache"
	"github.com/Abhi-2104/Auralis/model"
	"github.com/Abhi-2104/Auralis/repository"
	"github.com/Abhi-2104/Auralis/storage"
)

type fakeSongGetter struct {
	songs map[string]*model.Song
}

func (f *fakeSongGetter) GetSongByID(id string) (*model.Song, error) {
	song, ok := f.songs[id]
	if !ok {
		return nil, repository.ErrSongNotFound
	}
	return song, nil
}

type fakeSigner struct {
	calls   int
	lastTTL time.Duration
	err     error
}

func (f *fakeSigner) PresignedGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	f.calls++
	f.lastTTL = ttl
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("https://store.example/%s/%s?sig=%d", bucket, key, f.calls), nil
}

func testSong(id string) *model.Song {
	return &model.Song{
		ID:       id,
		Title:    "One More Time",
		Artist:   "Daft Punk",
		Album:    "Discovery",
		AudioURL: "store://auralis-music/music/one-more-time.mp3",
	}
}

func testCache(t *testing.T) *cache.StreamURLCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewStreamURLCache(client)
}

func TestIssueUnknownSong(t *testing.T) {
	signer := &fakeSigner{}
	issuer := NewIssuer(&fakeSongGetter{songs: map[string]*model.Song{}}, signer, nil, 900*time.Second)

	_, err := issuer.Issue(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrSongNotFound)
	assert.Zero(t, signer.calls)
}

func TestIssueMalformedAudioRef(t *testing.T) {
	song := testSong("s1")
	song.AudioURL = "https://cdn.example/one-more-time.mp3"
	signer := &fakeSigner{}
	issuer := NewIssuer(&fakeSongGetter{songs: map[string]*model.Song{"s1": song}}, signer, nil, 900*time.Second)

	_, err := issuer.Issue(context.Background(), "s1")
	assert.ErrorIs(t, err, storage.ErrInvalidObjectRef)
	assert.Zero(t, signer.calls)
}

func TestIssueSignsWithConfiguredTTL(t *testing.T) {
	signer := &fakeSigner{}
	issuer := NewIssuer(&fakeSongGetter{songs: map[string]*model.Song{"s1": testSong("s1")}}, signer, nil, 900*time.Second)

	info, err := issuer.Issue(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, 900*time.Second, signer.lastTTL)
	assert.Contains(t, info.SignedURL, "auralis-music/music/one-more-time.mp3")
	assert.Equal(t, "One More Time", info.Title)
	assert.Equal(t, "Daft Punk", info.Artist)
	assert.Equal(t, "Discovery", info.Album)
}

func TestIssueReusesCachedURL(t *testing.T) {
	signer := &fakeSigner{}
	issuer := NewIssuer(&fakeSongGetter{songs: map[string]*model.Song{"s1": testSong("s1")}}, signer, testCache(t), 900*time.Second)

	first, err := issuer.Issue(context.Background(), "s1")
	require.NoError(t, err)
	second, err := issuer.Issue(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, first.SignedURL, second.SignedURL)
	assert.Equal(t, 1, signer.calls)
}

func TestIssueWithoutCacheSignsEveryTime(t *testing.T) {
	signer := &fakeSigner{}
	issuer := NewIssuer(&fakeSongGetter{songs: map[string]*model.Song{"s1": testSong("s1")}}, signer, nil, 900*time.Second)

	_, err := issuer.Issue(context.Background(), "s1")
	require.NoError(t, err)
	_, err = issuer.Issue(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, 2, signer.calls)
}
