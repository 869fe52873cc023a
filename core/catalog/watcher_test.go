package catalog

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	mu      sync.Mutex
	uploads map[string][]byte
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploads: make(map[string][]byte)}
}

func (f *fakeUploader) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[key] = data
	return nil
}

func (f *fakeUploader) get(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.uploads[key]
	return data, ok
}

func (f *fakeUploader) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

func startWatcher(t *testing.T, uploader *fakeUploader, dir string) {
	t.Helper()
	w := NewWatcher(uploader, dir, "music/")
	w.settle = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)

	// Give the fsnotify watch time to attach before the test writes files.
	time.Sleep(100 * time.Millisecond)
}

// A slow copy into the drop folder fires Create long before the last byte
// lands. The upload must carry the complete file, not the prefix that existed
// at Create time.
func TestWatcherWaitsForFileToSettle(t *testing.T) {
	dir := t.TempDir()
	uploader := newFakeUploader()
	startWatcher(t, uploader, dir)

	file := filepath.Join(dir, "slow-copy.mp3")
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)

	_, err = f.Write([]byte("first half "))
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)
	_, err = f.Write([]byte("second half"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool {
		data, ok := uploader.get("music/slow-copy.mp3")
		return ok && string(data) == "first half second half"
	}, 3*time.Second, 20*time.Millisecond)

	// Settling must collapse the Create and Write events into one upload.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, uploader.count())
}

func TestWatcherIgnoresNonAudioFiles(t *testing.T) {
	dir := t.TempDir()
	uploader := newFakeUploader()
	startWatcher(t, uploader, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not audio"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "track.flac"), []byte("flac bytes"), 0o644))

	require.Eventually(t, func() bool {
		_, ok := uploader.get("music/track.flac")
		return ok
	}, 3*time.Second, 20*time.Millisecond)

	_, ok := uploader.get("music/notes.txt")
	assert.False(t, ok)
}

func TestWatcherDropsFileRemovedBeforeSettling(t *testing.T) {
	dir := t.TempDir()
	uploader := newFakeUploader()
	startWatcher(t, uploader, dir)

	file := filepath.Join(dir, "gone.mp3")
	require.NoError(t, os.WriteFile(file, []byte("short lived"), 0o644))
	require.NoError(t, os.Remove(file))

	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, uploader.count())
}
