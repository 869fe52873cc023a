package catalog

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/Abhi-2104/Auralis/logger"

	"github.com/fsnotify/fsnotify"
)

// defaultSettleDelay is how long a file in the drop folder must sit unchanged
// before it is considered fully written and uploaded.
const defaultSettleDelay = 500 * time.Millisecond

// Uploader is the slice of the object store the watcher writes to.
type Uploader interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// pendingFile tracks a drop-folder file that is still being written.
type pendingFile struct {
	lastEvent time.Time
	lastSize  int64
}

// Watcher mirrors a local drop folder into the music prefix of the bucket.
// Uploaded objects then flow through the normal notification path, so the
// extractor sees them the same way it sees any other upload.
type Watcher struct {
	store    Uploader
	watchDir string
	prefix   string
	settle   time.Duration
}

// NewWatcher creates a Watcher for the given directory.
func NewWatcher(store Uploader, watchDir, prefix string) *Watcher {
	return &Watcher{store: store, watchDir: watchDir, prefix: prefix, settle: defaultSettleDelay}
}

// Run blocks watching the drop folder until ctx is cancelled.
//
// A Create event fires as soon as the file appears, before the writer has
// finished, so nothing is uploaded on the event itself. Each Create or Write
// marks the file pending, and a pending file is uploaded only once its size
// has stopped changing for the settle delay.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.watchDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.watchDir, err)
	}

	logger.Info("[Watch] Watching drop folder", logger.String("dir", w.watchDir))

	pending := make(map[string]*pendingFile)
	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !supportedExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			if p, seen := pending[event.Name]; seen {
				p.lastEvent = time.Now()
			} else {
				pending[event.Name] = &pendingFile{lastEvent: time.Now(), lastSize: -1}
			}
		case <-ticker.C:
			w.flushSettled(ctx, pending)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("[Watch] Watcher error", logger.ErrorField(err))
		}
	}
}

// flushSettled uploads every pending file that has gone quiet and whose size
// has stopped growing, and drops files that disappeared before settling.
func (w *Watcher) flushSettled(ctx context.Context, pending map[string]*pendingFile) {
	now := time.Now()
	for file, p := range pending {
		if now.Sub(p.lastEvent) < w.settle {
			continue
		}

		info, err := os.Stat(file)
		if err != nil {
			delete(pending, file)
			continue
		}
		if info.Size() != p.lastSize {
			p.lastSize = info.Size()
			p.lastEvent = now
			continue
		}

		delete(pending, file)
		if err := w.upload(ctx, file); err != nil {
			logger.Error("[Watch] Upload failed",
				logger.String("file", file), logger.ErrorField(err))
		}
	}
}

// upload pushes one local audio file into the music prefix.
func (w *Watcher) upload(ctx context.Context, file string) error {
	ext := strings.ToLower(filepath.Ext(file))

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", file, err)
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := path.Join(w.prefix, filepath.Base(file))
	if err := w.store.Put(ctx, key, f, info.Size(), contentType); err != nil {
		return err
	}

	logger.Info("[Watch] Uploaded",
		logger.String("file", file),
		logger.String("key", key),
		logger.Int64("size", info.Size()))
	return nil
}
