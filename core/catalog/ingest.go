package catalog

import (
	"context"
	"net/url"
	"strings"

	"github.com/Abhi-2104/Auralis/logger"
	"github.com/Abhi-2104/Auralis/storage"
)

// Ingestor consumes object-created notifications from the bucket and feeds
// them to the extractor. Each notification is handled independently; a failed
// record never stops the stream.
type Ingestor struct {
	store     *storage.Store
	extractor *Extractor
	prefix    string
}

// NewIngestor creates an Ingestor watching the given key prefix.
func NewIngestor(store *storage.Store, extractor *Extractor, prefix string) *Ingestor {
	return &Ingestor{store: store, extractor: extractor, prefix: prefix}
}

// Run blocks consuming notifications until ctx is cancelled.
func (i *Ingestor) Run(ctx context.Context) error {
	logger.Info("[Ingest] Listening for uploads",
		logger.String("bucket", i.store.Bucket()),
		logger.String("prefix", i.prefix))

	for info := range i.store.ListenCreated(ctx, i.prefix) {
		if info.Err != nil {
			logger.Error("[Ingest] Notification stream error", logger.ErrorField(info.Err))
			continue
		}

		for _, record := range info.Records {
			// Object keys arrive URL-encoded with '+' for spaces.
			key, err := url.QueryUnescape(strings.ReplaceAll(record.S3.Object.Key, "+", " "))
			if err != nil {
				logger.Error("[Ingest] Undecodable object key",
					logger.String("key", record.S3.Object.Key), logger.ErrorField(err))
				continue
			}

			result := i.extractor.Process(ctx, Notification{
				Bucket:      record.S3.Bucket.Name,
				Key:         key,
				ContentType: record.S3.Object.ContentType,
				Size:        record.S3.Object.Size,
			})

			logger.Info("[Ingest] Processed upload",
				logger.String("key", key),
				logger.String("status", string(result.Status)),
				logger.String("songId", result.SongID))
		}
	}

	return ctx.Err()
}
