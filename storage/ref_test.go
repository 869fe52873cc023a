package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatObjectRef(t *testing.T) {
	ref := FormatObjectRef("auralis-music", "music/song.mp3")
	assert.Equal(t, "store://auralis-music/music/song.mp3", ref)
}

func TestParseObjectRef(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		ref, err := ParseObjectRef(FormatObjectRef("MyBucket", "music/a/b.flac"))
		require.NoError(t, err)
		assert.Equal(t, "MyBucket", ref.Bucket)
		assert.Equal(t, "music/a/b.flac", ref.Key)
	})

	t.Run("preserves bucket case", func(t *testing.T) {
		ref, err := ParseObjectRef("store://CaseSensitive/music/x.mp3")
		require.NoError(t, err)
		assert.Equal(t, "CaseSensitive", ref.Bucket)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, raw := range []string{
			"",
			"s3://bucket/key",
			"store://",
			"store://bucketonly",
			"store:///key-without-bucket",
			"store://bucket/",
			"https://example.com/song.mp3",
		} {
			_, err := ParseObjectRef(raw)
			assert.ErrorIs(t, err, ErrInvalidObjectRef, "input %q", raw)
		}
	})
}
