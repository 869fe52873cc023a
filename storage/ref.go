package storage

import (
	"errors"
	"fmt"
	"strings"
)

// refScheme prefixes every stored object reference held in the catalog.
const refScheme = "store://"

// ErrInvalidObjectRef is returned when a catalog record carries a reference
// that does not parse as store://bucket/key.
var ErrInvalidObjectRef = errors.New("invalid stored object reference")

// ObjectRef identifies one object in the object store.
type ObjectRef struct {
	Bucket string
	Key    string
}

// FormatObjectRef builds the opaque store://bucket/key reference recorded in
// the catalog.
func FormatObjectRef(bucket, key string) string {
	return fmt.Sprintf("%s%s/%s", refScheme, bucket, key)
}

// ParseObjectRef splits a store://bucket/key reference into its parts.
// net/url is deliberately not used here: it canonicalizes the host segment,
// which would break case-sensitive bucket names on round trips.
func ParseObjectRef(ref string) (ObjectRef, error) {
	if !strings.HasPrefix(ref, refScheme) {
		return ObjectRef{}, fmt.Errorf("%w: %q", ErrInvalidObjectRef, ref)
	}

	rest := strings.TrimPrefix(ref, refScheme)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return ObjectRef{}, fmt.Errorf("%w: %q", ErrInvalidObjectRef, ref)
	}

	return ObjectRef{Bucket: bucket, Key: key}, nil
}
