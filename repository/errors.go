package repository

import "errors"

// Sentinel errors surfaced to handlers, which map them onto HTTP statuses
// with errors.Is.
var (
	ErrSongNotFound     = errors.New("song not found")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrNotOwner         = errors.New("playlist does not belong to this user")
	ErrDuplicateSong    = errors.New("song already exists in this playlist")
	ErrDuplicateUser    = errors.New("username or email already exists")
	ErrInvalidToken     = errors.New("invalid continuation token")
)
