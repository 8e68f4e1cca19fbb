// Package repository contains data access logic separated from HTTP handlers.
// This file defines sentinel errors reused across repositories so handlers
// can translate failure scenarios into HTTP status codes without string
// matching. Not-found sentinels map to 404, ErrUsernameExists and
// ErrNotMember map to 400 and ErrUnknownRelation marks a write that
// referenced a row that does not exist.
package repository

import (
	"errors"
	"strings"
)

var (
	ErrRoleNotFound     = errors.New("role not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrSongNotFound     = errors.New("song not found")
	ErrAlbumNotFound    = errors.New("album not found")
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrUsernameExists is returned when an insert violates the unique
	// username index.
	ErrUsernameExists = errors.New("username already exists")

	// ErrNotMember is returned when removing a song from an album or
	// playlist it does not belong to.
	ErrNotMember = errors.New("song is not a member")

	// ErrUnknownRelation is returned when a write references a related row
	// (role, genre, album, artist, song) that does not exist.
	ErrUnknownRelation = errors.New("related row does not exist")
)

// isDuplicate reports whether err is a MySQL duplicate-key violation (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// isFKViolation reports whether err is a MySQL foreign-key violation (1452),
// i.e. a write referenced a parent row that is missing.
func isFKViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1452")
}
