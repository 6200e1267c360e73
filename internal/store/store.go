// Package store persists whole collection snapshots as JSON blobs keyed by
// name. The app always writes full snapshots, never row-level deltas, so a
// key/value shape is enough.
package store

import (
	"context"
	"errors"
)

// Collection keys. Every mutation of the in-memory state saves the full
// snapshot under its key.
const (
	KeyChats    = "chats"
	KeyContacts = "contacts"
	KeyGroups   = "groups"
)

// ErrNotFound is returned by Load when the key has never been saved.
var ErrNotFound = errors.New("store: key not found")

type Store interface {
	// Load unmarshals the snapshot stored under key into out.
	Load(ctx context.Context, key string, out interface{}) error
	// Save marshals val and replaces the snapshot stored under key.
	Save(ctx context.Context, key string, val interface{}) error
}
