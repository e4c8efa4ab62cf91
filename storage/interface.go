package storage

import "context"

// SnapshotStore abstracts persistence for room snapshots, so a room
// controller can survive a process restart. Keys are namespaced
// "hanamikoji:room:<roomId>"; values are opaque JSON blobs owned by
// package game.
type SnapshotStore interface {
	Put(ctx context.Context, key, value string, ttlSeconds int) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
	Close()
}

var _ SnapshotStore = (*Store)(nil)
var _ SnapshotStore = NoopStore{}
