// Package store provides a key-addressed payload store used to hold
// one side of a read set while the other side is streamed past it.
// Two interchangeable backends satisfy the same contract: a transient
// in-memory map, and a persistent on-disk B+tree for read sets too
// large to hold in memory.
package store

import "github.com/pkg/errors"

// Kind selects a Store backend.
type Kind int

const (
	// Memory holds entries in an in-process map.
	Memory Kind = iota
	// Disk holds entries in a single on-disk B+tree file.
	Disk
)

// Store maps an encoded pair key to an encoded sequence payload for
// the duration of one operation.  Implementations are not threadsafe;
// the engine is strictly sequential.
type Store interface {
	// Insert adds or replaces the entry for key.
	Insert(key, val []byte) error
	// Get returns the value for key, and whether it was present.
	Get(key []byte) ([]byte, bool, error)
	// Remove deletes the entry for key, returning its value and
	// whether it was present.
	Remove(key []byte) ([]byte, bool, error)
	// Scan calls fn for every remaining entry, in no particular
	// order.  Key and value slices are only valid for the call.
	Scan(fn func(key, val []byte) error) error
	// Destroy releases all resources, deleting any backing file.
	// It is idempotent and safe to call on every exit path.
	Destroy() error
}

// Open creates a Store of the given kind.  dir is the directory for
// the disk backend's backing file and is ignored by the memory
// backend.
func Open(kind Kind, dir string) (Store, error) {
	switch kind {
	case Memory:
		return newMemStore(), nil
	case Disk:
		return openDiskStore(dir)
	}
	return nil, errors.Errorf("unknown store kind %d", kind)
}
