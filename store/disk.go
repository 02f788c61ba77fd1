package store

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// FileName is the fixed name of the disk backend's backing file.  One
// invocation owns the file exclusively; concurrent invocations must
// not share a working directory.
const FileName = "pairfq.db"

var bucketName = []byte("pairs")

// diskStore is the persistent backend: a single-file B+tree.  It
// trades memory for disk I/O plus the startup and teardown cost of
// the backing file; the engine observes no behavioral difference from
// the memory backend.
type diskStore struct {
	db   *bolt.DB
	path string
}

func openDiskStore(dir string) (*diskStore, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, FileName)
	// A leftover file from an aborted run would otherwise be read
	// back as live entries.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "removing stale store %s", path)
	}
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening store %s", path)
	}
	// The file never outlives the invocation, so durability buys
	// nothing.
	db.NoSync = true
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		os.Remove(path)
		return nil, errors.Wrapf(err, "initializing store %s", path)
	}
	return &diskStore{db: db, path: path}, nil
}

func (s *diskStore) Insert(key, val []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(key, val)
	})
}

func (s *diskStore) Get(key []byte) ([]byte, bool, error) {
	var v []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucketName).Get(key); b != nil {
			v = make([]byte, len(b))
			copy(v, b)
		}
		return nil
	})
	return v, v != nil, err
}

func (s *diskStore) Remove(key []byte) ([]byte, bool, error) {
	var v []byte
	err := s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketName)
		b := bkt.Get(key)
		if b == nil {
			return nil
		}
		v = make([]byte, len(b))
		copy(v, b)
		return bkt.Delete(key)
	})
	return v, v != nil, err
}

func (s *diskStore) Scan(fn func(key, val []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(fn)
	})
}

func (s *diskStore) Destroy() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
		err = rmErr
	}
	return err
}
