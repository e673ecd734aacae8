// Package bolt keeps downloaded content documents and announcement history
// on disk between restarts.
package bolt

import (
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	shasBucket          = []byte("DocumentSHAs")
	documentsBucket     = []byte("Documents")
	announcementsBucket = []byte("Announcements")
)

// DB is a single bbolt file shared by the document cache and the
// announcement store.
type DB struct {
	db *bbolt.DB
}

// Open opens (or creates) the database file at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{shasBucket, documentsBucket, announcementsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Documents() *DocumentCache {
	return &DocumentCache{db: d.db}
}

func (d *DB) Announcements() *AnnouncementStore {
	return &AnnouncementStore{db: d.db}
}

func (d *DB) Close() error {
	return d.db.Close()
}
