package bolt

import (
	"bytes"

	"go.etcd.io/bbolt"
)

// DocumentCache maps a repository path to the last downloaded revision of
// the file. A lookup with a different sha misses.
type DocumentCache struct {
	db *bbolt.DB
}

func (c *DocumentCache) Get(path, sha string) ([]byte, bool, error) {
	var content []byte
	err := c.db.View(func(tx *bbolt.Tx) error {
		stored := tx.Bucket(shasBucket).Get([]byte(path))
		if stored == nil || !bytes.Equal(stored, []byte(sha)) {
			return nil
		}
		doc := tx.Bucket(documentsBucket).Get([]byte(path))
		if doc == nil {
			return nil
		}
		// values are only valid inside the transaction
		content = bytes.Clone(doc)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return content, content != nil, nil
}

func (c *DocumentCache) Put(path, sha string, content []byte) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(shasBucket).Put([]byte(path), []byte(sha)); err != nil {
			return err
		}
		if content == nil {
			content = []byte{}
		}
		return tx.Bucket(documentsBucket).Put([]byte(path), content)
	})
}
