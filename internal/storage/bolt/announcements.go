package bolt

import (
	"context"
	"time"

	"go.etcd.io/bbolt"
)

// AnnouncementStore remembers which news items were pushed to subscribers.
// Values hold the time of the announcement in RFC 3339.
type AnnouncementStore struct {
	db *bbolt.DB
}

func (s *AnnouncementStore) Announced(_ context.Context, ids []string) (map[string]bool, error) {
	done := make(map[string]bool, len(ids))
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(announcementsBucket)
		for _, id := range ids {
			if bucket.Get([]byte(id)) != nil {
				done[id] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return done, nil
}

func (s *AnnouncementStore) MarkAnnounced(_ context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(announcementsBucket).Put([]byte(id), []byte(time.Now().UTC().Format(time.RFC3339)))
	})
}
