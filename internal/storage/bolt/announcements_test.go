package bolt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnouncementStore_MarkAndLookup(t *testing.T) {
	db, _ := openDB(t)
	defer db.Close()
	store := db.Announcements()
	ctx := context.Background()

	done, err := store.Announced(ctx, []string{"exam", "trip"})
	require.NoError(t, err)
	assert.Empty(t, done)

	require.NoError(t, store.MarkAnnounced(ctx, "exam"))

	done, err = store.Announced(ctx, []string{"exam", "trip"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"exam": true}, done)
}

func TestAnnouncementStore_SurvivesReopen(t *testing.T) {
	db, path := openDB(t)
	ctx := context.Background()
	require.NoError(t, db.Announcements().MarkAnnounced(ctx, "exam"))
	require.NoError(t, db.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	done, err := reopened.Announcements().Announced(ctx, []string{"exam"})
	require.NoError(t, err)
	assert.True(t, done["exam"])
}

func TestAnnouncementStore_SharesFileWithDocuments(t *testing.T) {
	db, _ := openDB(t)
	defer db.Close()

	require.NoError(t, db.Documents().Put("exam", "v1", []byte("doc")))

	done, err := db.Announcements().Announced(context.Background(), []string{"exam"})
	require.NoError(t, err)
	assert.Empty(t, done, "document keys must not leak into announcements")
}
