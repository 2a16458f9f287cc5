package storage

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	userID := uuid.New()
	data := []byte("Date,Description,Amount\n2024-01-15,Coffee,-4.50\n")

	upload, err := store.Retain(context.Background(), userID, "jan.csv", "text/csv", data)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), upload.Size)
	assert.Len(t, upload.Checksum, 64)

	r, info, err := store.Open(context.Background(), userID, upload.ID)
	require.NoError(t, err)
	defer r.Close()
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, "jan.csv", info.Name)

	uploads, err := store.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, uploads, 1)
}

func TestLocalStoreSanitizesFilenames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	upload, err := store.Retain(context.Background(), uuid.New(), "../../etc/passwd", "text/csv", []byte("x"))
	require.NoError(t, err)
	assert.NotContains(t, upload.Path, "..")
	assert.NotContains(t, upload.Path, "/")
}

func TestLocalStoreManyUploads(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	faker := gofakeit.New(7)
	userID := uuid.New()
	for i := 0; i < 20; i++ {
		name := faker.Word() + ".csv"
		data := []byte(faker.Sentence(8))
		upload, err := store.Retain(context.Background(), userID, name, "text/csv", data)
		require.NoError(t, err)
		assert.Len(t, upload.Checksum, 64)
		assert.NotContains(t, upload.Path, "/")
	}

	uploads, err := store.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, uploads, 20)
}

func TestLocalStorePurgeOlderThan(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	userID := uuid.New()
	old, err := store.Retain(context.Background(), userID, "old.csv", "text/csv", []byte("a"))
	require.NoError(t, err)
	// Age the first upload by rewriting its metadata.
	old.ReceivedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, store.saveMetadata(userID, old))

	fresh, err := store.Retain(context.Background(), userID, "fresh.csv", "text/csv", []byte("b"))
	require.NoError(t, err)

	purged, err := store.PurgeOlderThan(context.Background(), time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	uploads, err := store.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, fresh.ID, uploads[0].ID)
}
