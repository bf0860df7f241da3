package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "db.json"))
}

func TestFileStoreSeedsDefaults(t *testing.T) {
	st := newFileStore(t)
	ctx := context.Background()

	users, err := st.List(ctx, Users)
	require.NoError(t, err)
	assert.Len(t, users, 4)
	assert.Equal(t, 1, RecordID(users[0]))

	settings, err := st.Settings(ctx)
	require.NoError(t, err)
	var s struct {
		ManPowerLimit int `json:"manPowerLimit"`
	}
	require.NoError(t, Decode(settings, &s))
	assert.Equal(t, 50, s.ManPowerLimit)
}

func TestFileStoreCreateAssignsMaxPlusOne(t *testing.T) {
	st := newFileStore(t)
	ctx := context.Background()

	first, err := st.Create(ctx, Applicants, Record{"name": "A"})
	require.NoError(t, err)
	assert.Equal(t, 1, RecordID(first))

	second, err := st.Create(ctx, Applicants, Record{"name": "B"})
	require.NoError(t, err)
	assert.Equal(t, 2, RecordID(second))

	// Deleting the highest id frees it for reuse: ids are max+1, not a
	// monotonic sequence.
	deleted, err := st.Delete(ctx, Applicants, 2)
	require.NoError(t, err)
	require.True(t, deleted)

	third, err := st.Create(ctx, Applicants, Record{"name": "C"})
	require.NoError(t, err)
	assert.Equal(t, 2, RecordID(third))
}

func TestFileStoreUpdateShallowMerges(t *testing.T) {
	st := newFileStore(t)
	ctx := context.Background()

	created, err := st.Create(ctx, Applicants, Record{
		"name":   "Maria",
		"age":    28,
		"status": "pending",
	})
	require.NoError(t, err)
	id := RecordID(created)

	updated, err := st.Update(ctx, Applicants, id, Record{
		"status": "approved",
		"id":     999, // must be ignored
	})
	require.NoError(t, err)

	assert.Equal(t, id, RecordID(updated))
	assert.Equal(t, "approved", updated["status"])
	assert.Equal(t, "Maria", updated["name"], "untouched fields survive the patch")
}

func TestFileStoreUpdateMissingRecord(t *testing.T) {
	st := newFileStore(t)

	_, err := st.Update(context.Background(), Applicants, 42, Record{"status": "approved"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreDeleteReportsExistence(t *testing.T) {
	st := newFileStore(t)
	ctx := context.Background()

	created, err := st.Create(ctx, Assignments, Record{"applicantId": 1})
	require.NoError(t, err)

	deleted, err := st.Delete(ctx, Assignments, RecordID(created))
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = st.Delete(ctx, Assignments, RecordID(created))
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	ctx := context.Background()

	first := NewFileStore(path)
	created, err := first.Create(ctx, Applicants, Record{"name": "Persisted"})
	require.NoError(t, err)

	second := NewFileStore(path)
	got, err := second.Get(ctx, Applicants, RecordID(created))
	require.NoError(t, err)
	assert.Equal(t, "Persisted", got["name"])
}

func TestFileStoreTransactRollsBackOnError(t *testing.T) {
	st := newFileStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := st.Transact(ctx, func(tx Store) error {
		if _, err := tx.Create(ctx, Applicants, Record{"name": "ghost"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	applicants, err := st.List(ctx, Applicants)
	require.NoError(t, err)
	assert.Empty(t, applicants, "nothing written when the transaction fails")
}

func TestFileStoreTransactReadsOwnWrites(t *testing.T) {
	st := newFileStore(t)
	ctx := context.Background()

	err := st.Transact(ctx, func(tx Store) error {
		created, err := tx.Create(ctx, Applicants, Record{"name": "inside"})
		if err != nil {
			return err
		}
		got, err := tx.Get(ctx, Applicants, RecordID(created))
		if err != nil {
			return err
		}
		assert.Equal(t, "inside", got["name"])
		return nil
	})
	require.NoError(t, err)
}

func TestFileStoreUpdateSettings(t *testing.T) {
	st := newFileStore(t)
	ctx := context.Background()

	updated, err := st.UpdateSettings(ctx, Record{"manPowerLimit": 75})
	require.NoError(t, err)

	var s struct {
		ManPowerLimit int `json:"manPowerLimit"`
	}
	require.NoError(t, Decode(updated, &s))
	assert.Equal(t, 75, s.ManPowerLimit)
}

func TestRecordIDRepresentations(t *testing.T) {
	assert.Equal(t, 7, RecordID(Record{"id": 7}))
	assert.Equal(t, 7, RecordID(Record{"id": int64(7)}))
	assert.Equal(t, 7, RecordID(Record{"id": float64(7)}))
	assert.Equal(t, 7, RecordID(Record{"id": "7"}))
	assert.Equal(t, 0, RecordID(Record{}))
}
