package words

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/wordcache/pkg/kv"
	"github.com/unowned-ai/wordcache/pkg/testutil"
)

func TestAdapter_LoadDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name   string
		stored *string
	}{
		{name: "absent key", stored: nil},
		{name: "empty string", stored: strPtr("")},
		{name: "not json", stored: strPtr("{{{")},
		{name: "object instead of list", stored: strPtr(`{"id":"a"}`)},
		{name: "null", stored: strPtr("null")},
		{name: "list of numbers", stored: strPtr("[1,2,3]")},
		{name: "wrong field type", stored: strPtr(`[{"id":"a","word":"x","mastered":"yes"}]`)},
		{name: "bad timestamp", stored: strPtr(`[{"id":"a","word":"x","createdAt":"yesterday"}]`)},
		{name: "empty record", stored: strPtr(`[{}]`)},
		{name: "unknown fields only", stored: strPtr(`[{"foo":1}]`)},
		{name: "null record", stored: strPtr(`[null]`)},
		{name: "missing created at", stored: strPtr(`[{"id":"a","word":"x"}]`)},
		{name: "missing word", stored: strPtr(`[{"id":"a","createdAt":"2024-03-10T08:15:00Z"}]`)},
		{name: "empty id", stored: strPtr(`[{"id":"","word":"x","createdAt":"2024-03-10T08:15:00Z"}]`)},
		{name: "zero created at", stored: strPtr(`[{"id":"a","word":"x","createdAt":"0001-01-01T00:00:00Z"}]`)},
		{name: "duplicate ids", stored: strPtr(`[{"id":"a","word":"x","createdAt":"2024-03-10T08:15:00Z"},{"id":"a","word":"y","createdAt":"2024-03-11T08:15:00Z"}]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := kv.NewMemoryStore()
			if tt.stored != nil {
				require.NoError(t, store.Set(ctx, DefaultStorageKey, *tt.stored))
			}

			entries := NewAdapter(store, "", nil).Load(ctx)
			require.NotNil(t, entries)
			assert.Empty(t, entries)
		})
	}
}

func TestAdapter_LoadKeepsEditedEmptyWord(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	adapter := NewAdapter(store, "", nil)

	require.NoError(t, adapter.Save(ctx, []Entry{{ID: "a", Word: "", Tags: []string{}, CreatedAt: testNow}}))

	entries := adapter.Load(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "", entries[0].Word)
}

func TestAdapter_LoadReadFailure(t *testing.T) {
	ctx := context.Background()
	store := new(testutil.MockBlobStore)
	store.On("Get", mock.Anything, DefaultStorageKey).Return("", errors.New("storage disabled"))

	entries := NewAdapter(store, "", testutil.NewTestLogger()).Load(ctx)
	assert.Empty(t, entries)
	store.AssertExpectations(t)
}

func TestAdapter_LoadBrowserShapedBlob(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	blob := `[{"id":"5f0c","word":"ephemeral","meaning":"short-lived","usage":"","tags":["rare","poetic"],"mastered":false,"createdAt":"2024-03-10T08:15:00.000Z"},` +
		`{"id":"9a1b","word":"terse","meaning":"","usage":"","tags":null,"mastered":true,"createdAt":"2024-03-01T00:00:00.000Z"}]`
	require.NoError(t, store.Set(ctx, DefaultStorageKey, blob))

	entries := NewAdapter(store, "", nil).Load(ctx)
	require.Len(t, entries, 2)

	assert.Equal(t, "ephemeral", entries[0].Word)
	assert.Equal(t, []string{"rare", "poetic"}, entries[0].Tags)
	assert.True(t, entries[0].CreatedAt.Equal(time.Date(2024, 3, 10, 8, 15, 0, 0, time.UTC)))
	assert.Equal(t, []string{}, entries[1].Tags, "null tags normalize to an empty list")
	assert.True(t, entries[1].Mastered)
}

func TestAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	adapter := NewAdapter(store, "word-cache-test", nil)
	assert.Equal(t, "word-cache-test", adapter.Key())

	original := []Entry{
		{ID: "b", Word: "terse", Meaning: "brief", Usage: "a terse reply", Tags: []string{"style"}, Mastered: true, CreatedAt: testNow},
		{ID: "a", Word: "ephemeral", Tags: []string{}, CreatedAt: testNow.Add(-48 * time.Hour)},
	}
	require.NoError(t, adapter.Save(ctx, original))

	loaded := adapter.Load(ctx)
	require.Len(t, loaded, len(original))
	for i := range original {
		assert.Equal(t, original[i].ID, loaded[i].ID)
		assert.Equal(t, original[i].Word, loaded[i].Word)
		assert.Equal(t, original[i].Meaning, loaded[i].Meaning)
		assert.Equal(t, original[i].Usage, loaded[i].Usage)
		assert.Equal(t, original[i].Tags, loaded[i].Tags)
		assert.Equal(t, original[i].Mastered, loaded[i].Mastered)
		assert.True(t, original[i].CreatedAt.Equal(loaded[i].CreatedAt))
	}

	// save(load()) reproduces the same blob.
	first, err := store.Get(ctx, "word-cache-test")
	require.NoError(t, err)
	require.NoError(t, adapter.Save(ctx, loaded))
	second, err := store.Get(ctx, "word-cache-test")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAdapter_SaveEncodesEmptyTagsAndCollection(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	adapter := NewAdapter(store, "", nil)
	assert.Equal(t, DefaultStorageKey, adapter.Key())

	require.NoError(t, adapter.Save(ctx, nil))
	raw, err := store.Get(ctx, DefaultStorageKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	require.NoError(t, adapter.Save(ctx, []Entry{{ID: "a", Word: "x", Tags: []string{}, CreatedAt: testNow}}))
	raw, err = store.Get(ctx, DefaultStorageKey)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":"a","word":"x","meaning":"","usage":"","tags":[],"mastered":false,"createdAt":"2024-03-14T15:30:00Z"}]`,
		raw)
}

func TestAdapter_SaveFailure(t *testing.T) {
	ctx := context.Background()
	quota := errors.New("quota exceeded")
	store := new(testutil.MockBlobStore)
	store.On("Set", mock.Anything, DefaultStorageKey, "[]").Return(quota)

	err := NewAdapter(store, "", nil).Save(ctx, []Entry{})
	assert.ErrorIs(t, err, ErrPersist)
	assert.ErrorIs(t, err, quota)
	store.AssertExpectations(t)
}

func strPtr(s string) *string { return &s }
