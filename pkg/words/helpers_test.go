package words

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/wordcache/pkg/kv"
	"github.com/unowned-ai/wordcache/pkg/testutil"
)

var testNow = time.Date(2024, time.March, 14, 15, 30, 0, 0, time.UTC)

type fixture struct {
	ctx     context.Context
	store   *kv.MemoryStore
	clock   *testutil.Clock
	rnd     *testutil.SequenceRand
	session *Session
}

// newFixture opens a session over an empty in-memory store with a fixed
// clock, sequential ids and the given random values.
func newFixture(t *testing.T, randValues ...int) *fixture {
	t.Helper()
	f := &fixture{
		ctx:   context.Background(),
		store: kv.NewMemoryStore(),
		clock: testutil.NewClock(testNow),
		rnd:   testutil.NewSequenceRand(randValues...),
	}
	f.session = f.open()
	t.Cleanup(f.session.Close)
	return f
}

func (f *fixture) open() *Session {
	return Open(f.ctx, f.store,
		WithLogger(testutil.NewTestLogger()),
		WithClock(f.clock.Now),
		WithRandSource(f.rnd),
		WithIDGenerator(testutil.SequentialIDs("w")),
	)
}

// addWords adds words in order, so the last one ends up first.
func (f *fixture) addWords(t *testing.T, words ...string) []Entry {
	t.Helper()
	added := make([]Entry, 0, len(words))
	for _, w := range words {
		e, err := f.session.Add(f.ctx, w, "", "", "")
		require.NoError(t, err)
		added = append(added, e)
	}
	return added
}

// stored decodes what is currently persisted under the default key.
func (f *fixture) stored(t *testing.T) []Entry {
	t.Helper()
	raw, err := f.store.Get(f.ctx, DefaultStorageKey)
	require.NoError(t, err)
	var entries []Entry
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))
	return entries
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
