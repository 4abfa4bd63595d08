package words

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/unowned-ai/wordcache/pkg/kv"
)

// DefaultStorageKey is the blob key the collection lives under.
const DefaultStorageKey = "word-cache-v1"

// Adapter reads and writes the whole collection as one JSON blob.
type Adapter struct {
	store  kv.Store
	key    string
	logger *zap.Logger
}

func NewAdapter(store kv.Store, key string, logger *zap.Logger) *Adapter {
	if key == "" {
		key = DefaultStorageKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{store: store, key: key, logger: logger}
}

// Key returns the storage key.
func (a *Adapter) Key() string {
	return a.key
}

// Load returns the stored collection. A missing, unreadable or malformed blob
// yields an empty collection; Load never fails.
func (a *Adapter) Load(ctx context.Context) []Entry {
	raw, err := a.store.Get(ctx, a.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			a.logger.Warn("Failed to read stored words, starting empty",
				zap.String("key", a.Key()), zap.Error(err))
		}
		return []Entry{}
	}

	entries, err := decodeEntries(raw)
	if err != nil {
		a.logger.Warn("Stored words are malformed, starting empty",
			zap.String("key", a.Key()), zap.Error(err))
		return []Entry{}
	}

	a.logger.Debug("Loaded words", zap.String("key", a.Key()), zap.Int("count", len(entries)))
	return entries
}

// Save overwrites the stored blob with entries.
func (a *Adapter) Save(ctx context.Context, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := a.store.Set(ctx, a.key, string(raw)); err != nil {
		a.logger.Error("Failed to save words", zap.String("key", a.Key()), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// requiredFields must be present on every stored record. An explicit empty
// "word" is accepted since Edit can store one.
var requiredFields = []string{"id", "word", "createdAt"}

func decodeEntries(raw string) ([]Entry, error) {
	var records []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, err
	}
	// "null" decodes without error but is not a collection.
	if records == nil {
		return nil, errors.New("stored value is not a list")
	}
	for i, record := range records {
		for _, field := range requiredFields {
			if _, ok := record[field]; !ok {
				return nil, fmt.Errorf("record %d: missing %q", i, field)
			}
		}
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(entries))
	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			return nil, fmt.Errorf("record %d: empty id", i)
		}
		if _, dup := seen[entry.ID]; dup {
			return nil, fmt.Errorf("record %d: duplicate id %q", i, entry.ID)
		}
		seen[entry.ID] = struct{}{}
		if entry.CreatedAt.IsZero() {
			return nil, fmt.Errorf("record %d: missing creation time", i)
		}
		if entry.Tags == nil {
			entry.Tags = []string{}
		}
	}
	return entries, nil
}
