package words

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventKind names the mutation that produced an Event.
type EventKind string

const (
	EventAdded   EventKind = "added"
	EventEdited  EventKind = "edited"
	EventToggled EventKind = "toggled"
	EventDeleted EventKind = "deleted"
	EventReset   EventKind = "reset"
)

// Event tells listeners the collection changed and should be re-queried.
type Event struct {
	Kind EventKind
	// ID is the affected entry; empty for EventReset.
	ID string
}

// Collection owns the ordered entries (newest first) and writes every change
// through its Adapter. Mutations and their write are serialized by one mutex.
type Collection struct {
	mu      sync.Mutex
	entries []Entry
	adapter *Adapter

	now    func() time.Time
	newID  func() string
	logger *zap.Logger

	listenersMu sync.Mutex
	listeners   map[int]func(Event)
	nextID      int
}

// NewCollection loads the stored entries through adapter.
func NewCollection(ctx context.Context, adapter *Adapter, now func() time.Time, newID func() string, logger *zap.Logger) *Collection {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = uuid.NewString
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collection{
		entries:   adapter.Load(ctx),
		adapter:   adapter,
		now:       now,
		newID:     newID,
		logger:    logger,
		listeners: make(map[int]func(Event)),
	}
}

// Subscribe registers fn to be called after every completed mutation.
// The returned func removes the listener.
func (c *Collection) Subscribe(fn func(Event)) func() {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.listenersMu.Lock()
		defer c.listenersMu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Collection) notify(ev Event) {
	c.listenersMu.Lock()
	fns := make([]func(Event), 0, len(c.listeners))
	for i := 0; i < c.nextID; i++ {
		if fn, ok := c.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	c.listenersMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Add prepends a new entry. A word that is empty after trimming is rejected
// with ErrEmptyWord before anything is changed or written.
func (c *Collection) Add(ctx context.Context, word, meaning, usage, tagsRaw string) (Entry, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return Entry{}, ErrEmptyWord
	}

	entry := Entry{
		ID:        c.newID(),
		Word:      word,
		Meaning:   strings.TrimSpace(meaning),
		Usage:     strings.TrimSpace(usage),
		Tags:      ParseTags(tagsRaw),
		Mastered:  false,
		CreatedAt: c.now().UTC().Truncate(time.Millisecond),
	}

	c.mu.Lock()
	c.entries = append([]Entry{entry}, c.entries...)
	err := c.saveLocked(ctx)
	c.mu.Unlock()

	c.logger.Debug("Word added", zap.String("id", entry.ID), zap.String("word", entry.Word))
	c.notify(Event{Kind: EventAdded, ID: entry.ID})
	return entry.clone(), err
}

// ToggleMastered flips the mastered flag of id. Unknown ids are ignored.
func (c *Collection) ToggleMastered(ctx context.Context, id string) error {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return nil
	}
	c.entries[i].Mastered = !c.entries[i].Mastered
	err := c.saveLocked(ctx)
	c.mu.Unlock()

	c.notify(Event{Kind: EventToggled, ID: id})
	return err
}

// Edit replaces the text fields and tags of id, keeping its ID and CreatedAt.
// Unlike Add it accepts an empty word. Unknown ids are ignored.
func (c *Collection) Edit(ctx context.Context, id, word, meaning, usage, tagsRaw string) error {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return nil
	}
	c.entries[i].Word = strings.TrimSpace(word)
	c.entries[i].Meaning = strings.TrimSpace(meaning)
	c.entries[i].Usage = strings.TrimSpace(usage)
	c.entries[i].Tags = ParseTags(tagsRaw)
	err := c.saveLocked(ctx)
	c.mu.Unlock()

	c.notify(Event{Kind: EventEdited, ID: id})
	return err
}

// Delete removes id. Unknown ids are ignored.
func (c *Collection) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return nil
	}
	c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
	err := c.saveLocked(ctx)
	c.mu.Unlock()

	c.logger.Debug("Word deleted", zap.String("id", id))
	c.notify(Event{Kind: EventDeleted, ID: id})
	return err
}

// ResetAll removes every entry. Asking the user for confirmation is the
// caller's job.
func (c *Collection) ResetAll(ctx context.Context) error {
	c.mu.Lock()
	removed := len(c.entries)
	c.entries = []Entry{}
	err := c.saveLocked(ctx)
	c.mu.Unlock()

	c.logger.Info("All words reset", zap.Int("removed", removed))
	c.notify(Event{Kind: EventReset})
	return err
}

// Get returns a copy of the entry with id.
func (c *Collection) Get(id string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return Entry{}, false
	}
	return c.entries[i].clone(), true
}

// Entries returns a copy of all entries, newest first.
func (c *Collection) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// pick returns a uniformly chosen entry, or false when empty.
func (c *Collection) pick(rnd RandSource) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) == 0 {
		return Entry{}, false
	}
	return c.entries[rnd.Intn(len(c.entries))].clone(), true
}

func (c *Collection) indexLocked(id string) int {
	for i, e := range c.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// saveLocked writes the collection; the in-memory change is kept on failure.
func (c *Collection) saveLocked(ctx context.Context) error {
	return c.adapter.Save(ctx, c.entries)
}
