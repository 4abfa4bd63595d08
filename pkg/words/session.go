package words

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/unowned-ai/wordcache/pkg/kv"
)

type options struct {
	key    string
	logger *zap.Logger
	now    func() time.Time
	rnd    RandSource
	newID  func() string
}

// Option configures Open.
type Option func(*options)

// WithStorageKey overrides DefaultStorageKey.
func WithStorageKey(key string) Option {
	return func(o *options) { o.key = key }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock replaces time.Now for creation timestamps and the weekly window.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRandSource replaces the review selector's random source.
func WithRandSource(rnd RandSource) Option {
	return func(o *options) { o.rnd = rnd }
}

// WithIDGenerator replaces uuid.NewString for new entry ids.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// Session is the single object a presentation layer drives: the collection,
// its review selector and the edit in progress.
type Session struct {
	collection *Collection
	reviewer   *Reviewer
	logger     *zap.Logger

	editMu       sync.Mutex
	editTargetID string
}

// Open loads the collection from store once and wires the reviewer to it.
func Open(ctx context.Context, store kv.Store, opts ...Option) *Session {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	adapter := NewAdapter(store, o.key, o.logger)
	collection := NewCollection(ctx, adapter, o.now, o.newID, o.logger)
	return &Session{
		collection: collection,
		reviewer:   NewReviewer(collection, o.rnd),
		logger:     o.logger,
	}
}

// Close detaches the reviewer.
func (s *Session) Close() {
	s.reviewer.Close()
}

func (s *Session) Collection() *Collection { return s.collection }
func (s *Session) Reviewer() *Reviewer     { return s.reviewer }

// Add adds a word and makes it the review subject.
func (s *Session) Add(ctx context.Context, word, meaning, usage, tagsRaw string) (Entry, error) {
	entry, err := s.collection.Add(ctx, word, meaning, usage, tagsRaw)
	if entry.ID != "" {
		s.reviewer.SelectByID(entry.ID)
	}
	return entry, err
}

func (s *Session) Edit(ctx context.Context, id, word, meaning, usage, tagsRaw string) error {
	return s.collection.Edit(ctx, id, word, meaning, usage, tagsRaw)
}

func (s *Session) Delete(ctx context.Context, id string) error {
	return s.collection.Delete(ctx, id)
}

func (s *Session) ToggleMastered(ctx context.Context, id string) error {
	return s.collection.ToggleMastered(ctx, id)
}

func (s *Session) ResetAll(ctx context.Context) error {
	return s.collection.ResetAll(ctx)
}

func (s *Session) Get(id string) (Entry, bool) {
	return s.collection.Get(id)
}

func (s *Session) FilteredView(term string, filter StatusFilter) []Entry {
	return s.collection.FilteredView(term, filter)
}

func (s *Session) Stats() Stats {
	return s.collection.Stats()
}

func (s *Session) SelectRandom() (Entry, bool) {
	return s.reviewer.SelectRandom()
}

func (s *Session) SelectByID(id string) {
	s.reviewer.SelectByID(id)
}

func (s *Session) MarkSubjectMastered(ctx context.Context) error {
	return s.reviewer.MarkSubjectMastered(ctx)
}

func (s *Session) CurrentText() string {
	return s.reviewer.CurrentText()
}

func (s *Session) Subscribe(fn func(Event)) func() {
	return s.collection.Subscribe(fn)
}

// BeginEdit makes id the edit target and returns its current values.
func (s *Session) BeginEdit(id string) (Entry, bool) {
	entry, ok := s.collection.Get(id)
	if !ok {
		return Entry{}, false
	}
	s.editMu.Lock()
	s.editTargetID = id
	s.editMu.Unlock()
	return entry, true
}

// EditTarget returns the id being edited, or "".
func (s *Session) EditTarget() string {
	s.editMu.Lock()
	defer s.editMu.Unlock()
	return s.editTargetID
}

// CommitEdit saves the form values to the edit target and ends the edit.
// Without a target it does nothing.
func (s *Session) CommitEdit(ctx context.Context, word, meaning, usage, tagsRaw string) error {
	s.editMu.Lock()
	id := s.editTargetID
	s.editTargetID = ""
	s.editMu.Unlock()

	if id == "" {
		return nil
	}
	return s.collection.Edit(ctx, id, word, meaning, usage, tagsRaw)
}

// CancelEdit ends the edit without saving.
func (s *Session) CancelEdit() {
	s.editMu.Lock()
	s.editTargetID = ""
	s.editMu.Unlock()
}
