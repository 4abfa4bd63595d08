package words

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const (
	// EmptyReviewText is shown when there is nothing to review.
	EmptyReviewText = "Add a word to start your review flow."
	// MissingReviewText is shown when the selected id no longer resolves.
	MissingReviewText = "Pick another word."
	// MissingMeaningText stands in for an empty meaning in the review line.
	MissingMeaningText = "Add a meaning."
)

// RandSource picks an index in [0, n). *rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
}

// NewRandSource returns a RandSource seeded from the clock.
func NewRandSource() RandSource {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// lockedRand guards a RandSource that is not safe for concurrent use.
type lockedRand struct {
	mu  sync.Mutex
	src RandSource
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}

// Reviewer tracks the entry currently presented for review. Selection is
// uniform over the whole collection with no weighting and no memory of
// earlier picks.
type Reviewer struct {
	mu         sync.Mutex
	collection *Collection
	rnd        RandSource
	currentID  string

	unsubscribe func()
}

// NewReviewer starts with no subject. It reselects at random when the current
// subject is deleted or the collection is reset.
func NewReviewer(collection *Collection, rnd RandSource) *Reviewer {
	if rnd == nil {
		rnd = NewRandSource()
	}
	r := &Reviewer{collection: collection, rnd: &lockedRand{src: rnd}}
	r.unsubscribe = collection.Subscribe(r.onEvent)
	return r
}

func (r *Reviewer) onEvent(ev Event) {
	switch ev.Kind {
	case EventDeleted:
		if r.CurrentID() == ev.ID {
			r.SelectRandom()
		}
	case EventReset:
		r.SelectRandom()
	}
}

// Close detaches the reviewer from its collection.
func (r *Reviewer) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// SelectByID makes id the subject. An empty collection clears the subject instead.
func (r *Reviewer) SelectByID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.collection.Len() == 0 {
		r.currentID = ""
		return
	}
	r.currentID = id
}

// SelectRandom picks a subject uniformly at random and returns it. It returns
// false and clears the subject when the collection is empty.
func (r *Reviewer) SelectRandom() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.collection.pick(r.rnd)
	if !ok {
		r.currentID = ""
		return Entry{}, false
	}
	r.currentID = entry.ID
	return entry, true
}

// EnsureSubject selects at random when no subject is set.
func (r *Reviewer) EnsureSubject() {
	if r.CurrentID() == "" {
		r.SelectRandom()
	}
}

// CurrentID returns the subject id, or "" when there is none.
func (r *Reviewer) CurrentID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentID
}

// Current resolves the subject against the collection.
func (r *Reviewer) Current() (Entry, bool) {
	id := r.CurrentID()
	if id == "" {
		return Entry{}, false
	}
	return r.collection.Get(id)
}

// IsEmpty reports whether there is nothing to review.
func (r *Reviewer) IsEmpty() bool {
	return r.collection.Len() == 0
}

// CurrentText renders the review line for the subject.
func (r *Reviewer) CurrentText() string {
	if r.IsEmpty() {
		return EmptyReviewText
	}
	entry, ok := r.Current()
	if !ok {
		return MissingReviewText
	}
	meaning := entry.Meaning
	if meaning == "" {
		meaning = MissingMeaningText
	}
	return fmt.Sprintf("%s — %s", entry.Word, meaning)
}

// MarkSubjectMastered toggles the subject's mastered flag, then moves on to a
// random subject. Without a subject it does nothing.
func (r *Reviewer) MarkSubjectMastered(ctx context.Context) error {
	id := r.CurrentID()
	if id == "" {
		return nil
	}
	err := r.collection.ToggleMastered(ctx, id)
	r.SelectRandom()
	return err
}
