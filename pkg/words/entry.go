// Package words holds the vocabulary collection: persistence through a blob
// store, mutations, search and statistics, and the random review selector.
package words

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyWord     = errors.New("word cannot be empty")
	ErrPersist       = errors.New("failed to save words")
	ErrInvalidFilter = errors.New("invalid status filter")
)

// Entry is one vocabulary flashcard.
type Entry struct {
	ID        string    `json:"id"`
	Word      string    `json:"word"`
	Meaning   string    `json:"meaning"`
	Usage     string    `json:"usage"`
	Tags      []string  `json:"tags"`
	Mastered  bool      `json:"mastered"`
	CreatedAt time.Time `json:"createdAt"`
}

// clone returns a copy that does not share the tag slice.
func (e Entry) clone() Entry {
	tags := make([]string, len(e.Tags))
	copy(tags, e.Tags)
	e.Tags = tags
	return e
}

// Stats summarises a collection.
type Stats struct {
	Total         int `json:"total"`
	Mastered      int `json:"mastered"`
	AddedThisWeek int `json:"addedThisWeek"`
}

// StatusFilter selects entries by mastery.
type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterActive   StatusFilter = "active"
	FilterMastered StatusFilter = "mastered"
)

// StatusFilters lists the filters in the order a UI cycles through them.
var StatusFilters = []StatusFilter{FilterAll, FilterActive, FilterMastered}

// ParseStatusFilter maps "all", "active" or "mastered" to a StatusFilter.
// An empty string means FilterAll.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive:
		return FilterActive, nil
	case FilterMastered:
		return FilterMastered, nil
	}
	return "", fmt.Errorf("%w: %q (use all, active or mastered)", ErrInvalidFilter, s)
}

// Next returns the filter following f in StatusFilters, wrapping around.
func (f StatusFilter) Next() StatusFilter {
	for i, candidate := range StatusFilters {
		if candidate == f {
			return StatusFilters[(i+1)%len(StatusFilters)]
		}
	}
	return FilterAll
}

func (f StatusFilter) matches(e Entry) bool {
	switch f {
	case FilterActive:
		return !e.Mastered
	case FilterMastered:
		return e.Mastered
	default:
		return true
	}
}

// ParseTags splits raw on commas, trims every tag and drops empty ones.
// Order and duplicates are kept. The result is never nil.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// JoinTags renders tags the way ParseTags reads them back.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
