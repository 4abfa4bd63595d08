package words

import (
	"strings"
	"time"
)

// FilteredView returns the entries matching term and filter, in input order.
// term is trimmed and matched case-insensitively as a substring of the word,
// the meaning, or the tags joined by spaces. An empty term matches everything.
func FilteredView(entries []Entry, term string, filter StatusFilter) []Entry {
	term = strings.ToLower(strings.TrimSpace(term))

	out := []Entry{}
	for _, e := range entries {
		if matchesTerm(e, term) && filter.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func matchesTerm(e Entry, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Word), term) ||
		strings.Contains(strings.ToLower(e.Meaning), term) ||
		strings.Contains(strings.ToLower(strings.Join(e.Tags, " ")), term)
}

// WeekStart is the lower bound of the "added this week" window: now moved back
// seven calendar days in now's location, keeping the time of day.
func WeekStart(now time.Time) time.Time {
	return now.AddDate(0, 0, -7)
}

// ComputeStats counts entries, mastered entries and entries created since WeekStart(now).
func ComputeStats(entries []Entry, now time.Time) Stats {
	weekAgo := WeekStart(now)

	stats := Stats{Total: len(entries)}
	for _, e := range entries {
		if e.Mastered {
			stats.Mastered++
		}
		if !e.CreatedAt.Before(weekAgo) {
			stats.AddedThisWeek++
		}
	}
	return stats
}

// FilteredView applies FilteredView to the current entries.
func (c *Collection) FilteredView(term string, filter StatusFilter) []Entry {
	return FilteredView(c.Entries(), term, filter)
}

// Stats computes Stats at the collection clock's current local time.
func (c *Collection) Stats() Stats {
	return ComputeStats(c.Entries(), c.now().Local())
}
