package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/unowned-ai/wordcache/pkg/words"
)

// formatTimestamp renders t in local time, RFC3339.
func formatTimestamp(t time.Time) string {
	return t.Local().Format(time.RFC3339)
}

func printEntry(w io.Writer, entry words.Entry) {
	card := words.Card(entry)

	fmt.Fprintln(w, "Word Details:")
	fmt.Fprintf(w, "ID:         %s\n", entry.ID)
	fmt.Fprintf(w, "Word:       %s\n", card.Title)
	fmt.Fprintf(w, "Meaning:    %s\n", card.Meaning)
	fmt.Fprintf(w, "Usage:      %s\n", card.Meta)
	fmt.Fprintf(w, "Tags:       %s\n", formatTags(entry.Tags))
	fmt.Fprintf(w, "Status:     %s\n", card.Status)
	fmt.Fprintf(w, "Created At: %s\n", formatTimestamp(entry.CreatedAt))
}

func printWordList(w io.Writer, entries []words.Entry, total int) {
	if len(entries) == 0 {
		if total == 0 {
			fmt.Fprintf(w, "%s. %s\n", words.EmptyGridTitle, words.EmptyGridBody)
			return
		}
		fmt.Fprintln(w, "No words match.")
		return
	}

	for _, entry := range entries {
		card := words.Card(entry)
		fmt.Fprintf(w, "%s  %-9s %s: %s [%s] (%s)\n",
			entry.ID, card.Status, card.Title, card.Meaning, formatTags(entry.Tags), card.Added)
	}
	fmt.Fprintf(w, "\n%d of %d word(s)\n", len(entries), total)
}

func printStats(w io.Writer, stats words.Stats) {
	fmt.Fprintf(w, "Total:      %d\n", stats.Total)
	fmt.Fprintf(w, "Mastered:   %d\n", stats.Mastered)
	fmt.Fprintf(w, "This week:  %d\n", stats.AddedThisWeek)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	return nil
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "none"
	}
	return words.JoinTags(tags)
}
