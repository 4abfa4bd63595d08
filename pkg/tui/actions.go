package tui

import (
	"context"
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unowned-ai/wordcache/pkg/words"
)

// wordsChangedMsg reports a finished mutation. err is set when the change was
// applied in memory but could not be saved.
type wordsChangedMsg struct {
	err error
}

func changed(err error) tea.Msg {
	return wordsChangedMsg{err: err}
}

// Add a word and make it the review subject
func addWord(session *words.Session, word, meaning, usage, tags string) tea.Cmd {
	return func() tea.Msg {
		_, err := session.Add(context.Background(), word, meaning, usage, tags)
		return changed(err)
	}
}

// Save the open edit form to its target
func commitEdit(session *words.Session, word, meaning, usage, tags string) tea.Cmd {
	return func() tea.Msg {
		return changed(session.CommitEdit(context.Background(), word, meaning, usage, tags))
	}
}

func deleteWord(session *words.Session, id string) tea.Cmd {
	return func() tea.Msg {
		return changed(session.Delete(context.Background(), id))
	}
}

func toggleMastered(session *words.Session, id string) tea.Cmd {
	return func() tea.Msg {
		return changed(session.ToggleMastered(context.Background(), id))
	}
}

// Toggle the review subject and move on to a random word
func markReviewMastered(session *words.Session) tea.Cmd {
	return func() tea.Msg {
		return changed(session.MarkSubjectMastered(context.Background()))
	}
}

func resetWords(session *words.Session) tea.Cmd {
	return func() tea.Msg {
		return changed(session.ResetAll(context.Background()))
	}
}

// Get database name and file path
func getDbPragmaList(db *sql.DB) (string, string) {
	var name, file string
	if db == nil {
		return name, file
	}
	err := db.QueryRow(`PRAGMA database_list`).Scan(new(int), &name, &file)
	if err != nil {
		return name, file
	}
	return name, file
}
