package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/wordcache/pkg/kv"
	"github.com/unowned-ai/wordcache/pkg/testutil"
	"github.com/unowned-ai/wordcache/pkg/words"
)

func newTestSession(t *testing.T, store kv.Store, randValues ...int) *words.Session {
	t.Helper()
	session := words.Open(context.Background(), store,
		words.WithLogger(testutil.NewTestLogger()),
		words.WithClock(testutil.NewClock(time.Date(2024, time.March, 14, 15, 30, 0, 0, time.UTC)).Now),
		words.WithRandSource(testutil.NewSequenceRand(randValues...)),
		words.WithIDGenerator(testutil.SequentialIDs("w")),
	)
	t.Cleanup(session.Close)
	return session
}

// newTestModel seeds the session with ws (the last one ends up first) before
// building the model.
func newTestModel(t *testing.T, randValues []int, ws ...string) (model, *words.Session) {
	t.Helper()
	session := newTestSession(t, kv.NewMemoryStore(), randValues...)
	for _, w := range ws {
		_, err := session.Add(context.Background(), w, "", "", "")
		require.NoError(t, err)
	}
	m := initModel(session, "words.db")
	m.width, m.height = 120, 40
	return m, session
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// press sends keys in order and returns the command of the last one.
func press(t *testing.T, m model, keys ...string) (model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(model)
	}
	return m, cmd
}

// apply runs a mutation command and feeds its result back into the model.
func apply(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	require.NotNil(t, cmd, "expected a mutation command")
	msg := cmd()
	_, ok := msg.(wordsChangedMsg)
	require.True(t, ok, "expected wordsChangedMsg, got %T", msg)
	next, _ := m.Update(msg)
	return next.(model)
}

func viewWords(m model) []string {
	out := []string{}
	for _, e := range m.view {
		out = append(out, e.Word)
	}
	return out
}

func TestInitModel(t *testing.T) {
	m, session := newTestModel(t, []int{1}, "alpha", "beta")

	assert.Equal(t, []string{"beta", "alpha"}, viewWords(m))
	assert.Equal(t, words.Stats{Total: 2, AddedThisWeek: 2}, m.stats)
	assert.Equal(t, "beta — "+words.MissingMeaningText, m.reviewText, "the last added word is the subject")
	assert.Equal(t, "w-2", session.Reviewer().CurrentID())
}

func TestInitModel_Empty(t *testing.T) {
	m, _ := newTestModel(t, nil)

	assert.Empty(t, m.view)
	assert.Equal(t, words.EmptyReviewText, m.reviewText)
	assert.Contains(t, m.View(), words.EmptyGridTitle)
}

func TestAddWordFlow(t *testing.T) {
	m, session := newTestModel(t, nil)

	m, _ = press(t, m, "n")
	require.Equal(t, formAdd, m.form)

	m, _ = press(t, m, "ephemeral", "enter", "short-lived", "enter", "enter", "rare, poetic")
	m, cmd := press(t, m, "enter")
	assert.Equal(t, formNone, m.form)

	m = apply(t, m, cmd)
	assert.Equal(t, []string{"ephemeral"}, viewWords(m))
	assert.Equal(t, []string{"rare", "poetic"}, m.view[0].Tags)
	assert.Equal(t, "ephemeral — short-lived", m.reviewText)
	assert.Equal(t, 1, m.stats.Total)
	assert.Equal(t, 1, session.Collection().Len())
}

func TestAddWordFlow_RejectsEmptyWord(t *testing.T) {
	m, session := newTestModel(t, nil)

	m, cmd := press(t, m, "n", "   ", "enter", "meaning", "enter", "enter", "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, formAdd, m.form, "the form stays open")
	assert.Equal(t, "Word cannot be empty", m.formError)
	assert.Equal(t, fieldWord, m.formField)
	assert.Zero(t, session.Collection().Len())

	m, _ = press(t, m, "esc")
	assert.Equal(t, formNone, m.form)
	assert.Empty(t, m.formError)
}

func TestEditWordFlow(t *testing.T) {
	m, session := newTestModel(t, nil, "ephemral")

	m, _ = press(t, m, "e")
	require.Equal(t, formEdit, m.form)
	assert.Equal(t, "ephemral", m.inputs[fieldWord].Value())
	assert.Equal(t, "w-1", session.EditTarget())

	m.inputs[fieldWord].SetValue("ephemeral")
	m.inputs[fieldMeaning].SetValue("short-lived")
	m, _ = press(t, m, "tab", "tab", "tab")
	require.Equal(t, fieldTags, m.formField)
	m, cmd := press(t, m, "enter")

	m = apply(t, m, cmd)
	got, _ := session.Get("w-1")
	assert.Equal(t, "ephemeral", got.Word)
	assert.Equal(t, "short-lived", got.Meaning)
	assert.Equal(t, "", session.EditTarget())
	assert.Equal(t, "ephemeral — short-lived", m.reviewText)
}

func TestEditWordFlow_Cancel(t *testing.T) {
	m, session := newTestModel(t, nil, "alpha")

	m, _ = press(t, m, "e", "changed", "esc")
	assert.Equal(t, formNone, m.form)
	assert.Equal(t, "", session.EditTarget())

	got, _ := session.Get("w-1")
	assert.Equal(t, "alpha", got.Word)
}

func TestNavigation(t *testing.T) {
	m, _ := newTestModel(t, nil, "alpha", "beta", "gamma")

	m, _ = press(t, m, "up")
	assert.Equal(t, 0, m.cursor, "stops at the top")

	m, _ = press(t, m, "down", "j", "down")
	assert.Equal(t, 2, m.cursor, "stops at the bottom")

	m, _ = press(t, m, "k")
	assert.Equal(t, 1, m.cursor)
}

func TestSearch(t *testing.T) {
	m, _ := newTestModel(t, nil, "terse", "ephemeral", "laconic")

	m, _ = press(t, m, "/")
	require.True(t, m.searching)

	m, _ = press(t, m, "TER")
	assert.Equal(t, []string{"terse"}, viewWords(m))

	m, _ = press(t, m, "enter")
	assert.False(t, m.searching)
	assert.Equal(t, []string{"terse"}, viewWords(m), "enter keeps the term")

	m, _ = press(t, m, "/", "xyz")
	assert.Empty(t, m.view)
	assert.Contains(t, m.View(), "No words match.")

	m, _ = press(t, m, "esc")
	assert.False(t, m.searching)
	assert.Equal(t, []string{"laconic", "ephemeral", "terse"}, viewWords(m), "esc clears the term")
}

func TestFilterCycleAndToggle(t *testing.T) {
	m, session := newTestModel(t, nil, "alpha", "beta")

	m, cmd := press(t, m, "m")
	m = apply(t, m, cmd)
	got, _ := session.Get("w-2")
	assert.True(t, got.Mastered, "m toggles the selected word")
	assert.Equal(t, 1, m.stats.Mastered)

	m, _ = press(t, m, "f")
	assert.Equal(t, words.FilterActive, m.filter)
	assert.Equal(t, []string{"alpha"}, viewWords(m))

	m, _ = press(t, m, "f")
	assert.Equal(t, words.FilterMastered, m.filter)
	assert.Equal(t, []string{"beta"}, viewWords(m))

	m, _ = press(t, m, "f")
	assert.Equal(t, words.FilterAll, m.filter)
	assert.Len(t, m.view, 2)
}

func TestDeleteWithConfirmation(t *testing.T) {
	m, session := newTestModel(t, nil, "alpha", "beta")

	m, _ = press(t, m, "d")
	require.True(t, m.deleting)
	assert.Equal(t, 1, m.deleteConfirmIdx, "No is preselected")

	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.False(t, m.deleting)
	assert.Equal(t, 2, session.Collection().Len())

	m, _ = press(t, m, "down", "d", "up")
	m, cmd = press(t, m, "enter")
	m = apply(t, m, cmd)

	assert.Equal(t, []string{"beta"}, viewWords(m))
	assert.Equal(t, 0, m.cursor, "cursor stays in range")
}

func TestReviewKeys(t *testing.T) {
	m, session := newTestModel(t, []int{0, 1, 0}, "alpha", "beta")

	m, _ = press(t, m, "s")
	assert.Equal(t, "beta — "+words.MissingMeaningText, m.reviewText)

	m, _ = press(t, m, "s")
	assert.Equal(t, "alpha — "+words.MissingMeaningText, m.reviewText)

	m, cmd := press(t, m, "x")
	m = apply(t, m, cmd)
	got, _ := session.Get("w-1")
	assert.True(t, got.Mastered, "x toggles the review subject")
	assert.Equal(t, "w-2", session.Reviewer().CurrentID(), "then reselects")

	m, _ = press(t, m, "down", "enter")
	assert.Equal(t, "w-1", session.Reviewer().CurrentID(), "enter reviews the selected word")
	assert.Equal(t, "alpha — "+words.MissingMeaningText, m.reviewText)
}

func TestResetWithConfirmation(t *testing.T) {
	m, session := newTestModel(t, nil, "alpha", "beta")

	m, _ = press(t, m, "R", "esc")
	assert.False(t, m.resetting)

	m, _ = press(t, m, "R")
	require.True(t, m.resetting)
	assert.Contains(t, m.View(), "Delete all 2 words?")

	m, cmd := press(t, m, "up", "enter")
	m = apply(t, m, cmd)

	assert.Zero(t, session.Collection().Len())
	assert.Empty(t, m.view)
	assert.Equal(t, words.EmptyReviewText, m.reviewText)

	m, _ = press(t, m, "R")
	assert.False(t, m.resetting, "nothing to reset")
}

func TestSaveFailureIsShown(t *testing.T) {
	store := new(testutil.MockBlobStore)
	store.On("Get", mock.Anything, words.DefaultStorageKey).Return("", kv.ErrNotFound)
	store.On("Set", mock.Anything, words.DefaultStorageKey, mock.Anything).Return(errors.New("disk full"))
	m := initModel(newTestSession(t, store), "")

	m, _ = press(t, m, "n", "alpha", "enter", "enter", "enter")
	m, cmd := press(t, m, "enter")
	m = apply(t, m, cmd)

	assert.Contains(t, m.status, "Changes are not saved")
	assert.Contains(t, m.status, "disk full")
	assert.Equal(t, []string{"alpha"}, viewWords(m), "the change is still shown")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, cmd := press(t, m, "q")
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
	assert.Equal(t, "Closing the word cache... Words saved.\n", m.View())
}

func TestView(t *testing.T) {
	m, session := newTestModel(t, nil)
	_, err := session.Add(context.Background(), "ephemeral", "short-lived", "", "rare")
	require.NoError(t, err)
	next, _ := m.Update(wordsChangedMsg{})
	m = next.(model)

	out := m.View()
	assert.Contains(t, out, "Wordcache - personal vocabulary")
	assert.Contains(t, out, "ephemeral")
	assert.Contains(t, out, "short-lived")
	assert.Contains(t, out, "Work context")
	assert.Contains(t, out, "rare")
	assert.Contains(t, out, "words.db")
}

func TestMarqueeText(t *testing.T) {
	m := model{}
	assert.Equal(t, "short", m.marqueeText("short", 10))

	m.marqueeOffset = 2
	assert.Equal(t, "ngwo", m.marqueeText("longword", 4))

	m.marqueeOffset = 1
	assert.Equal(t, "本語", m.marqueeText("日本語の単語", 5), "wide runes are never split")

	for offset := 0; offset < 12; offset++ {
		m.marqueeOffset = offset
		out := m.marqueeText("✓ 日本語の単語", 7)
		assert.True(t, utf8.ValidString(out), "offset %d: %q", offset, out)
		assert.LessOrEqual(t, runewidth.StringWidth(out), 7)
	}
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "longw..", truncateText("longword!", 7))
	assert.Equal(t, "日本語の単語", truncateText("日本語の単語", 12))

	for _, width := range []int{4, 5, 7, 9} {
		out := truncateText("✓ 日本語の単語", width)
		assert.True(t, utf8.ValidString(out), "width %d: %q", width, out)
		assert.True(t, strings.HasSuffix(out, ".."), "width %d: %q", width, out)
		assert.LessOrEqual(t, runewidth.StringWidth(out), width)
	}
}
