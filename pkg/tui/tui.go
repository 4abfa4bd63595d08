package tui

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unowned-ai/wordcache/pkg/words"
)

type formMode int

const (
	formNone formMode = iota
	formAdd
	formEdit
)

// Form fields in tab order
const (
	fieldWord = iota
	fieldMeaning
	fieldUsage
	fieldTags
	fieldCount
)

var fieldLabels = [fieldCount]string{"Word", "Meaning", "Usage", "Tags"}

type model struct {
	session    *words.Session
	dbFilename string

	// Derived from the session on every refresh
	view       []words.Entry
	stats      words.Stats
	reviewText string

	searchInput textinput.Model
	searching   bool
	filter      words.StatusFilter
	cursor      int // Index of selected word in view

	width    int // Current terminal width (for layout)
	height   int // Current terminal height
	status   string
	quitting bool

	form      formMode
	formField int
	formError string
	inputs    [fieldCount]textinput.Model

	deleting         bool
	deleteConfirmIdx int // 0 = "Yes" selected, 1 = "No"
	deleteTarget     words.Entry

	resetting       bool
	resetConfirmIdx int

	// Animation state
	marqueeOffset int
	marqueeTimer  int
}

// Initialize TUI model
func initModel(session *words.Session, dbFilename string) model {
	search := textinput.New()
	search.Placeholder = "Search words, meanings or tags"
	search.CharLimit = 256

	var inputs [fieldCount]textinput.Model
	placeholders := [fieldCount]string{
		"Word or phrase",
		"Meaning (optional)",
		"Usage or context (optional)",
		"Tags, comma separated (optional)",
	}
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].CharLimit = 512
	}

	m := model{
		session:     session,
		dbFilename:  dbFilename,
		searchInput: search,
		filter:      words.FilterAll,
		inputs:      inputs,
	}
	session.Reviewer().EnsureSubject()
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
		return t
	})
}

// refresh re-queries everything the view shows and keeps the cursor in range.
func (m *model) refresh() {
	m.view = m.session.FilteredView(m.searchInput.Value(), m.filter)
	m.stats = m.session.Stats()
	m.reviewText = m.session.CurrentText()
	if m.cursor >= len(m.view) {
		m.cursor = len(m.view) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m model) selected() (words.Entry, bool) {
	if len(m.view) == 0 {
		return words.Entry{}, false
	}
	return m.view[m.cursor], true
}

func (m *model) openForm(mode formMode, values [fieldCount]string) {
	m.form = mode
	m.formError = ""
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].SetValue(values[i])
		m.inputs[i].Blur()
	}
	m.focusField(fieldWord)
}

func (m *model) focusField(field int) {
	m.inputs[m.formField].Blur()
	m.formField = field
	m.inputs[field].Focus()
}

func (m *model) closeForm() {
	if m.form == formEdit {
		m.session.CancelEdit()
	}
	m.form = formNone
	m.formField = 0
	m.formError = ""
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
}

// Processes events like window resize, mutation results, and key presses
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case wordsChangedMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Changes are not saved: %v", msg.err)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.form != formNone {
			return m.updateForm(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.deleting {
			return m.updateDelete(msg)
		}
		if m.resetting {
			return m.updateReset(msg)
		}
		return m.updateRoot(msg)

	case time.Time:
		// Update marquee animation every x ticks (adjust for speed)
		m.marqueeTimer++
		if m.marqueeTimer >= 10 {
			m.marqueeTimer = 0
			m.marqueeOffset++
		}
		return m, tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
			return t
		})
	}

	return m, nil
}

func (m model) updateRoot(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		// Exit alt screen before quitting so the goodbye message displays
		return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.view)-1 {
			m.cursor++
		}

	case "/":
		m.searching = true
		cmd := m.searchInput.Focus()
		return m, cmd

	case "f":
		m.filter = m.filter.Next()
		m.cursor = 0
		m.refresh()

	case "n":
		m.openForm(formAdd, [fieldCount]string{})
		return m, textinput.Blink

	case "e":
		entry, ok := m.selected()
		if !ok {
			return m, nil
		}
		if current, ok := m.session.BeginEdit(entry.ID); ok {
			m.openForm(formEdit, [fieldCount]string{
				current.Word, current.Meaning, current.Usage, words.JoinTags(current.Tags),
			})
			return m, textinput.Blink
		}

	case "d":
		if entry, ok := m.selected(); ok {
			m.deleteTarget = entry
			m.deleteConfirmIdx = 1
			m.deleting = true
		}

	case "m":
		if entry, ok := m.selected(); ok {
			return m, toggleMastered(m.session, entry.ID)
		}

	case "enter":
		if entry, ok := m.selected(); ok {
			m.session.SelectByID(entry.ID)
			m.refresh()
		}

	case "s":
		m.session.SelectRandom()
		m.refresh()

	case "x":
		return m, markReviewMastered(m.session)

	case "R":
		if m.stats.Total > 0 {
			m.resetConfirmIdx = 1
			m.resetting = true
		}
	}
	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		// Keep the term and go back to the list
		m.searching = false
		m.searchInput.Blur()
		return m, nil

	case tea.KeyEsc:
		m.searching = false
		m.searchInput.Reset()
		m.searchInput.Blur()
		m.cursor = 0
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.cursor = 0
	m.refresh()
	return m, cmd
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeForm()
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		m.focusField((m.formField + 1) % fieldCount)
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		m.focusField((m.formField + fieldCount - 1) % fieldCount)
		return m, nil

	case tea.KeyEnter:
		if m.formField < fieldTags {
			m.focusField(m.formField + 1)
			return m, nil
		}
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.inputs[m.formField], cmd = m.inputs[m.formField].Update(msg)
	return m, cmd
}

func (m model) submitForm() (tea.Model, tea.Cmd) {
	word := m.inputs[fieldWord].Value()
	meaning := m.inputs[fieldMeaning].Value()
	usage := m.inputs[fieldUsage].Value()
	tags := m.inputs[fieldTags].Value()

	var cmd tea.Cmd
	switch m.form {
	case formAdd:
		if strings.TrimSpace(word) == "" {
			m.formError = "Word cannot be empty"
			m.focusField(fieldWord)
			return m, nil
		}
		cmd = addWord(m.session, word, meaning, usage, tags)
		// The new word is prepended; show it selected when it matches the view.
		m.cursor = 0
	case formEdit:
		cmd = commitEdit(m.session, word, meaning, usage, tags)
	}

	m.form = formNone
	m.formField = 0
	m.formError = ""
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
	return m, cmd
}

func (m model) updateDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.deleteConfirmIdx = 0

	case "down", "j":
		m.deleteConfirmIdx = 1

	case "enter":
		m.deleting = false
		if m.deleteConfirmIdx == 0 {
			return m, deleteWord(m.session, m.deleteTarget.ID)
		}

	case "esc":
		m.deleting = false
	}
	return m, nil
}

func (m model) updateReset(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.resetConfirmIdx = 0

	case "down", "j":
		m.resetConfirmIdx = 1

	case "enter":
		m.resetting = false
		if m.resetConfirmIdx == 0 {
			m.cursor = 0
			return m, resetWords(m.session)
		}

	case "esc":
		m.resetting = false
	}
	return m, nil
}

// Assembles the UI string for each frame
func (m model) View() string {
	if m.quitting {
		return "Closing the word cache... Words saved.\n"
	}

	titleBar := titleStyle.Width(m.width).Render("Wordcache - personal vocabulary")
	leftWidth, middleWidth, rightWidth := m.columnWidths()
	panelHeight := m.height - panelHeightPadding

	leftPanel := panelBorderStyle.Width(leftWidth).Height(panelHeight).
		Render(m.viewStatsAndReview(leftWidth))
	middlePanel := panelBorderStyle.Width(middleWidth).Height(panelHeight).
		Render(m.viewList(middleWidth))
	rightPanel := lipgloss.NewStyle().Padding(0, 2).Width(rightWidth).Height(panelHeight).
		Render(m.viewDetail(rightWidth))

	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, middlePanel, rightPanel)

	footerText := "\n↑/↓ navigate • / search • f filter • n add • e edit • d delete • m mastered • enter review • s shuffle • x review mastered • R reset • q quit"
	if m.status != "" {
		footerText = "\n" + errorStyle.Render(m.status) + footerText
	}
	footerBar := footerStyle.Width(m.width).Render(footerText)

	return titleBar + "\n\n" + columns + footerBar
}

func (m model) viewStatsAndReview(width int) string {
	var b strings.Builder
	innerWidth := width - bordersAndPaddingWidth

	b.WriteString(subtitleStyle.Width(innerWidth).Render("Stats"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("Total:"), m.stats.Total))
	b.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("Mastered:"), m.stats.Mastered))
	b.WriteString(fmt.Sprintf("%s %d\n\n", labelStyle.Render("This week:"), m.stats.AddedThisWeek))

	b.WriteString(subtitleStyle.Width(innerWidth).Render("Review"))
	b.WriteString("\n\n")
	b.WriteString(reviewStyle.Width(innerWidth).Render(m.reviewText))
	b.WriteString("\n\n")

	databaseStatus := 0
	if m.dbFilename != "" {
		databaseStatus = 1
	}
	b.WriteString(fmt.Sprintf("Database file: %v\n", TextStatusColorize(m.dbFilename, databaseStatus)))
	return b.String()
}

func (m model) viewList(width int) string {
	var b strings.Builder
	innerWidth := width - bordersAndPaddingWidth

	b.WriteString(subtitleStyle.Width(innerWidth).Render(
		fmt.Sprintf("Words (%s, %d shown)", m.filter, len(m.view))))
	b.WriteString("\n")
	if m.searching || m.searchInput.Value() != "" {
		m.searchInput.Width = innerWidth - 2
		b.WriteString(m.searchInput.View())
	}
	b.WriteString("\n\n")

	if len(m.view) == 0 {
		if m.stats.Total == 0 {
			b.WriteString(words.EmptyGridTitle + "\n" + words.EmptyGridBody + "\n")
		} else {
			b.WriteString("  No words match.\n")
		}
		return b.String()
	}

	for i, entry := range m.view {
		isSelected := i == m.cursor
		pointer := generateLinePointer(isSelected)
		availableWidth := innerWidth - len(pointer) - 1

		title := entry.Word
		if entry.Mastered {
			title = "✓ " + title
		}
		if isSelected {
			title = selectedStyle.Render(m.marqueeText(title, availableWidth))
		} else {
			title = inactiveStyle.Render(truncateText(title, availableWidth))
		}
		b.WriteString(pointer + title + "\n")
	}
	return b.String()
}

func (m model) viewDetail(width int) string {
	var b strings.Builder
	innerWidth := width - bordersAndPaddingWidth

	subtitle := "Word"
	switch {
	case m.form == formAdd:
		subtitle = "Add Word"
	case m.form == formEdit:
		subtitle = "Edit Word"
	case m.deleting:
		subtitle = "Delete Word"
	case m.resetting:
		subtitle = "Reset All Words"
	}
	b.WriteString(subtitleStyle.Width(innerWidth).Render(subtitle))
	b.WriteString("\n\n")

	switch {
	case m.form != formNone:
		for i := range m.inputs {
			m.inputs[i].Width = innerWidth - len(fieldLabels[i]) - 2
			b.WriteString(fieldLabels[i] + ": " + m.inputs[i].View() + "\n")
		}
		b.WriteString("\n(tab/enter for next field, enter on tags to save, esc to cancel)")
		if m.formError != "" {
			b.WriteString("\n\n" + errorStyle.Render(m.formError) + "\n")
		}

	case m.deleting:
		b.WriteString("Word: " + errorStyle.Render(m.deleteTarget.Word) + "\n\n")
		b.WriteString(confirmOptions(m.deleteConfirmIdx) + "\n\n")
		b.WriteString("(enter to confirm, esc to cancel, up/down to switch)")

	case m.resetting:
		b.WriteString(errorStyle.Render(
			"Delete all "+strconv.Itoa(m.stats.Total)+" words? This cannot be undone.") + "\n\n")
		b.WriteString(confirmOptions(m.resetConfirmIdx) + "\n\n")
		b.WriteString("(enter to confirm, esc to cancel, up/down to switch)")

	default:
		entry, ok := m.selected()
		if !ok {
			b.WriteString("Select a word to view details.")
			break
		}
		card := words.Card(entry)
		status := 0
		if entry.Mastered {
			status = 1
		}
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(card.Title) + "  " +
			TextStatusColorize(card.Status, status) + "\n")
		b.WriteString(footerStyle.Render(card.Meta) + "\n\n")
		b.WriteString(inactiveStyle.Render(card.Meaning) + "\n\n")

		tagsLine := "-"
		if len(card.Tags) > 0 {
			tagsLine = strings.Join(card.Tags, " ")
		}
		b.WriteString(labelStyle.Render("Tags: ") + tagStyle.Render(tagsLine) + "\n")
		b.WriteString(footerStyle.Render(card.Added))
	}
	return b.String()
}

// ShowTUI runs the terminal UI over session. db, when set, is only used to
// show the database file name.
func ShowTUI(session *words.Session, db *sql.DB) error {
	_, file := getDbPragmaList(db)
	dbFilename := ""
	if file != "" {
		dbFilename = filepath.Base(file)
	}

	p := tea.NewProgram(initModel(session, dbFilename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
