package words

import "time"

const (
	defaultMeta    = "Work context"
	defaultMeaning = "Add a meaning to help recall."

	StatusMastered = "Mastered"
	StatusLearning = "Learning"

	EmptyGridTitle = "No words yet"
	EmptyGridBody  = "Add a word above to start your collection."
)

// CardView is an entry with display defaults filled in.
type CardView struct {
	ID      string
	Title   string
	Meta    string
	Meaning string
	Added   string
	Status  string
	Tags    []string
}

// Card prepares entry for display, with CreatedAt shown in local time.
func Card(entry Entry) CardView {
	meta := entry.Usage
	if meta == "" {
		meta = defaultMeta
	}
	meaning := entry.Meaning
	if meaning == "" {
		meaning = defaultMeaning
	}
	status := StatusLearning
	if entry.Mastered {
		status = StatusMastered
	}
	return CardView{
		ID:      entry.ID,
		Title:   entry.Word,
		Meta:    meta,
		Meaning: meaning,
		Added:   "Added " + FormatDate(entry.CreatedAt.Local()),
		Status:  status,
		Tags:    entry.Tags,
	}
}

// FormatDate renders t as a short month and day, e.g. "Mar 4".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2")
}
