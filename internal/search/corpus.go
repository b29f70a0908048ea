package search

import (
	"strings"

	"github.com/starford/noteflow/internal/models"
	"github.com/starford/noteflow/internal/tasks"
)

// Result is one ranked hit returned to clients.
type Result struct {
	ID    string  `json:"id"`
	Kind  Kind    `json:"kind"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// Corpus builds the documents for one search: every note (subject, body and
// AI summary when present) followed by every task of the unified view.
func Corpus(notes []models.Note, all []models.Task) []Document {
	view := tasks.UnifiedView(all, notes)
	docs := make([]Document, 0, len(notes)+len(view))
	for _, n := range notes {
		text := n.Subject + " " + n.Body
		if n.AISummary != "" {
			text += " " + n.AISummary
		}
		docs = append(docs, Document{ID: n.ID, Kind: KindNote, Text: text})
	}
	for _, t := range view {
		docs = append(docs, Document{ID: t.ID, Kind: KindTask, Text: t.Text})
	}
	return docs
}

// Search ranks the notes and tasks of a snapshot against query. An empty or
// blank query returns an empty list without building a corpus.
func Search(query string, notes []models.Note, all []models.Task) []Result {
	if strings.TrimSpace(query) == "" {
		return []Result{}
	}

	titles := make(map[string]string, len(notes))
	for _, n := range notes {
		titles[n.ID] = n.Subject
	}

	ranked := Rank(query, Corpus(notes, all))
	out := make([]Result, len(ranked))
	for i, r := range ranked {
		title := r.Text
		if r.Kind == KindNote {
			title = titles[r.ID]
		}
		out[i] = Result{ID: r.ID, Kind: r.Kind, Title: title, Score: r.Score}
	}
	return out
}
