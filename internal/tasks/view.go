// Package tasks projects standalone and note-derived tasks into the single
// ordered collection the task list, segment badges and search read from.
package tasks

import (
	"github.com/samber/lo"

	"github.com/starford/noteflow/internal/models"
)

// MissingNoteSubject is shown for a derived task whose note is gone or untitled.
const MissingNoteSubject = "Note"

// Item is anything that can be filed under a segment and completed.
type Item interface {
	InSegment(models.Segment) bool
	Open() bool
}

// Unified is a task as presented in the merged view.
type Unified struct {
	models.Task
	FromNote    bool   `json:"from_note"`
	NoteSubject string `json:"note_subject,omitempty"`
}

// UnifiedView merges standalone tasks (input order) followed by derived
// tasks (input order). Derived tasks carry the current subject of their
// note, or MissingNoteSubject when it cannot be resolved.
func UnifiedView(all []models.Task, notes []models.Note) []Unified {
	subjects := make(map[string]string, len(notes))
	for _, n := range notes {
		subjects[n.ID] = n.Subject
	}

	standalone, derived := lo.FilterReject(all, func(t models.Task, _ int) bool {
		return !t.Origin.Derived()
	})

	out := make([]Unified, 0, len(all))
	for _, t := range standalone {
		out = append(out, Unified{Task: t})
	}
	for _, t := range derived {
		noteID, _ := t.Origin.NoteID()
		subject := subjects[noteID]
		if subject == "" {
			subject = MissingNoteSubject
		}
		out = append(out, Unified{Task: t, FromNote: true, NoteSubject: subject})
	}
	return out
}

// FilterBySegment keeps the items filed under seg, preserving order.
func FilterBySegment[T Item](items []T, seg models.Segment) []T {
	return lo.Filter(items, func(it T, _ int) bool {
		return it.InSegment(seg)
	})
}

// CountOpenBySegment counts the items filed under seg that are not done.
func CountOpenBySegment[T Item](items []T, seg models.Segment) int {
	return lo.CountBy(items, func(it T) bool {
		return it.InSegment(seg) && it.Open()
	})
}

// SegmentProgress returns how many items under seg are done, out of how many.
func SegmentProgress[T Item](items []T, seg models.Segment) (done, total int) {
	for _, it := range items {
		if !it.InSegment(seg) {
			continue
		}
		total++
		if !it.Open() {
			done++
		}
	}
	return done, total
}

// SegmentSummary is one row of the segment catalogue.
type SegmentSummary struct {
	models.SegmentInfo
	Open  int `json:"open"`
	Done  int `json:"done"`
	Total int `json:"total"`
}

// Summaries returns one summary per recognized segment, in display order.
func Summaries[T Item](items []T) []SegmentSummary {
	out := make([]SegmentSummary, len(models.Segments))
	for i, info := range models.Segments {
		done, total := SegmentProgress(items, info.Key)
		out[i] = SegmentSummary{
			SegmentInfo: info,
			Open:        CountOpenBySegment(items, info.Key),
			Done:        done,
			Total:       total,
		}
	}
	return out
}

// OfNote returns the tasks derived from noteID, preserving order.
func OfNote(all []models.Task, noteID string) []models.Task {
	return lo.Filter(all, func(t models.Task, _ int) bool {
		return t.Origin.DerivedFrom(noteID)
	})
}
