package tasks

import (
	"testing"

	"github.com/starford/noteflow/internal/models"
)

func task(id string, seg models.Segment, done bool, origin models.Origin) models.Task {
	return models.Task{ID: id, Text: "task " + id, Segment: seg, Done: done, Origin: origin}
}

func TestUnifiedView_StandaloneFirstThenDerived(t *testing.T) {
	notes := []models.Note{{ID: "n1", Subject: "Kickoff"}}
	all := []models.Task{
		task("C", models.SegmentToday, false, models.FromNote("n1")),
		task("A", models.SegmentToday, false, models.Standalone()),
		task("D", models.SegmentWaiting, false, models.FromNote("gone")),
		task("B", models.SegmentSomeday, true, models.Standalone()),
	}

	view := UnifiedView(all, notes)
	var ids string
	for _, u := range view {
		ids += u.ID
	}
	if ids != "ABCD" {
		t.Fatalf("order = %s, want ABCD", ids)
	}
	if view[0].FromNote || view[1].FromNote {
		t.Error("standalone tasks flagged as derived")
	}
	if !view[2].FromNote || view[2].NoteSubject != "Kickoff" {
		t.Errorf("C = %+v, want subject Kickoff", view[2])
	}
	if view[3].NoteSubject != MissingNoteSubject {
		t.Errorf("D subject = %q, want %q", view[3].NoteSubject, MissingNoteSubject)
	}
}

func TestUnifiedView_UntitledNoteUsesPlaceholder(t *testing.T) {
	view := UnifiedView(
		[]models.Task{task("x", models.SegmentToday, false, models.FromNote("n"))},
		[]models.Note{{ID: "n", Subject: ""}},
	)
	if view[0].NoteSubject != MissingNoteSubject {
		t.Errorf("subject = %q", view[0].NoteSubject)
	}
}

func TestUnifiedView_Empty(t *testing.T) {
	if got := UnifiedView(nil, nil); len(got) != 0 {
		t.Errorf("got %v", got)
	}
}

func TestFilterBySegment_StableOrder(t *testing.T) {
	all := []models.Task{
		task("1", models.SegmentToday, false, models.Standalone()),
		task("2", models.SegmentProject, false, models.Standalone()),
		task("3", models.SegmentToday, true, models.Standalone()),
		task("4", models.SegmentToday, false, models.FromNote("n")),
	}
	got := FilterBySegment(all, models.SegmentToday)
	if len(got) != 3 || got[0].ID != "1" || got[1].ID != "3" || got[2].ID != "4" {
		t.Errorf("got %+v", got)
	}

	view := FilterBySegment(UnifiedView(all, nil), models.SegmentToday)
	if len(view) != 3 || view[2].ID != "4" {
		t.Errorf("unified filter = %+v", view)
	}
}

func TestCountOpenBySegment(t *testing.T) {
	all := []models.Task{
		task("1", models.SegmentToday, false, models.Standalone()),
		task("2", models.SegmentToday, true, models.Standalone()),
		task("3", models.SegmentThisWeek, false, models.Standalone()),
		task("4", models.SegmentToday, false, models.FromNote("n")),
	}
	if got := CountOpenBySegment(all, models.SegmentToday); got != 2 {
		t.Errorf("today open = %d, want 2", got)
	}
	if got := CountOpenBySegment(all, models.SegmentSomeday); got != 0 {
		t.Errorf("someday open = %d, want 0", got)
	}

	done, total := SegmentProgress(all, models.SegmentToday)
	if done != 1 || total != 3 {
		t.Errorf("progress = %d/%d, want 1/3", done, total)
	}
}

func TestSummaries_CoverEverySegment(t *testing.T) {
	all := []models.Task{
		task("1", models.SegmentWaiting, false, models.Standalone()),
		task("2", models.SegmentWaiting, true, models.Standalone()),
	}
	sums := Summaries(all)
	if len(sums) != len(models.Segments) {
		t.Fatalf("len = %d", len(sums))
	}
	for _, s := range sums {
		if s.Key == models.SegmentWaiting {
			if s.Open != 1 || s.Done != 1 || s.Total != 2 || s.Label != "Waiting" {
				t.Errorf("waiting = %+v", s)
			}
		} else if s.Total != 0 {
			t.Errorf("%s total = %d", s.Key, s.Total)
		}
	}
}

func TestOfNote(t *testing.T) {
	all := []models.Task{
		task("1", models.SegmentToday, false, models.FromNote("a")),
		task("2", models.SegmentToday, false, models.Standalone()),
		task("3", models.SegmentToday, false, models.FromNote("b")),
		task("4", models.SegmentToday, false, models.FromNote("a")),
	}
	got := OfNote(all, "a")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "4" {
		t.Errorf("got %+v", got)
	}
	if len(OfNote(all, "")) != 0 {
		t.Error("empty note id must not match standalone tasks")
	}
}
