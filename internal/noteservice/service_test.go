package noteservice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/starford/noteflow/internal/apperr"
	"github.com/starford/noteflow/internal/models"
	"github.com/starford/noteflow/internal/parser"
	"github.com/starford/noteflow/internal/store"
	"github.com/starford/noteflow/internal/testutil"
	"github.com/starford/noteflow/internal/workspace"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) PublishChange(entity, kind, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, entity+"."+kind+":"+id)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func newTestService(t *testing.T) (*Service, *recorder) {
	t.Helper()
	rec := &recorder{}
	n := 0
	clock := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	svc := NewService(testutil.TestStore(t),
		WithPublisher(rec),
		WithIDs(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		WithClock(func() time.Time { clock = clock.Add(time.Second); return clock }),
	)
	return svc, rec
}

var ctx = context.Background()

func strPtr(s string) *string { return &s }

func TestCreateAndListTasks(t *testing.T) {
	svc, rec := newTestService(t)

	note, err := svc.CreateNote(ctx, workspace.NoteInput{Subject: "Standup"})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if note.Body != workspace.DefaultNoteBody {
		t.Errorf("body = %q", note.Body)
	}
	derived, err := svc.CreateTask(ctx, note.ID, workspace.TaskInput{Text: "ship", Segment: models.SegmentToday})
	if err != nil {
		t.Fatalf("CreateTask derived: %v", err)
	}
	standalone, err := svc.CreateTask(ctx, "", workspace.TaskInput{Text: "call", Segment: models.SegmentToday})
	if err != nil {
		t.Fatalf("CreateTask standalone: %v", err)
	}

	view, err := svc.ListTasks(ctx, "")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(view) != 2 || view[0].ID != standalone.ID || view[1].ID != derived.ID {
		t.Fatalf("view order = %+v", view)
	}
	if view[0].FromNote || !view[1].FromNote || view[1].NoteSubject != "Standup" {
		t.Errorf("origin flags wrong: %+v", view)
	}

	want := []string{"note.created:id-1", "task.created:id-2", "task.created:id-3"}
	if got := rec.list(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestCreateTask_Errors(t *testing.T) {
	svc, rec := newTestService(t)

	_, err := svc.CreateTask(ctx, "", workspace.TaskInput{Text: "  ", Segment: models.SegmentToday})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("blank text: err = %v", err)
	}
	_, err = svc.CreateTask(ctx, "", workspace.TaskInput{Text: "x", Segment: "later"})
	if !errors.Is(err, apperr.ErrInvalidSegment) {
		t.Errorf("bad segment: err = %v", err)
	}
	_, err = svc.CreateTask(ctx, "missing", workspace.TaskInput{Text: "x", Segment: models.SegmentToday})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing note: err = %v", err)
	}
	if len(rec.list()) != 0 {
		t.Errorf("failed creates must not publish: %v", rec.list())
	}
}

func TestListTasks_FilterAndInvalidSegment(t *testing.T) {
	svc, _ := newTestService(t)
	_, _ = svc.CreateTask(ctx, "", workspace.TaskInput{Text: "a", Segment: models.SegmentToday})
	_, _ = svc.CreateTask(ctx, "", workspace.TaskInput{Text: "b", Segment: models.SegmentSomeday})

	view, err := svc.ListTasks(ctx, models.SegmentSomeday)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(view) != 1 || view[0].Text != "b" {
		t.Errorf("filtered = %+v", view)
	}
	if _, err := svc.ListTasks(ctx, "later"); !errors.Is(err, apperr.ErrInvalidSegment) {
		t.Errorf("err = %v", err)
	}
}

func TestToggleAndResegment(t *testing.T) {
	svc, _ := newTestService(t)
	task, _ := svc.CreateTask(ctx, "", workspace.TaskInput{Text: "a", Segment: models.SegmentToday})

	got, err := svc.ToggleTask(ctx, task.ID)
	if err != nil || !got.Done {
		t.Fatalf("ToggleTask: %+v, %v", got, err)
	}
	got, err = svc.ResegmentTask(ctx, task.ID, models.SegmentWaiting)
	if err != nil || got.Segment != models.SegmentWaiting || !got.Done {
		t.Fatalf("ResegmentTask: %+v, %v", got, err)
	}
	if _, err := svc.ResegmentTask(ctx, task.ID, "nope"); !errors.Is(err, apperr.ErrInvalidSegment) {
		t.Errorf("err = %v", err)
	}
	if _, err := svc.ToggleTask(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v", err)
	}

	summaries, err := svc.Segments(ctx)
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	for _, s := range summaries {
		if s.Key == models.SegmentWaiting && (s.Total != 1 || s.Done != 1 || s.Open != 0) {
			t.Errorf("waiting summary = %+v", s)
		}
		if s.Key == models.SegmentToday && s.Total != 0 {
			t.Errorf("today summary = %+v", s)
		}
	}
}

func TestDeleteNote_CascadesDerivedTasks(t *testing.T) {
	svc, rec := newTestService(t)
	note, _ := svc.CreateNote(ctx, workspace.NoteInput{Subject: "Retro"})
	d, _ := svc.CreateTask(ctx, note.ID, workspace.TaskInput{Text: "fix", Segment: models.SegmentProject})
	s, _ := svc.CreateTask(ctx, "", workspace.TaskInput{Text: "keep", Segment: models.SegmentProject})

	if err := svc.DeleteNote(ctx, note.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	view, _ := svc.ListTasks(ctx, "")
	if len(view) != 1 || view[0].ID != s.ID {
		t.Errorf("remaining = %+v", view)
	}
	events := rec.list()
	if events[len(events)-1] != "task.deleted:"+d.ID {
		t.Errorf("events = %v", events)
	}
	if err := svc.DeleteNote(ctx, note.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestDeleteTask_KeepsNote(t *testing.T) {
	svc, _ := newTestService(t)
	note, _ := svc.CreateNote(ctx, workspace.NoteInput{Subject: "Plan"})
	task, _ := svc.CreateTask(ctx, note.ID, workspace.TaskInput{Text: "a", Segment: models.SegmentToday})

	if err := svc.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	detail, err := svc.GetNote(ctx, note.ID)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if len(detail.Tasks) != 0 {
		t.Errorf("tasks = %+v", detail.Tasks)
	}
	if err := svc.DeleteTask(ctx, task.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestUpdateNote_IfMatch(t *testing.T) {
	svc, _ := newTestService(t)
	note, _ := svc.CreateNote(ctx, workspace.NoteInput{Subject: "Draft"})

	updated, err := svc.UpdateNote(ctx, note.ID, workspace.NotePatch{Subject: strPtr("Final")}, note.Checksum)
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if updated.Subject != "Final" || updated.Checksum == note.Checksum {
		t.Errorf("updated = %+v", updated)
	}

	_, err = svc.UpdateNote(ctx, note.ID, workspace.NotePatch{Body: strPtr("x")}, note.Checksum)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("stale checksum err = %v", err)
	}
	if _, err := svc.UpdateNote(ctx, note.ID, workspace.NotePatch{Body: strPtr("x")}, ""); err != nil {
		t.Errorf("unconditional update: %v", err)
	}
	if _, err := svc.UpdateNote(ctx, "missing", workspace.NotePatch{}, ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing err = %v", err)
	}
}

func TestFolders(t *testing.T) {
	svc, _ := newTestService(t)
	f, err := svc.CreateFolder(ctx, "Work")
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	if f.Color != workspace.FolderColors[0] {
		t.Errorf("color = %q", f.Color)
	}
	in, _ := svc.CreateNote(ctx, workspace.NoteInput{Subject: "A", FolderID: f.ID})
	_, _ = svc.CreateNote(ctx, workspace.NoteInput{Subject: "B"})

	notes, _ := svc.ListNotes(ctx, f.ID)
	if len(notes) != 1 || notes[0].ID != in.ID {
		t.Errorf("folder notes = %+v", notes)
	}
	if _, err := svc.CreateNote(ctx, workspace.NoteInput{Subject: "C", FolderID: "nope"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown folder err = %v", err)
	}

	if err := svc.DeleteFolder(ctx, f.ID); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}
	all, _ := svc.ListNotes(ctx, "")
	if len(all) != 2 || all[0].Subject != "B" || all[1].FolderID != "" {
		t.Errorf("notes after folder delete = %+v", all)
	}
	folders, _ := svc.ListFolders(ctx)
	if len(folders) != 0 {
		t.Errorf("folders = %+v", folders)
	}
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService(t)
	_, _ = svc.CreateNote(ctx, workspace.NoteInput{Subject: "Budget review", Body: strPtr("• numbers")})
	_, _ = svc.CreateTask(ctx, "", workspace.TaskInput{Text: "review budget draft", Segment: models.SegmentToday})

	hits, err := svc.Search(ctx, "budget")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %+v", hits)
	}
	empty, _ := svc.Search(ctx, "   ")
	if empty == nil || len(empty) != 0 {
		t.Errorf("blank query = %#v", empty)
	}
}

func TestOpenCount(t *testing.T) {
	svc, _ := newTestService(t)
	a, _ := svc.CreateTask(ctx, "", workspace.TaskInput{Text: "a", Segment: models.SegmentToday})
	_, _ = svc.CreateTask(ctx, "", workspace.TaskInput{Text: "b", Segment: models.SegmentToday})
	_, _ = svc.CreateTask(ctx, "", workspace.TaskInput{Text: "c", Segment: models.SegmentSomeday})
	_, _ = svc.ToggleTask(ctx, a.ID)

	n, err := svc.OpenCount(ctx, models.SegmentToday)
	if err != nil || n != 1 {
		t.Errorf("OpenCount = %d, %v", n, err)
	}
}

func TestImportDocument(t *testing.T) {
	svc, rec := newTestService(t)
	doc, err := parser.Parse("standup.md", []byte("---\nfolder: Work\nsegment: this-week\nowner: sam\ndeadline: 2026-10-20\n---\n# Standup\n- [ ] book room\n- [ ] send agenda\n"))
	if err != nil {
		t.Fatal(err)
	}

	detail, err := svc.ImportDocument(ctx, doc, models.SegmentToday)
	if err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}
	if detail.Subject != "Standup" || detail.FolderID == "" {
		t.Errorf("note = %+v", detail.Note)
	}
	if len(detail.Tasks) != 2 {
		t.Fatalf("tasks = %+v", detail.Tasks)
	}
	for _, task := range detail.Tasks {
		if task.Segment != models.SegmentThisWeek || task.Owner != "sam" || task.Deadline == nil || task.FolderID != detail.FolderID {
			t.Errorf("task = %+v", task)
		}
	}
	if got := len(rec.list()); got != 4 {
		t.Errorf("events = %v", rec.list())
	}

	// A second document reuses the folder by name.
	again, _ := parser.Parse("x.md", []byte("---\nfolder: work\n---\n- [ ] more\n"))
	second, err := svc.ImportDocument(ctx, again, models.SegmentToday)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.FolderID != detail.FolderID || second.Tasks[0].Segment != models.SegmentToday {
		t.Errorf("second = %+v", second)
	}
	folders, _ := svc.ListFolders(ctx)
	if len(folders) != 1 {
		t.Errorf("folders = %+v", folders)
	}
}

func TestImportDocument_RejectsBadSegmentWithoutWriting(t *testing.T) {
	svc, _ := newTestService(t)
	doc, _ := parser.Parse("x.md", []byte("---\nsegment: later\nfolder: Home\n---\n- [ ] a\n"))
	if _, err := svc.ImportDocument(ctx, doc, models.SegmentToday); !errors.Is(err, apperr.ErrInvalidSegment) {
		t.Fatalf("err = %v", err)
	}
	st, _ := svc.Snapshot(ctx)
	if len(st.Folders)+len(st.Notes)+len(st.Tasks) != 0 {
		t.Errorf("state not empty: %+v", st)
	}
}

type failingImportRepo struct {
	*store.DB
}

func (failingImportRepo) SaveImport(context.Context, *models.Folder, models.Note, []models.Task) error {
	return errors.New("disk full")
}

func TestImportDocument_FailedWriteLeavesNothing(t *testing.T) {
	rec := &recorder{}
	db := testutil.TestStore(t)
	svc := NewService(failingImportRepo{DB: db}, WithPublisher(rec))

	doc, _ := parser.Parse("x.md", []byte("---\nfolder: Home\n---\n# Chores\n- [ ] a\n- [ ] b\n"))
	if _, err := svc.ImportDocument(ctx, doc, models.SegmentToday); err == nil {
		t.Fatal("expected error")
	}
	if events := rec.list(); len(events) != 0 {
		t.Errorf("events = %v", events)
	}
	st, _ := db.Snapshot(ctx)
	if len(st.Folders)+len(st.Notes)+len(st.Tasks) != 0 {
		t.Errorf("state not empty: %+v", st)
	}
}
