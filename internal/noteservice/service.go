// Package noteservice coordinates the workspace reducers, persistence,
// search and change notifications behind one API used by the HTTP, MCP and
// inbox front ends.
package noteservice

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/noteflow/internal/apperr"
	"github.com/starford/noteflow/internal/checksum"
	"github.com/starford/noteflow/internal/models"
	"github.com/starford/noteflow/internal/search"
	"github.com/starford/noteflow/internal/tasks"
	"github.com/starford/noteflow/internal/workspace"
)

// Repository persists workspace entities.
type Repository interface {
	Snapshot(ctx context.Context) (workspace.State, error)
	SaveFolder(ctx context.Context, f models.Folder) error
	DeleteFolder(ctx context.Context, id string) error
	SaveNote(ctx context.Context, n models.Note) error
	DeleteNote(ctx context.Context, id string) error
	SaveTask(ctx context.Context, t models.Task) error
	DeleteTask(ctx context.Context, id string) error
	SaveImport(ctx context.Context, folder *models.Folder, n models.Note, tasks []models.Task) error
}

// Publisher receives change notifications. kind is one of "created",
// "updated" or "deleted"; entity is "folder", "note" or "task".
type Publisher interface {
	PublishChange(entity, kind, id string)
}

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	models.Note
	Checksum string        `json:"checksum"`
	Tasks    []models.Task `json:"tasks"`
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the change notification sink.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs overrides the identifier generator.
func WithIDs(next func() string) Option {
	return func(s *Service) { s.newID = next }
}

// Service serialises mutations: each one reads a snapshot, applies a
// reducer and persists the entities it changed.
type Service struct {
	mu     sync.Mutex
	repo   Repository
	events Publisher
	now    func() time.Time
	newID  func() string
}

// NewService creates a new service over repo.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) publish(entity, kind, id string) {
	if s.events != nil {
		s.events.PublishChange(entity, kind, id)
	}
}

// Snapshot returns the current workspace state.
func (s *Service) Snapshot(ctx context.Context) (workspace.State, error) {
	st, err := s.repo.Snapshot(ctx)
	if err != nil {
		return workspace.State{}, fmt.Errorf("noteservice: snapshot: %w", err)
	}
	return st, nil
}

// ListFolders returns all folders in creation order.
func (s *Service) ListFolders(ctx context.Context) ([]models.Folder, error) {
	st, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(st.Folders), nil
}

// CreateFolder adds a folder with the next palette color.
func (s *Service) CreateFolder(ctx context.Context, name string) (models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.Snapshot(ctx)
	if err != nil {
		return models.Folder{}, err
	}
	_, f, err := st.CreateFolder(s.newID(), s.now(), name)
	if err != nil {
		return models.Folder{}, err
	}
	if err := s.repo.SaveFolder(ctx, f); err != nil {
		return models.Folder{}, fmt.Errorf("noteservice: save folder: %w", err)
	}
	s.publish("folder", "created", f.ID)
	return f, nil
}

// DeleteFolder removes a folder; its notes and tasks stay, unfiled.
func (s *Service) DeleteFolder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	if _, err := st.DeleteFolder(id); err != nil {
		return err
	}
	if err := s.repo.DeleteFolder(ctx, id); err != nil {
		return fmt.Errorf("noteservice: delete folder: %w", err)
	}
	s.publish("folder", "deleted", id)
	return nil
}

// ListNotes returns notes newest first, restricted to folderID when it is set.
func (s *Service) ListNotes(ctx context.Context, folderID string) ([]models.Note, error) {
	st, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(st.VisibleNotes(folderID)), nil
}

// GetNote returns a note with its checksum and derived tasks.
func (s *Service) GetNote(ctx context.Context, id string) (*NoteDetail, error) {
	st, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	n, ok := st.Note(id)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return buildNoteDetail(st, n), nil
}

// CreateNote adds a note.
func (s *Service) CreateNote(ctx context.Context, in workspace.NoteInput) (*NoteDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	st, n, err := st.CreateNote(s.newID(), s.now(), in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveNote(ctx, n); err != nil {
		return nil, fmt.Errorf("noteservice: save note: %w", err)
	}
	s.publish("note", "created", n.ID)
	return buildNoteDetail(st, n), nil
}

// UpdateNote applies a patch with optimistic concurrency: a non-empty
// ifMatch must equal the note's current checksum.
func (s *Service) UpdateNote(ctx context.Context, id string, p workspace.NotePatch, ifMatch string) (*NoteDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	existing, ok := st.Note(id)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if ifMatch != "" && strings.Trim(ifMatch, `"`) != checksum.Note(existing) {
		return nil, apperr.ErrConflict
	}
	st, n, err := st.UpdateNote(id, s.now(), p)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveNote(ctx, n); err != nil {
		return nil, fmt.Errorf("noteservice: save note: %w", err)
	}
	s.publish("note", "updated", n.ID)
	return buildNoteDetail(st, n), nil
}

// DeleteNote removes a note and every task derived from it.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	_, removed, err := st.DeleteNoteCascade(id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("noteservice: delete note: %w", err)
	}
	s.publish("note", "deleted", id)
	for _, tid := range removed {
		s.publish("task", "deleted", tid)
	}
	return nil
}

// NoteTasks returns the tasks derived from a note.
func (s *Service) NoteTasks(ctx context.Context, noteID string) ([]models.Task, error) {
	st, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := st.Note(noteID); !ok {
		return nil, apperr.ErrNotFound
	}
	return nonNilSlice(tasks.OfNote(st.Tasks, noteID)), nil
}

// ListTasks returns the unified task view, restricted to seg when it is set.
func (s *Service) ListTasks(ctx context.Context, seg models.Segment) ([]tasks.Unified, error) {
	if seg != "" && !seg.Valid() {
		return nil, fmt.Errorf("%w: %q", apperr.ErrInvalidSegment, seg)
	}
	st, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	view := tasks.UnifiedView(st.Tasks, st.Notes)
	if seg != "" {
		view = tasks.FilterBySegment(view, seg)
	}
	return nonNilSlice(view), nil
}

// CreateTask adds a standalone task, or a task derived from noteID when it is set.
func (s *Service) CreateTask(ctx context.Context, noteID string, in workspace.TaskInput) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.Snapshot(ctx)
	if err != nil {
		return models.Task{}, err
	}
	var t models.Task
	if noteID == "" {
		_, t, err = st.CreateStandaloneTask(s.newID(), s.now(), in)
	} else {
		_, t, err = st.CreateDerivedTask(s.newID(), s.now(), noteID, in)
	}
	if err != nil {
		return models.Task{}, err
	}
	if err := s.repo.SaveTask(ctx, t); err != nil {
		return models.Task{}, fmt.Errorf("noteservice: save task: %w", err)
	}
	s.publish("task", "created", t.ID)
	return t, nil
}

// ToggleTask flips the done flag of a task.
func (s *Service) ToggleTask(ctx context.Context, id string) (models.Task, error) {
	return s.updateTask(ctx, id, func(st workspace.State) (workspace.State, models.Task, error) {
		return st.ToggleDone(id)
	})
}

// ResegmentTask moves a task to seg.
func (s *Service) ResegmentTask(ctx context.Context, id string, seg models.Segment) (models.Task, error) {
	return s.updateTask(ctx, id, func(st workspace.State) (workspace.State, models.Task, error) {
		return st.ReSegment(id, seg)
	})
}

func (s *Service) updateTask(ctx context.Context, id string, fn func(workspace.State) (workspace.State, models.Task, error)) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.Snapshot(ctx)
	if err != nil {
		return models.Task{}, err
	}
	_, t, err := fn(st)
	if err != nil {
		return models.Task{}, err
	}
	if err := s.repo.SaveTask(ctx, t); err != nil {
		return models.Task{}, fmt.Errorf("noteservice: save task: %w", err)
	}
	s.publish("task", "updated", id)
	return t, nil
}

// DeleteTask removes one task; its originating note is untouched.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	if _, err := st.DeleteTask(id); err != nil {
		return err
	}
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("noteservice: delete task: %w", err)
	}
	s.publish("task", "deleted", id)
	return nil
}

// Segments returns open, done and total counts for every segment in display order.
func (s *Service) Segments(ctx context.Context) ([]tasks.SegmentSummary, error) {
	st, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return tasks.Summaries(tasks.UnifiedView(st.Tasks, st.Notes)), nil
}

// OpenCount returns the number of open tasks in seg.
func (s *Service) OpenCount(ctx context.Context, seg models.Segment) (int, error) {
	st, err := s.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return tasks.CountOpenBySegment(st.Tasks, seg), nil
}

// Search ranks notes and tasks against query.
func (s *Service) Search(ctx context.Context, query string) ([]search.Result, error) {
	st, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return search.Search(query, st.Notes, st.Tasks), nil
}

func buildNoteDetail(st workspace.State, n models.Note) *NoteDetail {
	return &NoteDetail{
		Note:     n,
		Checksum: checksum.Note(n),
		Tasks:    nonNilSlice(tasks.OfNote(st.Tasks, n.ID)),
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
