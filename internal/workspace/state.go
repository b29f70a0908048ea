// Package workspace holds the application state of one user (folders, notes
// and tasks) and the reducers that derive a new state from an old one.
//
// Reducers never modify the receiver: every operation returns a fresh State
// whose slices may share elements with the old one but not backing arrays.
package workspace

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/noteflow/internal/apperr"
	"github.com/starford/noteflow/internal/models"
)

// FolderColors is the palette new folders cycle through.
var FolderColors = []string{"#c8a84b", "#c96b6b", "#4cabb0", "#7c6af7", "#5aab82", "#e07840"}

// DefaultNoteBody is the body of a note created without one: a single empty bullet.
const DefaultNoteBody = "• "

// State is an immutable snapshot of folders, notes and tasks.
type State struct {
	Folders []models.Folder
	Notes   []models.Note
	Tasks   []models.Task
}

// TaskInput carries the caller-supplied fields of a new task.
type TaskInput struct {
	Text     string
	Segment  models.Segment
	FolderID string
	Owner    string
	Deadline *time.Time
}

// Validate trims Text and checks it and Segment.
func (in *TaskInput) Validate() error {
	in.Text = strings.TrimSpace(in.Text)
	in.Owner = strings.TrimSpace(in.Owner)
	if err := validation.Validate(in.Text, validation.Required); err != nil {
		return fmt.Errorf("%w: text: %v", apperr.ErrValidation, err)
	}
	return validateSegment(in.Segment)
}

func validateSegment(s models.Segment) error {
	if err := validation.Validate(s, validation.Required, validation.In(models.SegmentKeys()...)); err != nil {
		return fmt.Errorf("%w: %q", apperr.ErrInvalidSegment, s)
	}
	return nil
}

// CreateStandaloneTask appends a task with no originating note.
func (s State) CreateStandaloneTask(id string, now time.Time, in TaskInput) (State, models.Task, error) {
	if err := in.Validate(); err != nil {
		return s, models.Task{}, err
	}
	t := newTask(id, now, in, models.Standalone())
	next := s.clone()
	next.Tasks = append(next.Tasks, t)
	return next, t, nil
}

// CreateDerivedTask appends an action point of noteID. The task inherits the
// note's folder unless the input names one.
func (s State) CreateDerivedTask(id string, now time.Time, noteID string, in TaskInput) (State, models.Task, error) {
	if err := in.Validate(); err != nil {
		return s, models.Task{}, err
	}
	note, ok := s.Note(noteID)
	if !ok {
		return s, models.Task{}, fmt.Errorf("%w: note %s", apperr.ErrNotFound, noteID)
	}
	if in.FolderID == "" {
		in.FolderID = note.FolderID
	}
	t := newTask(id, now, in, models.FromNote(noteID))
	next := s.clone()
	next.Tasks = append(next.Tasks, t)
	return next, t, nil
}

func newTask(id string, now time.Time, in TaskInput, origin models.Origin) models.Task {
	return models.Task{
		ID:        id,
		Text:      in.Text,
		Segment:   in.Segment,
		Origin:    origin,
		FolderID:  in.FolderID,
		Owner:     in.Owner,
		Deadline:  in.Deadline,
		CreatedAt: now,
	}
}

// ToggleDone flips the done flag of a task.
func (s State) ToggleDone(taskID string) (State, models.Task, error) {
	return s.updateTask(taskID, func(t *models.Task) error {
		t.Done = !t.Done
		return nil
	})
}

// ReSegment moves a task to another segment without touching anything else.
func (s State) ReSegment(taskID string, seg models.Segment) (State, models.Task, error) {
	if err := validateSegment(seg); err != nil {
		return s, models.Task{}, err
	}
	return s.updateTask(taskID, func(t *models.Task) error {
		t.Segment = seg
		return nil
	})
}

// DeleteTask removes a task. The owning note, if any, is left alone.
func (s State) DeleteTask(taskID string) (State, error) {
	i := s.taskIndex(taskID)
	if i < 0 {
		return s, fmt.Errorf("%w: task %s", apperr.ErrNotFound, taskID)
	}
	next := s.clone()
	next.Tasks = append(next.Tasks[:i:i], next.Tasks[i+1:]...)
	return next, nil
}

// DeleteNoteCascade removes a note and every task derived from it.
// It returns the ids of the removed tasks.
func (s State) DeleteNoteCascade(noteID string) (State, []string, error) {
	i := s.noteIndex(noteID)
	if i < 0 {
		return s, nil, fmt.Errorf("%w: note %s", apperr.ErrNotFound, noteID)
	}
	next := State{Folders: s.Folders}
	next.Notes = append(append([]models.Note{}, s.Notes[:i]...), s.Notes[i+1:]...)

	var removed []string
	next.Tasks = make([]models.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.Origin.DerivedFrom(noteID) {
			removed = append(removed, t.ID)
			continue
		}
		next.Tasks = append(next.Tasks, t)
	}
	return next, removed, nil
}

// Task looks a task up by id.
func (s State) Task(id string) (models.Task, bool) {
	if i := s.taskIndex(id); i >= 0 {
		return s.Tasks[i], true
	}
	return models.Task{}, false
}

// Note looks a note up by id.
func (s State) Note(id string) (models.Note, bool) {
	if i := s.noteIndex(id); i >= 0 {
		return s.Notes[i], true
	}
	return models.Note{}, false
}

func (s State) updateTask(id string, fn func(*models.Task) error) (State, models.Task, error) {
	i := s.taskIndex(id)
	if i < 0 {
		return s, models.Task{}, fmt.Errorf("%w: task %s", apperr.ErrNotFound, id)
	}
	next := s.clone()
	t := next.Tasks[i]
	if err := fn(&t); err != nil {
		return s, models.Task{}, err
	}
	next.Tasks[i] = t
	return next, t, nil
}

func (s State) taskIndex(id string) int {
	for i, t := range s.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s State) noteIndex(id string) int {
	for i, n := range s.Notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (s State) folderIndex(id string) int {
	for i, f := range s.Folders {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	return State{
		Folders: append([]models.Folder(nil), s.Folders...),
		Notes:   append([]models.Note(nil), s.Notes...),
		Tasks:   append([]models.Task(nil), s.Tasks...),
	}
}
