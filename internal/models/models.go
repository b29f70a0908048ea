// Package models defines the domain types for NoteFlow.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Folder groups notes and tasks.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// Note is a free-text note whose body may hold an outline.
type Note struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	AISummary string    `json:"ai_summary,omitempty"`
	FolderID  string    `json:"folder_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Origin records where a task came from. The zero value is a standalone task.
// An Origin cannot be changed once a task is built with it.
type Origin struct {
	noteID string
}

// Standalone returns the origin of a task with no originating note.
func Standalone() Origin { return Origin{} }

// FromNote returns the origin of a task derived from the given note.
func FromNote(noteID string) Origin { return Origin{noteID: noteID} }

// NoteID returns the owning note and whether the task is derived at all.
func (o Origin) NoteID() (string, bool) {
	return o.noteID, o.noteID != ""
}

// Derived reports whether the task was created as an action point of a note.
func (o Origin) Derived() bool { return o.noteID != "" }

// DerivedFrom reports whether the task was derived from the given note.
func (o Origin) DerivedFrom(noteID string) bool {
	return o.noteID != "" && o.noteID == noteID
}

func (o Origin) String() string {
	if o.noteID == "" {
		return "standalone"
	}
	return "note:" + o.noteID
}

type originJSON struct {
	Kind   string `json:"kind"`
	NoteID string `json:"note_id,omitempty"`
}

// MarshalJSON encodes the origin as {"kind":"standalone"} or {"kind":"note","note_id":...}.
func (o Origin) MarshalJSON() ([]byte, error) {
	if o.noteID == "" {
		return json.Marshal(originJSON{Kind: "standalone"})
	}
	return json.Marshal(originJSON{Kind: "note", NoteID: o.noteID})
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (o *Origin) UnmarshalJSON(data []byte) error {
	var raw originJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case "", "standalone":
		*o = Standalone()
	case "note":
		if raw.NoteID == "" {
			return fmt.Errorf("models: note origin without note_id")
		}
		*o = FromNote(raw.NoteID)
	default:
		return fmt.Errorf("models: unknown origin kind %q", raw.Kind)
	}
	return nil
}

// Task is a unit of work filed under a segment.
type Task struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Segment   Segment    `json:"segment"`
	Done      bool       `json:"done"`
	Origin    Origin     `json:"origin"`
	FolderID  string     `json:"folder_id,omitempty"`
	Owner     string     `json:"owner,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// InSegment reports whether the task is filed under s.
func (t Task) InSegment(s Segment) bool { return t.Segment == s }

// Open reports whether the task is still to be done.
func (t Task) Open() bool { return !t.Done }
