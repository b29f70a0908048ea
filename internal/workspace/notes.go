package workspace

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/noteflow/internal/apperr"
	"github.com/starford/noteflow/internal/models"
)

// NoteInput carries the fields of a new note.
type NoteInput struct {
	Subject   string
	Body      *string
	AISummary string
	FolderID  string
}

// NotePatch is a field-level update; nil fields are left unchanged.
// An empty FolderID detaches the note from its folder.
type NotePatch struct {
	Subject   *string
	Body      *string
	AISummary *string
	FolderID  *string
}

// CreateNote prepends a note, so the newest note comes first.
func (s State) CreateNote(id string, now time.Time, in NoteInput) (State, models.Note, error) {
	if err := s.checkFolder(in.FolderID); err != nil {
		return s, models.Note{}, err
	}
	body := DefaultNoteBody
	if in.Body != nil {
		body = *in.Body
	}
	n := models.Note{
		ID:        id,
		Subject:   in.Subject,
		Body:      body,
		AISummary: in.AISummary,
		FolderID:  in.FolderID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	next := s.clone()
	next.Notes = append([]models.Note{n}, next.Notes...)
	return next, n, nil
}

// UpdateNote applies a patch to a note.
func (s State) UpdateNote(id string, now time.Time, p NotePatch) (State, models.Note, error) {
	i := s.noteIndex(id)
	if i < 0 {
		return s, models.Note{}, fmt.Errorf("%w: note %s", apperr.ErrNotFound, id)
	}
	if p.FolderID != nil {
		if err := s.checkFolder(*p.FolderID); err != nil {
			return s, models.Note{}, err
		}
	}
	next := s.clone()
	n := next.Notes[i]
	if p.Subject != nil {
		n.Subject = *p.Subject
	}
	if p.Body != nil {
		n.Body = *p.Body
	}
	if p.AISummary != nil {
		n.AISummary = *p.AISummary
	}
	if p.FolderID != nil {
		n.FolderID = *p.FolderID
	}
	n.UpdatedAt = now
	next.Notes[i] = n
	return next, n, nil
}

// VisibleNotes returns the notes of folderID, or every note when it is empty.
func (s State) VisibleNotes(folderID string) []models.Note {
	if folderID == "" {
		return append([]models.Note(nil), s.Notes...)
	}
	var out []models.Note
	for _, n := range s.Notes {
		if n.FolderID == folderID {
			out = append(out, n)
		}
	}
	return out
}

// CreateFolder appends a folder, picking its color from FolderColors.
func (s State) CreateFolder(id string, now time.Time, name string) (State, models.Folder, error) {
	name = strings.TrimSpace(name)
	if err := validation.Validate(name, validation.Required, validation.RuneLength(1, 100)); err != nil {
		return s, models.Folder{}, fmt.Errorf("%w: name: %v", apperr.ErrValidation, err)
	}
	f := models.Folder{
		ID:        id,
		Name:      name,
		Color:     FolderColors[len(s.Folders)%len(FolderColors)],
		CreatedAt: now,
	}
	next := s.clone()
	next.Folders = append(next.Folders, f)
	return next, f, nil
}

// DeleteFolder removes a folder and clears the folder reference of every
// note and task that pointed at it. Nothing else is deleted.
func (s State) DeleteFolder(id string) (State, error) {
	i := s.folderIndex(id)
	if i < 0 {
		return s, fmt.Errorf("%w: folder %s", apperr.ErrNotFound, id)
	}
	next := s.clone()
	next.Folders = append(next.Folders[:i:i], next.Folders[i+1:]...)
	for j := range next.Notes {
		if next.Notes[j].FolderID == id {
			next.Notes[j].FolderID = ""
		}
	}
	for j := range next.Tasks {
		if next.Tasks[j].FolderID == id {
			next.Tasks[j].FolderID = ""
		}
	}
	return next, nil
}

// FolderByName finds a folder by case-insensitive name.
func (s State) FolderByName(name string) (models.Folder, bool) {
	for _, f := range s.Folders {
		if strings.EqualFold(f.Name, strings.TrimSpace(name)) {
			return f, true
		}
	}
	return models.Folder{}, false
}

func (s State) checkFolder(id string) error {
	if id == "" || s.folderIndex(id) >= 0 {
		return nil
	}
	return fmt.Errorf("%w: folder %s", apperr.ErrNotFound, id)
}
