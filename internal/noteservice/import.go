package noteservice

import (
	"context"
	"fmt"

	"github.com/starford/noteflow/internal/apperr"
	"github.com/starford/noteflow/internal/models"
	"github.com/starford/noteflow/internal/parser"
	"github.com/starford/noteflow/internal/workspace"
)

// ImportDocument turns a parsed inbox document into a note plus one derived
// task per open checklist item. A named folder is created when it does not
// exist yet. Tasks go to the document's segment, or defaultSegment.
// The folder, note and tasks are persisted together or not at all.
func (s *Service) ImportDocument(ctx context.Context, doc *parser.Result, defaultSegment models.Segment) (*NoteDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	fm := doc.Frontmatter

	seg := models.Segment(fm.Segment)
	if seg == "" {
		seg = defaultSegment
	}
	if !seg.Valid() {
		return nil, fmt.Errorf("%w: %q", apperr.ErrInvalidSegment, seg)
	}
	deadline, err := workspace.ParseDeadline(fm.Deadline)
	if err != nil {
		return nil, err
	}

	var newFolder *models.Folder
	folderID := ""
	if fm.Folder != "" {
		if f, ok := st.FolderByName(fm.Folder); ok {
			folderID = f.ID
		} else {
			var f models.Folder
			st, f, err = st.CreateFolder(s.newID(), now, fm.Folder)
			if err != nil {
				return nil, err
			}
			newFolder, folderID = &f, f.ID
		}
	}

	body := doc.Body
	st, note, err := st.CreateNote(s.newID(), now, workspace.NoteInput{
		Subject:   doc.Subject,
		Body:      &body,
		AISummary: fm.Summary,
		FolderID:  folderID,
	})
	if err != nil {
		return nil, err
	}

	created := make([]models.Task, 0, len(doc.ActionItems))
	for _, item := range doc.ActionItems {
		var t models.Task
		st, t, err = st.CreateDerivedTask(s.newID(), now, note.ID, workspace.TaskInput{
			Text:     item,
			Segment:  seg,
			Owner:    fm.Owner,
			Deadline: deadline,
		})
		if err != nil {
			return nil, err
		}
		created = append(created, t)
	}

	if err := s.repo.SaveImport(ctx, newFolder, note, created); err != nil {
		return nil, fmt.Errorf("noteservice: import: %w", err)
	}
	if newFolder != nil {
		s.publish("folder", "created", newFolder.ID)
	}
	s.publish("note", "created", note.ID)
	for _, t := range created {
		s.publish("task", "created", t.ID)
	}
	return buildNoteDetail(st, note), nil
}
