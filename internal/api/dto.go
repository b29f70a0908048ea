package api

import (
	"github.com/starford/noteflow/internal/models"
	"github.com/starford/noteflow/internal/noteservice"
	"github.com/starford/noteflow/internal/outline"
	"github.com/starford/noteflow/internal/search"
	"github.com/starford/noteflow/internal/tasks"
)

// CreateFolderRequest is the request body for creating a folder.
type CreateFolderRequest struct {
	Name string `json:"name" example:"Work" validate:"required"`
}

// CreateNoteRequest is the request body for creating a note. A missing body
// gives the note a single empty bullet.
type CreateNoteRequest struct {
	Subject   string  `json:"subject" example:"Standup"`
	Body      *string `json:"body,omitempty" example:"• agenda"`
	AISummary string  `json:"ai_summary,omitempty"`
	FolderID  string  `json:"folder_id,omitempty"`
}

// UpdateNoteRequest is a partial update; absent fields are left unchanged.
type UpdateNoteRequest struct {
	Subject   *string `json:"subject,omitempty"`
	Body      *string `json:"body,omitempty"`
	AISummary *string `json:"ai_summary,omitempty"`
	FolderID  *string `json:"folder_id,omitempty"`
}

// CreateTaskRequest creates a standalone task, or a derived one when NoteID is set.
type CreateTaskRequest struct {
	Text     string         `json:"text" example:"Book room" validate:"required"`
	Segment  models.Segment `json:"segment" example:"today" validate:"required"`
	NoteID   string         `json:"note_id,omitempty"`
	FolderID string         `json:"folder_id,omitempty"`
	Owner    string         `json:"owner,omitempty"`
	Deadline string         `json:"deadline,omitempty" example:"2026-10-20"`
}

// SegmentRequest moves a task to another segment.
type SegmentRequest struct {
	Segment models.Segment `json:"segment" example:"waiting" validate:"required"`
}

// OutlineKeyRequest applies one key intent to an outline buffer.
type OutlineKeyRequest struct {
	Text   string `json:"text"`
	Cursor int    `json:"cursor"`
	Intent string `json:"intent" example:"indent" validate:"required"`
}

// OutlineBulletRequest inserts a bullet at the given nesting level.
type OutlineBulletRequest struct {
	Text   string `json:"text"`
	Cursor int    `json:"cursor"`
	Level  int    `json:"level" example:"2" validate:"required"`
}

// OutlineResponse is the buffer after an edit.
type OutlineResponse = outline.Buffer

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// TaskListResponse wraps the unified task view.
type TaskListResponse struct {
	Tasks []tasks.Unified `json:"tasks" validate:"required"`
}

// SegmentsResponse wraps the segment catalogue.
type SegmentsResponse struct {
	Segments []tasks.SegmentSummary `json:"segments" validate:"required"`
}

// SearchResponse wraps ranked search results.
type SearchResponse struct {
	Results []search.Result `json:"results" validate:"required"`
}
