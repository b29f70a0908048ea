package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/noteflow/internal/models"
	"github.com/starford/noteflow/internal/workspace"
)

// ListTasks handles GET /api/tasks.
//
//	@Summary		Unified task view: standalone tasks, then tasks from notes
//	@Tags			tasks
//	@Produce		json
//	@Param			segment	query		string	false	"Restrict to a segment"	Enums(today, this-week, project, waiting, someday)
//	@Success		200		{object}	TaskListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tasks [get]
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	seg := models.Segment(r.URL.Query().Get("segment"))
	view, err := h.svc.ListTasks(r.Context(), seg)
	if err != nil {
		writeError(w, "list tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, TaskListResponse{Tasks: view})
}

// CreateTask handles POST /api/tasks.
//
//	@Summary		Create a standalone task or one derived from a note
//	@Tags			tasks
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateTaskRequest	true	"Task to create"
//	@Success		201		{object}	models.Task
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tasks [post]
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	deadline, err := workspace.ParseDeadline(req.Deadline)
	if err != nil {
		writeError(w, "create task", err)
		return
	}
	task, err := h.svc.CreateTask(r.Context(), req.NoteID, workspace.TaskInput{
		Text:     req.Text,
		Segment:  req.Segment,
		FolderID: req.FolderID,
		Owner:    req.Owner,
		Deadline: deadline,
	})
	if err != nil {
		writeError(w, "create task", err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// ToggleTask handles POST /api/tasks/{id}/toggle.
//
//	@Summary		Flip a task between open and done
//	@Tags			tasks
//	@Produce		json
//	@Param			id	path		string	true	"Task id"
//	@Success		200	{object}	models.Task
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tasks/{id}/toggle [post]
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.svc.ToggleTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "toggle task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ResegmentTask handles PUT /api/tasks/{id}/segment.
//
//	@Summary		Move a task to another segment
//	@Tags			tasks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Task id"
//	@Param			body	body		SegmentRequest	true	"Target segment"
//	@Success		200		{object}	models.Task
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tasks/{id}/segment [put]
func (h *Handler) ResegmentTask(w http.ResponseWriter, r *http.Request) {
	var req SegmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	task, err := h.svc.ResegmentTask(r.Context(), chi.URLParam(r, "id"), req.Segment)
	if err != nil {
		writeError(w, "resegment task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/{id}.
//
//	@Summary		Delete a task; its note is kept
//	@Tags			tasks
//	@Param			id	path	string	true	"Task id"
//	@Success		204
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tasks/{id} [delete]
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Segments handles GET /api/segments.
//
//	@Summary		Segment catalogue with open, done and total counts
//	@Tags			tasks
//	@Produce		json
//	@Success		200	{object}	SegmentsResponse
//	@Security		BearerAuth
//	@Router			/segments [get]
func (h *Handler) Segments(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.Segments(r.Context())
	if err != nil {
		writeError(w, "segments", err)
		return
	}
	writeJSON(w, http.StatusOK, SegmentsResponse{Segments: summaries})
}

// Search handles GET /api/search. A missing or blank q yields an empty list.
//
//	@Summary		Rank notes and tasks by cosine similarity to the query
//	@Tags			search
//	@Produce		json
//	@Param			q	query		string	false	"Search query"
//	@Success		200	{object}	SearchResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
