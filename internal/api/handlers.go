package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/noteflow/internal/noteservice"
	"github.com/starford/noteflow/internal/workspace"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListFolders handles GET /api/folders.
//
//	@Summary		List folders in creation order
//	@Tags			folders
//	@Produce		json
//	@Success		200	{object}	map[string][]models.Folder
//	@Security		BearerAuth
//	@Router			/folders [get]
func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.svc.ListFolders(r.Context())
	if err != nil {
		writeError(w, "list folders", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": folders})
}

// CreateFolder handles POST /api/folders.
//
//	@Summary		Create a folder
//	@Tags			folders
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateFolderRequest	true	"Folder to create"
//	@Success		201		{object}	models.Folder
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/folders [post]
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	f, err := h.svc.CreateFolder(r.Context(), req.Name)
	if err != nil {
		writeError(w, "create folder", err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// DeleteFolder handles DELETE /api/folders/{id}. Notes and tasks in the
// folder are kept and become unfiled.
//
//	@Summary		Delete a folder
//	@Tags			folders
//	@Param			id	path	string	true	"Folder id"
//	@Success		204
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/folders/{id} [delete]
func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteFolder(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete folder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes, newest first
//	@Tags			notes
//	@Produce		json
//	@Param			folder	query		string	false	"Restrict to a folder id"
//	@Success		200		{object}	map[string][]models.Note
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListNotes(r.Context(), r.URL.Query().Get("folder"))
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a note with its checksum and derived tasks
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	NoteDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetNote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	w.Header().Set("ETag", `"`+note.Checksum+`"`)
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	NoteDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	note, err := h.svc.CreateNote(r.Context(), workspace.NoteInput{
		Subject:   req.Subject,
		Body:      req.Body,
		AISummary: req.AISummary,
		FolderID:  req.FolderID,
	})
	if err != nil {
		writeError(w, "create note", err)
		return
	}
	w.Header().Set("ETag", `"`+note.Checksum+`"`)
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /api/notes/{id}.
//
//	@Summary		Update a note with optimistic concurrency
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id			path	string				true	"Note id"
//	@Param			If-Match	header	string				false	"Checksum from a previous read"
//	@Param			body		body	UpdateNoteRequest	true	"Fields to change"
//	@Success		200		{object}	NoteDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req UpdateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	note, err := h.svc.UpdateNote(r.Context(), chi.URLParam(r, "id"), workspace.NotePatch{
		Subject:   req.Subject,
		Body:      req.Body,
		AISummary: req.AISummary,
		FolderID:  req.FolderID,
	}, r.Header.Get("If-Match"))
	if err != nil {
		writeError(w, "update note", err)
		return
	}
	w.Header().Set("ETag", `"`+note.Checksum+`"`)
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}. Tasks derived from the note
// are deleted with it.
//
//	@Summary		Delete a note and its derived tasks
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteNote(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NoteTasks handles GET /api/notes/{id}/tasks.
//
//	@Summary		Tasks derived from a note
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	map[string][]models.Task
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/tasks [get]
func (h *Handler) NoteTasks(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.NoteTasks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "note tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": list})
}
