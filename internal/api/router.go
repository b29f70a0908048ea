package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/noteflow/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Route("/folders", func(r chi.Router) {
		r.Get("/", h.ListFolders)
		r.Post("/", h.CreateFolder)
		r.Delete("/{id}", h.DeleteFolder)
	})

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", h.ListNotes)
		r.Post("/", h.CreateNote)
		r.Get("/{id}", h.GetNote)
		r.Put("/{id}", h.UpdateNote)
		r.Delete("/{id}", h.DeleteNote)
		r.Get("/{id}/tasks", h.NoteTasks)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)
		r.Post("/{id}/toggle", h.ToggleTask)
		r.Put("/{id}/segment", h.ResegmentTask)
		r.Delete("/{id}", h.DeleteTask)
	})

	r.Get("/segments", h.Segments)
	r.Get("/search", h.Search)

	r.Post("/outline/key", h.OutlineKey)
	r.Post("/outline/bullet", h.OutlineBullet)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
