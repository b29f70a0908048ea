package api

import (
	"net/http"

	"github.com/starford/noteflow/internal/outline"
)

// OutlineKey handles POST /api/outline/key.
//
//	@Summary		Apply Tab, Shift+Tab or Enter to an outline buffer
//	@Tags			outline
//	@Accept			json
//	@Produce		json
//	@Param			body	body		OutlineKeyRequest	true	"Buffer and key intent"
//	@Success		200		{object}	OutlineResponse
//	@Failure		400		{object}	errResponse
//	@Router			/outline/key [post]
func (h *Handler) OutlineKey(w http.ResponseWriter, r *http.Request) {
	var req OutlineKeyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	intent, err := outline.ParseIntent(req.Intent)
	if err != nil {
		writeError(w, "outline key", err)
		return
	}
	out, err := outline.Buffer{Text: req.Text, Cursor: req.Cursor}.Apply(intent)
	if err != nil {
		writeError(w, "outline key", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// OutlineBullet handles POST /api/outline/bullet.
//
//	@Summary		Insert a bullet line at level 1 (top) to 3
//	@Tags			outline
//	@Accept			json
//	@Produce		json
//	@Param			body	body		OutlineBulletRequest	true	"Buffer and level"
//	@Success		200		{object}	OutlineResponse
//	@Failure		400		{object}	errResponse
//	@Router			/outline/bullet [post]
func (h *Handler) OutlineBullet(w http.ResponseWriter, r *http.Request) {
	var req OutlineBulletRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := outline.Buffer{Text: req.Text, Cursor: req.Cursor}.InsertBullet(req.Level)
	if err != nil {
		writeError(w, "outline bullet", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
