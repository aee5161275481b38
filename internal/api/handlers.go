package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/bookmark"
	"github.com/starford/raido/internal/navigator"
	"github.com/starford/raido/internal/session"
)

// Handler holds API route handlers.
type Handler struct {
	sess *session.Session
}

// NewHandler creates a new Handler.
func NewHandler(sess *session.Session) *Handler {
	return &Handler{sess: sess}
}

// filePath extracts the file path from the URL (everything after the route
// prefix). Supports encoded slashes from OpenAPI clients (e.g. %2Fsrc%2Fa.go).
func filePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	// Bookmark paths are absolute, but the wildcard swallows the leading
	// slash unless the client escaped it.
	if !strings.HasPrefix(decoded, "/") && !filepath.IsAbs(decoded) {
		decoded = "/" + decoded
	}
	return decoded
}

func (h *Handler) writeError(w http.ResponseWriter, op, path string, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidPath):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid path"))
	case errors.Is(err, apperr.ErrIndexOutOfRange):
		writeJSON(w, http.StatusBadRequest, errorBody("line out of range"))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrDuplicateLine):
		writeJSON(w, http.StatusConflict, errorBody("line already bookmarked"))
	default:
		slog.Error(op+" failed", slog.String("path", path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListFiles handles GET /api/files.
//
//	@Summary		List every file with bookmarks, in registration order
//	@Tags			bookmarks
//	@Produce		json
//	@Success		200	{object}	FilesResponse
//	@Security		BearerAuth
//	@Router			/files [get]
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files := h.sess.Files()
	total := 0
	for _, f := range files {
		total += len(f.Bookmarks)
	}
	writeJSON(w, http.StatusOK, FilesResponse{Files: files, Total: total})
}

// GetBookmarks handles GET /api/bookmarks/*.
//
//	@Summary		List one file's bookmarks in line order
//	@Tags			bookmarks
//	@Produce		json
//	@Param			path	path		string	true	"File path"
//	@Success		200		{object}	FileBookmarks
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/bookmarks/{path} [get]
func (h *Handler) GetBookmarks(w http.ResponseWriter, r *http.Request) {
	path := filePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	marks, err := h.sess.Bookmarks(path)
	if err != nil {
		h.writeError(w, "get bookmarks", path, err)
		return
	}
	writeJSON(w, http.StatusOK, FileBookmarks{Path: path, Bookmarks: marks})
}

// ToggleBookmark handles POST /api/bookmarks/*.
//
//	@Summary		Toggle a bookmark at a position
//	@Tags			bookmarks
//	@Accept			json
//	@Produce		json
//	@Param			path	path		string			true	"File path"
//	@Param			body	body		ToggleRequest	true	"Position to toggle"
//	@Success		200		{object}	ToggleResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/bookmarks/{path} [post]
func (h *Handler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	path := filePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	added, err := h.sess.Toggle(path, req.Line, req.Column, req.Label)
	if err != nil {
		h.writeError(w, "toggle bookmark", path, err)
		return
	}
	marks, err := h.sess.Bookmarks(path)
	if err != nil {
		h.writeError(w, "toggle bookmark", path, err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleResponse{Added: added, Bookmarks: marks})
}

// RelabelBookmark handles PATCH /api/bookmarks/*.
//
//	@Summary		Rename the label of an existing bookmark
//	@Tags			bookmarks
//	@Accept			json
//	@Param			path	path		string			true	"File path"
//	@Param			body	body		LabelRequest	true	"Line and new label"
//	@Success		204		"Label updated"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/bookmarks/{path} [patch]
func (h *Handler) RelabelBookmark(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	path := filePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	var req LabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.sess.SetLabel(path, req.Line, req.Label); err != nil {
		h.writeError(w, "relabel bookmark", path, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearFile handles DELETE /api/bookmarks/*.
//
//	@Summary		Remove every bookmark in one file
//	@Tags			bookmarks
//	@Produce		json
//	@Param			path	path		string	true	"File path"
//	@Success		200		{object}	ClearResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/bookmarks/{path} [delete]
func (h *Handler) ClearFile(w http.ResponseWriter, r *http.Request) {
	path := filePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	n, err := h.sess.ClearFile(path)
	if err != nil {
		h.writeError(w, "clear file", path, err)
		return
	}
	writeJSON(w, http.StatusOK, ClearResponse{Removed: n})
}

// ClearAll handles DELETE /api/bookmarks.
//
//	@Summary		Remove every bookmark in every file
//	@Tags			bookmarks
//	@Produce		json
//	@Success		200	{object}	ClearResponse
//	@Security		BearerAuth
//	@Router			/bookmarks [delete]
func (h *Handler) ClearAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ClearResponse{Removed: h.sess.ClearAll()})
}

// ApplyChange handles POST /api/changes/*.
//
//	@Summary		Apply a text-change event to a file's bookmarks
//	@Tags			changes
//	@Accept			json
//	@Produce		json
//	@Param			path	path		string					true	"File path"
//	@Param			body	body		bookmark.ChangeEvent	true	"Edits with line counts"
//	@Success		200		{object}	ChangeResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/changes/{path} [post]
func (h *Handler) ApplyChange(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	path := filePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	var ev bookmark.ChangeEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	removed, err := h.sess.ApplyChange(path, ev)
	if err != nil {
		h.writeError(w, "apply change", path, err)
		return
	}
	if removed == nil {
		removed = []bookmark.Bookmark{}
	}
	writeJSON(w, http.StatusOK, ChangeResponse{Removed: removed})
}

// ActiveEditor handles POST /api/active.
//
//	@Summary		Record the newly focused editor file
//	@Tags			session
//	@Accept			json
//	@Param			body	body	ActiveRequest	true	"Focused file"
//	@Success		204		"Active file recorded"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/active [post]
func (h *Handler) ActiveEditor(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.sess.ActiveEditorChanged(req.Path); err != nil {
		h.writeError(w, "active editor", req.Path, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Navigate handles POST /api/navigate.
//
//	@Summary		Find the next or previous bookmark from a position
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		NavigateRequest	true	"Origin position and direction"
//	@Success		200		{object}	NavigateResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/navigate [post]
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	dir, ok := navigator.ParseDirection(req.Direction)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("direction must be forward or backward"))
		return
	}
	target, sentinel := h.sess.Navigate(req.Path, req.Line, req.Column, dir)
	resp := NavigateResponse{Outcome: sentinel.String()}
	if sentinel == navigator.None {
		b := target.Bookmark
		resp.Path = target.Path
		resp.Bookmark = &b
	}
	writeJSON(w, http.StatusOK, resp)
}
