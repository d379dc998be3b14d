package http

import (
	"io"
	"net/http"

	"autoone-backend/internal/logger"
	"autoone-backend/internal/storage"

	"github.com/gorilla/mux"
)

// FilesHandler serves stored documents (rental contracts) over HTTP.
type FilesHandler struct {
	store storage.Storage
}

func NewFilesHandler(store storage.Storage) *FilesHandler {
	return &FilesHandler{store: store}
}

// Serve handles GET /files/{key:.*}.
func (h *FilesHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	exists, err := h.store.Exists(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file key")
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	f, err := h.store.Open(r.Context(), key)
	if err != nil {
		logger.Error("Failed to open stored file", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := io.Copy(w, f); err != nil {
		logger.Error("Failed to stream stored file", "key", key, "error", err)
	}
}
