package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// AudioHandler serves generated narration files from the audio directory
type AudioHandler struct {
	dir string
}

// NewAudioHandler creates a new audio handler
func NewAudioHandler(dir string) *AudioHandler {
	return &AudioHandler{
		dir: dir,
	}
}

// Audio handles GET /audio/{filename}. The requested name is reduced to
// its base name so path traversal cannot escape the audio directory.
func (h *AudioHandler) Audio(w http.ResponseWriter, r *http.Request) {
	filename := filepath.Base(strings.TrimPrefix(r.URL.Path, "/audio/"))
	if filename == "" || filename == "." || filename == "/" {
		writeError(w, http.StatusNotFound, "Audio not found")
		return
	}

	path := filepath.Join(h.dir, filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, "Audio not found")
		return
	}

	// ServeFile keeps a preset Content-Type, so force the audio type here.
	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, path)
}
