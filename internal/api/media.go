package api

import (
	"context"
	"io"
	"net/http"

	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/media"
)

// imageUploader is the media host as seen by the upload endpoints.
type imageUploader interface {
	Upload(ctx context.Context, folder media.Folder, r io.Reader) (string, error)
}

// MediaHandler handles item and proof photo uploads.
type MediaHandler struct {
	// Uploads is nil when no media host is configured.
	Uploads imageUploader
}

// UploadProof handles POST /api/media/proofs. The multipart field is "image".
func (h *MediaHandler) UploadProof(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, media.FolderProofs)
}

// UploadItemImage handles POST /api/media/items. The multipart field is "image".
func (h *MediaHandler) UploadItemImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, media.FolderItems)
}

func (h *MediaHandler) upload(w http.ResponseWriter, r *http.Request, folder media.Folder) {
	if h.Uploads == nil {
		jsonError(w, http.StatusServiceUnavailable, "media_unavailable", "image uploads are not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid_input", "file too large or invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid_input", "image file required")
		return
	}
	defer file.Close()

	url, err := h.Uploads.Upload(r.Context(), folder, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, map[string]string{"url": url})
}
