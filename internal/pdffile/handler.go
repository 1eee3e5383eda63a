// Package pdffile stores uploaded source PDFs and reports their page
// geometry. The browser rasterizes pages itself; the server only needs the
// document-space page sizes so saved layouts can be validated and projected.
package pdffile

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/fieldline/fieldline/backend-go/internal/document"
	"github.com/fieldline/fieldline/backend-go/internal/typeid"
)

const maxUploadSize = 50 << 20 // 50MB

// UploadResponse is returned from the upload endpoint. The frontend folds
// the id and page geometry into the project document before its first save.
type UploadResponse struct {
	ID        string                  `json:"id"`
	URL       string                  `json:"url"`
	PageCount int                     `json:"pageCount"`
	Pages     []document.PageGeometry `json:"pages"`
	Name      string                  `json:"name"`
}

// Handler serves PDF upload and retrieval endpoints.
type Handler struct {
	dir string // directory to store uploaded PDFs
}

// NewHandler creates a handler that stores files in dir.
func NewHandler(dir string) *Handler {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create document dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir}
}

// Upload handles POST /api/documents/upload (multipart form, "file" field).
// The file is validated as a PDF and its per-page MediaBox geometry read
// before it is accepted.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large (max 50MB)", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/pdf") {
		http.Error(w, "only PDF documents are supported", http.StatusBadRequest)
		return
	}

	docID := typeid.NewDocumentID()
	filePath := filepath.Join(h.dir, docID+".pdf")

	if err := copyFile(filePath, file); err != nil {
		slog.Error("save document file", "error", err)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}

	ctx, err := api.ReadContextFile(filePath)
	if err == nil {
		err = api.ValidateContext(ctx)
	}
	if err != nil {
		os.Remove(filePath)
		http.Error(w, "invalid PDF: "+err.Error(), http.StatusBadRequest)
		return
	}

	pages, err := readPageGeometry(ctx)
	if err != nil {
		os.Remove(filePath)
		slog.Error("read page geometry", "error", err)
		http.Error(w, "failed to read page geometry", http.StatusInternalServerError)
		return
	}

	resp := UploadResponse{
		ID:        docID,
		URL:       fmt.Sprintf("/api/documents/%s", docID),
		PageCount: len(pages),
		Pages:     pages,
		Name:      header.Filename,
	}

	slog.Info("document uploaded", "id", docID, "pages", len(pages), "name", header.Filename)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Serve handles GET /api/documents/{docId}, streaming the stored PDF for the
// browser-side page rasterizer. Document ids are unique and files never
// change after upload, so responses are immutable.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	docID := mux.Vars(r)["docId"]
	if err := typeid.Validate(docID, typeid.PrefixDocument); err != nil {
		http.Error(w, "invalid document id", http.StatusBadRequest)
		return
	}

	filePath := filepath.Join(h.dir, docID+".pdf")
	if _, err := os.Stat(filePath); err != nil {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeFile(w, r, filePath)
}

// Delete removes a stored PDF from disk (for cleanup).
func (h *Handler) Delete(docID string) error {
	path := filepath.Join(h.dir, docID+".pdf")
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("document not found: %s", docID)
	}
	return nil
}

// readPageGeometry extracts the MediaBox size of every page, in document
// units. Pages without an inherited MediaBox fall back to US Letter.
func readPageGeometry(ctx *model.Context) ([]document.PageGeometry, error) {
	pages := make([]document.PageGeometry, 0, ctx.PageCount)
	for i := 1; i <= ctx.PageCount; i++ {
		_, _, attrs, err := ctx.PageDict(i, false)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}

		width, height := 612.0, 792.0
		if attrs != nil && attrs.MediaBox != nil {
			width = attrs.MediaBox.Width()
			height = attrs.MediaBox.Height()
		}
		pages = append(pages, document.PageGeometry{Width: width, Height: height})
	}
	return pages, nil
}

// copyFile copies src reader to a file at dst path.
func copyFile(dst string, src io.Reader) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, src)
	return err
}
