package pdffile

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/fieldline/fieldline/backend-go/internal/typeid"
)

func uploadRequest(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestUploadRequiresFileField(t *testing.T) {
	h := NewHandler(t.TempDir())

	r := uploadRequest(t, "attachment", "lease.pdf", "application/pdf", []byte("%PDF-1.7"))
	w := httptest.NewRecorder()
	h.Upload(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "missing file field") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestUploadRejectsNonPDF(t *testing.T) {
	h := NewHandler(t.TempDir())

	r := uploadRequest(t, "file", "notes.txt", "text/plain", []byte("hello"))
	w := httptest.NewRecorder()
	h.Upload(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "PDF") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestUploadRejectsCorruptPDFAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	h := NewHandler(dir)

	r := uploadRequest(t, "file", "broken.pdf", "application/pdf", []byte("not really a pdf"))
	w := httptest.NewRecorder()
	h.Upload(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("rejected upload left %d files behind", len(entries))
	}
}

func serveVia(h *Handler, docID string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/documents/{docId}", h.Serve).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+docID, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestServeRejectsMalformedID(t *testing.T) {
	h := NewHandler(t.TempDir())

	for _, id := range []string{"lease.pdf", typeid.NewProjectID(), "doc_zz"} {
		if w := serveVia(h, id); w.Code != http.StatusBadRequest {
			t.Errorf("Serve(%q) status = %d, want 400", id, w.Code)
		}
	}
}

func TestServeUnknownDocument(t *testing.T) {
	h := NewHandler(t.TempDir())

	if w := serveVia(h, typeid.NewDocumentID()); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestServeStoredDocument(t *testing.T) {
	dir := t.TempDir()
	h := NewHandler(dir)

	docID := typeid.NewDocumentID()
	content := []byte("%PDF-1.7 fake body")
	if err := os.WriteFile(filepath.Join(dir, docID+".pdf"), content, 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	w := serveVia(h, docID)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q", got)
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "immutable") {
		t.Errorf("Cache-Control = %q, want immutable (files never change after upload)", cc)
	}
	if !bytes.Equal(w.Body.Bytes(), content) {
		t.Error("served body does not match the stored file")
	}
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	h := NewHandler(dir)

	docID := typeid.NewDocumentID()
	path := filepath.Join(dir, docID+".pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.7"), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if err := h.Delete(docID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still on disk after Delete")
	}
	if err := h.Delete(docID); err == nil {
		t.Error("deleting twice must fail")
	}
}
