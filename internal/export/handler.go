package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/fieldline/fieldline/backend-go/internal/auth"
	"github.com/fieldline/fieldline/backend-go/internal/document"
	"github.com/fieldline/fieldline/backend-go/internal/project"
)

type Handler struct {
	projects *project.Service
}

func NewHandler(projects *project.Service) *Handler {
	return &Handler{projects: projects}
}

// ExportSchema handles GET /api/projects/{projectId}/export/schema,
// returning the latest saved layout as a downloadable field schema.
func (h *Handler) ExportSchema(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	projectID := mux.Vars(r)["projectId"]

	proj, err := h.projects.Get(r.Context(), projectID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	raw, err := h.projects.LatestDocument(r.Context(), projectID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	doc, err := document.Decode(bytes.NewReader(raw))
	if err != nil {
		slog.Error("stored layout failed to decode", "project", projectID, "error", err)
		http.Error(w, "stored layout is corrupt", http.StatusInternalServerError)
		return
	}

	schema := BuildSchema(doc)

	name := sanitizeFilename(proj.Name)
	if name == "" {
		name = "layout"
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-schema.json"`, name))
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(schema); err != nil {
		slog.Error("encode schema", "project", projectID, "error", err)
	}

	slog.Info("schema exported", "project", projectID, "fields", len(schema.Fields))
}

// sanitizeFilename keeps the project name usable as a download filename.
func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, project.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, project.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, project.ErrNotMember):
		http.Error(w, "not a project member", http.StatusForbidden)
	default:
		slog.Error("export failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
