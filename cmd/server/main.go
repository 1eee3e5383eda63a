package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fieldline/fieldline/backend-go/internal/auth"
	"github.com/fieldline/fieldline/backend-go/internal/config"
	"github.com/fieldline/fieldline/backend-go/internal/db"
	"github.com/fieldline/fieldline/backend-go/internal/export"
	mw "github.com/fieldline/fieldline/backend-go/internal/middleware"
	"github.com/fieldline/fieldline/backend-go/internal/notify"
	"github.com/fieldline/fieldline/backend-go/internal/pdffile"
	"github.com/fieldline/fieldline/backend-go/internal/project"
	"github.com/fieldline/fieldline/backend-go/internal/typeid"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	authService := auth.NewService(pool, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	hub := notify.NewHub()
	go hub.Run(ctx)

	projectService := project.NewService(pool)
	projectHandler := project.NewHandler(projectService, hub)

	pdfHandler := pdffile.NewHandler(cfg.DocumentDir)
	exportHandler := export.NewHandler(projectService)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	// Auth routes (public)
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// WebSocket event stream. Registered ahead of the /api subrouter so the
	// events path matches here; auth happens inside the handler because
	// browsers cannot set headers on WebSocket dials.
	r.HandleFunc("/api/projects/{projectId}/events", func(w http.ResponseWriter, r *http.Request) {
		handleEvents(w, r, hub, authService, projectService, cfg.AllowedOrigins)
	})

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	api.HandleFunc("/projects", projectHandler.List).Methods("GET")
	api.HandleFunc("/projects", projectHandler.Create).Methods("POST")
	api.HandleFunc("/projects/{projectId}", projectHandler.Get).Methods("GET")
	api.HandleFunc("/projects/{projectId}", projectHandler.Rename).Methods("PATCH")
	api.HandleFunc("/projects/{projectId}", projectHandler.Delete).Methods("DELETE")
	api.HandleFunc("/projects/{projectId}/invite", projectHandler.Invite).Methods("POST")
	api.HandleFunc("/projects/{projectId}/members", projectHandler.ListMembers).Methods("GET")
	api.HandleFunc("/projects/{projectId}/members/{userId}", projectHandler.RemoveMember).Methods("DELETE")
	api.HandleFunc("/projects/{projectId}/document", projectHandler.GetDocument).Methods("GET")
	api.HandleFunc("/projects/{projectId}/document", projectHandler.PutDocument).Methods("PUT")
	api.HandleFunc("/projects/{projectId}/export/schema", exportHandler.ExportSchema).Methods("GET")

	api.HandleFunc("/documents", pdfHandler.Upload).Methods("POST")
	api.HandleFunc("/documents/{docId}", pdfHandler.Serve).Methods("GET")

	// Editor SPA. Last so every API route wins first.
	r.PathPrefix("/").Handler(spaHandler{staticDir: cfg.StaticDir})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
		cancel()
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleEvents(w http.ResponseWriter, r *http.Request, hub *notify.Hub, authSvc *auth.Service, projects *project.Service, allowedOrigins string) {
	vars := mux.Vars(r)
	projectID := vars["projectId"]

	token := auth.TokenFromRequest(r)
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	userID, err := authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if err := projects.CheckMembership(r.Context(), projectID, userID); err != nil {
		http.Error(w, "not a project member", http.StatusForbidden)
		return
	}

	user, err := authSvc.GetUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "user not found", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(allowedOrigins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	sessionID := typeid.NewSessionID()
	client := notify.NewClient(hub, conn, projectID, userID, user.DisplayName, clientID, sessionID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// originPatterns converts configured origins ("http://localhost:5173") into
// the host patterns websocket.Accept expects ("localhost:5173").
func originPatterns(allowedOrigins string) []string {
	var patterns []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		} else {
			patterns = append(patterns, o)
		}
	}
	return patterns
}

// spaHandler serves the built editor frontend, falling back to index.html
// for client-side routes.
type spaHandler struct {
	staticDir string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := filepath.Join(h.staticDir, filepath.Clean("/"+r.URL.Path))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		http.ServeFile(w, r, filepath.Join(h.staticDir, "index.html"))
		return
	}
	http.ServeFile(w, r, path)
}
