package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldline/fieldline/backend-go/internal/document"
	"github.com/fieldline/fieldline/backend-go/internal/typeid"
)

var (
	ErrNotFound  = errors.New("project not found")
	ErrForbidden = errors.New("forbidden")
	ErrNotMember = errors.New("not a project member")
)

// Project roles. The owner can delete the project and manage members; every
// member can open the editor and save layouts.
const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
)

type Service struct {
	pool *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Member struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

func (s *Service) Create(ctx context.Context, name, ownerID string) (*Project, error) {
	projectID := typeid.NewProjectID()

	var createdAt, updatedAt time.Time
	err := s.pool.QueryRow(ctx,
		`INSERT INTO projects (id, name, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		projectID, name, ownerID).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO project_members (project_id, user_id, role)
		 VALUES ($1, $2, $3)`,
		projectID, ownerID, RoleOwner)
	if err != nil {
		return nil, fmt.Errorf("add owner as member: %w", err)
	}

	// Seed an empty layout so the editor always has a document to load.
	emptyDoc := document.New("", nil)
	docJSON, err := json.Marshal(emptyDoc)
	if err != nil {
		return nil, fmt.Errorf("marshal empty document: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO document_snapshots (id, project_id, rev, data)
		 VALUES ($1, $2, 1, $3)`,
		typeid.NewSnapshotID(), projectID, docJSON)
	if err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return &Project{
		ID:        projectID,
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: formatTime(createdAt),
		UpdatedAt: formatTime(updatedAt),
	}, nil
}

func (s *Service) Get(ctx context.Context, projectID, userID string) (*Project, error) {
	if err := s.CheckMembership(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.getProject(ctx, projectID)
}

func (s *Service) List(ctx context.Context, userID string) ([]Project, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT p.id, p.name, p.owner_id, p.created_at, p.updated_at
		 FROM projects p
		 JOIN project_members m ON m.project_id = p.id
		 WHERE m.user_id = $1
		 ORDER BY p.updated_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (s *Service) Rename(ctx context.Context, projectID, userID, name string) (*Project, error) {
	if err := s.CheckMembership(ctx, projectID, userID); err != nil {
		return nil, err
	}

	_, err := s.pool.Exec(ctx,
		`UPDATE projects SET name = $2, updated_at = now() WHERE id = $1`,
		projectID, name)
	if err != nil {
		return nil, fmt.Errorf("rename project: %w", err)
	}

	return s.getProject(ctx, projectID)
}

func (s *Service) Delete(ctx context.Context, projectID, userID string) error {
	proj, err := s.getProject(ctx, projectID)
	if err != nil {
		return err
	}

	if proj.OwnerID != userID {
		return ErrForbidden
	}

	_, err = s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
	return err
}

func (s *Service) InviteByEmail(ctx context.Context, projectID, ownerID, inviteeEmail string) error {
	proj, err := s.getProject(ctx, projectID)
	if err != nil {
		return err
	}

	if proj.OwnerID != ownerID {
		return ErrForbidden
	}

	var inviteeID string
	err = s.pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`, inviteeEmail).Scan(&inviteeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.New("user not found")
		}
		return fmt.Errorf("find user: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO project_members (project_id, user_id, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (project_id, user_id) DO NOTHING`,
		projectID, inviteeID, RoleEditor)
	return err
}

func (s *Service) ListMembers(ctx context.Context, projectID, userID string) ([]Member, error) {
	if err := s.CheckMembership(ctx, projectID, userID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT m.user_id, m.role, u.display_name, u.email
		 FROM project_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.project_id = $1
		 ORDER BY m.added_at`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.Role, &m.DisplayName, &m.Email); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Service) RemoveMember(ctx context.Context, projectID, ownerID, targetUserID string) error {
	proj, err := s.getProject(ctx, projectID)
	if err != nil {
		return err
	}

	if proj.OwnerID != ownerID {
		return ErrForbidden
	}

	if targetUserID == ownerID {
		return errors.New("cannot remove project owner")
	}

	_, err = s.pool.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, targetUserID)
	return err
}

// LatestDocument returns the most recently saved layout snapshot, verbatim
// as stored.
func (s *Service) LatestDocument(ctx context.Context, projectID, userID string) (json.RawMessage, error) {
	if err := s.CheckMembership(ctx, projectID, userID); err != nil {
		return nil, err
	}

	var data json.RawMessage
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM document_snapshots
		 WHERE project_id = $1
		 ORDER BY rev DESC
		 LIMIT 1`,
		projectID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	return data, nil
}

// SaveDocument stores a validated layout as the next snapshot revision and
// returns the revision number. The caller is responsible for having run
// document.Decode/Validate; this re-marshals so storage holds normalized
// JSON regardless of request formatting.
func (s *Service) SaveDocument(ctx context.Context, projectID, userID string, doc *document.Document) (int, error) {
	if err := s.CheckMembership(ctx, projectID, userID); err != nil {
		return 0, err
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("marshal document: %w", err)
	}

	var rev int
	err = s.pool.QueryRow(ctx,
		`INSERT INTO document_snapshots (id, project_id, rev, data)
		 VALUES ($1, $2,
		         (SELECT COALESCE(MAX(rev), 0) + 1 FROM document_snapshots WHERE project_id = $2),
		         $3)
		 RETURNING rev`,
		typeid.NewSnapshotID(), projectID, docJSON).Scan(&rev)
	if err != nil {
		return 0, fmt.Errorf("create snapshot: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE projects SET updated_at = now() WHERE id = $1`, projectID)
	if err != nil {
		return 0, fmt.Errorf("touch project: %w", err)
	}

	return rev, nil
}

// CheckMembership reports ErrNotMember when the user has no role on the
// project. Exported so the WebSocket upgrade handler can gate connections.
func (s *Service) CheckMembership(ctx context.Context, projectID, userID string) error {
	var role string
	err := s.pool.QueryRow(ctx,
		`SELECT role FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotMember
		}
		return fmt.Errorf("check membership: %w", err)
	}
	return nil
}

func (s *Service) getProject(ctx context.Context, projectID string) (*Project, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, owner_id, created_at, updated_at FROM projects WHERE id = $1`,
		projectID)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	var createdAt, updatedAt time.Time
	if err := row.Scan(&p.ID, &p.Name, &p.OwnerID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.CreatedAt = formatTime(createdAt)
	p.UpdatedAt = formatTime(updatedAt)
	return &p, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
