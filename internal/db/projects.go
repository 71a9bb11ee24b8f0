package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/melodyxpot/resumate-app/internal/types"
)

// projectDocument is the JSONB body of a profile dataset. Identity, ownership
// and timestamps live in their own columns.
type projectDocument struct {
	Header            types.Header          `json:"header"`
	Summary           string                `json:"summary"`
	Experiences       []types.Experience    `json:"experiences"`
	Educations        []types.Education     `json:"educations"`
	Skills            []string              `json:"skills"`
	ProjectPortfolios []types.PortfolioItem `json:"projectPortfolios"`
	Certifications    []string              `json:"certifications"`
	Awards            []string              `json:"awards"`
	Publications      []string              `json:"publications"`
	Languages         []string              `json:"languages"`
}

func toDocument(p *types.ProfileDataset) ([]byte, error) {
	p.Normalize()
	doc := projectDocument{
		Header:            p.Header,
		Summary:           p.Summary,
		Experiences:       p.Experiences,
		Educations:        p.Educations,
		Skills:            p.Skills,
		ProjectPortfolios: p.ProjectPortfolios,
		Certifications:    p.Certifications,
		Awards:            p.Awards,
		Publications:      p.Publications,
		Languages:         p.Languages,
	}
	return json.Marshal(doc)
}

func fromDocument(data []byte, p *types.ProfileDataset) error {
	var doc projectDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal project document: %w", err)
	}
	p.Header = doc.Header
	p.Summary = doc.Summary
	p.Experiences = doc.Experiences
	p.Educations = doc.Educations
	p.Skills = doc.Skills
	p.ProjectPortfolios = doc.ProjectPortfolios
	p.Certifications = doc.Certifications
	p.Awards = doc.Awards
	p.Publications = doc.Publications
	p.Languages = doc.Languages
	p.Normalize()
	return nil
}

const projectColumns = `id, user_id, project_name, document, created_at, updated_at`

func scanProject(row pgx.Row) (*types.ProfileDataset, error) {
	var p types.ProfileDataset
	var document []byte
	if err := row.Scan(&p.ID, &p.UserID, &p.ProjectName, &document, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := fromDocument(document, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject inserts a profile dataset and fills in its id and timestamps.
// p.UserID must be set by the caller.
func (db *DB) CreateProject(ctx context.Context, p *types.ProfileDataset) error {
	document, err := toDocument(p)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO projects (user_id, project_name, document)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		p.UserID, p.ProjectName, document,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// ListProjects returns the owner's datasets, most recently updated first
func (db *DB) ListProjects(ctx context.Context, ownerID uuid.UUID) ([]types.ProfileDataset, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+projectColumns+`
		 FROM projects WHERE user_id = $1
		 ORDER BY updated_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []types.ProfileDataset{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject retrieves one dataset. Returns nil when the id is unknown or owned by someone else.
func (db *DB) GetProject(ctx context.Context, ownerID, id uuid.UUID) (*types.ProfileDataset, error) {
	p, err := scanProject(db.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// UpdateProject replaces the stored dataset and bumps updated_at.
// Returns nil when no dataset with that id belongs to the owner.
func (db *DB) UpdateProject(ctx context.Context, ownerID, id uuid.UUID, p *types.ProfileDataset) (*types.ProfileDataset, error) {
	document, err := toDocument(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project: %w", err)
	}

	updated, err := scanProject(db.pool.QueryRow(ctx,
		`UPDATE projects SET project_name = $3, document = $4, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+projectColumns,
		id, ownerID, p.ProjectName, document,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return updated, nil
}

// DeleteProject removes a dataset. Saved resumes that reference it are kept.
func (db *DB) DeleteProject(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM projects WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
