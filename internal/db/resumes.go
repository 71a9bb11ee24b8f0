package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/melodyxpot/resumate-app/internal/types"
)

// CreateResume records a saved resume and fills in its id and creation time.
func (db *DB) CreateResume(ctx context.Context, r *types.SavedResume) error {
	jobInfo, err := json.Marshal(r.JobInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal job info: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, project_id, file_name, blob_url, job_info)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		r.UserID, r.ProjectID, r.FileName, r.BlobURL, jobInfo,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// ListResumes returns the owner's saved resumes, newest first
func (db *DB) ListResumes(ctx context.Context, ownerID uuid.UUID) ([]types.SavedResume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, project_id, file_name, blob_url, job_info, created_at
		 FROM resumes WHERE user_id = $1
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []types.SavedResume{}
	for rows.Next() {
		var r types.SavedResume
		var jobInfo []byte
		if err := rows.Scan(&r.ID, &r.UserID, &r.ProjectID, &r.FileName, &r.BlobURL, &jobInfo, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		// Older snapshots use the legacy job shape; JobPosting migrates them on decode.
		if err := json.Unmarshal(jobInfo, &r.JobInfo); err != nil {
			return nil, fmt.Errorf("failed to unmarshal job info: %w", err)
		}
		resumes = append(resumes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}
