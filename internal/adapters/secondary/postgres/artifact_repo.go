package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"run-registry-service/internal/core/domain"
	ports "run-registry-service/internal/core/ports/output"
)

type artifactRepo struct {
	pool *pgxpool.Pool
}

func NewArtifactRepository(pool *pgxpool.Pool) ports.ArtifactRepository {
	return &artifactRepo{pool: pool}
}

func (r *artifactRepo) CreateBatch(ctx context.Context, artifacts []*domain.Artifact) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO run_artifact
			(id, run_report_id, path, position, kind, produced, size_bytes,
			 sha256, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	for _, a := range artifacts {
		batch.Queue(query,
			a.ID, a.RunReportID, a.Path, a.Position, string(a.Kind),
			a.Produced, a.SizeBytes, a.SHA256,
			a.CreatedAt, a.UpdatedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range artifacts {
		if _, err := results.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domain.ErrArtifactPathConflict
			}
			return fmt.Errorf("create run artifacts: %w", err)
		}
	}
	return nil
}

func (r *artifactRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Artifact, error) {
	query := `
		SELECT id, run_report_id, path, position, kind, produced, size_bytes,
			   sha256, created_at, updated_at
		FROM run_artifact
		WHERE id = $1
	`
	a := &domain.Artifact{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.RunReportID, &a.Path, &a.Position, &a.Kind, &a.Produced,
		&a.SizeBytes, &a.SHA256, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get artifact by id: %w", err)
	}
	return a, nil
}

func (r *artifactRepo) ListByRun(ctx context.Context, runReportID uuid.UUID) ([]*domain.Artifact, error) {
	// position carries the report's original path sequence; the rendered
	// document must preserve it.
	query := `
		SELECT id, run_report_id, path, position, kind, produced, size_bytes,
			   sha256, created_at, updated_at
		FROM run_artifact
		WHERE run_report_id = $1
		ORDER BY position ASC
	`
	rows, err := r.pool.Query(ctx, query, runReportID)
	if err != nil {
		return nil, fmt.Errorf("list run artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []*domain.Artifact
	for rows.Next() {
		a := &domain.Artifact{}
		err := rows.Scan(
			&a.ID, &a.RunReportID, &a.Path, &a.Position, &a.Kind, &a.Produced,
			&a.SizeBytes, &a.SHA256, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan artifact row: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifact rows: %w", err)
	}
	return artifacts, nil
}

func (r *artifactRepo) MarkProduced(ctx context.Context, id uuid.UUID, sizeBytes int64, sha256 string) error {
	query := `
		UPDATE run_artifact
		SET produced = TRUE, size_bytes = $1, sha256 = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.pool.Exec(ctx, query, sizeBytes, sha256, id)
	if err != nil {
		return fmt.Errorf("mark artifact produced: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrArtifactNotFound
	}
	return nil
}

func (r *artifactRepo) CreateExternalBatch(ctx context.Context, artifacts []*domain.ExternalArtifact) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO external_artifact (id, run_report_id, name, created_at)
		VALUES ($1,$2,$3,$4)
	`
	for _, a := range artifacts {
		batch.Queue(query, a.ID, a.RunReportID, a.Name, a.CreatedAt)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range artifacts {
		if _, err := results.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domain.ErrExternalArtifactConflict
			}
			return fmt.Errorf("create external artifacts: %w", err)
		}
	}
	return nil
}

func (r *artifactRepo) ListExternalByRun(ctx context.Context, runReportID uuid.UUID) ([]*domain.ExternalArtifact, error) {
	query := `
		SELECT id, run_report_id, name, created_at
		FROM external_artifact
		WHERE run_report_id = $1
		ORDER BY created_at ASC, name ASC
	`
	rows, err := r.pool.Query(ctx, query, runReportID)
	if err != nil {
		return nil, fmt.Errorf("list external artifacts: %w", err)
	}
	defer rows.Close()

	var externals []*domain.ExternalArtifact
	for rows.Next() {
		a := &domain.ExternalArtifact{}
		if err := rows.Scan(&a.ID, &a.RunReportID, &a.Name, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan external artifact row: %w", err)
		}
		externals = append(externals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate external artifact rows: %w", err)
	}
	return externals, nil
}
