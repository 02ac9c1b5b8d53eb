package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"run-registry-service/internal/core/domain"
	ports "run-registry-service/internal/core/ports/output"
)

type runReportRepo struct {
	pool *pgxpool.Pool
}

func NewRunReportRepository(pool *pgxpool.Pool) ports.RunReportRepository {
	return &runReportRepo{pool: pool}
}

var runReportSortColumns = map[string]bool{
	"created_at":   true,
	"run_id":       true,
	"workflow":     true,
	"status":       true,
	"started_at":   true,
	"completed_at": true,
}

func (r *runReportRepo) Create(ctx context.Context, report *domain.RunReport) error {
	query := `
		INSERT INTO run_report
			(id, created_at, updated_at, run_id, workflow, status, trigger,
			 branch, commit_sha, started_at, completed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	_, err := r.pool.Exec(ctx, query,
		report.ID, report.CreatedAt, report.UpdatedAt,
		report.RunID, report.Workflow,
		string(report.Status), string(report.Trigger),
		report.Branch, report.CommitSHA,
		report.StartedAt, report.CompletedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrRunIDConflict
		}
		return fmt.Errorf("create run report: %w", err)
	}
	return nil
}

func (r *runReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.RunReport, error) {
	query := `
		SELECT id, created_at, updated_at, run_id, workflow, status, trigger,
			   branch, commit_sha, started_at, completed_at
		FROM run_report
		WHERE id = $1
	`
	report, err := scanRunReport(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunReportNotFound
		}
		return nil, fmt.Errorf("get run report by id: %w", err)
	}
	return report, nil
}

func (r *runReportRepo) GetByRunID(ctx context.Context, runID string) (*domain.RunReport, error) {
	query := `
		SELECT id, created_at, updated_at, run_id, workflow, status, trigger,
			   branch, commit_sha, started_at, completed_at
		FROM run_report
		WHERE run_id = $1
	`
	report, err := scanRunReport(r.pool.QueryRow(ctx, query, runID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunReportNotFound
		}
		return nil, fmt.Errorf("get run report by run id: %w", err)
	}
	return report, nil
}

func (r *runReportRepo) Complete(ctx context.Context, id uuid.UUID, status domain.RunStatus, completedAt time.Time) error {
	// The status guard keeps terminal reports immutable even under
	// concurrent completion attempts.
	query := `
		UPDATE run_report
		SET status = $1, completed_at = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`
	result, err := r.pool.Exec(ctx, query,
		string(status), completedAt, id, string(domain.RunStatusInProgress),
	)
	if err != nil {
		return fmt.Errorf("complete run report: %w", err)
	}
	if result.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrReportImmutable
	}
	return nil
}

func (r *runReportRepo) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.RunReport, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}
	if filter.Trigger != "" {
		conditions = append(conditions, fmt.Sprintf("trigger = $%d", argPos))
		args = append(args, filter.Trigger)
		argPos++
	}
	if filter.Branch != "" {
		conditions = append(conditions, fmt.Sprintf("branch = $%d", argPos))
		args = append(args, filter.Branch)
		argPos++
	}
	if filter.Workflow != "" {
		conditions = append(conditions, fmt.Sprintf("workflow = $%d", argPos))
		args = append(args, filter.Workflow)
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM run_report WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count run reports: %w", err)
	}

	orderBy := "created_at DESC"
	if filter.SortBy != "" && runReportSortColumns[filter.SortBy] {
		dir := "DESC"
		if filter.Order == "asc" {
			dir = "ASC"
		}
		orderBy = fmt.Sprintf("%s %s", filter.SortBy, dir)
	}

	query := fmt.Sprintf(`
		SELECT id, created_at, updated_at, run_id, workflow, status, trigger,
			   branch, commit_sha, started_at, completed_at
		FROM run_report
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderBy, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list run reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.RunReport
	for rows.Next() {
		report, err := scanRunReportFromRows(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan run report row: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate run report rows: %w", err)
	}

	return reports, total, nil
}

func scanRunReport(row pgx.Row) (*domain.RunReport, error) {
	report := &domain.RunReport{}
	err := row.Scan(
		&report.ID, &report.CreatedAt, &report.UpdatedAt,
		&report.RunID, &report.Workflow, &report.Status, &report.Trigger,
		&report.Branch, &report.CommitSHA,
		&report.StartedAt, &report.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func scanRunReportFromRows(rows pgx.Rows) (*domain.RunReport, error) {
	report := &domain.RunReport{}
	err := rows.Scan(
		&report.ID, &report.CreatedAt, &report.UpdatedAt,
		&report.RunID, &report.Workflow, &report.Status, &report.Trigger,
		&report.Branch, &report.CommitSHA,
		&report.StartedAt, &report.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return report, nil
}
