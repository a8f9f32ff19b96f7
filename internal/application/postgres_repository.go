package application

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(userID uuid.UUID, input *CreateInput) (*Application, error) {
	query := `INSERT INTO applications
			  (user_id, company_name, job_title, applied_on, job_posting_url, method, location, salary, job_platform, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id, user_id, company_name, job_title, applied_on, job_posting_url, method, location, salary, job_platform, status, created_at`

	var status sql.NullString
	if input.Status != nil {
		status = sql.NullString{String: *input.Status, Valid: true}
	}

	app := &Application{}
	var echoed sql.NullString
	err := r.db.QueryRow(query,
		userID, input.CompanyName, input.JobTitle, input.AppliedOn,
		input.JobPostingURL, input.Method, input.Location, input.Salary,
		input.JobPlatform, status,
	).Scan(
		&app.ID, &app.UserID, &app.CompanyName, &app.JobTitle, &app.AppliedOn,
		&app.JobPostingURL, &app.Method, &app.Location, &app.Salary,
		&app.JobPlatform, &echoed, &app.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert application: %w", err)
	}
	if echoed.Valid {
		s := echoed.String
		app.Status = &s
	}
	return app, nil
}

func (r *PostgresRepository) ListByUser(userID uuid.UUID, limit int) ([]Application, error) {
	query := `SELECT id, user_id, company_name, job_title, applied_on, job_posting_url, method, location, salary, job_platform, status, created_at
			  FROM applications WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.db.Query(query+` LIMIT $2`, userID, limit)
	} else {
		rows, err = r.db.Query(query, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	applications := []Application{}
	for rows.Next() {
		var app Application
		var status sql.NullString
		err := rows.Scan(
			&app.ID, &app.UserID, &app.CompanyName, &app.JobTitle, &app.AppliedOn,
			&app.JobPostingURL, &app.Method, &app.Location, &app.Salary,
			&app.JobPlatform, &status, &app.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		if status.Valid {
			s := status.String
			app.Status = &s
		}
		applications = append(applications, app)
	}

	return applications, rows.Err()
}

func (r *PostgresRepository) CountByUser(userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM applications WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}

// CountByStatus delegates the aggregation to the get_status_counts SQL
// function and normalizes its output into the canonical shape: buckets
// the function omits (no rows) are reported as zero.
func (r *PostgresRepository) CountByStatus(userID uuid.UUID) (StatusCounts, error) {
	query := `SELECT status, count FROM get_status_counts($1)`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get status counts: %w", err)
	}
	defer rows.Close()

	counts := NewStatusCounts()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		if !validStatus(status) {
			status = StatusUnknown
		}
		counts[status] += count
	}

	return counts, rows.Err()
}
