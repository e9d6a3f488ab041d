package repo

import (
	"context"
	"database/sql"

	"zanatli/internal/domain"
)

const jobColumns = `id,client_id,contractor_id,description,preferred_date,status,response_message,created_at,updated_at`

func (r Repo) InsertJob(ctx context.Context, tx *sql.Tx, j domain.Job) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO jobs(`+jobColumns+`) VALUES (?,?,?,?,?,?,?,?,?)`,
		j.ID, j.ClientID, j.ContractorID, j.Description, j.PreferredDate, string(j.Status),
		nullableStringPtr(j.ResponseMessage), j.CreatedAt, j.UpdatedAt)
	return err
}

func (r Repo) UpdateJobStatus(ctx context.Context, tx *sql.Tx, j domain.Job) error {
	res, err := tx.ExecContext(ctx, `UPDATE jobs SET status=?, response_message=?, updated_at=? WHERE id=?`,
		string(j.Status), nullableStringPtr(j.ResponseMessage), j.UpdatedAt, j.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteJobAttachments clears a job's messages and photos ahead of deleting
// the job row itself.
func (r Repo) DeleteJobAttachments(ctx context.Context, tx *sql.Tx, jobID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE job_id=?`, jobID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM photos WHERE owner_kind='job' AND owner_id=?`, jobID)
	return err
}

func (r Repo) DeleteJob(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanJob(scan func(dest ...any) error) (domain.Job, error) {
	var j domain.Job
	var status string
	var responseMessage sql.NullString
	err := scan(&j.ID, &j.ClientID, &j.ContractorID, &j.Description, &j.PreferredDate, &status, &responseMessage, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return j, err
	}
	j.Status = domain.JobStatus(status)
	if responseMessage.Valid {
		j.ResponseMessage = &responseMessage.String
	}
	return j, nil
}

func (r Repo) GetJob(ctx context.Context, id string) (domain.Job, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id=?`, id)
	j, err := scanJob(row.Scan)
	if err == sql.ErrNoRows {
		return j, ErrNotFound
	}
	return j, err
}

func (r Repo) listJobs(ctx context.Context, query string, args ...any) ([]domain.Job, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Job
	for rows.Next() {
		j, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, j)
	}
	return res, rows.Err()
}

// listJobsFor lists one side's jobs newest first, optionally narrowed to a
// single status. Equal timestamps fall back to insertion order via rowid.
func (r Repo) listJobsFor(ctx context.Context, column, userID string, status domain.JobStatus) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE ` + column + `=?`
	args := []any{userID}
	if status != "" {
		query += ` AND status=?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	return r.listJobs(ctx, query, args...)
}

func (r Repo) ListJobsByClient(ctx context.Context, clientID string, status domain.JobStatus) ([]domain.Job, error) {
	return r.listJobsFor(ctx, "client_id", clientID, status)
}

func (r Repo) ListJobsByContractor(ctx context.Context, contractorID string, status domain.JobStatus) ([]domain.Job, error) {
	return r.listJobsFor(ctx, "contractor_id", contractorID, status)
}

func (r Repo) CountJobsByStatus(ctx context.Context, column, userID string) (domain.JobStats, error) {
	var stats domain.JobStats
	rows, err := r.DB.QueryContext(ctx, `SELECT status, count(*) FROM jobs WHERE `+column+`=? GROUP BY status`, userID)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return stats, err
		}
		stats.TotalJobs += count
		switch domain.JobStatus(status) {
		case domain.JobPending:
			stats.PendingJobs = count
		case domain.JobAccepted:
			stats.AcceptedJobs = count
		case domain.JobDeclined:
			stats.DeclinedJobs = count
		case domain.JobCompleted:
			stats.CompletedJobs = count
		}
	}
	return stats, rows.Err()
}

// ListReviewableJobs returns a client's completed jobs that have no review
// yet, newest first, with the contractor's display name when a profile
// exists.
func (r Repo) ListReviewableJobs(ctx context.Context, clientID string) ([]domain.ReviewableJob, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT j.id, j.description, j.preferred_date, COALESCE(p.full_name, u.email)
FROM jobs j
JOIN users u ON u.id=j.contractor_id
LEFT JOIN contractor_profiles p ON p.user_id=j.contractor_id
WHERE j.client_id=? AND j.status='Completed'
  AND NOT EXISTS (SELECT 1 FROM reviews r WHERE r.job_id=j.id)
ORDER BY j.updated_at DESC, j.rowid DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.ReviewableJob
	for rows.Next() {
		var rv domain.ReviewableJob
		if err := rows.Scan(&rv.ID, &rv.Description, &rv.PreferredDate, &rv.ContractorName); err != nil {
			return nil, err
		}
		res = append(res, rv)
	}
	return res, rows.Err()
}
