package repo

import (
	"context"
	"database/sql"

	"zanatli/internal/domain"
)

func (r Repo) InsertReview(ctx context.Context, tx *sql.Tx, rv domain.Review) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO reviews(id,job_id,client_id,rating,comment,created_at) VALUES (?,?,?,?,?,?)`,
		rv.ID, rv.JobID, rv.ClientID, rv.Rating, nullable(rv.Comment), rv.CreatedAt)
	return err
}

const reviewColumns = `r.id,r.job_id,r.client_id,u.email,r.rating,COALESCE(r.comment,''),r.created_at`

func (r Repo) GetReviewByJob(ctx context.Context, jobID string) (domain.Review, error) {
	var rv domain.Review
	err := r.DB.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews r JOIN users u ON u.id=r.client_id WHERE r.job_id=?`, jobID).
		Scan(&rv.ID, &rv.JobID, &rv.ClientID, &rv.ClientEmail, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if err == sql.ErrNoRows {
		return rv, ErrNotFound
	}
	return rv, err
}

// ListReviewsForContractor returns reviews across all of a contractor's jobs.
func (r Repo) ListReviewsForContractor(ctx context.Context, contractorID string) ([]domain.Review, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT `+reviewColumns+`
FROM reviews r
JOIN users u ON u.id=r.client_id
JOIN jobs j ON j.id=r.job_id
WHERE j.contractor_id=?
ORDER BY r.created_at DESC, r.id DESC`, contractorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.JobID, &rv.ClientID, &rv.ClientEmail, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, rv)
	}
	return res, rows.Err()
}

// ContractorRating aggregates a contractor's average rating and review count.
func (r Repo) ContractorRating(ctx context.Context, contractorID string) (float64, int, error) {
	var avg sql.NullFloat64
	var count int
	err := r.DB.QueryRowContext(ctx, `
SELECT avg(r.rating), count(r.id)
FROM reviews r
JOIN jobs j ON j.id=r.job_id
WHERE j.contractor_id=?`, contractorID).Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, count, nil
}
