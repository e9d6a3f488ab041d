package repo

import (
	"context"
	"database/sql"

	"zanatli/internal/domain"
)

func (r Repo) InsertMessage(ctx context.Context, tx *sql.Tx, m domain.Message) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO messages(id,job_id,sender_id,text,created_at) VALUES (?,?,?,?,?)`,
		m.ID, m.JobID, m.SenderID, m.Text, m.CreatedAt)
	return err
}

// ListMessages returns a job's messages oldest first, the order a chat view
// renders them in. The rowid tie-break keeps messages with equal timestamps
// in insertion order.
func (r Repo) ListMessages(ctx context.Context, jobID string) ([]domain.Message, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT m.id, m.job_id, m.sender_id, u.email, m.text, m.created_at
FROM messages m
JOIN users u ON u.id=m.sender_id
WHERE m.job_id=?
ORDER BY m.created_at ASC, m.rowid ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.JobID, &m.SenderID, &m.SenderEmail, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r Repo) GetMessage(ctx context.Context, id string) (domain.Message, error) {
	var m domain.Message
	err := r.DB.QueryRowContext(ctx, `
SELECT m.id, m.job_id, m.sender_id, u.email, m.text, m.created_at
FROM messages m JOIN users u ON u.id=m.sender_id WHERE m.id=?`, id).
		Scan(&m.ID, &m.JobID, &m.SenderID, &m.SenderEmail, &m.Text, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return m, ErrNotFound
	}
	return m, err
}
