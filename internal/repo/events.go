package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"zanatli/internal/domain"
)

// LatestEvents returns the newest events, optionally filtered by type or job.
func (r Repo) LatestEvents(ctx context.Context, limit int, evtType, jobID string) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	clauses := []string{"1=1"}
	var args []any
	if evtType != "" {
		clauses = append(clauses, "type=?")
		args = append(args, evtType)
	}
	if jobID != "" {
		clauses = append(clauses, "job_id=?")
		args = append(args, jobID)
	}
	where := "WHERE " + strings.Join(clauses, " AND ")
	query := fmt.Sprintf(`SELECT id,ts,type,job_id,actor_id,payload_json FROM events %s ORDER BY id DESC LIMIT ?`, where)
	args = append(args, limit)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var e domain.Event
		var jobID sql.NullString
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &jobID, &e.ActorID, &e.Payload); err != nil {
			return nil, err
		}
		if jobID.Valid {
			e.JobID = jobID.String
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
