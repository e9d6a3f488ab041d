package repo

import (
	"context"
	"database/sql"

	"zanatli/internal/domain"
)

// Photo owner kinds.
const (
	PhotoOwnerContractor = "contractor"
	PhotoOwnerJob        = "job"
)

func (r Repo) InsertPhoto(ctx context.Context, tx *sql.Tx, p domain.Photo) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO photos(id,owner_kind,owner_id,type,file_name,content_type,size,uploaded_at,data) VALUES (?,?,?,?,?,?,?,?,?)`,
		p.ID, p.OwnerKind, p.OwnerID, p.Type, p.FileName, p.ContentType, p.Size, p.UploadedAt, p.Data)
	return err
}

const photoMeta = `id,owner_kind,owner_id,type,file_name,content_type,size,uploaded_at`

// ListPhotos returns photo metadata without the blob payload.
func (r Repo) ListPhotos(ctx context.Context, ownerKind, ownerID string, photoType *int) ([]domain.Photo, error) {
	query := `SELECT ` + photoMeta + ` FROM photos WHERE owner_kind=? AND owner_id=?`
	args := []any{ownerKind, ownerID}
	if photoType != nil {
		query += ` AND type=?`
		args = append(args, *photoType)
	}
	query += ` ORDER BY uploaded_at ASC, rowid ASC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Photo
	for rows.Next() {
		var p domain.Photo
		if err := rows.Scan(&p.ID, &p.OwnerKind, &p.OwnerID, &p.Type, &p.FileName, &p.ContentType, &p.Size, &p.UploadedAt); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// GetPhoto returns a photo including its payload.
func (r Repo) GetPhoto(ctx context.Context, ownerKind, ownerID, photoID string) (domain.Photo, error) {
	var p domain.Photo
	err := r.DB.QueryRowContext(ctx, `SELECT `+photoMeta+`,data FROM photos WHERE id=? AND owner_kind=? AND owner_id=?`, photoID, ownerKind, ownerID).
		Scan(&p.ID, &p.OwnerKind, &p.OwnerID, &p.Type, &p.FileName, &p.ContentType, &p.Size, &p.UploadedAt, &p.Data)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

func (r Repo) DeletePhoto(ctx context.Context, tx *sql.Tx, ownerKind, ownerID, photoID string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM photos WHERE id=? AND owner_kind=? AND owner_id=?`, photoID, ownerKind, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
