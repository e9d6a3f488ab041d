package repo

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"zanatli/internal/domain"
)

const profileColumns = `p.id,p.user_id,p.full_name,COALESCE(p.company_name,''),COALESCE(p.bio,''),p.services,p.location,p.price_level,p.created_at,p.updated_at,
COALESCE(avg(r.rating),0),count(r.id)`

const profileFrom = `FROM contractor_profiles p
LEFT JOIN jobs j ON j.contractor_id=p.user_id AND j.status='Completed'
LEFT JOIN reviews r ON r.job_id=j.id`

func (r Repo) InsertContractorProfile(ctx context.Context, tx *sql.Tx, p domain.ContractorProfile) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO contractor_profiles(id,user_id,full_name,company_name,bio,services,location,price_level,created_at,updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.UserID, p.FullName, nullable(p.CompanyName), nullable(p.Bio), p.Services, p.Location, p.PriceLevel, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r Repo) UpdateContractorProfile(ctx context.Context, tx *sql.Tx, p domain.ContractorProfile) error {
	res, err := tx.ExecContext(ctx, `UPDATE contractor_profiles SET full_name=?, company_name=?, bio=?, services=?, location=?, price_level=?, updated_at=? WHERE id=?`,
		p.FullName, nullable(p.CompanyName), nullable(p.Bio), p.Services, p.Location, p.PriceLevel, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProfileRow(scan func(dest ...any) error) (domain.ContractorProfile, error) {
	var p domain.ContractorProfile
	err := scan(&p.ID, &p.UserID, &p.FullName, &p.CompanyName, &p.Bio, &p.Services, &p.Location, &p.PriceLevel,
		&p.CreatedAt, &p.UpdatedAt, &p.Rating, &p.ReviewCount)
	return p, err
}

func (r Repo) GetContractorProfile(ctx context.Context, id string) (domain.ContractorProfile, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+profileColumns+` `+profileFrom+` WHERE p.id=? GROUP BY p.id`, id)
	p, err := scanProfileRow(row.Scan)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

func (r Repo) GetContractorProfileByUser(ctx context.Context, userID string) (domain.ContractorProfile, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+profileColumns+` `+profileFrom+` WHERE p.user_id=? GROUP BY p.id`, userID)
	p, err := scanProfileRow(row.Scan)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

// ContractorFilters narrows the public contractor listing. PriceLevels is a
// set of accepted levels; zero-valued fields are ignored.
type ContractorFilters struct {
	Search      string
	Location    string
	PriceLevels []int
	Page        int
	PageSize    int
}

func (r Repo) ListContractorProfiles(ctx context.Context, f ContractorFilters) ([]domain.ContractorProfile, int, error) {
	var clauses []string
	var args []any
	if f.Search != "" {
		needle := "%" + strings.ToLower(f.Search) + "%"
		clauses = append(clauses, `(lower(p.full_name) LIKE ? OR lower(p.services) LIKE ? OR lower(COALESCE(p.bio,'')) LIKE ?)`)
		args = append(args, needle, needle, needle)
	}
	if f.Location != "" {
		clauses = append(clauses, `lower(p.location) LIKE ?`)
		args = append(args, "%"+strings.ToLower(f.Location)+"%")
	}
	if len(f.PriceLevels) > 0 {
		placeholders := make([]string, len(f.PriceLevels))
		for i, lvl := range f.PriceLevels {
			placeholders[i] = "?"
			args = append(args, lvl)
		}
		clauses = append(clauses, `p.price_level IN (`+strings.Join(placeholders, ",")+`)`)
	}
	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	countQuery := `SELECT count(*) FROM contractor_profiles p ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + profileColumns + ` ` + profileFrom + ` ` + where + ` GROUP BY p.id ORDER BY p.created_at DESC, p.id DESC`
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += ` LIMIT ` + strconv.Itoa(f.PageSize) + ` OFFSET ` + strconv.Itoa((page-1)*f.PageSize)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var res []domain.ContractorProfile
	for rows.Next() {
		p, err := scanProfileRow(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, p)
	}
	return res, total, rows.Err()
}
