// Package migrate applies the embedded schema revisions under sql/. File
// names carry a numeric prefix ("001_init.sql"); the current revision is
// tracked in a single-row schema_version table.
package migrate

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
)

//go:embed sql/*.sql
var schemaFS embed.FS

type revision struct {
	version int
	file    string
	stmts   string
}

// Migrate brings the database up to the latest embedded revision. All pending
// revisions apply in a single transaction, so a failed upgrade leaves the
// schema untouched.
func Migrate(db *sql.DB) error {
	revs, err := loadRevisions()
	if err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	current, err := currentVersion(tx)
	if err != nil {
		return err
	}
	for _, rev := range revs {
		if rev.version <= current {
			continue
		}
		if _, err := tx.Exec(rev.stmts); err != nil {
			return fmt.Errorf("apply %s: %w", rev.file, err)
		}
		if _, err := tx.Exec(`UPDATE schema_version SET version=?`, rev.version); err != nil {
			return fmt.Errorf("record %s: %w", rev.file, err)
		}
	}
	return tx.Commit()
}

func loadRevisions() ([]revision, error) {
	entries, err := fs.ReadDir(schemaFS, "sql")
	if err != nil {
		return nil, err
	}
	revs := make([]revision, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		prefix, _, found := strings.Cut(name, "_")
		if !found {
			return nil, fmt.Errorf("migration %s: missing version prefix", name)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", name, err)
		}
		body, err := schemaFS.ReadFile("sql/" + name)
		if err != nil {
			return nil, err
		}
		revs = append(revs, revision{version: version, file: name, stmts: string(body)})
	}
	sort.Slice(revs, func(i, j int) bool { return revs[i].version < revs[j].version })
	return revs, nil
}

// currentVersion reads the applied revision, creating and seeding the
// bookkeeping table on a fresh database.
func currentVersion(tx *sql.Tx) (int, error) {
	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS schema_version(version INTEGER NOT NULL);`); err != nil {
		return 0, fmt.Errorf("create schema_version: %w", err)
	}
	var version int
	err := tx.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if err == sql.ErrNoRows {
		if _, err := tx.Exec(`INSERT INTO schema_version(version) VALUES (0)`); err != nil {
			return 0, fmt.Errorf("seed schema_version: %w", err)
		}
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return version, nil
}
