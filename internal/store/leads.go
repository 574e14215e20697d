package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadgen-engine/internal/domain"
)

// Fixed-width UTC layout so that scraped_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// sqlite caps bound parameters per statement.
const lookupChunk = 500

const leadColumns = `id, company_name, website, industry, location, employee_count,
  contact_email, contact_phone, source, scraped_at, score, scored_at`

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// rows written by hand or by older builds
		t, err = time.Parse(time.RFC3339Nano, s)
	}
	return t.UTC(), err
}

// FindByCompanyNames returns the subset of names that already exist in the store.
func (d *DB) FindByCompanyNames(ctx context.Context, names []string) (map[string]struct{}, error) {
	found := make(map[string]struct{}, len(names))
	for start := 0; start < len(names); start += lookupChunk {
		end := min(start+lookupChunk, len(names))
		chunk := names[start:end]

		args := make([]any, len(chunk))
		for i, n := range chunk {
			args[i] = n
		}
		q := `SELECT company_name FROM leads WHERE company_name IN (` +
			strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",") + `);`

		rows, err := d.Pool.QueryContext(ctx, q, args...)
		if err != nil {
			return nil, &PersistenceError{Op: "find by company name", Err: err}
		}
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				rows.Close()
				return nil, &PersistenceError{Op: "find by company name", Err: err}
			}
			found[name] = struct{}{}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, &PersistenceError{Op: "find by company name", Err: err}
		}
	}
	return found, nil
}

// InsertMany inserts leads in one transaction. Rows whose company name already
// exists are skipped, so the returned count may be lower than len(leads).
func (d *DB) InsertMany(ctx context.Context, leads []domain.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, &PersistenceError{Op: "insert", Attempted: len(leads), Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR IGNORE INTO leads (`+leadColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return 0, &PersistenceError{Op: "insert", Attempted: len(leads), Err: err}
	}
	defer stmt.Close()

	inserted := 0
	for _, l := range leads {
		res, err := stmt.ExecContext(ctx,
			l.ID, l.CompanyName, l.Website, l.Industry, l.Location, nullInt(l.EmployeeCount),
			l.ContactEmail, l.ContactPhone, l.Source, formatTime(l.ScrapedAt),
			nullInt(l.Score), nullTime(l.ScoredAt),
		)
		if err != nil {
			return 0, &PersistenceError{Op: "insert", Attempted: len(leads), Err: fmt.Errorf("lead %q: %w", l.CompanyName, err)}
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &PersistenceError{Op: "insert", Attempted: len(leads), Err: err}
	}
	return inserted, nil
}

// FindUnscored returns leads without a score, oldest first.
func (d *DB) FindUnscored(ctx context.Context) ([]domain.Lead, error) {
	return d.query(ctx, "find unscored", `
SELECT `+leadColumns+`
FROM leads
WHERE score IS NULL
ORDER BY scraped_at ASC, id ASC;`)
}

// UpdateScore sets score and scoredAt on an unscored lead. A lead that is
// already scored is left untouched and reported with updated=false.
func (d *DB) UpdateScore(ctx context.Context, id string, score int, scoredAt time.Time) (bool, error) {
	res, err := d.Pool.ExecContext(ctx, `
UPDATE leads
SET score = ?, scored_at = ?
WHERE id = ? AND score IS NULL;`, score, formatTime(scoredAt), id)
	if err != nil {
		return false, &PersistenceError{Op: "update score", Attempted: 1, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, &PersistenceError{Op: "update score", Attempted: 1, Err: err}
	}
	return n > 0, nil
}

// AllLeads projects every lead for aggregation.
func (d *DB) AllLeads(ctx context.Context) ([]domain.Lead, error) {
	return d.query(ctx, "all leads", `
SELECT `+leadColumns+`
FROM leads
ORDER BY scraped_at ASC, id ASC;`)
}

// ListLeads returns the newest leads first. limit <= 0 means no limit.
func (d *DB) ListLeads(ctx context.Context, limit int) ([]domain.Lead, error) {
	if limit <= 0 {
		limit = -1
	}
	return d.query(ctx, "list leads", `
SELECT `+leadColumns+`
FROM leads
ORDER BY scraped_at DESC, id DESC
LIMIT ?;`, limit)
}

// GetLead returns the lead with id, or ok=false.
func (d *DB) GetLead(ctx context.Context, id string) (domain.Lead, bool, error) {
	out, err := d.query(ctx, "get lead", `
SELECT `+leadColumns+`
FROM leads
WHERE id = ?;`, id)
	if err != nil || len(out) == 0 {
		return domain.Lead{}, false, err
	}
	return out[0], true, nil
}

// CountLeads returns the number of stored leads and how many are scored.
func (d *DB) CountLeads(ctx context.Context) (total, scored int, err error) {
	err = d.Pool.QueryRowContext(ctx, `
SELECT COUNT(*), COUNT(score) FROM leads;`).Scan(&total, &scored)
	if err != nil {
		return 0, 0, &PersistenceError{Op: "count", Err: err}
	}
	return total, scored, nil
}

func (d *DB) query(ctx context.Context, op, q string, args ...any) ([]domain.Lead, error) {
	rows, err := d.Pool.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, &PersistenceError{Op: op, Err: err}
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}
	return out, nil
}

func scanLead(rows *sql.Rows) (domain.Lead, error) {
	var (
		l         domain.Lead
		employees sql.NullInt64
		score     sql.NullInt64
		scraped   string
		scored    sql.NullString
	)
	if err := rows.Scan(
		&l.ID, &l.CompanyName, &l.Website, &l.Industry, &l.Location, &employees,
		&l.ContactEmail, &l.ContactPhone, &l.Source, &scraped, &score, &scored,
	); err != nil {
		return l, err
	}

	t, err := parseTime(scraped)
	if err != nil {
		return l, fmt.Errorf("lead %s scraped_at: %w", l.ID, err)
	}
	l.ScrapedAt = t

	if employees.Valid {
		n := int(employees.Int64)
		l.EmployeeCount = &n
	}
	if score.Valid {
		n := int(score.Int64)
		l.Score = &n
	}
	if scored.Valid {
		t, err := parseTime(scored.String)
		if err != nil {
			return l, fmt.Errorf("lead %s scored_at: %w", l.ID, err)
		}
		l.ScoredAt = &t
	}
	if (l.Score == nil) != (l.ScoredAt == nil) {
		return l, errors.New("score and scored_at must be set together")
	}
	return l, nil
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return formatTime(*p)
}
