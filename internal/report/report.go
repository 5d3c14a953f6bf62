// Package report builds usage summaries over the JSON tables.
//
// The tables are small flat files with no query layer of their own, so a
// summary loads them into a throwaway in-memory SQLite database and lets
// SQL do the grouping.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/jobdesk/internal/store"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// TopRolesLimit caps Summary.TopRoles.
const TopRolesLimit = 10

// Unspecified labels applications recorded without a country.
const Unspecified = "(unspecified)"

const schemaSQL = `
CREATE TABLE users (
	id            TEXT PRIMARY KEY,
	auth_provider TEXT NOT NULL
);
CREATE TABLE cvs (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	is_created INTEGER NOT NULL
);
CREATE TABLE applications (
	user_id   TEXT NOT NULL,
	job_title TEXT NOT NULL,
	company   TEXT NOT NULL,
	country   TEXT NOT NULL
);
CREATE TABLE preferred_roles (
	user_id TEXT NOT NULL,
	role    TEXT NOT NULL
);
`

// Count is one row of a grouped aggregate.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// CVCounts splits CV records by origin.
type CVCounts struct {
	Uploaded int `json:"uploaded"`
	Created  int `json:"created"`
}

// Summary is the result of Build.
type Summary struct {
	GeneratedAt           time.Time `json:"generatedAt"`
	Users                 int       `json:"users"`
	UsersByProvider       []Count   `json:"usersByProvider"`
	CVs                   CVCounts  `json:"cvs"`
	Applications          int       `json:"applications"`
	ApplicationsByCountry []Count   `json:"applicationsByCountry"`
	UsersWithPreferences  int       `json:"usersWithPreferences"`
	TopRoles              []Count   `json:"topRoles"`
}

type dataset struct {
	users   []types.User
	cvs     []types.CV
	applied []types.AppliedJobs
	prefs   []types.JobPreference
}

// Build reads the users, CV, applied-job and preference tables of s and
// aggregates them.
func Build(ctx context.Context, s *store.Store) (*Summary, error) {
	data, err := collect(ctx, s)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening report database: %w", err)
	}
	defer db.Close()
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := load(ctx, db, data); err != nil {
		return nil, err
	}

	sum := &Summary{GeneratedAt: s.Now()}
	if err := query(ctx, db, sum); err != nil {
		return nil, err
	}
	s.Logger().Debug("report built",
		"users", sum.Users,
		"applications", sum.Applications,
	)
	return sum, nil
}

// collect reads the four tables concurrently. Each goroutine owns one
// field of the dataset.
func collect(ctx context.Context, s *store.Store) (*dataset, error) {
	var d dataset
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.users = s.Users().All()
		return ctx.Err()
	})
	g.Go(func() error {
		d.cvs = s.CVs().All()
		return ctx.Err()
	})
	g.Go(func() error {
		d.applied = s.Applied().All()
		return ctx.Err()
	})
	g.Go(func() error {
		d.prefs = s.Preferences().All()
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reading tables: %w", err)
	}
	return &d, nil
}

// load creates the schema and inserts the dataset in one transaction.
func load(ctx context.Context, db *sql.DB, d *dataset) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating report schema: %w", err)
	}

	var users, cvs, apps, roles [][]any
	for _, u := range d.users {
		users = append(users, []any{u.ID, u.AuthProvider})
	}
	for _, cv := range d.cvs {
		created := 0
		if cv.IsCreated {
			created = 1
		}
		cvs = append(cvs, []any{cv.ID, cv.UserID, created})
	}
	for _, rec := range d.applied {
		for _, j := range rec.Jobs {
			apps = append(apps, []any{rec.UserID, j.JobTitle, j.Company, strings.TrimSpace(j.Country)})
		}
	}
	for _, p := range d.prefs {
		for _, r := range p.Roles {
			if r = strings.TrimSpace(r); r != "" {
				roles = append(roles, []any{p.UserID, r})
			}
		}
	}

	inserts := []struct {
		table   string
		columns string
		rows    [][]any
	}{
		{"users", "id, auth_provider", users},
		{"cvs", "id, user_id, is_created", cvs},
		{"applications", "user_id, job_title, company, country", apps},
		{"preferred_roles", "user_id, role", roles},
	}
	for _, in := range inserts {
		if err := insertRows(ctx, tx, in.table, in.columns, in.rows); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRows inserts rows into table. Duplicate primary keys, which a
// hand-edited file can contain, are ignored.
func insertRows(ctx context.Context, tx *sql.Tx, table, columns string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	n := len(strings.Split(columns, ","))
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT OR IGNORE INTO %s (%s) VALUES (%s)", table, columns, placeholders,
	))
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}
	return nil
}

func query(ctx context.Context, db *sql.DB, sum *Summary) error {
	scalars := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM users", &sum.Users},
		{"SELECT COUNT(*) FROM cvs WHERE is_created = 0", &sum.CVs.Uploaded},
		{"SELECT COUNT(*) FROM cvs WHERE is_created = 1", &sum.CVs.Created},
		{"SELECT COUNT(*) FROM applications", &sum.Applications},
		{"SELECT COUNT(DISTINCT user_id) FROM preferred_roles", &sum.UsersWithPreferences},
	}
	for _, q := range scalars {
		if err := db.QueryRowContext(ctx, q.sql).Scan(q.dest); err != nil {
			return fmt.Errorf("querying %q: %w", q.sql, err)
		}
	}

	var err error
	sum.UsersByProvider, err = counts(ctx, db, `
		SELECT auth_provider, COUNT(*) AS n FROM users
		GROUP BY auth_provider
		ORDER BY n DESC, auth_provider`)
	if err != nil {
		return err
	}
	sum.ApplicationsByCountry, err = counts(ctx, db, `
		SELECT COALESCE(NULLIF(MIN(country), ''), ?), COUNT(*) AS n FROM applications
		GROUP BY lower(country)
		ORDER BY n DESC, lower(MIN(country))`, Unspecified)
	if err != nil {
		return err
	}
	sum.TopRoles, err = counts(ctx, db, `
		SELECT MIN(role), COUNT(DISTINCT user_id) AS n FROM preferred_roles
		GROUP BY lower(role)
		ORDER BY n DESC, lower(MIN(role))
		LIMIT ?`, TopRolesLimit)
	return err
}

// counts runs a two-column key/count query.
func counts(ctx context.Context, db *sql.DB, q string, args ...any) ([]Count, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying counts: %w", err)
	}
	defer rows.Close()

	out := []Count{}
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
