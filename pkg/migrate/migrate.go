package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pressly/goose/v3"
)

const DefaultDir = "pkg/migrate/migrations"

// DirFor returns the migrations directory for a goose dialect
// ("postgres" or "sqlite3") under base.
func DirFor(base, dialect string) string {
	if base == "" {
		base = DefaultDir
	}
	return filepath.Join(base, dialect)
}

// Runner applies the SQL migrations of one dialect directory. It never closes
// the *sql.DB it was given.
type Runner struct {
	provider *goose.Provider
	dir      string
}

func NewRunner(db *sql.DB, dialect, dir string) (*Runner, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}

	var gd goose.Dialect
	switch dialect {
	case "postgres":
		gd = goose.DialectPostgres
	case "sqlite3":
		gd = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	provider, err := goose.NewProvider(gd, db, os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("goose provider for %s: %w", dir, err)
	}
	return &Runner{provider: provider, dir: dir}, nil
}

// Exec runs up, down, reset or status and writes one line per migration
// touched to out.
func (r *Runner) Exec(ctx context.Context, command string, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	var (
		results []*goose.MigrationResult
		err     error
	)
	switch command {
	case "up":
		results, err = r.provider.Up(ctx)
	case "down":
		var res *goose.MigrationResult
		res, err = r.provider.Down(ctx)
		if res != nil {
			results = append(results, res)
		}
	case "reset":
		results, err = r.provider.DownTo(ctx, 0)
	case "status":
		return r.status(ctx, out)
	default:
		return fmt.Errorf("unknown goose command %q", command)
	}

	for _, res := range results {
		fmt.Fprintf(out, "%-4s %s (%s)\n", res.Direction, filepath.Base(res.Source.Path), res.Duration)
	}
	if err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

func (r *Runner) status(ctx context.Context, out io.Writer) error {
	statuses, err := r.provider.Status(ctx)
	if err != nil {
		return fmt.Errorf("goose status: %w", err)
	}
	for _, st := range statuses {
		applied := "-"
		if !st.AppliedAt.IsZero() {
			applied = st.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(out, "%-8s %-19s %s\n", st.State, applied, filepath.Base(st.Source.Path))
	}
	return nil
}

// MigrateTo moves the schema up or down to targetVersion (YYYYMMDDHHMMSS).
func (r *Runner) MigrateTo(ctx context.Context, targetVersion string) error {
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	current, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current < target:
		_, err = r.provider.UpTo(ctx, target)
	case current > target:
		_, err = r.provider.DownTo(ctx, target)
	}
	if err != nil {
		return fmt.Errorf("goose migrate %d -> %d: %w", current, target, err)
	}
	return nil
}

// Run is a one-shot NewRunner plus Exec.
func Run(ctx context.Context, db *sql.DB, dialect, dir, command string, out io.Writer) error {
	runner, err := NewRunner(db, dialect, dir)
	if err != nil {
		return err
	}
	return runner.Exec(ctx, command, out)
}
