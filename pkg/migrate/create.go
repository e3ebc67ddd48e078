package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Dialects lists the goose dialects every migration must be written for.
var Dialects = []string{"postgres", "sqlite3"}

var nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)

const migrationTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s (%[2]s)
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %[1]s (%[2]s)
-- +goose StatementEnd
`

// CreateSQLMigration writes one goose SQL file per dialect under base, all
// sharing the same version:
//
//	<base>/<dialect>/<YYYYMMDDHHMMSS>_<name>.sql
//
// It returns the created paths in Dialects order. Nothing is written when any
// target already exists.
func CreateSQLMigration(base string, name string) ([]string, error) {
	if base == "" {
		return nil, errors.New("dir is required")
	}
	safe := sanitizeMigrationName(name)
	if safe == "" {
		return nil, fmt.Errorf("name %q results in empty sanitized filename", name)
	}

	version := time.Now().UTC().Format("20060102150405")
	filename := fmt.Sprintf("%s_%s.sql", version, safe)

	paths := make([]string, 0, len(Dialects))
	for _, dialect := range Dialects {
		path := filepath.Join(DirFor(base, dialect), filename)
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("migration already exists: %s", path)
		}
		paths = append(paths, path)
	}

	for i, path := range paths {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %q: %w", filepath.Dir(path), err)
		}
		body := fmt.Sprintf(migrationTemplate, safe, Dialects[i])
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return nil, fmt.Errorf("write migration %q: %w", path, err)
		}
	}
	return paths, nil
}

func sanitizeMigrationName(name string) string {
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	return strings.Trim(safe, "_")
}
