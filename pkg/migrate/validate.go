package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks migration filenames, version uniqueness and goose
// Up/Down markers in a single dialect directory. It returns the file names
// in version order.
func ValidateDir(dir string) ([]string, error) {
	if dir == "" {
		return nil, errors.New("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := seen[m[1]]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		seen[m[1]] = name

		if err := checkMarkers(filepath.Join(dir, name)); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ValidateDialects validates every dialect directory under base and requires
// them to hold the same migration files.
func ValidateDialects(base string) error {
	var reference []string
	for i, dialect := range Dialects {
		names, err := ValidateDir(DirFor(base, dialect))
		if err != nil {
			return fmt.Errorf("%s: %w", dialect, err)
		}
		if i == 0 {
			reference = names
			continue
		}
		if missing := diffNames(reference, names); missing != "" {
			return fmt.Errorf("%s and %s migrations differ: %s", Dialects[0], dialect, missing)
		}
	}
	return nil
}

func checkMarkers(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file %q: %w", path, err)
	}
	txt := string(b)
	for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
		if !strings.Contains(txt, marker) {
			return fmt.Errorf("migration %q missing %q", filepath.Base(path), marker)
		}
	}
	return nil
}

func diffNames(a, b []string) string {
	inB := make(map[string]bool, len(b))
	for _, name := range b {
		inB[name] = true
	}
	var out []string
	for _, name := range a {
		if !inB[name] {
			out = append(out, "-"+name)
		}
		delete(inB, name)
	}
	for name := range inB {
		out = append(out, "+"+name)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
