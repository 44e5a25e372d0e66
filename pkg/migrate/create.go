package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeNameRe = regexp.MustCompile(`[^a-z0-9]+`)

const migrationTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s (%[2]s)
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- revert %[1]s (%[2]s)
-- +goose StatementEnd
`

// CreatePair writes an empty migration with one shared version into every
// dialect directory under root and returns the created paths.
func CreatePair(root, name string) ([]string, error) {
	return create(root, name, time.Now().UTC(), dialectDirs...)
}

// CreateSQLMigration writes a single empty migration into dir.
func CreateSQLMigration(dir, name string) (string, error) {
	paths, err := create(dir, name, time.Now().UTC(), "")
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

func create(root, name string, now time.Time, subdirs ...string) ([]string, error) {
	if root == "" {
		return nil, fmt.Errorf("dir is required")
	}
	slug := strings.Trim(unsafeNameRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if slug == "" {
		return nil, fmt.Errorf("name %q results in empty sanitized filename", name)
	}
	filename := fmt.Sprintf("%s_%s.sql", now.Format("20060102150405"), slug)

	paths := make([]string, 0, len(subdirs))
	for _, sub := range subdirs {
		dir := filepath.Join(root, sub)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %q: %w", dir, err)
		}
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("migration already exists: %s", path)
		}
		label := sub
		if label == "" {
			label = filepath.Base(dir)
		}
		if err := os.WriteFile(path, fmt.Appendf(nil, migrationTemplate, slug, label), 0o644); err != nil {
			return nil, fmt.Errorf("write migration %q: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
