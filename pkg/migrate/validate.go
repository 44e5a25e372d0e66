package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/pressly/goose/v3"
)

var fileNameRe = regexp.MustCompile(`^\d{14}_[a-z0-9_]+\.sql$`)

// ValidateDir checks one dialect directory: timestamped names, unique
// versions, and both goose sections in every file.
func ValidateDir(dir string) error {
	_, err := scanDir(dir)
	return err
}

// ValidateTree validates every dialect directory under root and requires
// them to ship the same versions, so postgres and sqlite never drift.
func ValidateTree(root string) error {
	var reference []int64
	var referenceDir string
	for _, sub := range dialectDirs {
		dir := filepath.Join(root, sub)
		versions, err := scanDir(dir)
		if err != nil {
			return err
		}
		if reference == nil {
			reference, referenceDir = versions, dir
			continue
		}
		if !slices.Equal(reference, versions) {
			return fmt.Errorf("migration versions differ between %q and %q", referenceDir, dir)
		}
	}
	return nil
}

// scanDir returns the sorted versions found in dir.
func scanDir(dir string) ([]int64, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	owners := map[int64]string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".sql" {
			continue
		}
		if !fileNameRe.MatchString(name) {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		version, err := goose.NumericComponent(name)
		if err != nil {
			return nil, fmt.Errorf("migration %q: %w", name, err)
		}
		if prev, dup := owners[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %d in %q and %q", version, prev, name)
		}
		owners[version] = name

		body, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read migration %q: %w", name, err)
		}
		for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
			if !strings.Contains(string(body), marker) {
				return nil, fmt.Errorf("migration %q missing %q", name, marker)
			}
		}
	}
	if len(owners) == 0 {
		return nil, fmt.Errorf("no migrations found in %q", dir)
	}

	versions := make([]int64, 0, len(owners))
	for v := range owners {
		versions = append(versions, v)
	}
	slices.Sort(versions)
	return versions, nil
}
