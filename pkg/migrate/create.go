package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"github.com/pressly/goose/v3"
)

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// Both dialects run every file, so the scaffold reminds authors to stay portable.
var sqlScaffold = template.Must(template.New("sql").Parse(`-- +goose Up
-- Version {{.Version}}. Keep statements valid on both postgres and sqlite.
-- +goose StatementBegin
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- +goose StatementEnd
`))

// CreateSQLMigration scaffolds <dir>/<YYYYMMDDHHMMSS>_<name>.sql and returns its path. The name
// is reduced to lowercase snake case first so the file passes ValidateDir.
func CreateSQLMigration(dir, name string) (string, error) {
	if dir == "" {
		return "", errors.New("migrate: dir required")
	}
	slug := strings.Trim(nonWord.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if slug == "" {
		return "", fmt.Errorf("migrate: name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("migrate: %w", err)
	}
	if err := goose.CreateWithTemplate(nil, dir, sqlScaffold, slug, "sql"); err != nil {
		return "", fmt.Errorf("migrate: create %s: %w", slug, err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*_"+slug+".sql"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("migrate: created %s but cannot find it in %s", slug, dir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
