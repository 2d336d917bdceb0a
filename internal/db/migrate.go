package db

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/billow-app/billow/migrations"
	"gorm.io/gorm"
)

var (
	migrationNamePattern = regexp.MustCompile(`^(\d+)_.*\.sql$`)
	addColumnPattern     = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+ADD\s+COLUMN\s+(\S+)\b`)
)

type migration struct {
	version string
	order   int
	name    string
	sql     string
}

// runMigrations applies every embedded migration that is not yet
// recorded in schema_migrations, in version order.
func runMigrations(database *gorm.DB) error {
	const ledgerSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	if err := database.Exec(ledgerSQL).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	pending, err := loadEmbeddedMigrations()
	if err != nil {
		return err
	}

	applied, err := appliedVersions(database)
	if err != nil {
		return err
	}

	for _, entry := range pending {
		if _, done := applied[entry.version]; done {
			continue
		}
		if err := applyMigration(database, entry); err != nil {
			return err
		}
	}

	return nil
}

func loadEmbeddedMigrations() ([]migration, error) {
	files, err := fs.ReadDir(migrations.Files, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	loaded := make([]migration, 0, len(files))
	byVersion := make(map[string]string, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		name := strings.TrimSpace(file.Name())
		matches := migrationNamePattern.FindStringSubmatch(name)
		if len(matches) != 2 {
			continue
		}

		version := matches[1]
		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", name, err)
		}
		if previous, seen := byVersion[version]; seen {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", version, previous, name)
		}
		byVersion[version] = name

		rawSQL, err := fs.ReadFile(migrations.Files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}

		loaded = append(loaded, migration{version: version, order: order, name: name, sql: string(rawSQL)})
	}

	sort.Slice(loaded, func(i, j int) bool {
		if loaded[i].order == loaded[j].order {
			return loaded[i].name < loaded[j].name
		}
		return loaded[i].order < loaded[j].order
	})

	return loaded, nil
}

func appliedVersions(database *gorm.DB) (map[string]struct{}, error) {
	var rows []struct {
		Version string `gorm:"column:version"`
	}
	if err := database.Raw(`SELECT version FROM schema_migrations`).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load applied migration versions: %w", err)
	}

	versions := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		versions[row.Version] = struct{}{}
	}
	return versions, nil
}

func applyMigration(database *gorm.DB, entry migration) error {
	return database.Transaction(func(tx *gorm.DB) error {
		statements := splitStatements(entry.sql)
		if len(statements) == 0 {
			return errors.New("migration has no SQL statements")
		}

		for _, statement := range statements {
			// Re-running ADD COLUMN against an already-upgraded table
			// is the one non-idempotent statement sqlite rejects.
			skip, err := columnAlreadyAdded(tx, statement)
			if err != nil {
				return fmt.Errorf("inspect migration %s: %w", entry.name, err)
			}
			if skip {
				continue
			}

			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute migration %s statement %q: %w", entry.name, statement, err)
			}
		}

		if err := tx.Exec(
			`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`,
			entry.version,
			entry.name,
		).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", entry.name, err)
		}

		return nil
	})
}

func splitStatements(sqlText string) []string {
	parts := strings.Split(sqlText, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		statement := strings.TrimSpace(part)
		if statement == "" {
			continue
		}
		statements = append(statements, statement)
	}
	return statements
}

func columnAlreadyAdded(database *gorm.DB, statement string) (bool, error) {
	matches := addColumnPattern.FindStringSubmatch(strings.TrimSpace(statement))
	if len(matches) != 3 {
		return false, nil
	}

	table := trimIdentifier(matches[1])
	column := trimIdentifier(matches[2])

	escaped := strings.ReplaceAll(table, `"`, `""`)
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, escaped)

	var columns []struct {
		Name string `gorm:"column:name"`
	}
	if err := database.Raw(query).Scan(&columns).Error; err != nil {
		return false, fmt.Errorf("load table_info for %s: %w", table, err)
	}
	for _, candidate := range columns {
		if strings.EqualFold(strings.TrimSpace(candidate.Name), column) {
			return true, nil
		}
	}
	return false, nil
}

func trimIdentifier(identifier string) string {
	trimmed := strings.TrimSpace(identifier)
	trimmed = strings.Trim(trimmed, "\"`[]")
	return strings.TrimSpace(trimmed)
}
