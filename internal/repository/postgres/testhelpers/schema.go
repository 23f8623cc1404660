package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ApplyMigrations выполняет все *.up.sql из каталога в лексикографическом порядке.
// Миграции написаны с IF NOT EXISTS, поэтому повторный запуск безопасен.
func ApplyMigrations(db *sql.DB, migrationsPath string) error {
	entries, err := os.ReadDir(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var upFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			upFiles = append(upFiles, e.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		if err := execFile(db, filepath.Join(migrationsPath, name)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

// LoadFixtures загружает SQL-фикстуры в указанном порядке
func LoadFixtures(db *sql.DB, fixturesPath string, files []string) error {
	for _, name := range files {
		if err := execFile(db, filepath.Join(fixturesPath, name)); err != nil {
			return fmt.Errorf("load fixture %s: %w", name, err)
		}
	}
	return nil
}

// CountBurns возвращает число строк владельца в таблице burns
func CountBurns(db *sql.DB, ownerID string) (int, error) {
	var n int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM burns WHERE user_id = $1", ownerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count burns for %s: %w", ownerID, err)
	}
	return n, nil
}

func execFile(db *sql.DB, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = db.Exec(string(content))
	return err
}
