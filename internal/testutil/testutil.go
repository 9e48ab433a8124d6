// Package testutil provides shared test helpers for setting up data stores.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maurobossio/portfolio/internal/models"
	"github.com/maurobossio/portfolio/internal/storage"
)

// TestDocument creates a temporary JSON store seeded with doc.
func TestDocument(t *testing.T, doc models.Document) *storage.JSONFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	if err := storage.WriteDocument(path, doc); err != nil {
		t.Fatal(err)
	}
	store, err := storage.NewJSONFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

// TestSQLite creates a temporary SQLite store that is automatically cleaned up.
func TestSQLite(t *testing.T) *storage.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "portfolio-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	store, err := storage.NewSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// SampleProjects returns the fixture project list used across tests.
func SampleProjects() []models.Project {
	return []models.Project{
		{
			Title:       "Landing simple",
			Description: "Página estática con HTML y CSS.",
			Tags:        []string{"HTML", "CSS"},
			Year:        "2025",
		},
		{
			Title:       "Mini calculadora",
			Description: "Operaciones básicas con JavaScript.",
			Tags:        []string{"JavaScript"},
			Year:        "2025",
		},
		{
			Title:       "Dashboard básico",
			Description: "Maqueta de panel con tarjetas.",
			Tags:        []string{"HTML", "CSS"},
			Year:        "2024",
		},
	}
}
