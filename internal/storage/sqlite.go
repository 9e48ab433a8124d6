package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/maurobossio/portfolio/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
	position    INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]',
	year        TEXT NOT NULL DEFAULT '',
	link        TEXT NOT NULL DEFAULT '',
	repo        TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	message    TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

// SQLite implements Provider over an embedded database, for deployments
// that outgrow the single-file JSON contract. The interface is identical;
// appends become transactional inserts instead of whole-document rewrites.
type SQLite struct {
	conn *sql.DB
}

// NewSQLite opens (or creates) the database and applies the schema.
func NewSQLite(path string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Projects returns every project in insertion order.
func (s *SQLite) Projects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT title, description, tags, year, link, repo
		FROM projects
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("storage: query projects: %w", err)
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		var p models.Project
		var tagsJSON string
		if err := rows.Scan(&p.Title, &p.Description, &tagsJSON, &p.Year, &p.Link, &p.Repo); err != nil {
			return nil, fmt.Errorf("storage: scan project: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &p.Tags); err != nil {
			return nil, fmt.Errorf("storage: decode tags: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Messages returns every recorded message in insertion order.
func (s *SQLite) Messages(ctx context.Context) ([]models.Message, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, name, email, message, created_at
		FROM messages
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("storage: query messages: %w", err)
	}
	defer rows.Close()

	var out []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("storage: scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AppendMessage records a new message.
func (s *SQLite) AppendMessage(ctx context.Context, msg models.Message) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO messages (id, name, email, message, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ID, msg.Name, msg.Email, msg.Message, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("storage: insert message: %w", err)
	}
	return nil
}

// ImportProjects replaces the project set, preserving order. Used to seed a
// sqlite deployment from an existing JSON document.
func (s *SQLite) ImportProjects(ctx context.Context, projects []models.Project) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM projects`); err != nil {
		return fmt.Errorf("storage: clear projects: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO projects (title, description, tags, year, link, repo)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage: prepare project insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range projects {
		tagsJSON, _ := json.Marshal(p.Tags)
		if _, err := stmt.Exec(p.Title, p.Description, string(tagsJSON), p.Year, p.Link, p.Repo); err != nil {
			return fmt.Errorf("storage: insert project: %w", err)
		}
	}
	return tx.Commit()
}

// SeedFromDocument imports the project list from a JSON document into an
// empty database. A database that already holds projects is left untouched,
// so the seed path is safe to keep configured across restarts.
func (s *SQLite) SeedFromDocument(ctx context.Context, path string) error {
	existing, err := s.Projects(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	doc, err := ReadDocument(path)
	if err != nil {
		return fmt.Errorf("storage: read seed document: %w", err)
	}
	return s.ImportProjects(ctx, doc.Projects)
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}
