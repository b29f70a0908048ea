package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/starford/noteflow/internal/models"
	"github.com/starford/noteflow/internal/workspace"
)

const dateLayout = "2006-01-02"

// Snapshot loads the whole workspace. Folders and tasks come back in
// insertion order, notes newest first.
func (db *DB) Snapshot(ctx context.Context) (workspace.State, error) {
	var s workspace.State
	var err error
	if s.Folders, err = db.folders(ctx); err != nil {
		return s, err
	}
	if s.Notes, err = db.notes(ctx); err != nil {
		return s, err
	}
	if s.Tasks, err = db.tasks(ctx); err != nil {
		return s, err
	}
	return s, nil
}

func (db *DB) folders(ctx context.Context) ([]models.Folder, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name, color, created_at FROM folders ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("store: list folders: %w", err)
	}
	defer rows.Close()

	var out []models.Folder
	for rows.Next() {
		var f models.Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.Color, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan folder: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (db *DB) notes(ctx context.Context) ([]models.Note, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, subject, body, ai_summary, folder_id, created_at, updated_at
		FROM notes
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list notes: %w", err)
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		var n models.Note
		var folder sql.NullString
		if err := rows.Scan(&n.ID, &n.Subject, &n.Body, &n.AISummary, &folder, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan note: %w", err)
		}
		n.FolderID = folder.String
		out = append(out, n)
	}
	return out, rows.Err()
}

func (db *DB) tasks(ctx context.Context) ([]models.Task, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, text, segment, done, note_id, folder_id, owner, deadline, created_at
		FROM tasks
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		var (
			t                      models.Task
			segment                string
			note, folder, deadline sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Text, &segment, &t.Done, &note, &folder, &t.Owner, &deadline, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan task: %w", err)
		}
		t.Segment = models.Segment(segment)
		if note.Valid && note.String != "" {
			t.Origin = models.FromNote(note.String)
		}
		t.FolderID = folder.String
		if deadline.Valid && deadline.String != "" {
			d, err := time.Parse(dateLayout, deadline.String)
			if err != nil {
				return nil, fmt.Errorf("store: task %s deadline: %w", t.ID, err)
			}
			t.Deadline = &d
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SaveFolder inserts or updates a folder.
func (db *DB) SaveFolder(ctx context.Context, f models.Folder) error {
	return saveFolder(ctx, db.conn, f)
}

func saveFolder(ctx context.Context, ex execer, f models.Folder) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO folders (id, name, color, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name  = excluded.name,
			color = excluded.color
	`, f.ID, f.Name, f.Color, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: save folder: %w", err)
	}
	return nil
}

// DeleteFolder removes a folder and clears every reference to it.
func (db *DB) DeleteFolder(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, q := range []string{
		`UPDATE notes SET folder_id = NULL WHERE folder_id = ?`,
		`UPDATE tasks SET folder_id = NULL WHERE folder_id = ?`,
		`DELETE FROM folders WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("store: delete folder: %w", err)
		}
	}
	return tx.Commit()
}

// SaveNote inserts or updates a note.
func (db *DB) SaveNote(ctx context.Context, n models.Note) error {
	return saveNote(ctx, db.conn, n)
}

func saveNote(ctx context.Context, ex execer, n models.Note) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO notes (id, subject, body, ai_summary, folder_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			subject    = excluded.subject,
			body       = excluded.body,
			ai_summary = excluded.ai_summary,
			folder_id  = excluded.folder_id,
			updated_at = excluded.updated_at
	`, n.ID, n.Subject, n.Body, n.AISummary, nullable(n.FolderID), n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: save note: %w", err)
	}
	return nil
}

// DeleteNote removes a note together with the tasks derived from it.
func (db *DB) DeleteNote(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE note_id = ?`, id); err != nil {
		return fmt.Errorf("store: delete note tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete note: %w", err)
	}
	return tx.Commit()
}

// SaveTask inserts or updates a task. The note reference is written on
// insert only, so an update can never change a task's origin.
func (db *DB) SaveTask(ctx context.Context, t models.Task) error {
	return saveTask(ctx, db.conn, t)
}

func saveTask(ctx context.Context, ex execer, t models.Task) error {
	noteID, _ := t.Origin.NoteID()
	var deadline any
	if t.Deadline != nil {
		deadline = t.Deadline.Format(dateLayout)
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO tasks (id, text, segment, done, note_id, folder_id, owner, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text      = excluded.text,
			segment   = excluded.segment,
			done      = excluded.done,
			folder_id = excluded.folder_id,
			owner     = excluded.owner,
			deadline  = excluded.deadline
	`, t.ID, t.Text, string(t.Segment), t.Done, nullable(noteID), nullable(t.FolderID), t.Owner, deadline, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: save task: %w", err)
	}
	return nil
}

// SaveImport writes an imported note with its tasks, and the folder it
// created when folder is non-nil, in one transaction. Either all of them
// are stored or none.
func (db *DB) SaveImport(ctx context.Context, folder *models.Folder, n models.Note, tasks []models.Task) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if folder != nil {
		if err := saveFolder(ctx, tx, *folder); err != nil {
			return err
		}
	}
	if err := saveNote(ctx, tx, n); err != nil {
		return err
	}
	for _, t := range tasks {
		if err := saveTask(ctx, tx, t); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit import: %w", err)
	}
	return nil
}

// DeleteTask removes a single task.
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete task: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
