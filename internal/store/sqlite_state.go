package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"corkboard-cli/internal/model"
)

const stateFileName = "state.sqlite"

// State persists the client's local state: the cached board map, user-saved
// project shortcuts, and small k/v preferences (theme). It is a cache, not a
// database of record; the backend remains authoritative for board content.
type State struct {
	Dir string
}

func (st State) Ensure() error {
	return os.MkdirAll(st.Dir, 0o755)
}

func (st State) path() string {
	return filepath.Join(st.Dir, stateFileName)
}

func (st State) open(ctx context.Context) (*sql.DB, error) {
	if strings.TrimSpace(st.Dir) == "" {
		return nil, errors.New("state dir not set")
	}
	if err := st.Ensure(); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", st.path())
	if err != nil {
		return nil, err
	}
	if err := migrateState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS boards (
			id TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS saved_projects (
			id TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// LoadBoards rehydrates the cached board map. A missing or empty state file
// yields an empty map, not an error.
func (st State) LoadBoards(ctx context.Context) (map[string]model.Board, error) {
	db, err := st.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT json FROM boards`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]model.Board{}
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var b model.Board
		if err := json.Unmarshal([]byte(js), &b); err != nil {
			// Best-effort cache: skip corrupted rows instead of failing the
			// whole rehydrate.
			continue
		}
		if strings.TrimSpace(b.ID) == "" {
			continue
		}
		out[b.ID] = b
	}
	return out, rows.Err()
}

// SaveBoards replaces the persisted board cache wholesale (simple + safe; the
// map is small).
func (st State) SaveBoards(ctx context.Context, boards map[string]model.Board) error {
	db, err := st.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM boards`); err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()
	for id, b := range boards {
		raw, err := json.Marshal(b)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO boards(id, json, updated_at_unixms) VALUES(?, ?, ?)`, id, string(raw), nowMs); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (st State) LoadSavedProjects(ctx context.Context) ([]model.SavedProject, error) {
	db, err := st.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT json FROM saved_projects ORDER BY updated_at_unixms DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SavedProject
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var p model.SavedProject
		if err := json.Unmarshal([]byte(js), &p); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertSavedProject adds or refreshes a project shortcut.
func (st State) UpsertSavedProject(ctx context.Context, p model.SavedProject) error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("missing project id")
	}
	now := time.Now().UTC()
	if p.SavedAt.IsZero() {
		p.SavedAt = now
	}
	p.UpdatedAt = now

	db, err := st.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO saved_projects(id, json, updated_at_unixms) VALUES(?, ?, ?)`,
		p.ID, string(raw), now.UnixMilli())
	return err
}

func (st State) RemoveSavedProject(ctx context.Context, projectID string) error {
	db, err := st.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `DELETE FROM saved_projects WHERE id = ?`, projectID)
	return err
}

// ThemePref returns the persisted theme name ("" when unset).
func (st State) ThemePref(ctx context.Context) (string, error) {
	db, err := st.open(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, "theme").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return strings.TrimSpace(v), err
}

func (st State) SetThemePref(ctx context.Context, theme string) error {
	db, err := st.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "theme", strings.TrimSpace(theme))
	return err
}
