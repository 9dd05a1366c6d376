package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/chizurashi/chizurashi-server/internal/domain"
	"github.com/chizurashi/chizurashi-server/internal/store"
)

// poemColumns is the ordered list of columns selected in poem queries.
// Must match the scan order in scanPoem.
const poemColumns = `id, kind, text, lat, lon, author, owner_id, created_at, updated_at`

// scanPoem scans a sql.Row (or sql.Rows via its Scan method) into a domain.Poem.
// AppreciatedBy is loaded separately; scanPoem always leaves it as an empty,
// non-nil slice.
func scanPoem(scanner interface{ Scan(dest ...any) error }) (*domain.Poem, error) {
	var p domain.Poem

	var (
		kind      string
		ownerID   sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&p.ID,
		&kind,
		&p.Text,
		&p.Position.Lat,
		&p.Position.Lon,
		&p.Author,
		&ownerID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Kind = domain.Kind(kind)
	if ownerID.Valid {
		p.OwnerID = ownerID.String
	}

	// Parse timestamps.
	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	p.AppreciatedBy = []string{}
	return &p, nil
}

// loadAppreciations fills in the appreciation set for a single poem.
func (s *Store) loadAppreciations(ctx context.Context, poem *domain.Poem) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT handle FROM poem_appreciations WHERE poem_id = ? ORDER BY created_at ASC`,
		poem.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var handle string
		if err := rows.Scan(&handle); err != nil {
			return err
		}
		poem.AppreciatedBy = append(poem.AppreciatedBy, handle)
	}
	return rows.Err()
}

// loadAllAppreciations fills in appreciation sets for a batch of poems with
// a single query.
func (s *Store) loadAllAppreciations(ctx context.Context, poems []*domain.Poem) error {
	if len(poems) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Poem, len(poems))
	for _, p := range poems {
		byID[p.ID] = p
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT poem_id, handle FROM poem_appreciations ORDER BY created_at ASC`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var poemID, handle string
		if err := rows.Scan(&poemID, &handle); err != nil {
			return err
		}
		if p, ok := byID[poemID]; ok {
			p.AppreciatedBy = append(p.AppreciatedBy, handle)
		}
	}
	return rows.Err()
}

// CreatePoem inserts a new poem into the database.
// Returns store.ErrAlreadyExists if the poem ID already exists.
func (s *Store) CreatePoem(ctx context.Context, poem *domain.Poem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poems (
			id, kind, text, lat, lon, author, owner_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		poem.ID,
		string(poem.Kind),
		poem.Text,
		poem.Position.Lat,
		poem.Position.Lon,
		poem.Author,
		nullString(poem.OwnerID),
		formatTime(poem.CreatedAt),
		formatTime(poem.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	if err := s.searchIndexer.IndexPoem(poem); err != nil {
		s.logger.Warn("failed to index poem", "poem_id", poem.ID, "error", err)
	}
	return nil
}

// GetPoem retrieves a poem by ID, including its appreciation set.
// Returns store.ErrNotFound if the poem does not exist.
func (s *Store) GetPoem(ctx context.Context, id string) (*domain.Poem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+poemColumns+` FROM poems WHERE id = ?`, id)

	p, err := scanPoem(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadAppreciations(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePoemText replaces a poem's text and returns the full updated record.
// Returns store.ErrNotFound if the poem does not exist.
func (s *Store) UpdatePoemText(ctx context.Context, id, text string) (*domain.Poem, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE poems SET text = ?, updated_at = ? WHERE id = ?`,
		text, formatTime(time.Now()), id)
	if err != nil {
		return nil, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	p, err := s.GetPoem(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.searchIndexer.IndexPoem(p); err != nil {
		s.logger.Warn("failed to reindex poem", "poem_id", p.ID, "error", err)
	}
	return p, nil
}

// ReplaceAppreciations swaps a poem's appreciation set wholesale and returns
// the full updated record. The replace runs in a transaction so a failed
// write never leaves a partial set behind.
// Returns store.ErrNotFound if the poem does not exist.
func (s *Store) ReplaceAppreciations(ctx context.Context, id string, handles []string) (*domain.Poem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM poems WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, store.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM poem_appreciations WHERE poem_id = ?`, id); err != nil {
		return nil, err
	}

	now := formatTime(time.Now())
	for _, handle := range handles {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO poem_appreciations (poem_id, handle, created_at) VALUES (?, ?, ?)`,
			id, handle, now)
		if err != nil {
			return nil, err
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE poems SET updated_at = ? WHERE id = ?`, now, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetPoem(ctx, id)
}

// DeletePoem removes a poem and, via cascade, its appreciation set.
// Returns store.ErrNotFound if the poem does not exist.
func (s *Store) DeletePoem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM poems WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	if err := s.searchIndexer.DeletePoem(id); err != nil {
		s.logger.Warn("failed to remove poem from index", "poem_id", id, "error", err)
	}
	return nil
}

// ListPoems returns all poems ordered newest first, appreciation sets included.
func (s *Store) ListPoems(ctx context.Context) ([]*domain.Poem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+poemColumns+` FROM poems ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var poems []*domain.Poem
	for rows.Next() {
		p, err := scanPoem(rows)
		if err != nil {
			return nil, err
		}
		poems = append(poems, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadAllAppreciations(ctx, poems); err != nil {
		return nil, err
	}
	return poems, nil
}

// CountPoems returns the total number of poems.
func (s *Store) CountPoems(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM poems`).Scan(&count)
	return count, err
}
