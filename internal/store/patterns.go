package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/pattern"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/weaving"
	"github.com/google/uuid"
)

// minPrefixLen is the shortest ID prefix Resolve accepts.
const minPrefixLen = 4

// body is the JSON stored in patterns.body: everything that is not a column.
type body struct {
	Palette      []string              `json:"palette"`
	Threading    [][]int               `json:"threading"`
	Orientations []weaving.Orientation `json:"orientations"`
	Picks        [][]pattern.Step      `json:"picks,omitempty"`
	AllTogether  []weaving.Direction   `json:"allTogether,omitempty"`
}

// Entry is a pattern's listing row, without its weaving instructions.
type Entry struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Type       pattern.Type `json:"type"`
	Holes      int          `json:"holes"`
	Tablets    int          `json:"tablets"`
	Rows       int          `json:"rows"`
	Tags       []string     `json:"tags,omitempty"`
	SourcePath string       `json:"sourcePath,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	Type   pattern.Type
	Tag    string
	Search string // case-insensitive substring of the name
	Limit  int
}

// NewID generates a pattern ID.
func NewID() string {
	return uuid.NewString()
}

// ShortID is the display form of a pattern ID.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Create stores a new pattern, assigning its ID and timestamps.
func (s *Store) Create(p *pattern.Pattern, sourcePath string) error {
	p.Tags = NormalizeTags(p.Tags)
	data, err := encodeBody(p)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	id := NewID()

	err = s.withWriteLock(func() error {
		tx, err := s.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback()

		_, err = tx.Exec(
			`INSERT INTO patterns (id, name, description, type, holes, tablets, row_count, body, source_path, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, p.Name, p.Description, string(p.Type), p.Holes, p.Tablets, p.Rows, data, sourcePath, now, now,
		)
		if err != nil {
			return fmt.Errorf("insert pattern: %w", err)
		}
		if err := insertTags(tx, id, p.Tags); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return err
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// Get loads a pattern by its full ID.
func (s *Store) Get(id string) (*pattern.Pattern, error) {
	row := s.conn.QueryRow(
		`SELECT id, name, description, type, holes, tablets, row_count, body, created_at, updated_at
		 FROM patterns WHERE id = ?`, id)

	p := &pattern.Pattern{}
	var typ, data string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &typ, &p.Holes, &p.Tablets, &p.Rows, &data, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get pattern: %w", err)
	}
	p.Type = pattern.Type(typ)

	if err := decodeBody(data, p); err != nil {
		return nil, fmt.Errorf("pattern %s: %w", id, err)
	}
	if p.Tags, err = s.tags(id); err != nil {
		return nil, err
	}
	return p, nil
}

// Resolve finds a pattern by full ID, unique ID prefix, or name
// (case-insensitive).
func (s *Store) Resolve(ref string) (*pattern.Pattern, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty reference: %w", ErrNotFound)
	}

	p, err := s.Get(ref)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return p, err
	}

	var ids []string
	if len(ref) >= minPrefixLen {
		ids, err = s.queryIDs(`SELECT id FROM patterns WHERE substr(id, 1, ?) = ?`, len(ref), ref)
		if err != nil {
			return nil, err
		}
	}
	if len(ids) == 0 {
		ids, err = s.queryIDs(`SELECT id FROM patterns WHERE name = ? COLLATE NOCASE`, ref)
		if err != nil {
			return nil, err
		}
	}

	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	case 1:
		return s.Get(ids[0])
	}
	short := make([]string, len(ids))
	for i, id := range ids {
		short[i] = ShortID(id)
	}
	return nil, fmt.Errorf("%s matches %s: %w", ref, strings.Join(short, ", "), ErrAmbiguous)
}

func (s *Store) queryIDs(query string, args ...any) ([]string, error) {
	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("lookup pattern: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// List returns matching patterns, most recently updated first.
func (s *Store) List(f ListFilter) ([]Entry, error) {
	query := `SELECT p.id, p.name, p.type, p.holes, p.tablets, p.row_count, p.source_path, p.created_at, p.updated_at
		FROM patterns p`
	var (
		where []string
		args  []any
	)
	if f.Type != "" {
		where = append(where, "p.type = ?")
		args = append(args, string(f.Type))
	}
	if f.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM pattern_tags t WHERE t.pattern_id = p.id AND t.tag = ?)")
		args = append(args, strings.ToLower(f.Tag))
	}
	if f.Search != "" {
		where = append(where, "p.name LIKE ? COLLATE NOCASE")
		args = append(args, "%"+f.Search+"%")
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.updated_at DESC, p.name"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var typ string
		if err := rows.Scan(&e.ID, &e.Name, &typ, &e.Holes, &e.Tablets, &e.Rows, &e.SourcePath, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pattern: %w", err)
		}
		e.Type = pattern.Type(typ)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range entries {
		if entries[i].Tags, err = s.tags(entries[i].ID); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// All loads every pattern in the library, oldest first.
func (s *Store) All() ([]*pattern.Pattern, error) {
	ids, err := s.queryIDs(`SELECT id FROM patterns ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	out := make([]*pattern.Pattern, 0, len(ids))
	for _, id := range ids {
		p, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Names returns every pattern name, sorted.
func (s *Store) Names() ([]string, error) {
	names, err := s.queryIDs(`SELECT DISTINCT name FROM patterns`)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Update overwrites a stored pattern and bumps its UpdatedAt.
func (s *Store) Update(p *pattern.Pattern) error {
	p.Tags = NormalizeTags(p.Tags)
	data, err := encodeBody(p)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	err = s.withWriteLock(func() error {
		tx, err := s.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback()

		res, err := tx.Exec(
			`UPDATE patterns SET name = ?, description = ?, type = ?, holes = ?, tablets = ?, row_count = ?, body = ?, updated_at = ?
			 WHERE id = ?`,
			p.Name, p.Description, string(p.Type), p.Holes, p.Tablets, p.Rows, data, now, p.ID,
		)
		if err != nil {
			return fmt.Errorf("update pattern: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%s: %w", p.ID, ErrNotFound)
		}
		if _, err := tx.Exec(`DELETE FROM pattern_tags WHERE pattern_id = ?`, p.ID); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
		if err := insertTags(tx, p.ID, p.Tags); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return err
	}
	p.UpdatedAt = now
	return nil
}

// Delete removes a pattern and its tags.
func (s *Store) Delete(id string) error {
	return s.withWriteLock(func() error {
		res, err := s.conn.Exec(`DELETE FROM patterns WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete pattern: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// Count returns the number of stored patterns.
func (s *Store) Count() (int, error) {
	var n int
	err := s.conn.QueryRow(`SELECT COUNT(*) FROM patterns`).Scan(&n)
	return n, err
}

func (s *Store) tags(id string) ([]string, error) {
	tags, err := s.queryIDs(`SELECT tag FROM pattern_tags WHERE pattern_id = ? ORDER BY tag`, id)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return tags, nil
}

func insertTags(tx *sql.Tx, id string, tags []string) error {
	for _, tag := range tags {
		if _, err := tx.Exec(`INSERT INTO pattern_tags (pattern_id, tag) VALUES (?, ?)`, id, tag); err != nil {
			return fmt.Errorf("insert tag: %w", err)
		}
	}
	return nil
}

// NormalizeTags lowercases, trims and de-duplicates tags, dropping empties.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func encodeBody(p *pattern.Pattern) (string, error) {
	data, err := json.Marshal(body{
		Palette:      p.Palette,
		Threading:    p.Threading,
		Orientations: p.Orientations,
		Picks:        p.Picks,
		AllTogether:  p.AllTogether,
	})
	if err != nil {
		return "", fmt.Errorf("encode pattern body: %w", err)
	}
	return string(data), nil
}

func decodeBody(data string, p *pattern.Pattern) error {
	var b body
	if err := json.Unmarshal([]byte(data), &b); err != nil {
		return fmt.Errorf("decode pattern body: %w", err)
	}
	p.Palette = b.Palette
	p.Threading = b.Threading
	p.Orientations = b.Orientations
	p.Picks = b.Picks
	p.AllTogether = b.AllTogether
	p.FillOrientations()
	return nil
}
