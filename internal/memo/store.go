// Package memo implements the fifth tutorial server: a memo CRUD
// application backed by SQLite, with categories, tags, pinning, search,
// and usage statistics.
package memo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMemoNotFound indicates the requested memo id does not exist.
var ErrMemoNotFound = errors.New("memo not found")

const timeLayout = "2006-01-02 15:04:05"

// Memo is a stored note with its tags loaded.
type Memo struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	IsPinned  bool     `json:"is_pinned"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// ListFilter narrows List.
type ListFilter struct {
	Category string
	Tag      string
	Pinned   *bool
	Limit    int
}

// UpdateFields carries the partial update for a memo. Nil fields are left
// unchanged; a non-nil Tags replaces the whole tag set.
type UpdateFields struct {
	Title    *string
	Content  *string
	Category *string
	Tags     []string
	Pinned   *bool
}

// Stats summarizes the memo collection.
type Stats struct {
	Total      int            `json:"total"`
	Pinned     int            `json:"pinned"`
	Categories map[string]int `json:"categories"`
	Tags       map[string]int `json:"tags"`
}

// Store persists memos in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore wraps an opened and migrated database.
func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	return &Store{db: db}, nil
}

// NormalizeTags splits a comma-separated tag string, trims whitespace,
// drops empties, and removes duplicates while preserving first-seen order.
func NormalizeTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// Create inserts a memo with its tags in one transaction.
func (s *Store) Create(ctx context.Context, title, content, category string, tags []string) (*Memo, error) {
	if category == "" {
		category = "general"
	}
	now := time.Now().Format(timeLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO memos (title, content, category, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		title, content, category, now, now)
	if err != nil {
		return nil, fmt.Errorf("inserting memo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading memo id: %w", err)
	}

	if err := linkTags(ctx, tx, id, tags); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing memo: %w", err)
	}

	return s.Get(ctx, id)
}

// linkTags upserts each tag name and links it to the memo.
func linkTags(ctx context.Context, tx *sql.Tx, memoID int64, tags []string) error {
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO tags (name) VALUES (?)", tag); err != nil {
			return fmt.Errorf("upserting tag %q: %w", tag, err)
		}
		var tagID int64
		if err := tx.QueryRowContext(ctx,
			"SELECT id FROM tags WHERE name = ?", tag).Scan(&tagID); err != nil {
			return fmt.Errorf("resolving tag %q: %w", tag, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO memo_tags (memo_id, tag_id) VALUES (?, ?)",
			memoID, tagID); err != nil {
			return fmt.Errorf("linking tag %q: %w", tag, err)
		}
	}
	return nil
}

// Get loads one memo with its tags. Returns ErrMemoNotFound for a missing id.
func (s *Store) Get(ctx context.Context, id int64) (*Memo, error) {
	var m Memo
	var pinned int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, category, is_pinned, created_at, updated_at
		 FROM memos WHERE id = ?`, id,
	).Scan(&m.ID, &m.Title, &m.Content, &m.Category, &pinned, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrMemoNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading memo %d: %w", id, err)
	}
	m.IsPinned = pinned != 0

	tags, err := s.tagsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Tags = tags
	return &m, nil
}

func (s *Store) tagsFor(ctx context.Context, memoID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.name FROM tags t
		 JOIN memo_tags mt ON mt.tag_id = t.id
		 WHERE mt.memo_id = ?
		 ORDER BY t.name`, memoID)
	if err != nil {
		return nil, fmt.Errorf("loading tags for memo %d: %w", memoID, err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// List returns memos matching the filter, pinned first and then most
// recently updated.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Memo, error) {
	query := `SELECT DISTINCT m.id, m.title, m.content, m.category, m.is_pinned,
			m.created_at, m.updated_at
		FROM memos m`
	var args []any
	var conds []string

	if filter.Tag != "" {
		query += ` JOIN memo_tags mt ON mt.memo_id = m.id
			JOIN tags t ON t.id = mt.tag_id`
		conds = append(conds, "t.name = ?")
		args = append(args, filter.Tag)
	}
	if filter.Category != "" {
		conds = append(conds, "m.category = ?")
		args = append(args, filter.Category)
	}
	if filter.Pinned != nil {
		conds = append(conds, "m.is_pinned = ?")
		if *filter.Pinned {
			args = append(args, 1)
		} else {
			args = append(args, 0)
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY m.is_pinned DESC, m.updated_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	return s.scanMemos(ctx, query, args...)
}

func (s *Store) scanMemos(ctx context.Context, query string, args ...any) ([]Memo, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying memos: %w", err)
	}
	defer rows.Close()

	var memos []Memo
	for rows.Next() {
		var m Memo
		var pinned int
		if err := rows.Scan(&m.ID, &m.Title, &m.Content, &m.Category, &pinned,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning memo: %w", err)
		}
		m.IsPinned = pinned != 0
		memos = append(memos, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range memos {
		tags, err := s.tagsFor(ctx, memos[i].ID)
		if err != nil {
			return nil, err
		}
		memos[i].Tags = tags
	}
	return memos, nil
}

// Update applies a partial update. A non-nil Tags slice replaces the whole
// tag set; an empty non-nil slice clears it.
func (s *Store) Update(ctx context.Context, id int64, fields UpdateFields) (*Memo, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var sets []string
	var args []any
	if fields.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *fields.Title)
	}
	if fields.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *fields.Content)
	}
	if fields.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *fields.Category)
	}
	if fields.Pinned != nil {
		sets = append(sets, "is_pinned = ?")
		if *fields.Pinned {
			args = append(args, 1)
		} else {
			args = append(args, 0)
		}
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().Format(timeLayout), id)
	query := "UPDATE memos SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("updating memo %d: %w", id, err)
	}

	if fields.Tags != nil {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM memo_tags WHERE memo_id = ?", id); err != nil {
			return nil, fmt.Errorf("clearing tags for memo %d: %w", id, err)
		}
		if err := linkTags(ctx, tx, id, fields.Tags); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a memo and returns its title. Tag links are removed by
// the cascade; tag rows themselves are kept for other memos.
func (s *Store) Delete(ctx context.Context, id int64) (string, error) {
	memo, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM memos WHERE id = ?", id); err != nil {
		return "", fmt.Errorf("deleting memo %d: %w", id, err)
	}
	return memo.Title, nil
}

// Search finds memos whose title or content contains the keyword.
func (s *Store) Search(ctx context.Context, keyword string) ([]Memo, error) {
	pattern := "%" + keyword + "%"
	return s.scanMemos(ctx,
		`SELECT id, title, content, category, is_pinned, created_at, updated_at
		 FROM memos
		 WHERE title LIKE ? OR content LIKE ?
		 ORDER BY is_pinned DESC, updated_at DESC`,
		pattern, pattern)
}

// Categories returns every category in use with its memo count.
func (s *Store) Categories(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, COUNT(*) FROM memos GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("counting categories: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		out[name] = count
	}
	return out, rows.Err()
}

// TagCounts returns every tag currently linked to at least one memo.
func (s *Store) TagCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.name, COUNT(mt.memo_id)
		 FROM tags t
		 JOIN memo_tags mt ON mt.tag_id = t.id
		 GROUP BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("counting tags: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scanning tag count: %w", err)
		}
		out[name] = count
	}
	return out, rows.Err()
}

// CollectStats gathers totals, the pinned count, and the category and tag
// breakdowns.
func (s *Store) CollectStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM memos").Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("counting memos: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM memos WHERE is_pinned = 1").Scan(&stats.Pinned); err != nil {
		return nil, fmt.Errorf("counting pinned memos: %w", err)
	}

	var err error
	if stats.Categories, err = s.Categories(ctx); err != nil {
		return nil, err
	}
	if stats.Tags, err = s.TagCounts(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

// Recent returns the most recently updated memos.
func (s *Store) Recent(ctx context.Context, limit int) ([]Memo, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.scanMemos(ctx,
		`SELECT id, title, content, category, is_pinned, created_at, updated_at
		 FROM memos ORDER BY updated_at DESC LIMIT ?`, limit)
}
