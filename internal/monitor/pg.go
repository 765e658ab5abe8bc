package monitor

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore answers monitoring lookups from a live PostgreSQL database.
// All parameterized lookups use named bound arguments; user input never
// reaches the SQL text.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore connects to PostgreSQL and verifies the connection.
func NewPgStore(ctx context.Context, url string) (*PgStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PgStore{pool: pool}, nil
}

// Close releases the connection pool.
func (p *PgStore) Close() {
	p.pool.Close()
}

func (p *PgStore) Sites(ctx context.Context, filter SiteFilter) ([]Site, error) {
	query := `SELECT id, name, region, status, cameras, contact, joined_at::text
		FROM sites
		WHERE (@region = '' OR region = @region)
		  AND (@status = '' OR status = @status)
		ORDER BY id`
	rows, err := p.pool.Query(ctx, query, pgx.NamedArgs{
		"region": filter.Region,
		"status": filter.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("querying sites: %w", err)
	}
	defer rows.Close()

	var out []Site
	for rows.Next() {
		var s Site
		if err := rows.Scan(&s.ID, &s.Name, &s.Region, &s.Status, &s.Cameras, &s.Contact, &s.JoinedAt); err != nil {
			return nil, fmt.Errorf("scanning site: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *PgStore) Cameras(ctx context.Context, filter CameraFilter) ([]Camera, error) {
	query := `SELECT id, site_id, name, location, status, model
		FROM cameras
		WHERE (@site_id = 0 OR site_id = @site_id)
		  AND (@status = '' OR status = @status)
		ORDER BY id`
	rows, err := p.pool.Query(ctx, query, pgx.NamedArgs{
		"site_id": filter.SiteID,
		"status":  filter.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("querying cameras: %w", err)
	}
	defer rows.Close()

	var out []Camera
	for rows.Next() {
		var c Camera
		if err := rows.Scan(&c.ID, &c.SiteID, &c.Name, &c.Location, &c.Status, &c.Model); err != nil {
			return nil, fmt.Errorf("scanning camera: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *PgStore) Events(ctx context.Context, filter EventFilter) ([]Event, error) {
	query := `SELECT id, camera_id, site_id, kind, severity, occurred_at::text, note
		FROM events
		WHERE (@site_id = 0 OR site_id = @site_id)
		  AND (@camera_id = 0 OR camera_id = @camera_id)
		  AND (@severity = '' OR severity = @severity)
		ORDER BY occurred_at DESC
		LIMIT @limit`
	rows, err := p.pool.Query(ctx, query, pgx.NamedArgs{
		"site_id":   filter.SiteID,
		"camera_id": filter.CameraID,
		"severity":  filter.Severity,
		"limit":     filter.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.CameraID, &e.SiteID, &e.Kind, &e.Severity, &e.OccurredAt, &e.Note); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Query executes an already-validated read-only statement and returns the
// full column/row shape.
func (p *PgStore) Query(ctx context.Context, query string) (*QueryResult, error) {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	result := &QueryResult{Columns: columns}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result.Total = len(result.Rows)
	return result, nil
}

func (p *PgStore) Mode() string { return "live" }
