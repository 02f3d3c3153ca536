// Package store persists the licensing line-item catalog.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Simplici0/referral-roi/internal/licensing"
)

var (
	ErrNotFound       = errors.New("line item not found")
	ErrDuplicateLabel = errors.New("line item label already in use")
)

const selectLineItems = `
	SELECT line_key, label, scale_by_coordinators, annualize, position, active
	FROM license_line_items
`

// Catalog reads and writes licensing line items.
type Catalog struct {
	db *sql.DB
}

func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// List returns every line item ordered by position.
func (c *Catalog) List(ctx context.Context) ([]licensing.LineItem, error) {
	return c.query(ctx, selectLineItems+`ORDER BY position, line_key`)
}

// Active returns the line items a licensing calculation uses.
func (c *Catalog) Active(ctx context.Context) ([]licensing.LineItem, error) {
	return c.query(ctx, selectLineItems+`WHERE active = 1 ORDER BY position, line_key`)
}

// Get returns the line item stored under key.
func (c *Catalog) Get(ctx context.Context, key string) (licensing.LineItem, error) {
	var li licensing.LineItem
	err := c.db.QueryRowContext(ctx, selectLineItems+`WHERE line_key = ?`, key).
		Scan(&li.Key, &li.Label, &li.ScaleByCoordinators, &li.Annualize, &li.Position, &li.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return licensing.LineItem{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return licensing.LineItem{}, fmt.Errorf("query line item %s: %w", key, err)
	}
	return li, nil
}

// Upsert validates li and creates or replaces the line stored under its key.
// It reports whether a new line was created.
func (c *Catalog) Upsert(ctx context.Context, li licensing.LineItem) (bool, error) {
	li.Label = strings.TrimSpace(li.Label)
	if err := li.Validate(); err != nil {
		return false, err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin upsert transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var taken bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM license_line_items WHERE label = ? AND line_key <> ? LIMIT 1)
	`, li.Label, li.Key).Scan(&taken); err != nil {
		return false, fmt.Errorf("check label uniqueness: %w", err)
	}
	if taken {
		return false, fmt.Errorf("%w: %q", ErrDuplicateLabel, li.Label)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM license_line_items WHERE line_key = ? LIMIT 1)
	`, li.Key).Scan(&exists); err != nil {
		return false, fmt.Errorf("check line item existence: %w", err)
	}

	if exists {
		_, err = tx.ExecContext(ctx, `
			UPDATE license_line_items
			SET
				label = ?,
				scale_by_coordinators = ?,
				annualize = ?,
				position = ?,
				active = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE line_key = ?
		`, li.Label, li.ScaleByCoordinators, li.Annualize, li.Position, li.Active, li.Key)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO license_line_items (line_key, label, scale_by_coordinators, annualize, position, active)
			VALUES (?, ?, ?, ?, ?, ?)
		`, li.Key, li.Label, li.ScaleByCoordinators, li.Annualize, li.Position, li.Active)
	}
	if err != nil {
		return false, fmt.Errorf("save line item %s: %w", li.Key, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit upsert transaction: %w", err)
	}
	return !exists, nil
}

func (c *Catalog) query(ctx context.Context, query string) ([]licensing.LineItem, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer rows.Close()

	items := make([]licensing.LineItem, 0)
	for rows.Next() {
		var li licensing.LineItem
		if err := rows.Scan(&li.Key, &li.Label, &li.ScaleByCoordinators, &li.Annualize, &li.Position, &li.Active); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		items = append(items, li)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line items: %w", err)
	}

	return items, nil
}
