package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Simplici0/referral-roi/internal/licensing"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Skipped int
}

// Run inserts every line of catalog whose key is not stored yet. Existing
// lines are left untouched so edits made through the API survive restarts.
func Run(ctx context.Context, db *sql.DB, catalog []licensing.LineItem) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	for _, li := range catalog {
		if err := ensureLineItem(ctx, tx, li, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureLineItem(ctx context.Context, tx *sql.Tx, li licensing.LineItem, stats *Stats) error {
	if err := li.Validate(); err != nil {
		return fmt.Errorf("seed line item %s: %w", li.Key, err)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM license_line_items WHERE line_key = ? LIMIT 1)`, li.Key).Scan(&exists); err != nil {
		return fmt.Errorf("check line item %s existence: %w", li.Key, err)
	}
	if exists {
		stats.Skipped++
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO license_line_items (line_key, label, scale_by_coordinators, annualize, position, active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, li.Key, li.Label, li.ScaleByCoordinators, li.Annualize, li.Position, li.Active); err != nil {
		return fmt.Errorf("insert line item %s: %w", li.Key, err)
	}
	stats.Inserts++
	return nil
}
