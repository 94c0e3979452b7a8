package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/spendlens/spendlens/internal/rules"
)

// Layer selects which rule table an operation targets. User rules are
// authoritative; suggested rules come from bulk classification and may be
// cleared and regenerated wholesale.
type Layer string

const (
	LayerUser      Layer = "user"
	LayerSuggested Layer = "suggested"
)

func (l Layer) table() (string, error) {
	switch l {
	case LayerUser:
		return "user_rules", nil
	case LayerSuggested:
		return "suggested_rules", nil
	default:
		return "", fmt.Errorf("unknown rule layer: %s", l)
	}
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load returns every rule in the layer keyed by normalized description.
func (s *Store) Load(ctx context.Context, userID uuid.UUID, layer Layer) (rules.Set, error) {
	table, err := layer.table()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT description_key, category FROM %s WHERE user_id = $1", table,
	)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("loading %s rules: %w", layer, err)
	}
	defer rows.Close()

	set := rules.Set{}

	for rows.Next() {
		var key, category string

		if err := rows.Scan(&key, &category); err != nil {
			return nil, fmt.Errorf("scanning %s rule: %w", layer, err)
		}

		set[key] = category
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rules: %w", layer, err)
	}

	return set, nil
}

// Save upserts one rule; the last write for a key wins.
func (s *Store) Save(ctx context.Context, userID uuid.UUID, layer Layer, key, category string) error {
	table, err := layer.table()
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, description_key, category, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id, description_key)
		DO UPDATE SET category = EXCLUDED.category, updated_at = NOW()
	`, table)

	if _, err := s.db.ExecContext(ctx, query, userID, key, category); err != nil {
		return fmt.Errorf("saving %s rule: %w", layer, err)
	}

	return nil
}

// SaveAll upserts a whole set in one transaction.
func (s *Store) SaveAll(ctx context.Context, userID uuid.UUID, layer Layer, set rules.Set) error {
	table, err := layer.table()
	if err != nil {
		return err
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning rules tx: %w", err)
	}
	defer dbTx.Rollback()

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, description_key, category, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id, description_key)
		DO UPDATE SET category = EXCLUDED.category, updated_at = NOW()
	`, table)

	for key, category := range set {
		if _, err := dbTx.ExecContext(ctx, query, userID, key, category); err != nil {
			return fmt.Errorf("saving %s rule: %w", layer, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing rules tx: %w", err)
	}

	return nil
}

// ClearSuggested drops the user's entire suggested layer, typically right
// before a reclassification pass repopulates it.
func (s *Store) ClearSuggested(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM suggested_rules WHERE user_id = $1", userID,
	); err != nil {
		return fmt.Errorf("clearing suggested rules: %w", err)
	}

	return nil
}
