package progression

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type sqliteCycleRepository struct {
	baseRepository
}

// Create persists a cycle and its items. The Active flag is ignored here;
// activation is only done through SetActive.
func (r *sqliteCycleRepository) Create(ctx context.Context, cycle Cycle) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer r.rollback(ctx, tx)()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO cycles (id, name, is_active)
		VALUES (?, ?, 0)`, cycle.ID.String(), cycle.Name); err != nil {
		return fmt.Errorf("insert cycle: %w", err)
	}

	for _, item := range cycle.Items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO cycle_items (cycle_id, position, plan_id)
			VALUES (?, ?, ?)`,
			cycle.ID.String(), item.Position, item.PlanID.String()); err != nil {
			return fmt.Errorf("insert cycle item %d: %w", item.Position, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Get retrieves a cycle with its ordered items.
func (r *sqliteCycleRepository) Get(ctx context.Context, id uuid.UUID) (Cycle, error) {
	var cycle Cycle
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT name, is_active
		FROM cycles
		WHERE id = ?`, id.String()).Scan(&cycle.Name, &cycle.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return Cycle{}, ErrNotFound
	}
	if err != nil {
		return Cycle{}, fmt.Errorf("query cycle: %w", err)
	}
	cycle.ID = id

	if cycle.Items, err = r.loadItems(ctx, id); err != nil {
		return Cycle{}, err
	}
	return cycle, nil
}

func (r *sqliteCycleRepository) loadItems(ctx context.Context, cycleID uuid.UUID) (_ []CycleItem, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT position, plan_id
		FROM cycle_items
		WHERE cycle_id = ?
		ORDER BY position`, cycleID.String())
	if err != nil {
		return nil, fmt.Errorf("query cycle items: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var items []CycleItem
	for rows.Next() {
		var (
			item      CycleItem
			planIDStr string
		)
		if err = rows.Scan(&item.Position, &planIDStr); err != nil {
			return nil, fmt.Errorf("scan cycle item row: %w", err)
		}
		if item.PlanID, err = uuid.Parse(planIDStr); err != nil {
			return nil, fmt.Errorf("parse cycle item plan id: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

// List returns all cycles with their items.
func (r *sqliteCycleRepository) List(ctx context.Context) (_ []Cycle, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id
		FROM cycles
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var ids []uuid.UUID
	for rows.Next() {
		var idStr string
		if err = rows.Scan(&idStr); err != nil {
			return nil, fmt.Errorf("scan cycle id: %w", err)
		}
		id, parseErr := uuid.Parse(idStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parse cycle id: %w", parseErr)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	cycles := make([]Cycle, 0, len(ids))
	for _, id := range ids {
		cycle, getErr := r.Get(ctx, id)
		if getErr != nil {
			return nil, fmt.Errorf("get cycle %s: %w", id, getErr)
		}
		cycles = append(cycles, cycle)
	}
	return cycles, nil
}

// Active returns the currently active cycle, or ErrNotFound when none is.
func (r *sqliteCycleRepository) Active(ctx context.Context) (Cycle, error) {
	var idStr string
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id
		FROM cycles
		WHERE is_active = 1
		LIMIT 1`).Scan(&idStr)
	if errors.Is(err, sql.ErrNoRows) {
		return Cycle{}, ErrNotFound
	}
	if err != nil {
		return Cycle{}, fmt.Errorf("query active cycle: %w", err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return Cycle{}, fmt.Errorf("parse active cycle id: %w", err)
	}
	return r.Get(ctx, id)
}

// SetActive deactivates every other cycle, activates the target, and ensures
// a progress row exists, all in one transaction. This is the single mutation
// path for the active flag; the schema does not enforce uniqueness itself.
func (r *sqliteCycleRepository) SetActive(ctx context.Context, id uuid.UUID) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer r.rollback(ctx, tx)()

	result, err := tx.ExecContext(ctx, `
		UPDATE cycles SET is_active = 1 WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("activate cycle: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE cycles SET is_active = 0 WHERE id != ?`, id.String()); err != nil {
		return fmt.Errorf("deactivate other cycles: %w", err)
	}

	// Lazily create the rotation pointer at (0, 0).
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO cycle_progress (cycle_id, item_index, day_index)
		VALUES (?, 0, 0)
		ON CONFLICT (cycle_id) DO NOTHING`, id.String()); err != nil {
		return fmt.Errorf("ensure cycle progress: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Delete removes a cycle with its items and progress.
func (r *sqliteCycleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM cycles WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete cycle: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
