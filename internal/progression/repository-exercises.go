package progression

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type sqliteExerciseRepository struct {
	baseRepository
}

// Get retrieves an exercise by ID.
func (r *sqliteExerciseRepository) Get(ctx context.Context, id int64) (Exercise, error) {
	var ex Exercise
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, name, description_markdown
		FROM exercises
		WHERE id = ?`, id).Scan(&ex.ID, &ex.Name, &ex.DescriptionMarkdown)
	if errors.Is(err, sql.ErrNoRows) {
		return Exercise{}, ErrNotFound
	}
	if err != nil {
		return Exercise{}, fmt.Errorf("query exercise: %w", err)
	}
	return ex, nil
}

// List returns the whole exercise catalog ordered by name.
func (r *sqliteExerciseRepository) List(ctx context.Context) (_ []Exercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, name, description_markdown
		FROM exercises
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []Exercise
	for rows.Next() {
		var ex Exercise
		if err = rows.Scan(&ex.ID, &ex.Name, &ex.DescriptionMarkdown); err != nil {
			return nil, fmt.Errorf("scan exercise row: %w", err)
		}
		exercises = append(exercises, ex)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return exercises, nil
}

// Create inserts a new exercise and returns it with the assigned ID.
func (r *sqliteExerciseRepository) Create(ctx context.Context, ex Exercise) (Exercise, error) {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO exercises (name, description_markdown)
		VALUES (?, ?)`, ex.Name, ex.DescriptionMarkdown)
	if err != nil {
		return Exercise{}, fmt.Errorf("insert exercise: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Exercise{}, fmt.Errorf("exercise insert id: %w", err)
	}
	ex.ID = id
	return ex, nil
}

// GetOrCreateByName resolves an exercise by its unique name, creating a bare
// catalog entry when it does not exist yet. Plan imports reference exercises
// by name.
func (r *sqliteExerciseRepository) GetOrCreateByName(ctx context.Context, name string) (Exercise, error) {
	var ex Exercise
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, name, description_markdown
		FROM exercises
		WHERE name = ?`, name).Scan(&ex.ID, &ex.Name, &ex.DescriptionMarkdown)
	if err == nil {
		return ex, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Exercise{}, fmt.Errorf("query exercise by name: %w", err)
	}
	return r.Create(ctx, Exercise{Name: name})
}
