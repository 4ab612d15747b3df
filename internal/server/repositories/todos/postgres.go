// Package todos provides a PostgreSQL-backed repository for to-do items.
// Every read, update, and delete filters by both id and user_id, so an item
// belonging to another user is indistinguishable from a missing one.
package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/dmitrijs2005/gotodo/internal/dbx"
	"github.com/dmitrijs2005/gotodo/internal/server/models"
)

// PostgresRepository implements to-do storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new to-do item for its owner.
func (r *PostgresRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {

	query :=
		`INSERT INTO todos (id, user_id, title, done)
         VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		todo.ID, todo.UserID, todo.Title, todo.Done).Scan(&todo.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

// ListByUser returns all items owned by userID in insertion order.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Todo, error) {
	query :=
		`SELECT id, user_id, title, done, created_at FROM todos
		 WHERE user_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Todo{}
	for rows.Next() {
		var item models.Todo
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.Done, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns the item only when both id and user_id match, otherwise
// common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string, userID string) (*models.Todo, error) {
	query :=
		`SELECT id, user_id, title, done, created_at FROM todos
		 WHERE id = $1 AND user_id = $2
		 `

	todo := &models.Todo{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&todo.ID, &todo.UserID, &todo.Title, &todo.Done, &todo.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

// Update writes title and done for the item, scoped by owner. No matching row
// yields common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, todo *models.Todo) error {
	query :=
		`UPDATE todos SET title = $1, done = $2
		 WHERE id = $3 AND user_id = $4
		 `

	res, err := r.db.ExecContext(ctx, query, todo.Title, todo.Done, todo.ID, todo.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes the item, scoped by owner. No matching row yields
// common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id string, userID string) error {
	query :=
		`DELETE FROM todos
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
