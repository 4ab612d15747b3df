package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/dmitrijs2005/gotodo/internal/dbx"
	"github.com/dmitrijs2005/gotodo/internal/server/models"
	"github.com/dmitrijs2005/gotodo/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TodoPatch carries the optional fields of an update request. Nil fields are
// left unchanged.
type TodoPatch struct {
	Title *string
	Done  *bool
}

// TodoService implements to-do CRUD scoped to the authenticated owner. The
// userID argument on every method comes from the verified token, never from
// client input.
type TodoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTodoService constructs a TodoService using the given repositories.
func NewTodoService(db *sql.DB, m repomanager.RepositoryManager) *TodoService {
	return &TodoService{db: db, repomanager: m}
}

// Create persists a new to-do item for userID. An empty or whitespace-only
// title yields common.ErrorValidation.
func (s *TodoService) Create(ctx context.Context, userID, title string) (*models.Todo, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}

	todo := &models.Todo{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  title,
		Done:   false,
	}

	repo := s.repomanager.Todos(s.db)
	t, err := repo.Create(ctx, todo)
	if err != nil {
		return nil, fmt.Errorf("error creating todo: %w", err)
	}
	return t, nil
}

// List returns all items owned by userID.
func (s *TodoService) List(ctx context.Context, userID string) ([]*models.Todo, error) {
	repo := s.repomanager.Todos(s.db)
	items, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing todos: %w", err)
	}
	return items, nil
}

// Get returns the item only if it exists and is owned by userID.
func (s *TodoService) Get(ctx context.Context, userID, id string) (*models.Todo, error) {
	repo := s.repomanager.Todos(s.db)
	return repo.GetByID(ctx, id, userID)
}

// Update applies the non-nil patch fields to the item and returns the updated
// record. The read and write run in one transaction so the patch is applied
// to a consistent snapshot.
func (s *TodoService) Update(ctx context.Context, userID, id string, patch TodoPatch) (*models.Todo, error) {
	var updated *models.Todo

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Todos(tx)

		todo, err := repo.GetByID(ctx, id, userID)
		if err != nil {
			return err
		}

		if patch.Title != nil {
			todo.Title = *patch.Title
		}
		if patch.Done != nil {
			todo.Done = *patch.Done
		}

		if err := repo.Update(ctx, todo); err != nil {
			return err
		}

		updated = todo
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the item if it exists and is owned by userID.
func (s *TodoService) Delete(ctx context.Context, userID, id string) error {
	repo := s.repomanager.Todos(s.db)
	return repo.Delete(ctx, id, userID)
}
