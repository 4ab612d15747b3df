package todos

import (
	"context"

	"github.com/dmitrijs2005/gotodo/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Todo, error)
	GetByID(ctx context.Context, id string, userID string) (*models.Todo, error)
	Update(ctx context.Context, todo *models.Todo) error
	Delete(ctx context.Context, id string, userID string) error
}
