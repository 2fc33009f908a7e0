package repositories

import (
	"context"
	"errors"

	"github.com/moh-ammad/exceltovisual/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

type UserFilter struct {
	Role models.Role
}

type TaskFilter struct {
	Status     models.TaskStatus
	AssignedTo *primitive.ObjectID
	CreatedBy  *primitive.ObjectID
}

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter UserFilter) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type TaskStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	Insert(ctx context.Context, task *models.Task) error
	Replace(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
