package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/moh-ammad/exceltovisual/models"
	"github.com/moh-ammad/exceltovisual/reports"
	"github.com/moh-ammad/exceltovisual/repositories"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	users      repositories.UserStore
	tasks      repositories.TaskStore
	adminKey   string
	bcryptCost int
	validate   *validator.Validate
}

func NewUserService(users repositories.UserStore, tasks repositories.TaskStore, adminKey string, bcryptCost int) *UserService {
	return &UserService{
		users:      users,
		tasks:      tasks,
		adminKey:   adminKey,
		bcryptCost: bcryptCost,
		validate:   reports.NewValidator(),
	}
}

// ListMembers returns every member with per-status counts of the tasks
// assigned to them.
func (s *UserService) ListMembers(ctx context.Context) ([]models.UserWithCounts, error) {
	members, err := s.users.List(ctx, repositories.UserFilter{Role: models.RoleMember})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	tasks, err := s.tasks.List(ctx, repositories.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	out := make([]models.UserWithCounts, 0, len(members))
	for _, m := range members {
		out = append(out, models.CountsForMember(m, tasks))
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.users.Delete(ctx, id)
}

func (s *UserService) AdminUpdate(ctx context.Context, id primitive.ObjectID, in UserUpdateInput) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyUserUpdate(s.validate, user, in, s.adminKey, s.bcryptCost); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
