package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/moh-ammad/exceltovisual/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryUserStore is a UserStore kept in process memory. It backs
// `serve --memory` and the package tests elsewhere in the module.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
	seq   []primitive.ObjectID
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: map[primitive.ObjectID]models.User{}}
}

func (s *MemoryUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, id := range s.seq {
		if u := s.users[id]; u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) List(_ context.Context, filter UserFilter) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.User{}
	for _, id := range s.seq {
		u := s.users[id]
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if s.emailTaken(user.Email, primitive.NilObjectID) {
		return fmt.Errorf("user %q: %w", user.Email, ErrDuplicate)
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("user %s: %w", user.ID.Hex(), ErrDuplicate)
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *user
	s.seq = append(s.seq, user.ID)
	return nil
}

func (s *MemoryUserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if s.emailTaken(user.Email, user.ID) {
		return fmt.Errorf("user %q: %w", user.Email, ErrDuplicate)
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	s.seq = removeID(s.seq, id)
	return nil
}

func (s *MemoryUserStore) emailTaken(email string, except primitive.ObjectID) bool {
	for id, u := range s.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

// MemoryTaskStore is the TaskStore counterpart of MemoryUserStore.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[primitive.ObjectID]models.Task
	seq   []primitive.ObjectID
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: map[primitive.ObjectID]models.Task{}}
}

func (s *MemoryTaskStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneTask(t), nil
}

func (s *MemoryTaskStore) List(_ context.Context, filter TaskFilter) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Task{}
	for _, id := range s.seq {
		t := s.tasks[id]
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.AssignedTo != nil && !t.IsAssignedTo(*filter.AssignedTo) {
			continue
		}
		if filter.CreatedBy != nil && t.CreatedBy != *filter.CreatedBy {
			continue
		}
		out = append(out, *cloneTask(t))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryTaskStore) Insert(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	if _, ok := s.tasks[task.ID]; ok {
		return fmt.Errorf("task %s: %w", task.ID.Hex(), ErrDuplicate)
	}
	now := time.Now().UTC()
	task.CreatedAt, task.UpdatedAt = now, now
	s.tasks[task.ID] = *cloneTask(*task)
	s.seq = append(s.seq, task.ID)
	return nil
}

func (s *MemoryTaskStore) Replace(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tasks[task.ID]
	if !ok {
		return ErrNotFound
	}
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = time.Now().UTC()
	s.tasks[task.ID] = *cloneTask(*task)
	return nil
}

func (s *MemoryTaskStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	s.seq = removeID(s.seq, id)
	return nil
}

func cloneTask(t models.Task) *models.Task {
	c := t
	c.AssignedTo = append([]primitive.ObjectID(nil), t.AssignedTo...)
	c.Attachments = append([]models.Attachment(nil), t.Attachments...)
	c.TodoChecklist = append([]models.TodoItem(nil), t.TodoChecklist...)
	return &c
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
