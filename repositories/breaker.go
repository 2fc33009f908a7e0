package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/moh-ammad/exceltovisual/logging"
	"github.com/moh-ammad/exceltovisual/models"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewStoreBreaker trips after consecutiveFailures store errors in a row.
// Not-found and duplicate-key results are answers, not failures.
func NewStoreBreaker(name string, consecutiveFailures uint32, timeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

func guarded[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

func guardedErr(cb *gobreaker.CircuitBreaker, fn func() error) error {
	_, err := cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

type GuardedUserStore struct {
	next UserStore
	cb   *gobreaker.CircuitBreaker
}

func NewGuardedUserStore(next UserStore, cb *gobreaker.CircuitBreaker) *GuardedUserStore {
	return &GuardedUserStore{next: next, cb: cb}
}

func (s *GuardedUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return guarded(s.cb, func() (*models.User, error) { return s.next.FindByID(ctx, id) })
}

func (s *GuardedUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return guarded(s.cb, func() (*models.User, error) { return s.next.FindByEmail(ctx, email) })
}

func (s *GuardedUserStore) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	return guarded(s.cb, func() ([]models.User, error) { return s.next.List(ctx, filter) })
}

func (s *GuardedUserStore) Create(ctx context.Context, user *models.User) error {
	return guardedErr(s.cb, func() error { return s.next.Create(ctx, user) })
}

func (s *GuardedUserStore) Update(ctx context.Context, user *models.User) error {
	return guardedErr(s.cb, func() error { return s.next.Update(ctx, user) })
}

func (s *GuardedUserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return guardedErr(s.cb, func() error { return s.next.Delete(ctx, id) })
}

type GuardedTaskStore struct {
	next TaskStore
	cb   *gobreaker.CircuitBreaker
}

func NewGuardedTaskStore(next TaskStore, cb *gobreaker.CircuitBreaker) *GuardedTaskStore {
	return &GuardedTaskStore{next: next, cb: cb}
}

func (s *GuardedTaskStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	return guarded(s.cb, func() (*models.Task, error) { return s.next.FindByID(ctx, id) })
}

func (s *GuardedTaskStore) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	return guarded(s.cb, func() ([]models.Task, error) { return s.next.List(ctx, filter) })
}

func (s *GuardedTaskStore) Insert(ctx context.Context, task *models.Task) error {
	return guardedErr(s.cb, func() error { return s.next.Insert(ctx, task) })
}

func (s *GuardedTaskStore) Replace(ctx context.Context, task *models.Task) error {
	return guardedErr(s.cb, func() error { return s.next.Replace(ctx, task) })
}

func (s *GuardedTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return guardedErr(s.cb, func() error { return s.next.Delete(ctx, id) })
}
