package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/MuhammadFattan/task-management/logging"
	"github.com/MuhammadFattan/task-management/models"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewStoreBreaker opens after more than three consecutive store failures and
// probes again after timeout. Missing documents, duplicates and cancelled
// requests are outcomes, not failures.
func NewStoreBreaker(name string, timeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, ErrDuplicate) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Warnf("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

func executeErr(cb *gobreaker.CircuitBreaker, fn func() error) error {
	_, err := cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// BreakerTaskStore guards a TaskStore with a circuit breaker so a failing
// database is answered immediately instead of on every request timeout.
type BreakerTaskStore struct {
	next TaskStore
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerTaskStore(next TaskStore, cb *gobreaker.CircuitBreaker) *BreakerTaskStore {
	return &BreakerTaskStore{next: next, cb: cb}
}

func (s *BreakerTaskStore) Insert(ctx context.Context, task *models.Task) error {
	return executeErr(s.cb, func() error { return s.next.Insert(ctx, task) })
}

func (s *BreakerTaskStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	return execute(s.cb, func() (*models.Task, error) { return s.next.FindByID(ctx, id) })
}

func (s *BreakerTaskStore) Find(ctx context.Context, filter TaskFilter, opts FindOptions) ([]models.Task, error) {
	return execute(s.cb, func() ([]models.Task, error) { return s.next.Find(ctx, filter, opts) })
}

func (s *BreakerTaskStore) Count(ctx context.Context, filter TaskFilter) (int64, error) {
	return execute(s.cb, func() (int64, error) { return s.next.Count(ctx, filter) })
}

func (s *BreakerTaskStore) GroupCount(ctx context.Context, filter TaskFilter, field GroupField) (map[string]int64, error) {
	return execute(s.cb, func() (map[string]int64, error) { return s.next.GroupCount(ctx, filter, field) })
}

func (s *BreakerTaskStore) Replace(ctx context.Context, task *models.Task) error {
	return executeErr(s.cb, func() error { return s.next.Replace(ctx, task) })
}

func (s *BreakerTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return executeErr(s.cb, func() error { return s.next.Delete(ctx, id) })
}

type BreakerUserStore struct {
	next UserStore
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerUserStore(next UserStore, cb *gobreaker.CircuitBreaker) *BreakerUserStore {
	return &BreakerUserStore{next: next, cb: cb}
}

func (s *BreakerUserStore) Insert(ctx context.Context, user *models.User) error {
	return executeErr(s.cb, func() error { return s.next.Insert(ctx, user) })
}

func (s *BreakerUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return execute(s.cb, func() (*models.User, error) { return s.next.FindByID(ctx, id) })
}

func (s *BreakerUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return execute(s.cb, func() (*models.User, error) { return s.next.FindByEmail(ctx, email) })
}

func (s *BreakerUserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	return execute(s.cb, func() ([]models.User, error) { return s.next.FindByIDs(ctx, ids) })
}

func (s *BreakerUserStore) FindByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return execute(s.cb, func() ([]models.User, error) { return s.next.FindByRole(ctx, role) })
}
