package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/MuhammadFattan/task-management/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryTaskStore keeps tasks in process memory. It serves local runs with
// STORE_DRIVER=memory and the test suites.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[primitive.ObjectID]models.Task
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: make(map[primitive.ObjectID]models.Task)}
}

func (s *MemoryTaskStore) Insert(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	if _, exists := s.tasks[task.ID]; exists {
		return ErrDuplicate
	}
	s.tasks[task.ID] = task.Clone()
	return nil
}

func (s *MemoryTaskStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := task.Clone()
	return &clone, nil
}

func (s *MemoryTaskStore) Find(_ context.Context, filter TaskFilter, opts FindOptions) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := []models.Task{}
	for _, task := range s.tasks {
		if filter.Matches(&task) {
			tasks = append(tasks, task.Clone())
		}
	}

	if opts.NewestFirst {
		sort.Slice(tasks, func(i, j int) bool {
			if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
				return tasks[i].ID.Hex() > tasks[j].ID.Hex()
			}
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	}
	if opts.Limit > 0 && int64(len(tasks)) > opts.Limit {
		tasks = tasks[:opts.Limit]
	}
	return tasks, nil
}

func (s *MemoryTaskStore) Count(_ context.Context, filter TaskFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, task := range s.tasks {
		if filter.Matches(&task) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryTaskStore) GroupCount(_ context.Context, filter TaskFilter, field GroupField) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, task := range s.tasks {
		if !filter.Matches(&task) {
			continue
		}
		switch field {
		case GroupByStatus:
			counts[string(task.Status)]++
		case GroupByPriority:
			counts[string(task.Priority)]++
		}
	}
	return counts, nil
}

func (s *MemoryTaskStore) Replace(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		return ErrNotFound
	}
	s.tasks[task.ID] = task.Clone()
	return nil
}

func (s *MemoryTaskStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *MemoryUserStore) Insert(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []models.User{}
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok && !seen[id] {
			seen[id] = true
			users = append(users, user)
		}
	}
	sortUsersByName(users)
	return users, nil
}

func (s *MemoryUserStore) FindByRole(_ context.Context, role models.Role) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []models.User{}
	for _, user := range s.users {
		if user.Role == role {
			users = append(users, user)
		}
	}
	sortUsersByName(users)
	return users, nil
}

func sortUsersByName(users []models.User) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name == users[j].Name {
			return users[i].ID.Hex() < users[j].ID.Hex()
		}
		return users[i].Name < users[j].Name
	})
}
