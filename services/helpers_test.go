package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/MuhammadFattan/task-management/models"
	"github.com/MuhammadFattan/task-management/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	tasks  *repositories.MemoryTaskStore
	users  *repositories.MemoryUserStore
	admin  models.Caller
	alice  models.Caller
	bob    models.Caller
	svc    *TaskService
	dash   *DashboardService
	people *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		tasks: repositories.NewMemoryTaskStore(),
		users: repositories.NewMemoryUserStore(),
	}
	f.admin = f.addUser(t, "Admin", models.RoleAdmin)
	f.alice = f.addUser(t, "Alice", models.RoleMember)
	f.bob = f.addUser(t, "Bob", models.RoleMember)

	f.svc = NewTaskService(f.tasks, f.users, Policy{})
	f.svc.now = func() time.Time { return fixedNow }
	f.dash = NewDashboardService(f.tasks, Policy{})
	f.dash.now = func() time.Time { return fixedNow }
	f.people = NewUserService(f.users, f.tasks, Policy{})
	return f
}

func (f *fixture) addUser(t *testing.T, name string, role models.Role) models.Caller {
	t.Helper()
	user := &models.User{
		Name:            name,
		Email:           name + "@example.com",
		ProfileImageURL: "https://img.example.com/" + name,
		Role:            role,
	}
	if err := f.users.Insert(context.Background(), user); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return models.Caller{ID: user.ID, Role: role}
}

// addTask stores a task directly, bypassing the service.
func (f *fixture) addTask(t *testing.T, task models.Task) models.Task {
	t.Helper()
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = fixedNow
	}
	if err := f.tasks.Insert(context.Background(), &task); err != nil {
		t.Fatalf("insert task: %v", err)
	}
	return task
}

func (f *fixture) stored(t *testing.T, id primitive.ObjectID) *models.Task {
	t.Helper()
	task, err := f.tasks.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("load task: %v", err)
	}
	return task
}

func assignees(ids ...primitive.ObjectID) json.RawMessage {
	hex := make([]string, 0, len(ids))
	for _, id := range ids {
		hex = append(hex, id.Hex())
	}
	raw, _ := json.Marshal(hex)
	return raw
}

func checklist(states ...bool) []models.ChecklistItem {
	items := make([]models.ChecklistItem, 0, len(states))
	for i, done := range states {
		items = append(items, models.ChecklistItem{Text: string(rune('a' + i)), Completed: done})
	}
	return items
}

func strPtr(s string) *string { return &s }

func expectKind(t *testing.T, err error, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}
