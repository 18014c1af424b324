package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/MuhammadFattan/task-management/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// GroupField names a task field that grouped counts can be taken over.
type GroupField string

const (
	GroupByStatus   GroupField = "status"
	GroupByPriority GroupField = "priority"
)

// TaskFilter selects tasks. Zero-valued fields match everything.
type TaskFilter struct {
	Status     models.TaskStatus
	NotStatus  models.TaskStatus
	AssignedTo *primitive.ObjectID
	DueBefore  *time.Time
}

func (f TaskFilter) WithStatus(status models.TaskStatus) TaskFilter {
	f.Status = status
	return f
}

// Matches evaluates the filter against a task in memory.
func (f TaskFilter) Matches(t *models.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.NotStatus != "" && t.Status == f.NotStatus {
		return false
	}
	if f.AssignedTo != nil && !t.IsAssignee(*f.AssignedTo) {
		return false
	}
	if f.DueBefore != nil && !t.DueDate.Before(*f.DueBefore) {
		return false
	}
	return true
}

func (f TaskFilter) toBSON() bson.M {
	filter := bson.M{}
	status := bson.M{}
	if f.Status != "" {
		status["$eq"] = f.Status
	}
	if f.NotStatus != "" {
		status["$ne"] = f.NotStatus
	}
	if len(status) > 0 {
		filter["status"] = status
	}
	if f.AssignedTo != nil {
		filter["assignedTo"] = *f.AssignedTo
	}
	if f.DueBefore != nil {
		filter["dueDate"] = bson.M{"$lt": *f.DueBefore}
	}
	return filter
}

type FindOptions struct {
	NewestFirst bool
	Limit       int64
	// Fields restricts the decoded fields. Empty means the whole document.
	Fields []string
}

// TaskStore is the document collection holding tasks.
type TaskStore interface {
	Insert(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	Find(ctx context.Context, filter TaskFilter, opts FindOptions) ([]models.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int64, error)
	// GroupCount counts matching tasks per distinct value of field. Values
	// with no tasks are absent from the result.
	GroupCount(ctx context.Context, filter TaskFilter, field GroupField) (map[string]int64, error)
	Replace(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindByRole(ctx context.Context, role models.Role) ([]models.User, error)
}
