package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

// TaskStatuses lists every status in lifecycle order.
var TaskStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

func (s TaskStatus) Valid() bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Key is the status without spaces, used as a key in dashboard charts.
func (s TaskStatus) Key() string {
	return strings.ReplaceAll(string(s), " ", "")
}

// ParseTaskStatus accepts a status by value ("In Progress") or by key
// ("InProgress").
func ParseTaskStatus(s string) (TaskStatus, bool) {
	for _, known := range TaskStatuses {
		if s == string(known) || s == known.Key() {
			return known, true
		}
	}
	return "", false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}

func (p TaskPriority) Valid() bool {
	for _, known := range TaskPriorities {
		if p == known {
			return true
		}
	}
	return false
}

type ChecklistItem struct {
	Text      string `json:"text" bson:"text"`
	Completed bool   `json:"completed" bson:"completed"`
}

type Task struct {
	ID            primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Title         string               `json:"title" bson:"title"`
	Description   string               `json:"description" bson:"description"`
	Priority      TaskPriority         `json:"priority" bson:"priority"`
	Status        TaskStatus           `json:"status" bson:"status"`
	DueDate       time.Time            `json:"dueDate" bson:"dueDate"`
	AssignedTo    []primitive.ObjectID `json:"assignedTo" bson:"assignedTo"`
	CreatedBy     primitive.ObjectID   `json:"createdBy" bson:"createdBy"`
	Attachments   []string             `json:"attachments" bson:"attachments"`
	TodoChecklist []ChecklistItem      `json:"todoChecklist" bson:"todoChecklist"`
	Progress      int                  `json:"progress" bson:"progress"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// IsAssignee reports whether userID is in the task's assignedTo set.
func (t *Task) IsAssignee(userID primitive.ObjectID) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

func (t *Task) CompletedCount() int {
	return CountCompleted(t.TodoChecklist)
}

// Clone returns a copy that shares no slices with t.
func (t Task) Clone() Task {
	if t.AssignedTo != nil {
		t.AssignedTo = append([]primitive.ObjectID{}, t.AssignedTo...)
	}
	if t.Attachments != nil {
		t.Attachments = append([]string{}, t.Attachments...)
	}
	if t.TodoChecklist != nil {
		t.TodoChecklist = append([]ChecklistItem{}, t.TodoChecklist...)
	}
	return t
}
