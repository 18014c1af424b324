package services

import (
	"github.com/MuhammadFattan/task-management/models"
	"github.com/MuhammadFattan/task-management/repositories"
)

// Policy holds the authorization predicates. Each operation evaluates one of
// them once, from the caller and the task it targets.
type Policy struct {
	// OpenFieldUpdates lets any authenticated caller update task fields.
	OpenFieldUpdates bool
}

func (p Policy) CanAdminister(c models.Caller) bool {
	return c.IsAdmin()
}

// CanRead allows any authenticated caller to fetch a task by id.
func (p Policy) CanRead(c models.Caller, t *models.Task) bool {
	return true
}

func (p Policy) CanWriteStatus(c models.Caller, t *models.Task) bool {
	return c.IsAdmin() || t.IsAssignee(c.ID)
}

func (p Policy) CanWriteChecklist(c models.Caller, t *models.Task) bool {
	return c.IsAdmin() || t.IsAssignee(c.ID)
}

func (p Policy) CanUpdateFields(c models.Caller, t *models.Task) bool {
	if p.OpenFieldUpdates {
		return true
	}
	return c.IsAdmin() || t.IsAssignee(c.ID)
}

// Scope is the set of tasks a caller sees in lists and dashboards: all of
// them for admins, their own assignments otherwise.
func (p Policy) Scope(c models.Caller) repositories.TaskFilter {
	if c.IsAdmin() {
		return repositories.TaskFilter{}
	}
	id := c.ID
	return repositories.TaskFilter{AssignedTo: &id}
}
