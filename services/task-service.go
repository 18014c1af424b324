package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/MuhammadFattan/task-management/logging"
	"github.com/MuhammadFattan/task-management/models"
	"github.com/MuhammadFattan/task-management/repositories"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskService enforces the task lifecycle: who may create, change and remove
// tasks, and how status and checklist progress stay consistent.
//
// Updates read the task, change it and write it back whole. Two concurrent
// updates of one task are last-write-wins.
type TaskService struct {
	tasks  repositories.TaskStore
	users  repositories.UserStore
	policy Policy
	now    func() time.Time
}

func NewTaskService(tasks repositories.TaskStore, users repositories.UserStore, policy Policy) *TaskService {
	return &TaskService{
		tasks:  tasks,
		users:  users,
		policy: policy,
		now:    time.Now,
	}
}

// ListTasks returns the tasks visible to the caller, optionally narrowed to
// one status, with a status summary counted over the same visibility scope.
func (s *TaskService) ListTasks(ctx context.Context, caller models.Caller, status models.TaskStatus) (*models.TaskList, error) {
	status, err := normalizeStatus(status)
	if err != nil {
		return nil, err
	}

	scope := s.policy.Scope(caller)
	tasks, err := s.tasks.Find(ctx, scope.WithStatus(status), repositories.FindOptions{NewestFirst: true})
	if err != nil {
		return nil, storeError("list tasks", err)
	}

	views, err := s.resolveAll(ctx, tasks)
	if err != nil {
		return nil, err
	}

	listed := make([]models.ListedTask, 0, len(views))
	for i := range views {
		listed = append(listed, models.ListedTask{
			TaskView:       views[i],
			CompletedCount: tasks[i].CompletedCount(),
		})
	}

	summary, err := s.statusSummary(ctx, scope, status)
	if err != nil {
		return nil, err
	}

	return &models.TaskList{Tasks: listed, StatusSummary: *summary}, nil
}

// statusSummary counts the whole scope for "all" and, per status, the scope
// intersected with that status and with the requested filter.
func (s *TaskService) statusSummary(ctx context.Context, scope repositories.TaskFilter, filter models.TaskStatus) (*models.StatusSummary, error) {
	all, err := s.tasks.Count(ctx, scope)
	if err != nil {
		return nil, storeError("count tasks", err)
	}

	count := func(status models.TaskStatus) (int64, error) {
		if filter != "" && filter != status {
			return 0, nil
		}
		n, err := s.tasks.Count(ctx, scope.WithStatus(status))
		if err != nil {
			return 0, storeError("count tasks by status", err)
		}
		return n, nil
	}

	summary := &models.StatusSummary{All: all}
	if summary.PendingTasks, err = count(models.StatusPending); err != nil {
		return nil, err
	}
	if summary.InProgressTasks, err = count(models.StatusInProgress); err != nil {
		return nil, err
	}
	if summary.CompletedTasks, err = count(models.StatusCompleted); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *TaskService) GetTask(ctx context.Context, caller models.Caller, id primitive.ObjectID) (*models.TaskView, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanRead(caller, task) {
		return nil, forbiddenError("Not authorized!")
	}
	return s.resolve(ctx, task)
}

func (s *TaskService) CreateTask(ctx context.Context, caller models.Caller, input models.TaskInput) (*models.Task, error) {
	if !s.policy.CanAdminister(caller) {
		return nil, forbiddenError("Access denied, admin only")
	}

	assignees, err := parseAssignees(input.AssignedTo)
	if err != nil {
		return nil, err
	}
	if assignees == nil {
		return nil, validationError("AssignedTo must be an array of user IDs")
	}
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return nil, validationError("Title is required")
	}
	if input.DueDate == nil {
		return nil, validationError("Due date is required")
	}

	now := s.now()
	task := &models.Task{
		ID:            primitive.NewObjectID(),
		Title:         strings.TrimSpace(*input.Title),
		Priority:      models.PriorityMedium,
		Status:        models.StatusPending,
		DueDate:       *input.DueDate,
		AssignedTo:    assignees,
		CreatedBy:     caller.ID,
		Attachments:   []string{},
		TodoChecklist: []models.ChecklistItem{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, validationError("Invalid priority %q", *input.Priority)
		}
		task.Priority = *input.Priority
	}
	if input.Attachments != nil && *input.Attachments != nil {
		task.Attachments = *input.Attachments
	}
	if input.TodoChecklist != nil && *input.TodoChecklist != nil {
		task.TodoChecklist = *input.TodoChecklist
	}

	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, storeError("create task", err)
	}

	logging.Logger.WithFields(logrus.Fields{"taskId": task.ID.Hex(), "createdBy": caller.ID.Hex()}).
		Info("Event ID: TASK_CREATED, Description: Task created")
	return task, nil
}

// UpdateTask overwrites only the fields present in input.
func (s *TaskService) UpdateTask(ctx context.Context, caller models.Caller, id primitive.ObjectID, input models.TaskInput) (*models.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanUpdateFields(caller, task) {
		return nil, forbiddenError("Not authorized!")
	}

	assignees, err := parseAssignees(input.AssignedTo)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, validationError("Title cannot be empty")
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, validationError("Invalid priority %q", *input.Priority)
		}
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.TodoChecklist != nil && *input.TodoChecklist != nil {
		task.TodoChecklist = *input.TodoChecklist
	}
	if input.Attachments != nil && *input.Attachments != nil {
		task.Attachments = *input.Attachments
	}
	if assignees != nil {
		task.AssignedTo = assignees
	}

	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, caller models.Caller, id primitive.ObjectID) error {
	if !s.policy.CanAdminister(caller) {
		return forbiddenError("Access denied, admin only")
	}

	err := s.tasks.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return notFoundError("Task not found!")
	}
	if err != nil {
		return storeError("delete task", err)
	}

	logging.Logger.WithField("taskId", id.Hex()).Info("Event ID: TASK_DELETED, Description: Task deleted")
	return nil
}

// UpdateStatus sets the status directly. An empty status keeps the current
// one. Completing a task checks off its whole checklist.
func (s *TaskService) UpdateStatus(ctx context.Context, caller models.Caller, id primitive.ObjectID, status models.TaskStatus) (*models.Task, error) {
	status, err := normalizeStatus(status)
	if err != nil {
		return nil, err
	}

	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanWriteStatus(caller, task) {
		return nil, forbiddenError("Not authorized!")
	}

	if status == "" {
		status = task.Status
	}
	task.ApplyStatus(status)

	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateChecklist replaces the checklist and re-derives progress and status.
func (s *TaskService) UpdateChecklist(ctx context.Context, caller models.Caller, id primitive.ObjectID, items []models.ChecklistItem) (*models.TaskView, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanWriteChecklist(caller, task) {
		return nil, forbiddenError("Not authorized to update checklist!")
	}

	task.ApplyChecklist(items)

	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	return s.resolve(ctx, task)
}

func (s *TaskService) load(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFoundError("Task not found!")
	}
	if err != nil {
		return nil, storeError("load task", err)
	}
	return task, nil
}

func (s *TaskService) save(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = s.now()
	err := s.tasks.Replace(ctx, task)
	if errors.Is(err, repositories.ErrNotFound) {
		return notFoundError("Task not found!")
	}
	if err != nil {
		return storeError("update task", err)
	}
	return nil
}

func (s *TaskService) resolve(ctx context.Context, task *models.Task) (*models.TaskView, error) {
	views, err := s.resolveAll(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// resolveAll replaces assignee ids with display fields using one user lookup
// for all tasks. Ids of users that no longer exist are dropped.
func (s *TaskService) resolveAll(ctx context.Context, tasks []models.Task) ([]models.TaskView, error) {
	var ids []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool)
	for _, task := range tasks {
		for _, id := range task.AssignedTo {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeError("resolve assignees", err)
	}
	byID := make(map[primitive.ObjectID]models.UserSummary, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Summary()
	}

	views := make([]models.TaskView, 0, len(tasks))
	for _, task := range tasks {
		assignees := make([]models.UserSummary, 0, len(task.AssignedTo))
		for _, id := range task.AssignedTo {
			if summary, ok := byID[id]; ok {
				assignees = append(assignees, summary)
			}
		}
		views = append(views, models.TaskView{Task: task, AssignedTo: assignees})
	}
	return views, nil
}

// normalizeStatus maps an optional status, given by value or key, to its
// canonical value. Empty stays empty.
func normalizeStatus(status models.TaskStatus) (models.TaskStatus, error) {
	if status == "" {
		return "", nil
	}
	canonical, ok := models.ParseTaskStatus(string(status))
	if !ok {
		return "", validationError("Invalid status %q", status)
	}
	return canonical, nil
}

// parseAssignees validates the raw assignedTo value. It returns nil when the
// field was absent or null, and a set of ids when it is an array of ids.
func parseAssignees(raw json.RawMessage) ([]primitive.ObjectID, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '[' {
		return nil, validationError("AssignedTo must be an array of user IDs")
	}

	var hexIDs []string
	if err := json.Unmarshal(trimmed, &hexIDs); err != nil {
		return nil, validationError("AssignedTo must be an array of user IDs")
	}

	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	seen := make(map[primitive.ObjectID]bool, len(hexIDs))
	for _, hex := range hexIDs {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, validationError("Invalid user ID %q in assignedTo", hex)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
