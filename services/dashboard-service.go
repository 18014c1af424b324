package services

import (
	"context"
	"time"

	"github.com/MuhammadFattan/task-management/models"
	"github.com/MuhammadFattan/task-management/repositories"

	"golang.org/x/sync/errgroup"
)

const recentTasksLimit = 10

var recentTaskFields = []string{"_id", "title", "status", "priority", "dueDate", "createdAt"}

// DashboardService assembles the statistics views. Its counts are independent
// reads, so a dashboard is a snapshot and not a transactionally consistent one.
type DashboardService struct {
	tasks  repositories.TaskStore
	policy Policy
	now    func() time.Time
}

func NewDashboardService(tasks repositories.TaskStore, policy Policy) *DashboardService {
	return &DashboardService{tasks: tasks, policy: policy, now: time.Now}
}

// GlobalDashboard aggregates over every task. Admin only.
func (s *DashboardService) GlobalDashboard(ctx context.Context, caller models.Caller) (*models.Dashboard, error) {
	if !s.policy.CanAdminister(caller) {
		return nil, forbiddenError("Access denied, admin only")
	}
	return s.build(ctx, repositories.TaskFilter{})
}

// UserDashboard aggregates over the tasks assigned to the caller.
func (s *DashboardService) UserDashboard(ctx context.Context, caller models.Caller) (*models.Dashboard, error) {
	id := caller.ID
	return s.build(ctx, repositories.TaskFilter{AssignedTo: &id})
}

func (s *DashboardService) build(ctx context.Context, scope repositories.TaskFilter) (*models.Dashboard, error) {
	now := s.now()
	overdue := scope
	overdue.NotStatus = models.StatusCompleted
	overdue.DueBefore = &now

	var (
		stats      models.DashboardStatistics
		byStatus   map[string]int64
		byPriority map[string]int64
		recent     []models.Task
	)

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, filter repositories.TaskFilter) {
		g.Go(func() error {
			n, err := s.tasks.Count(gctx, filter)
			*dst = n
			return err
		})
	}
	count(&stats.TotalTasks, scope)
	count(&stats.PendingTasks, scope.WithStatus(models.StatusPending))
	count(&stats.CompletedTasks, scope.WithStatus(models.StatusCompleted))
	count(&stats.OverdueTasks, overdue)

	g.Go(func() error {
		var err error
		byStatus, err = s.tasks.GroupCount(gctx, scope, repositories.GroupByStatus)
		return err
	})
	g.Go(func() error {
		var err error
		byPriority, err = s.tasks.GroupCount(gctx, scope, repositories.GroupByPriority)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.tasks.Find(gctx, scope, repositories.FindOptions{
			NewestFirst: true,
			Limit:       recentTasksLimit,
			Fields:      recentTaskFields,
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, storeError("dashboard aggregation", err)
	}

	distribution := make(map[string]int64, len(models.TaskStatuses)+1)
	for _, status := range models.TaskStatuses {
		distribution[status.Key()] = byStatus[string(status)]
	}
	distribution["All"] = stats.TotalTasks

	levels := make(map[string]int64, len(models.TaskPriorities))
	for _, priority := range models.TaskPriorities {
		levels[string(priority)] = byPriority[string(priority)]
	}

	return &models.Dashboard{
		Statistics: stats,
		Charts: models.DashboardCharts{
			TaskDistribution:    distribution,
			TasksPriorityLevels: levels,
		},
		RecentTasks: projectRecent(recent),
	}, nil
}

func projectRecent(tasks []models.Task) []models.RecentTask {
	recent := make([]models.RecentTask, 0, len(tasks))
	for _, task := range tasks {
		recent = append(recent, models.RecentTask{
			ID:        task.ID,
			Title:     task.Title,
			Status:    task.Status,
			Priority:  task.Priority,
			DueDate:   task.DueDate,
			CreatedAt: task.CreatedAt,
		})
	}
	return recent
}
