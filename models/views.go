package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskView is a task with its assignees resolved to display fields.
type TaskView struct {
	Task
	AssignedTo []UserSummary `json:"assignedTo"`
}

type ListedTask struct {
	TaskView
	CompletedCount int `json:"completedCount"`
}

type StatusSummary struct {
	All             int64 `json:"all"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

type TaskList struct {
	Tasks         []ListedTask  `json:"tasks"`
	StatusSummary StatusSummary `json:"statusSummary"`
}

type DashboardStatistics struct {
	TotalTasks     int64 `json:"totalTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
}

type DashboardCharts struct {
	TaskDistribution    map[string]int64 `json:"taskDistribution"`
	TasksPriorityLevels map[string]int64 `json:"tasksPriorityLevels"`
}

// RecentTask is the projection of a task shown in dashboard feeds.
type RecentTask struct {
	ID        primitive.ObjectID `json:"_id"`
	Title     string             `json:"title"`
	Status    TaskStatus         `json:"status"`
	Priority  TaskPriority       `json:"priority"`
	DueDate   time.Time          `json:"dueDate"`
	CreatedAt time.Time          `json:"createdAt"`
}

type Dashboard struct {
	Statistics  DashboardStatistics `json:"statistics"`
	Charts      DashboardCharts     `json:"charts"`
	RecentTasks []RecentTask        `json:"recentTasks"`
}
