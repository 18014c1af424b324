package services

import (
	"context"
	"errors"

	"github.com/MuhammadFattan/task-management/models"
	"github.com/MuhammadFattan/task-management/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const memberCountConcurrency = 8

type UserService struct {
	users  repositories.UserStore
	tasks  repositories.TaskStore
	policy Policy
}

func NewUserService(users repositories.UserStore, tasks repositories.TaskStore, policy Policy) *UserService {
	return &UserService{users: users, tasks: tasks, policy: policy}
}

// ListMembers returns every member with their task counts per status.
func (s *UserService) ListMembers(ctx context.Context, caller models.Caller) ([]models.MemberWithTaskCounts, error) {
	if !s.policy.CanAdminister(caller) {
		return nil, forbiddenError("Access denied, admin only")
	}

	members, err := s.users.FindByRole(ctx, models.RoleMember)
	if err != nil {
		return nil, storeError("list members", err)
	}

	result := make([]models.MemberWithTaskCounts, len(members))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(memberCountConcurrency)
	for i := range members {
		i := i
		result[i].User = members[i]
		g.Go(func() error {
			id := members[i].ID
			counts, err := s.tasks.GroupCount(gctx, repositories.TaskFilter{AssignedTo: &id}, repositories.GroupByStatus)
			if err != nil {
				return err
			}
			result[i].PendingTasks = counts[string(models.StatusPending)]
			result[i].InProgressTasks = counts[string(models.StatusInProgress)]
			result[i].CompletedTasks = counts[string(models.StatusCompleted)]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, storeError("count member tasks", err)
	}
	return result, nil
}

func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFoundError("User not found!")
	}
	if err != nil {
		return nil, storeError("get user", err)
	}
	return user, nil
}
