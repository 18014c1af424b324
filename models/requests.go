package models

import (
	"encoding/json"
	"time"
)

// TaskInput carries the body of task create and update requests. Nil fields
// were absent from the request. AssignedTo stays raw so its shape can be
// validated.
type TaskInput struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	Priority      *TaskPriority    `json:"priority"`
	DueDate       *time.Time       `json:"dueDate"`
	AssignedTo    json.RawMessage  `json:"assignedTo"`
	Attachments   *[]string        `json:"attachments"`
	TodoChecklist *[]ChecklistItem `json:"todoChecklist"`
}

type StatusUpdateRequest struct {
	Status TaskStatus `json:"status"`
}

type ChecklistUpdateRequest struct {
	TodoChecklist []ChecklistItem `json:"todoChecklist"`
}

type RegisterRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	ProfileImageURL  string `json:"profileImageUrl"`
	AdminInviteToken string `json:"adminInviteToken"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User
	Token string `json:"token"`
}
