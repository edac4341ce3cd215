// Package tasks tracks work items assigned to users.
package tasks

import (
	"context"
	"time"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
)

// Task statuses.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusCancelled  = "cancelled"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Statuses is the task status set.
var Statuses = []string{StatusTodo, StatusInProgress, StatusDone, StatusCancelled}

// Priorities is the task priority set.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Task is a unit of work.
type Task struct {
	entity.BaseEntity
	entity.OrgScoped

	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	Status      string     `db:"status" json:"status"`
	Priority    string     `db:"priority" json:"priority"`
	AssignedTo  id.Ref     `db:"assigned_to" json:"assigned_to"`
	DueDate     types.Date `db:"due_date" json:"due_date"`
	Module      *string    `db:"module" json:"module"`
}

// Validate implements entity.Validatable.
func (t *Task) Validate(ctx context.Context) error {
	if t.Title == "" {
		return apperror.NewValidation("title is required").WithDetail("field", "title")
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if !contains(Statuses, t.Status) {
		return apperror.NewValidation("unknown status").WithDetail("field", "status")
	}
	if !contains(Priorities, t.Priority) {
		return apperror.NewValidation("unknown priority").WithDetail("field", "priority")
	}
	return nil
}

// IsOverdue reports whether an open task is past its due date at now.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate.IsZero() || t.Status == StatusDone || t.Status == StatusCancelled {
		return false
	}
	return t.DueDate.Before(types.NewDate(now).Time)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
