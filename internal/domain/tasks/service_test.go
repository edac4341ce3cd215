package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
	"bizerp/internal/domain/domaintest"
)

func TestService_CreateDefaultsAndChangeStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewService(domaintest.NewMemoryCatalog[*Task]("task"), nil, id.New())

	created, err := svc.Create(ctx, &Task{Title: "Count bin A1"})
	require.NoError(t, err)
	assert.Equal(t, StatusTodo, created.Status)
	assert.Equal(t, PriorityMedium, created.Priority)

	moved, err := svc.ChangeStatus(ctx, created.ID, StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, moved.Status)

	_, err = svc.ChangeStatus(ctx, created.ID, "archived")
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetHTTPStatus(err))
}

func TestService_CancelledTaskCannotComplete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(domaintest.NewMemoryCatalog[*Task]("task"), nil, id.New())

	created, err := svc.Create(ctx, &Task{Title: "Call vendor", Status: StatusCancelled})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, created.ID, StatusDone)
	assert.Equal(t, 422, apperror.GetHTTPStatus(err))
}

func TestTask_Validate(t *testing.T) {
	assert.Error(t, (&Task{}).Validate(context.Background()))
	assert.Error(t, (&Task{Title: "x", Priority: "whenever"}).Validate(context.Background()))
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	yesterday := types.NewDate(now.AddDate(0, 0, -1))

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"open past due", Task{Status: StatusTodo, DueDate: yesterday}, true},
		{"due today", Task{Status: StatusTodo, DueDate: types.NewDate(now)}, false},
		{"done past due", Task{Status: StatusDone, DueDate: yesterday}, false},
		{"no due date", Task{Status: StatusTodo}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.IsOverdue(now))
		})
	}
}
