package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used as the task partition key.
const DateLayout = "2006-01-02"

// TaskStore defines persistence operations for tasks. Every method is scoped
// by the owning user ID; a task is never visible outside its owner.
type TaskStore interface {
	Create(ctx context.Context, task Task) (Task, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (Task, error)
	GetByDate(ctx context.Context, userID uuid.UUID, date string) ([]Task, error)
	Update(ctx context.Context, userID uuid.UUID, id int64, params UpdateTaskParams) (Task, error)
	DatesByIDs(ctx context.Context, userID uuid.UUID, ids []int64) (map[int64]string, error)
	SetPriorities(ctx context.Context, userID uuid.UUID, assignments []PriorityAssignment) error
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
}

// Task represents a single to-do item pinned to a calendar date.
// Priority is a sort key within the (user, date) partition, not an
// importance level.
type Task struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Task      string    `json:"task"`
	Completed bool      `json:"completed"`
	Priority  int       `json:"priority"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateTaskParams carries the optional fields of a task update. Nil fields
// are left untouched.
type UpdateTaskParams struct {
	Task      *string
	Completed *bool
}

// PriorityAssignment is one priority write produced by a reorder.
type PriorityAssignment struct {
	TaskID   int64
	Priority int
}
