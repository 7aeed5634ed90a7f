package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tmorozova/daylist-server/internal/logger"
	"github.com/tmorozova/daylist-server/internal/model"
)

// Task implements the date-scoped task operations. Every method takes the
// authenticated user ID resolved by the session middleware; caller-supplied
// user identifiers are never accepted.
type Task struct {
	taskStore model.TaskStore
	logger    *logger.Logger
	now       func() time.Time
}

func NewTask(taskStore model.TaskStore, logger *logger.Logger) *Task {
	return &Task{
		taskStore: taskStore,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Task) today() string {
	return s.now().Format(model.DateLayout)
}

// List returns the user's tasks for the date in display order. A missing or
// malformed date falls back to today rather than failing; an empty day is an
// empty list.
func (s *Task) List(ctx context.Context, userID uuid.UUID, date string) ([]model.Task, error) {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		date = s.today()
	}

	tasks, err := s.taskStore.GetByDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks by date: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	return tasks, nil
}

// Add creates a task at the end of its (user, date) partition: new priority
// is one past the current maximum, or 0 for an empty day.
func (s *Task) Add(ctx context.Context, userID uuid.UUID, text, date string) (model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, model.NewValidationError("Task cannot be empty")
	}

	today := s.today()
	if date == "" {
		date = today
	} else {
		if _, err := time.Parse(model.DateLayout, date); err != nil {
			return model.Task{}, model.ErrInvalidDate
		}
		// YYYY-MM-DD compares chronologically as a string.
		if date < today {
			return model.Task{}, model.ErrPastDate
		}
	}

	task, err := s.taskStore.Create(ctx, model.Task{
		UserID: userID,
		Task:   text,
		Date:   date,
	})
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Debug("Task service: task added",
		"user_id", userID,
		"task_id", task.ID,
		"date", task.Date,
		"priority", task.Priority)

	return task, nil
}

// Update applies the fields present in params. Validation happens before any
// write; an update that matches no owned row surfaces ErrNotFound.
func (s *Task) Update(ctx context.Context, userID uuid.UUID, id int64, params model.UpdateTaskParams) (model.Task, error) {
	if params.Task != nil {
		text := strings.TrimSpace(*params.Task)
		if text == "" {
			return model.Task{}, model.NewValidationError("Task cannot be empty")
		}
		params.Task = &text
	}

	if params.Task == nil && params.Completed == nil {
		// Nothing to change; mirror the final re-read of a normal update.
		return s.taskStore.GetByID(ctx, userID, id)
	}

	task, err := s.taskStore.Update(ctx, userID, id, params)
	if err != nil {
		return model.Task{}, err
	}

	return task, nil
}

// Reorder takes a single flat ordering of task IDs, possibly spanning
// several dates, and derives a dense 0..n-1 priority sequence per date from
// the relative order of that date's IDs in the input. IDs that do not exist
// or belong to another user are skipped silently, which tolerates stale
// client state.
func (s *Task) Reorder(ctx context.Context, userID uuid.UUID, ids []int64) error {
	if len(ids) == 0 {
		return model.NewValidationError("No todo IDs provided")
	}

	dates, err := s.taskStore.DatesByIDs(ctx, userID, ids)
	if err != nil {
		return fmt.Errorf("failed to resolve task dates: %w", err)
	}

	counters := make(map[string]int)
	assignments := make([]model.PriorityAssignment, 0, len(ids))
	for _, id := range ids {
		date, ok := dates[id]
		if !ok {
			continue
		}
		assignments = append(assignments, model.PriorityAssignment{
			TaskID:   id,
			Priority: counters[date],
		})
		counters[date]++
	}

	if len(assignments) == 0 {
		return nil
	}

	if err := s.taskStore.SetPriorities(ctx, userID, assignments); err != nil {
		return fmt.Errorf("failed to set priorities: %w", err)
	}

	s.logger.Debug("Task service: tasks reordered",
		"user_id", userID,
		"assigned", len(assignments),
		"dates", len(counters))

	return nil
}

// Delete removes an owned task. Deleting an unknown or foreign ID is a
// no-op reported as success. Remaining priorities in the partition are not
// re-packed; gaps persist until the next reorder touches that date.
func (s *Task) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	if err := s.taskStore.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
