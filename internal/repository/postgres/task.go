package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tmorozova/daylist-server/internal/model"
)

var _ model.TaskStore = (*TaskRepository)(nil)

type TaskRepository struct {
	db *Connection
}

func NewTaskRepository(db *Connection) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

// Create inserts the task at the end of its (user, date) partition. The
// priority is computed inside the INSERT so the read-modify-write cannot
// race with a concurrent add to the same partition.
func (r *TaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	query := `
		INSERT INTO tasks (user_id, task, completed, priority, date)
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX(priority) + 1, 0) FROM tasks WHERE user_id = $1 AND date = $4),
			$4)
		RETURNING id, user_id, task, completed, priority, date, created_at`

	var savedTask model.Task
	err := r.db.QueryRow(ctx, query,
		task.UserID, task.Task, task.Completed, task.Date,
	).Scan(
		&savedTask.ID, &savedTask.UserID, &savedTask.Task, &savedTask.Completed,
		&savedTask.Priority, &savedTask.Date, &savedTask.CreatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return savedTask, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, userID uuid.UUID, id int64) (model.Task, error) {
	query := `SELECT id, user_id, task, completed, priority, date, created_at
			  FROM tasks WHERE id = $1 AND user_id = $2`

	var task model.Task
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&task.ID, &task.UserID, &task.Task, &task.Completed,
		&task.Priority, &task.Date, &task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task by id: %w", err)
	}

	return task, nil
}

// GetByDate returns the partition in display order: priority ascending,
// insertion id breaking ties.
func (r *TaskRepository) GetByDate(ctx context.Context, userID uuid.UUID, date string) ([]model.Task, error) {
	query := `SELECT id, user_id, task, completed, priority, date, created_at
			  FROM tasks WHERE user_id = $1 AND date = $2
			  ORDER BY priority ASC, id ASC`

	rows, err := r.db.Query(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks by date: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var task model.Task
		err := rows.Scan(
			&task.ID, &task.UserID, &task.Task, &task.Completed,
			&task.Priority, &task.Date, &task.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read task rows: %w", err)
	}

	return tasks, nil
}

// Update applies the present fields with ownership enforced in the WHERE
// clause. A task that does not exist or belongs to another user yields
// ErrNotFound without touching any row.
func (r *TaskRepository) Update(ctx context.Context, userID uuid.UUID, id int64, params model.UpdateTaskParams) (model.Task, error) {
	query := `
		UPDATE tasks
		SET task = COALESCE($3, task), completed = COALESCE($4, completed)
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, task, completed, priority, date, created_at`

	var task model.Task
	err := r.db.QueryRow(ctx, query, id, userID, params.Task, params.Completed).Scan(
		&task.ID, &task.UserID, &task.Task, &task.Completed,
		&task.Priority, &task.Date, &task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DatesByIDs resolves each owned task ID to its calendar date. IDs that do
// not exist or belong to another user are simply absent from the result.
func (r *TaskRepository) DatesByIDs(ctx context.Context, userID uuid.UUID, ids []int64) (map[int64]string, error) {
	query := `SELECT id, date FROM tasks WHERE user_id = $1 AND id = ANY($2)`

	rows, err := r.db.Query(ctx, query, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get task dates: %w", err)
	}
	defer rows.Close()

	dates := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var date string
		if err := rows.Scan(&id, &date); err != nil {
			return nil, fmt.Errorf("failed to scan task date row: %w", err)
		}
		dates[id] = date
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read task date rows: %w", err)
	}

	return dates, nil
}

// SetPriorities applies a batch of priority writes in a single transaction
// so a reorder is observed atomically per partition.
func (r *TaskRepository) SetPriorities(ctx context.Context, userID uuid.UUID, assignments []model.PriorityAssignment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `UPDATE tasks SET priority = $1 WHERE id = $2 AND user_id = $3`

	for _, a := range assignments {
		if _, err := tx.Exec(ctx, query, a.Priority, a.TaskID, userID); err != nil {
			return fmt.Errorf("failed to set task priority: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit priorities: %w", err)
	}

	return nil
}

// Delete removes the task if owned. Zero rows affected is not an error.
func (r *TaskRepository) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	if _, err := r.db.Exec(ctx, query, id, userID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
