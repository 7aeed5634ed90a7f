package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tmorozova/daylist-server/internal/logger"
	"github.com/tmorozova/daylist-server/internal/model"
)

// TaskService defines the date-scoped task operations.
type TaskService interface {
	List(ctx context.Context, userID uuid.UUID, date string) ([]model.Task, error)
	Add(ctx context.Context, userID uuid.UUID, text, date string) (model.Task, error)
	Update(ctx context.Context, userID uuid.UUID, id int64, params model.UpdateTaskParams) (model.Task, error)
	Reorder(ctx context.Context, userID uuid.UUID, ids []int64) error
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
}

// Task handles HTTP endpoints for task management. All endpoints run behind
// the authenticate middleware; the user identity comes from the request
// context, never from the payload.
type Task struct {
	taskService TaskService
	logger      *logger.Logger
}

// NewTask creates a new Task handler.
func NewTask(taskService TaskService, logger *logger.Logger) *Task {
	return &Task{
		taskService: taskService,
		logger:      logger,
	}
}

type addTaskRequest struct {
	Task string `json:"task"`
	Date string `json:"date"`
}

type updateTaskRequest struct {
	Task      *string `json:"task"`
	Completed *bool   `json:"completed"`
}

type reorderRequest struct {
	TodoIDs []int64 `json:"todo_ids"`
}

// List returns the caller's tasks for the requested date, today by default.
func (h *Task) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := model.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, model.ErrUnauthenticated)
		return
	}

	tasks, err := h.taskService.List(r.Context(), userID, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Error("Task handler: list failed",
			"user_id", userID,
			"error", err.Error())
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

// Add creates a new task.
func (h *Task) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := model.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, model.ErrUnauthenticated)
		return
	}

	var req addTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	task, err := h.taskService.Add(r.Context(), userID, req.Task, req.Date)
	if err != nil {
		h.logger.Debug("Task handler: add failed",
			"user_id", userID,
			"error", err.Error())
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// Update changes the text and/or completion flag of an owned task.
func (h *Task) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := model.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, model.ErrUnauthenticated)
		return
	}

	id, err := taskID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	task, err := h.taskService.Update(r.Context(), userID, id, model.UpdateTaskParams{
		Task:      req.Task,
		Completed: req.Completed,
	})
	if err != nil {
		h.logger.Debug("Task handler: update failed",
			"user_id", userID,
			"task_id", id,
			"error", err.Error())
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// Reorder applies a client-supplied flat ordering of task IDs.
func (h *Task) Reorder(w http.ResponseWriter, r *http.Request) {
	userID, ok := model.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, model.ErrUnauthenticated)
		return
	}

	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.taskService.Reorder(r.Context(), userID, req.TodoIDs); err != nil {
		h.logger.Debug("Task handler: reorder failed",
			"user_id", userID,
			"error", err.Error())
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse{Success: true})
}

// Delete removes an owned task. Always succeeds from the caller's view.
func (h *Task) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := model.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, model.ErrUnauthenticated)
		return
	}

	id, err := taskID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.taskService.Delete(r.Context(), userID, id); err != nil {
		h.logger.Error("Task handler: delete failed",
			"user_id", userID,
			"task_id", id,
			"error", err.Error())
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse{Success: true})
}

func taskID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, model.NewValidationError("Invalid todo id")
	}
	return id, nil
}
