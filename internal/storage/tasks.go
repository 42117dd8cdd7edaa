package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// DateLayout is how task dates are stored.
const DateLayout = "2006-01-02"

var (
	// ErrTaskNotFound is returned when no task with the ID belongs to the user.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidTaskStatus is returned for a status outside TaskStatuses.
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// TaskStatus is the progress of a task.
type TaskStatus string

const (
	TaskStatusToDo        TaskStatus = "to-do"
	TaskStatusWorkingOnIt TaskStatus = "working-on-it"
	TaskStatusCompleted   TaskStatus = "completed"
)

// TaskStatuses lists every status in workflow order.
var TaskStatuses = []TaskStatus{TaskStatusToDo, TaskStatusWorkingOnIt, TaskStatusCompleted}

// ParseTaskStatus parses a status name, ignoring case.
func ParseTaskStatus(s string) (TaskStatus, error) {
	for _, status := range TaskStatuses {
		if strings.EqualFold(s, string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTaskStatus, s)
}

// Task is a user's note for a day.
type Task struct {
	ID          int64
	Description string
	UserID      snowflake.ID
	Date        string
	Status      TaskStatus
}

// TaskRepository persists tasks in the tasks table. Every query is scoped to
// the owning user, so one user can never read or change another's tasks.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Add records the user and stores a new to-do task dated date.
func (r *TaskRepository) Add(
	ctx context.Context,
	userID snowflake.ID,
	username, description string,
	date time.Time,
) (*Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, username) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET username = excluded.username`,
		userID.String(), username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	task := &Task{
		Description: description,
		UserID:      userID,
		Date:        date.Format(DateLayout),
		Status:      TaskStatusToDo,
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO tasks (task, user_id, date, status) VALUES (?, ?, ?, ?)",
		task.Description, userID.String(), task.Date, string(task.Status),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}
	if task.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read task id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit task: %w", err)
	}
	return task, nil
}

// ListByDate returns the user's tasks for a day, oldest first.
func (r *TaskRepository) ListByDate(ctx context.Context, userID snowflake.ID, date time.Time) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, task, date, status FROM tasks WHERE user_id = ? AND date = ? ORDER BY id",
		userID.String(), date.Format(DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []Task
	for rows.Next() {
		task := Task{UserID: userID}
		if err := rows.Scan(&task.ID, &task.Description, &task.Date, &task.Status); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// Get returns one of the user's tasks.
func (r *TaskRepository) Get(ctx context.Context, userID snowflake.ID, id int64) (*Task, error) {
	task := &Task{ID: id, UserID: userID}
	err := r.db.QueryRowContext(ctx,
		"SELECT task, date, status FROM tasks WHERE id = ? AND user_id = ?",
		id, userID.String(),
	).Scan(&task.Description, &task.Date, &task.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// UpdateStatus changes the status of one of the user's tasks.
func (r *TaskRepository) UpdateStatus(ctx context.Context, userID snowflake.ID, id int64, status TaskStatus) error {
	return r.execOwned(ctx, "update task status",
		"UPDATE tasks SET status = ? WHERE id = ? AND user_id = ?",
		string(status), id, userID.String(),
	)
}

// UpdateDescription replaces the text of one of the user's tasks.
func (r *TaskRepository) UpdateDescription(
	ctx context.Context,
	userID snowflake.ID,
	id int64,
	description string,
) error {
	return r.execOwned(ctx, "update task description",
		"UPDATE tasks SET task = ? WHERE id = ? AND user_id = ?",
		description, id, userID.String(),
	)
}

// Remove deletes one of the user's tasks.
func (r *TaskRepository) Remove(ctx context.Context, userID snowflake.ID, id int64) error {
	return r.execOwned(ctx, "remove task",
		"DELETE FROM tasks WHERE id = ? AND user_id = ?",
		id, userID.String(),
	)
}

// execOwned runs a statement that must touch exactly one row owned by the
// user. Touching none means the task is missing or belongs to someone else.
func (r *TaskRepository) execOwned(ctx context.Context, action, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}
