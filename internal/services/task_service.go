package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"taskmatrix/internal/lifecycle"
	"taskmatrix/internal/matrix"
	"taskmatrix/internal/models"
)

type taskServiceImpl struct {
	logger             zerolog.Logger
	pgPool             *pgxpool.Pool
	files              FileStore
	rejectPastDeadline bool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	files FileStore,
	rejectPastDeadline bool,
) TaskService {
	return &taskServiceImpl{
		logger:             logger,
		pgPool:             pgPool,
		files:              files,
		rejectPastDeadline: rejectPastDeadline,
	}
}

const selectTaskColumns = `
SELECT id,
       user_id,
       title,
       description,
       is_urgent,
       is_important,
       time_frame,
       deadline,
       is_completed,
       is_deleted,
       created_at,
       updated_at
FROM tasks
`

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	now := time.Now()
	task := &models.Task{
		UserID:      params.UserID,
		Title:       params.Title,
		Description: params.Description,
		IsUrgent:    params.IsUrgent,
		IsImportant: params.IsImportant,
		TimeFrame:   params.TimeFrame,
		Deadline:    params.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := task.Validate(now, s.rejectPastDeadline)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", task.UserID).
			Msg("invalid task")
		return nil, err
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskUUID.String()

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   user_id,
                   title,
                   description,
                   is_urgent,
                   is_important,
                   time_frame,
                   deadline,
                   is_completed,
                   is_deleted,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, FALSE, $9, $10)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.IsUrgent,
		task.IsImportant,
		task.TimeFrame,
		task.Deadline,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Error().
				Str("user_id", task.UserID).
				Str("title", task.Title).
				Msg("task with this title already exists")
			return nil, ErrTaskTitleTaken
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTaskByID(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.fetchTask(ctx, s.pgPool, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Attachments, err = s.loadAttachments(ctx, taskID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("selected task by id")
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID string, filter models.TaskFilter) ([]*models.Task, error) {
	query := selectTaskColumns + "WHERE user_id = $1"
	args := []any{userID}

	if filter.Deleted == nil {
		query += " AND is_deleted = FALSE"
	} else {
		args = append(args, *filter.Deleted)
		query += fmt.Sprintf(" AND is_deleted = $%d", len(args))
	}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		query += fmt.Sprintf(" AND is_completed = $%d", len(args))
	}
	if filter.Urgent != nil {
		args = append(args, *filter.Urgent)
		query += fmt.Sprintf(" AND is_urgent = $%d", len(args))
	}
	if filter.Important != nil {
		args = append(args, *filter.Important)
		query += fmt.Sprintf(" AND is_important = $%d", len(args))
	}
	if filter.Text != "" {
		args = append(args, "%"+escapeLike(filter.Text)+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pgPool.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := new(models.Task)
		err = scanTask(rows, task)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks")
	return tasks, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	task, err := s.fetchTaskForUpdate(ctx, tx, params.UserID, params.ID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.IsUrgent != nil {
		task.IsUrgent = *params.IsUrgent
	}
	if params.IsImportant != nil {
		task.IsImportant = *params.IsImportant
	}
	if params.TimeFrame != nil {
		task.TimeFrame = *params.TimeFrame
	}
	if params.ClearDeadline {
		task.Deadline = nil
	} else if params.Deadline != nil {
		task.Deadline = params.Deadline
	}
	task.UpdatedAt = time.Now()

	// The past-deadline rule only covers a deadline supplied by this
	// request; an unrelated edit must not fail because the stored
	// deadline has since passed.
	err = task.Validate(task.UpdatedAt, s.rejectPastDeadline && updateSetsDeadline(params))
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("invalid task update")
		return nil, err
	}

	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    is_urgent = $3,
    is_important = $4,
    time_frame = $5,
    deadline = $6,
    updated_at = $7
WHERE id = $8
`
	_, err = tx.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.IsUrgent,
		task.IsImportant,
		task.TimeFrame,
		task.Deadline,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Error().
				Str("task_id", task.ID).
				Str("title", task.Title).
				Msg("task with this title already exists")
			return nil, ErrTaskTitleTaken
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) ApplyAction(ctx context.Context, userID, taskID string, action lifecycle.Action) (*models.Task, error) {
	// Purge removes the row entirely and goes through PurgeTask.
	if action == lifecycle.ActionPurge {
		return nil, lifecycle.ErrInvalidTransition
	}

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	task, err := s.fetchTaskForUpdate(ctx, tx, userID, taskID)
	if err != nil {
		return nil, err
	}

	state := lifecycle.StateOf(task.IsCompleted, task.IsDeleted)
	next, err := lifecycle.Apply(state, action)
	if err != nil {
		s.logger.Error().
			Str("task_id", task.ID).
			Str("state", string(state)).
			Str("action", string(action)).
			Msg("invalid lifecycle transition")
		return nil, err
	}

	if next == state {
		s.logger.Debug().
			Str("task_id", task.ID).
			Str("state", string(state)).
			Msg("task already in target state")
		return task, nil
	}

	task.IsCompleted, task.IsDeleted = lifecycle.Flags(next)
	task.UpdatedAt = time.Now()

	const updateTaskStateQuery = `
UPDATE tasks
SET is_completed = $1,
    is_deleted = $2,
    updated_at = $3
WHERE id = $4
`
	_, err = tx.Exec(
		ctx,
		updateTaskStateQuery,
		task.IsCompleted,
		task.IsDeleted,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task state")
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Str("from", string(state)).
		Str("to", string(next)).
		Msg("applied task transition")
	return task, nil
}

func (s *taskServiceImpl) PurgeTask(ctx context.Context, userID, taskID string) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	task, err := s.fetchTaskForUpdate(ctx, tx, userID, taskID)
	if err != nil {
		return err
	}

	state := lifecycle.StateOf(task.IsCompleted, task.IsDeleted)
	_, err = lifecycle.Apply(state, lifecycle.ActionPurge)
	if err != nil {
		s.logger.Error().
			Str("task_id", task.ID).
			Str("state", string(state)).
			Msg("cannot purge task outside the deleted state")
		return err
	}

	const selectStoredNamesQuery = `
SELECT stored_name
FROM attachments
WHERE task_id = $1
`
	rows, err := tx.Query(ctx, selectStoredNamesQuery, task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to select attachment names")
		return err
	}

	var storedNames []string
	for rows.Next() {
		var name string
		err = rows.Scan(&name)
		if err != nil {
			rows.Close()
			s.logger.Error().
				Err(err).
				Msg("failed to scan attachment name")
			return err
		}
		storedNames = append(storedNames, name)
	}
	rows.Close()

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return err
	}

	// Attachment rows go away with the task via ON DELETE CASCADE.
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	_, err = tx.Exec(ctx, deleteTaskQuery, task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to delete task")
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	// The record is gone; leftover files are only worth a warning.
	for _, name := range storedNames {
		err = s.files.Remove(name)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("stored_name", name).
				Msg("failed to remove attachment file")
		}
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Int("attachments", len(storedNames)).
		Msg("purged task")
	return nil
}

func (s *taskServiceImpl) MatrixView(ctx context.Context, userID string) (map[matrix.Quadrant][]*models.Task, error) {
	completed := false
	tasks, err := s.ListTasks(ctx, userID, models.TaskFilter{Completed: &completed})
	if err != nil {
		return nil, err
	}

	grouped := matrix.Group(tasks)
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("grouped tasks by quadrant")
	return grouped, nil
}

type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *taskServiceImpl) fetchTask(ctx context.Context, q pgxQuerier, userID, taskID string) (*models.Task, error) {
	return s.fetchTaskRow(ctx, q, userID, taskID, selectTaskColumns+"WHERE id = $1")
}

func (s *taskServiceImpl) fetchTaskForUpdate(ctx context.Context, q pgxQuerier, userID, taskID string) (*models.Task, error) {
	return s.fetchTaskRow(ctx, q, userID, taskID, selectTaskColumns+"WHERE id = $1 FOR UPDATE")
}

// fetchTaskRow selects by id alone so that an owner mismatch is
// distinguishable from an unknown id.
func (s *taskServiceImpl) fetchTaskRow(ctx context.Context, q pgxQuerier, userID, taskID, query string) (*models.Task, error) {
	task := new(models.Task)
	err := scanTask(q.QueryRow(ctx, query, taskID), task)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task")
		return nil, err
	}

	if task.UserID != userID {
		s.logger.Error().
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("task belongs to another user")
		return nil, ErrNotTaskOwner
	}
	return task, nil
}

func (s *taskServiceImpl) loadAttachments(ctx context.Context, taskID string) ([]models.Attachment, error) {
	const selectAttachmentsQuery = `
SELECT id,
       task_id,
       file_type,
       stored_name,
       original_name,
       position,
       created_at
FROM attachments
WHERE task_id = $1
ORDER BY position
`
	rows, err := s.pgPool.Query(ctx, selectAttachmentsQuery, taskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select attachments")
		return nil, err
	}
	defer rows.Close()

	var attachments []models.Attachment
	for rows.Next() {
		var a models.Attachment
		err = rows.Scan(
			&a.ID,
			&a.TaskID,
			&a.FileType,
			&a.StoredName,
			&a.OriginalName,
			&a.Position,
			&a.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan attachment")
			return nil, err
		}
		attachments = append(attachments, a)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return attachments, nil
}

func scanTask(row pgx.Row, task *models.Task) error {
	return row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.IsUrgent,
		&task.IsImportant,
		&task.TimeFrame,
		&task.Deadline,
		&task.IsCompleted,
		&task.IsDeleted,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
}

// updateSetsDeadline reports whether the update carries a new
// deadline. Clearing wins over a supplied value, matching the field
// merge in UpdateTask.
func updateSetsDeadline(params UpdateTaskParams) bool {
	return params.Deadline != nil && !params.ClearDeadline
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
