package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"taskmatrix/internal/models"
)

type reminderServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	window time.Duration
}

func NewReminderService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	window time.Duration,
) ReminderService {
	return &reminderServiceImpl{
		logger: logger,
		pgPool: pgPool,
		window: window,
	}
}

func (s *reminderServiceImpl) PendingReminders(ctx context.Context, now time.Time) ([]UserReminder, error) {
	horizon := now.Add(s.window)

	const selectPendingQuery = `
SELECT u.id,
       u.username,
       u.email,
       t.id,
       t.title,
       t.description,
       t.is_urgent,
       t.is_important,
       t.time_frame,
       t.deadline,
       t.created_at,
       t.updated_at
FROM tasks t
JOIN users u ON u.id = t.user_id
WHERE t.is_deleted = FALSE AND
      t.is_completed = FALSE AND
      t.deadline IS NOT NULL AND
      t.deadline <= $1
ORDER BY u.id, t.deadline
`
	rows, err := s.pgPool.Query(ctx, selectPendingQuery, horizon)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select pending tasks")
		return nil, err
	}
	defer rows.Close()

	var reminders []UserReminder
	for rows.Next() {
		var (
			user models.User
			task models.Task
		)
		err = rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&task.ID,
			&task.Title,
			&task.Description,
			&task.IsUrgent,
			&task.IsImportant,
			&task.TimeFrame,
			&task.Deadline,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan pending task")
			return nil, err
		}
		task.UserID = user.ID

		// Rows arrive grouped by user, so a new user id opens
		// a new reminder bucket.
		if len(reminders) == 0 || reminders[len(reminders)-1].User.ID != user.ID {
			reminders = append(reminders, UserReminder{User: user})
		}
		last := &reminders[len(reminders)-1]
		last.Tasks = append(last.Tasks, &task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("users", len(reminders)).
		Time("horizon", horizon).
		Msg("collected pending reminders")
	return reminders, nil
}
