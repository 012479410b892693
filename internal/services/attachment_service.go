package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"taskmatrix/internal/models"
)

type attachmentServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	files  FileStore
	tasks  TaskService
}

func NewAttachmentService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	files FileStore,
	tasks TaskService,
) AttachmentService {
	return &attachmentServiceImpl{
		logger: logger,
		pgPool: pgPool,
		files:  files,
		tasks:  tasks,
	}
}

func (s *attachmentServiceImpl) AddAttachment(ctx context.Context, params AddAttachmentParams) (*models.Attachment, error) {
	if !models.ValidFileType(params.FileType) {
		s.logger.Error().
			Str("file_type", params.FileType).
			Msg("invalid attachment file type")
		return nil, models.ErrInvalidFileType
	}

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the task row so concurrent uploads to the same task take
	// turns: each one sees the positions committed before it and the
	// subquery below hands out a fresh consecutive value.
	const lockTaskQuery = `
SELECT user_id
FROM tasks
WHERE id = $1
FOR UPDATE
`
	var ownerID string
	err = tx.QueryRow(ctx, lockTaskQuery, params.TaskID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", params.TaskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", params.TaskID).
			Msg("failed to lock task")
		return nil, err
	}
	if ownerID != params.UserID {
		s.logger.Error().
			Str("task_id", params.TaskID).
			Str("user_id", params.UserID).
			Msg("task belongs to another user")
		return nil, ErrNotTaskOwner
	}

	storedName, err := s.files.Save(params.Content, params.OriginalName)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", params.TaskID).
			Msg("failed to store attachment file")
		return nil, err
	}

	attachment := &models.Attachment{
		TaskID:       params.TaskID,
		FileType:     params.FileType,
		StoredName:   storedName,
		OriginalName: params.OriginalName,
		CreatedAt:    time.Now(),
	}

	attachmentUUID, err := uuid.NewV7()
	if err != nil {
		s.removeStoredFile(storedName)
		s.logger.Error().
			Err(err).
			Msg("failed to generate attachment uuid")
		return nil, err
	}
	attachment.ID = attachmentUUID.String()

	const insertAttachmentQuery = `
INSERT INTO attachments (id,
                         task_id,
                         file_type,
                         stored_name,
                         original_name,
                         position,
                         created_at)
VALUES ($1, $2, $3, $4, $5,
        (SELECT COALESCE(MAX(position) + 1, 0) FROM attachments WHERE task_id = $2),
        $6)
RETURNING position
`
	err = tx.QueryRow(
		ctx,
		insertAttachmentQuery,
		attachment.ID,
		attachment.TaskID,
		attachment.FileType,
		attachment.StoredName,
		attachment.OriginalName,
		attachment.CreatedAt,
	).Scan(&attachment.Position)
	if err != nil {
		// The task row stays untouched either way; only the orphaned
		// file needs cleaning up.
		s.removeStoredFile(storedName)
		s.logger.Error().
			Err(err).
			Str("task_id", attachment.TaskID).
			Msg("failed to insert attachment")
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.removeStoredFile(storedName)
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}
	s.logger.Debug().
		Str("attachment_id", attachment.ID).
		Str("stored_name", attachment.StoredName).
		Msg("inserted attachment")

	s.logger.Info().
		Str("attachment_id", attachment.ID).
		Str("task_id", attachment.TaskID).
		Str("file_type", attachment.FileType).
		Msg("added attachment")
	return attachment, nil
}

func (s *attachmentServiceImpl) ListAttachments(ctx context.Context, userID, taskID string) ([]models.Attachment, error) {
	task, err := s.tasks.GetTaskByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	return task.Attachments, nil
}

func (s *attachmentServiceImpl) GetAttachment(ctx context.Context, userID, taskID, storedName string) (*models.Attachment, error) {
	_, err := s.tasks.GetTaskByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	attachment := &models.Attachment{
		TaskID:     taskID,
		StoredName: storedName,
	}

	const selectAttachmentQuery = `
SELECT id,
       file_type,
       original_name,
       position,
       created_at
FROM attachments
WHERE task_id = $1 AND stored_name = $2
`
	err = s.pgPool.QueryRow(
		ctx,
		selectAttachmentQuery,
		attachment.TaskID,
		attachment.StoredName,
	).Scan(
		&attachment.ID,
		&attachment.FileType,
		&attachment.OriginalName,
		&attachment.Position,
		&attachment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", taskID).
				Str("stored_name", storedName).
				Msg("attachment not found")
			return nil, ErrAttachmentNotFound
		}

		s.logger.Error().
			Err(err).
			Str("stored_name", storedName).
			Msg("failed to select attachment")
		return nil, err
	}
	return attachment, nil
}

func (s *attachmentServiceImpl) RemoveAttachment(ctx context.Context, userID, taskID, storedName string) error {
	_, err := s.tasks.GetTaskByID(ctx, userID, taskID)
	if err != nil {
		return err
	}

	const deleteAttachmentQuery = `
DELETE FROM attachments
WHERE task_id = $1 AND stored_name = $2
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteAttachmentQuery,
		taskID,
		storedName,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("stored_name", storedName).
			Msg("failed to delete attachment")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("task_id", taskID).
			Str("stored_name", storedName).
			Msg("attachment not found")
		return ErrAttachmentNotFound
	}

	s.removeStoredFile(storedName)

	s.logger.Info().
		Str("task_id", taskID).
		Str("stored_name", storedName).
		Msg("removed attachment")
	return nil
}

func (s *attachmentServiceImpl) removeStoredFile(storedName string) {
	err := s.files.Remove(storedName)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("stored_name", storedName).
			Msg("failed to remove attachment file")
	}
}
