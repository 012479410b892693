package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskmatrix/internal/lifecycle"
	"taskmatrix/internal/matrix"
	"taskmatrix/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")

	ErrTaskNotFound       = errors.New("task not found")
	ErrNotTaskOwner       = errors.New("task belongs to another user")
	ErrTaskTitleTaken     = errors.New("task with this title already exists")
	ErrAttachmentNotFound = errors.New("attachment not found")
)

type AuthService interface {
	// Login authenticates the user by username and password.
	//
	// It deletes all sessions with the same user ID and creates
	// a new session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// username doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given username, email and password.
	//
	// It hashes the password, generates a unique ID and creates a
	// session with the given fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the user with the given
	// username or email already exists.
	Register(ctx context.Context, params RegisterParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// GetUserByID returns the user profile.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

type TaskService interface {
	// CreateTask validates the fields and stores a new active task
	// owned by params.UserID. It returns a models validation error
	// for bad input or ErrTaskTitleTaken if the owner already has a
	// task with this title.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTaskByID returns the task with its attachments. It returns
	// ErrTaskNotFound for an unknown id and ErrNotTaskOwner when the
	// task belongs to someone else.
	GetTaskByID(ctx context.Context, userID, taskID string) (*models.Task, error)

	// ListTasks returns the owner's tasks matching the filter,
	// most recently created first.
	ListTasks(ctx context.Context, userID string, filter models.TaskFilter) ([]*models.Task, error)

	// UpdateTask applies the non-nil fields to the task.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// ApplyAction runs a lifecycle transition (complete, reopen,
	// soft delete, restore) on the task. Transitions are idempotent:
	// a task already in the target state is returned unchanged.
	// Illegal transitions fail with lifecycle.ErrInvalidTransition.
	ApplyAction(ctx context.Context, userID, taskID string, action lifecycle.Action) (*models.Task, error)

	// PurgeTask permanently removes a soft-deleted task together
	// with its attachment files. Purging a task that is not in the
	// deleted state fails with lifecycle.ErrInvalidTransition.
	PurgeTask(ctx context.Context, userID, taskID string) error

	// MatrixView buckets the owner's active tasks by Eisenhower
	// quadrant, preserving the list order inside each bucket.
	MatrixView(ctx context.Context, userID string) (map[matrix.Quadrant][]*models.Task, error)
}

type AttachmentService interface {
	// AddAttachment stores the file content and associates it with
	// the task. Association is independent from task creation: a
	// failed upload never touches the task row, and a failed insert
	// removes the already-stored file.
	AddAttachment(ctx context.Context, params AddAttachmentParams) (*models.Attachment, error)

	// ListAttachments returns the task's attachments in position order.
	ListAttachments(ctx context.Context, userID, taskID string) ([]models.Attachment, error)

	// GetAttachment resolves a stored name to its attachment record.
	GetAttachment(ctx context.Context, userID, taskID, storedName string) (*models.Attachment, error)

	// RemoveAttachment deletes the record and the stored file.
	RemoveAttachment(ctx context.Context, userID, taskID, storedName string) error
}

type ReminderService interface {
	// PendingReminders returns, per user, the active tasks whose
	// deadline falls inside the reminder window relative to now.
	// Overdue tasks are included. The caller injects now so the
	// service holds no clock or timer of its own.
	PendingReminders(ctx context.Context, now time.Time) ([]UserReminder, error)
}

// FileStore abstracts the attachment file storage collaborator.
type FileStore interface {
	Save(r io.Reader, originalName string) (storedName string, err error)
	Remove(storedName string) error
	Path(storedName string) string
}

type LoginParams struct {
	Username    string
	Password    string
	Fingerprint string
}

type RegisterParams struct {
	Username    string
	Email       string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type CreateTaskParams struct {
	UserID      string
	Title       string
	Description string
	IsUrgent    bool
	IsImportant bool
	TimeFrame   string
	Deadline    *time.Time
}

type UpdateTaskParams struct {
	ID          string
	UserID      string
	Title       *string
	Description *string
	IsUrgent    *bool
	IsImportant *bool
	TimeFrame   *string
	Deadline    *time.Time
	// ClearDeadline drops the deadline; Deadline is ignored when set.
	ClearDeadline bool
}

type AddAttachmentParams struct {
	UserID       string
	TaskID       string
	FileType     string
	OriginalName string
	Content      io.Reader
}

type UserReminder struct {
	User  models.User
	Tasks []*models.Task
}
