package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"taskmatrix/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleMe(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleListTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleSoftDeleteTask(c *gin.Context)
	HandleCompleteTask(c *gin.Context)
	HandleReopenTask(c *gin.Context)
	HandleRestoreTask(c *gin.Context)
	HandlePurgeTask(c *gin.Context)
	HandleMatrix(c *gin.Context)

	HandleAddAttachment(c *gin.Context)
	HandleListAttachments(c *gin.Context)
	HandleDownloadAttachment(c *gin.Context)
	HandleRemoveAttachment(c *gin.Context)
}

type handlerImpl struct {
	logger      zerolog.Logger
	auth        services.AuthService
	sessions    services.SessionService
	tasks       services.TaskService
	attachments services.AttachmentService
	files       services.FileStore
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	taskService services.TaskService,
	attachmentService services.AttachmentService,
	files services.FileStore,
) Handler {
	return &handlerImpl{
		logger:      logger,
		auth:        authService,
		sessions:    sessionService,
		tasks:       taskService,
		attachments: attachmentService,
		files:       files,
	}
}
