package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskmatrix/internal/lifecycle"
	"taskmatrix/internal/matrix"
	"taskmatrix/internal/models"
	"taskmatrix/internal/services"
)

type taskResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	IsUrgent    bool                 `json:"is_urgent"`
	IsImportant bool                 `json:"is_important"`
	TimeFrame   string               `json:"time_frame"`
	Deadline    *time.Time           `json:"deadline,omitempty"`
	Quadrant    string               `json:"quadrant"`
	State       string               `json:"state"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Attachments []attachmentResponse `json:"attachments,omitempty"`
}

func newTaskResponse(task *models.Task) taskResponse {
	resp := taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		IsUrgent:    task.IsUrgent,
		IsImportant: task.IsImportant,
		TimeFrame:   task.TimeFrame,
		Deadline:    task.Deadline,
		Quadrant:    string(matrix.Classify(task.IsUrgent, task.IsImportant)),
		State:       string(lifecycle.StateOf(task.IsCompleted, task.IsDeleted)),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	for _, a := range task.Attachments {
		resp.Attachments = append(resp.Attachments, newAttachmentResponse(&a))
	}
	return resp
}

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description"`
	IsUrgent    bool       `json:"is_urgent"`
	IsImportant bool       `json:"is_important"`
	TimeFrame   string     `json:"time_frame" binding:"required"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		IsUrgent:    req.IsUrgent,
		IsImportant: req.IsImportant,
		TimeFrame:   req.TimeFrame,
		Deadline:    req.Deadline,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	filter, err := parseTaskFilter(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("invalid task filter")
		abort(c, newBadRequestError(err.Error()))
		return
	}

	tasks, err := h.tasks.ListTasks(c, userID, filter)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abortTaskError(c, err)
		return
	}

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}

	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	task, err := h.tasks.GetTaskByID(c, userID, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get task")
		abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

type updateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	IsUrgent    *bool      `json:"is_urgent,omitempty"`
	IsImportant *bool      `json:"is_important,omitempty"`
	TimeFrame   *string    `json:"time_frame,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	// ClearDeadline removes the deadline; a null deadline alone is
	// indistinguishable from an omitted field in JSON.
	ClearDeadline bool `json:"clear_deadline,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		ID:            c.Param("id"),
		UserID:        userID,
		Title:         req.Title,
		Description:   req.Description,
		IsUrgent:      req.IsUrgent,
		IsImportant:   req.IsImportant,
		TimeFrame:     req.TimeFrame,
		Deadline:      req.Deadline,
		ClearDeadline: req.ClearDeadline,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update task")
		abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleSoftDeleteTask(c *gin.Context) {
	h.handleTaskAction(c, lifecycle.ActionSoftDelete)
}

func (h *handlerImpl) HandleCompleteTask(c *gin.Context) {
	h.handleTaskAction(c, lifecycle.ActionComplete)
}

func (h *handlerImpl) HandleReopenTask(c *gin.Context) {
	h.handleTaskAction(c, lifecycle.ActionReopen)
}

func (h *handlerImpl) HandleRestoreTask(c *gin.Context) {
	h.handleTaskAction(c, lifecycle.ActionRestore)
}

func (h *handlerImpl) handleTaskAction(c *gin.Context, action lifecycle.Action) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	task, err := h.tasks.ApplyAction(c, userID, c.Param("id"), action)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("action", string(action)).
			Msg("failed to apply task action")
		abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandlePurgeTask(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	err := h.tasks.PurgeTask(c, userID, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to purge task")
		abortTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleMatrix(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	grouped, err := h.tasks.MatrixView(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to build matrix view")
		abortTaskError(c, err)
		return
	}

	response := make(map[string][]taskResponse, len(grouped))
	for quadrant, tasks := range grouped {
		bucket := make([]taskResponse, len(tasks))
		for i, task := range tasks {
			bucket[i] = newTaskResponse(task)
		}
		response[string(quadrant)] = bucket
	}

	c.JSON(http.StatusOK, response)
}

func parseTaskFilter(c *gin.Context) (models.TaskFilter, error) {
	filter := models.TaskFilter{
		Text: c.Query("q"),
	}

	var err error
	filter.Completed, err = parseTriState(c, "completed")
	if err != nil {
		return filter, err
	}
	filter.Urgent, err = parseTriState(c, "urgent")
	if err != nil {
		return filter, err
	}
	filter.Important, err = parseTriState(c, "important")
	if err != nil {
		return filter, err
	}
	filter.Deleted, err = parseTriState(c, "deleted")
	if err != nil {
		return filter, err
	}
	return filter, nil
}

// parseTriState reads a query param that may be "true", "false" or
// "any". Absent and "any" both leave the predicate unset.
func parseTriState(c *gin.Context, name string) (*bool, error) {
	value := c.Query(name)
	switch value {
	case "", "any":
		return nil, nil
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	}
	return nil, newBadRequestError("invalid value for " + name)
}
