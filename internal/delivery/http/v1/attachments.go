package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskmatrix/internal/models"
	"taskmatrix/internal/services"
)

type attachmentResponse struct {
	FileType     string    `json:"file_type"`
	StoredName   string    `json:"stored_name"`
	OriginalName string    `json:"original_name"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}

func newAttachmentResponse(a *models.Attachment) attachmentResponse {
	return attachmentResponse{
		FileType:     a.FileType,
		StoredName:   a.StoredName,
		OriginalName: a.OriginalName,
		Position:     a.Position,
		CreatedAt:    a.CreatedAt,
	}
}

func (h *handlerImpl) HandleAddAttachment(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to read multipart file")
		abort(c, newBadRequestError("file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to open multipart file")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	defer func() { _ = file.Close() }()

	attachment, err := h.attachments.AddAttachment(c, services.AddAttachmentParams{
		UserID:       userID,
		TaskID:       c.Param("id"),
		FileType:     c.PostForm("file_type"),
		OriginalName: fileHeader.Filename,
		Content:      file,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to add attachment")
		abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newAttachmentResponse(attachment))
}

func (h *handlerImpl) HandleListAttachments(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	attachments, err := h.attachments.ListAttachments(c, userID, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list attachments")
		abortTaskError(c, err)
		return
	}

	response := make([]attachmentResponse, len(attachments))
	for i := range attachments {
		response[i] = newAttachmentResponse(&attachments[i])
	}

	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleDownloadAttachment(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	attachment, err := h.attachments.GetAttachment(c, userID, c.Param("id"), c.Param("name"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get attachment")
		abortTaskError(c, err)
		return
	}

	c.FileAttachment(h.files.Path(attachment.StoredName), attachment.OriginalName)
}

func (h *handlerImpl) HandleRemoveAttachment(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	err := h.attachments.RemoveAttachment(c, userID, c.Param("id"), c.Param("name"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to remove attachment")
		abortTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
