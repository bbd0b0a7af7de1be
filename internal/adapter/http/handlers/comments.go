package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/adapter/http/dto"
	"taskboard/internal/adapter/http/mapper"
	"taskboard/internal/adapter/http/validation"
	"taskboard/internal/core/ports"
	"taskboard/pkg/apierrors"
)

type CommentHandler struct {
	commentService ports.CommentService
}

func NewCommentHandler(commentService ports.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	taskID, err := validation.ValidateTaskID(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskID)
		return
	}

	comments, err := h.commentService.ListComments(c.Request.Context(), taskID)
	if err != nil {
		writeServiceError(c, err, apierrors.MsgFailListComments, zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToCommentItems(comments))
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	taskID, err := validation.ValidateTaskID(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskID)
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidCommentPayload)
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), actor, taskID, req.Content)
	if err != nil {
		writeServiceError(c, err, apierrors.MsgFailCreateComment, zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusCreated, mapper.ToCommentItem(comment))
}
