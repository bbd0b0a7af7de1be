package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/adapter/http/dto"
	"taskboard/internal/adapter/http/mapper"
	"taskboard/internal/adapter/http/validation"
	"taskboard/internal/core/ports"
	"taskboard/pkg/apierrors"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, err := validation.ValidateTaskID(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskID)
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		writeServiceError(c, err, apierrors.MsgFailGetTask, zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	taskID, err := validation.ValidateTaskID(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskID)
		return
	}

	var req dto.UpdateTaskRequest
	raw, err := bindJSONObject(c, &req)
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload)
		return
	}

	input, err := validation.BuildUpdateTaskInput(req, raw)
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), actor, taskID, input)
	if err != nil {
		writeServiceError(c, err, apierrors.MsgFailUpdateTask, zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) UpsertCustomField(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	taskID, err := validation.ValidateTaskID(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskID)
		return
	}

	var req dto.CustomFieldRequest
	raw, err := bindJSONObject(c, &req)
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidCustomField)
		return
	}

	input, err := validation.BuildCustomFieldInput(c.Param("fieldId"), req, raw)
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidCustomField)
		return
	}

	value, err := h.taskService.UpsertCustomFieldValue(c.Request.Context(), actor, taskID, input)
	if err != nil {
		writeServiceError(c, err, apierrors.MsgFailUpdateTask,
			zap.String("task_id", taskID), zap.String("field_id", input.FieldID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToCustomFieldValueItem(value))
}
