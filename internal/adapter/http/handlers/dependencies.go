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

type DependencyHandler struct {
	dependencyService ports.DependencyService
}

func NewDependencyHandler(dependencyService ports.DependencyService) *DependencyHandler {
	return &DependencyHandler{dependencyService: dependencyService}
}

func (h *DependencyHandler) ListDependencies(c *gin.Context) {
	taskID, err := validation.ValidateTaskID(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidTaskID)
		return
	}

	deps, err := h.dependencyService.EdgesFor(c.Request.Context(), taskID)
	if err != nil {
		writeServiceError(c, err, apierrors.MsgFailDependency, zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToDependenciesResponse(deps))
}

func (h *DependencyHandler) AddDependency(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.DependencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidDependency)
		return
	}

	edge, err := validation.BuildDependencyEdge(req)
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidDependency)
		return
	}

	if err := h.dependencyService.AddEdge(c.Request.Context(), actor, edge); err != nil {
		writeServiceError(c, err, apierrors.MsgFailDependency,
			zap.String("blocking_task_id", edge.BlockingTaskID), zap.String("waiting_task_id", edge.WaitingTaskID))
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{Success: true})
}

func (h *DependencyHandler) RemoveDependency(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.DependencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidDependency)
		return
	}

	edge, err := validation.BuildDependencyEdge(req)
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidDependency)
		return
	}

	if err := h.dependencyService.RemoveEdge(c.Request.Context(), actor, edge); err != nil {
		writeServiceError(c, err, apierrors.MsgFailDependency,
			zap.String("blocking_task_id", edge.BlockingTaskID), zap.String("waiting_task_id", edge.WaitingTaskID))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
