package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/adapter/http/dto"
	"taskboard/internal/adapter/http/middleware"
	"taskboard/internal/core/domain"
	"taskboard/pkg/apierrors"
)

// writeServiceError maps a service error onto the HTTP taxonomy. Errors that
// carry no domain meaning are logged and reported with failMsg.
func writeServiceError(c *gin.Context, err error, failMsg string, fields ...zap.Field) {
	status, msg := classify(err)
	if status == http.StatusInternalServerError {
		msg = failMsg
		fields = append(fields, zap.String("msg_key", failMsg), zap.Error(err))
		zap.L().Error("request failed", fields...)
	}
	writeError(c, status, msg)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden, apierrors.MsgPermissionDenied
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, apierrors.MsgTaskNotFound
	case errors.Is(err, domain.ErrFieldNotFound):
		return http.StatusNotFound, apierrors.MsgFieldNotFound
	case errors.Is(err, domain.ErrDependencyNotFound):
		return http.StatusNotFound, apierrors.MsgDependencyNotFound
	case errors.Is(err, domain.ErrInvalidCustomFieldValue):
		return http.StatusBadRequest, apierrors.MsgInvalidCustomField
	case errors.Is(err, domain.ErrUnknownUser):
		return http.StatusBadRequest, apierrors.MsgUnknownUser
	case errors.Is(err, domain.ErrSelfDependency):
		return http.StatusBadRequest, apierrors.MsgSelfDependency
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, apierrors.MsgInvalidTaskPayload
	case errors.Is(err, domain.ErrDependencyExists):
		return http.StatusConflict, apierrors.MsgDependencyExists
	case errors.Is(err, domain.ErrDependencyCycle):
		return http.StatusConflict, apierrors.MsgDependencyCycle
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, apierrors.MsgServiceUnavailable
	}
	return http.StatusInternalServerError, ""
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, apierrors.CreateError(status, msg, middleware.GetLang(c)))
}

// requireActor reads the authenticated actor or answers 401.
func requireActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, apierrors.MsgUnauthorized)
		return domain.Actor{}, false
	}
	return actor, true
}

// bindJSONObject decodes the body into dst and also returns its top-level
// keys, so that absent and null members can be told apart.
func bindJSONObject(c *gin.Context, dst any) (dto.RawObject, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, err
	}

	var raw dto.RawObject
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("body is not a JSON object")
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return nil, err
	}
	return raw, nil
}
