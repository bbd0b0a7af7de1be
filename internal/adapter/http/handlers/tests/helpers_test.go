package tests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"taskboard/internal/adapter/http/middleware"
	"taskboard/internal/core/domain"
	"taskboard/pkg/apierrors"
	"taskboard/pkg/translator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var alice = domain.Actor{UserID: "u-alice", Name: "Alice", Role: domain.RoleMember}

// newRouter mounts the language middleware and, when actor is non-nil, a
// stand-in for the auth middleware.
func newRouter(actor *domain.Actor) *gin.Engine {
	router := gin.New()
	router.Use(middleware.LanguageMiddleware())
	if actor != nil {
		router.Use(func(c *gin.Context) {
			middleware.SetActor(c, *actor)
			c.Next()
		})
	}
	return router
}

func do(router *gin.Engine, method, path, body string, lang string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if lang == "" {
		lang = translator.LanguageEn
	}
	req.Header.Set("Accept-Language", lang)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func requireAPIError(t *testing.T, rec *httptest.ResponseRecorder, status int, msgKey, lang string) {
	t.Helper()

	require.Equal(t, status, rec.Code)

	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, apierrors.CreateError(status, msgKey, lang), got)
}

func ptr[T any](v T) *T {
	return &v
}
