package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"taskboard/internal/core/domain"
	"taskboard/pkg/apierrors"
)

const actorKey = "actor"

// Claims is the bearer token body issued by the identity service.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies an HS256 bearer token and stores the resulting
// domain.Actor on the context. Requests without a valid token stop here.
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		actor, err := actorFromRequest(c.GetHeader("Authorization"), parser, key)
		if err != nil {
			zap.L().Debug("rejected bearer token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgUnauthorized, GetLang(c)),
			)
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// GetActor returns the authenticated actor set by AuthMiddleware.
func GetActor(c *gin.Context) (domain.Actor, bool) {
	value, exists := c.Get(actorKey)
	if !exists {
		return domain.Actor{}, false
	}
	actor, ok := value.(domain.Actor)
	return actor, ok
}

// SetActor is used by tests and internal callers that authenticate by
// other means.
func SetActor(c *gin.Context, actor domain.Actor) {
	c.Set(actorKey, actor)
}

func actorFromRequest(header string, parser *jwt.Parser, key []byte) (domain.Actor, error) {
	if len(key) == 0 {
		return domain.Actor{}, errors.New("jwt secret is not configured")
	}

	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(raw) == "" {
		return domain.Actor{}, errors.New("missing bearer token")
	}

	claims := &Claims{}
	if _, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
		return key, nil
	}); err != nil {
		return domain.Actor{}, err
	}

	if claims.Subject == "" {
		return domain.Actor{}, errors.New("token has no subject")
	}

	role := domain.Role(strings.ToUpper(claims.Role))
	switch role {
	case domain.RoleAdmin, domain.RoleMember, domain.RoleViewer:
	case "":
		role = domain.RoleMember
	default:
		return domain.Actor{}, errors.New("unknown role " + claims.Role)
	}

	return domain.Actor{UserID: claims.Subject, Name: claims.Name, Role: role}, nil
}
