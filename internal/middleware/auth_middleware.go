package middleware

import (
	"errors"
	"fmt"
	"strings"

	autherrors "go-timesheet/internal/auth/errors"
	"go-timesheet/internal/shared/apperror"
	"go-timesheet/internal/shared/contextutil"
	"go-timesheet/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, err.Details)
	c.Abort()
}

// AuthMiddleware validates the bearer token (or the access_token cookie)
// and copies its claims into the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, autherrors.ErrTokenNotFound)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = autherrors.ErrTokenExpired
			}
			abortWith(c, errObj)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}
		// Refresh tokens are only accepted by the refresh endpoint.
		if typ, _ := claims["token_type"].(string); typ == "refresh" {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		values := map[string]string{}
		for _, key := range []string{"user_id", "company_id", "employee_id"} {
			v, ok := claims[key].(string)
			if !ok || v == "" {
				abortWith(c, autherrors.ErrInvalidToken.WithDetails(map[string]string{"missing_claim": key}))
				return
			}
			values[key] = v
		}

		name, _ := claims["employee_name"].(string)
		role, _ := claims["role"].(string)

		c.Set("user_id", values["user_id"])
		c.Set("employee_id", values["employee_id"])
		c.Set("company_id", values["company_id"])
		c.Set("employee_name", name)
		c.Set("role", role)

		ctx := contextutil.WithUserID(c.Request.Context(), values["user_id"])
		if l, ok := contextutil.LoggerFrom(ctx); ok {
			ctx = contextutil.WithLogger(ctx, l.With(zap.String("user_id", values["user_id"])))
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
