package middleware

import (
	"net/http"

	"go-timesheet/internal/domain"
	"go-timesheet/internal/shared/apperror"
	"go-timesheet/internal/shared/contextutil"
	"go-timesheet/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService is satisfied by anything that can answer an EnforceRequest.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func enforceRequest(c *gin.Context, resource, action string) (domain.EnforceRequest, bool) {
	role := c.GetString("role")
	companyID := c.GetString("company_id")
	if role == "" || companyID == "" {
		return domain.EnforceRequest{}, false
	}
	return domain.EnforceRequest{
		Role:       role,
		EmployeeID: c.GetString("employee_id"),
		CompanyID:  companyID,
		Resource:   resource,
		Action:     action,
	}, true
}

// RBACAuthorize aborts with 403 unless the caller's role grants
// resource:action.
func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := enforceRequest(c, resource, action)
		if !ok {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(req)
		if err != nil {
			contextutil.GetLogger(c.Request.Context(), zap.L().Named("middleware.rbac")).
				Error("rbac enforce failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, apperror.ErrInternal.Message, nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden, apperror.ErrForbidden.Message,
				map[string]string{"required": resource + ":" + action})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RBACFlag never aborts; it stores whether the caller holds resource:action
// under key so handlers can widen their scope.
func RBACFlag(service RBACService, resource, action, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed := false
		if req, ok := enforceRequest(c, resource, action); ok {
			var err error
			allowed, err = service.Enforce(req)
			if err != nil {
				contextutil.GetLogger(c.Request.Context(), zap.L().Named("middleware.rbac")).
					Warn("rbac flag check failed", zap.String("key", key), zap.Error(err))
				allowed = false
			}
		}
		c.Set(key, allowed)
		c.Next()
	}
}
