package auth

import (
	"net/http"

	"go-timesheet/internal/shared/apperror"
	platform "go-timesheet/internal/shared/request"
	"go-timesheet/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	secure  bool
}

// NewHandler builds the auth handler. secureCookies marks token cookies
// Secure, which production deployments behind TLS want.
func NewHandler(s Service, secureCookies bool) *Handler {
	return &Handler{service: s, secure: secureCookies}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (ctrl *Handler) setTokenCookies(c *gin.Context, access, refresh string, maxAgeAccess, maxAgeRefresh int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "access_token",
		Value:    access,
		Path:     "/",
		MaxAge:   maxAgeAccess,
		HttpOnly: true,
		Secure:   ctrl.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "refresh_token",
		Value:    refresh,
		Path:     "/",
		MaxAge:   maxAgeRefresh,
		HttpOnly: true,
		Secure:   ctrl.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func isWeb(c *gin.Context) bool {
	return platform.IsWebClient(platform.ResolveClientType(c.GetHeader("X-Client-Type"), c.GetHeader("User-Agent")))
}

func (ctrl *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := ctrl.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if isWeb(c) {
		ctrl.setTokenCookies(c, resp.AccessToken, resp.RefreshToken,
			int(AccessTokenTTL.Seconds()), int(RefreshTokenTTL.Seconds()))
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (ctrl *Handler) Me(c *gin.Context) {
	userResp, err := ctrl.service.GetMe(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, userResp, nil)
}

func (ctrl *Handler) Logout(c *gin.Context) {
	ctrl.setTokenCookies(c, "", "", -1, -1)
	response.Success(c, http.StatusOK, "Logout success.", nil)
}

// Register creates an account in the admin's own company.
func (ctrl *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	res, err := ctrl.service.Register(c.Request.Context(), c.GetString("company_id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, res, nil)
}

func (ctrl *Handler) RefreshToken(c *gin.Context) {
	web := isWeb(c)

	var refreshToken string
	if web {
		var err error
		refreshToken, err = c.Cookie("refresh_token")
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "NO_REFRESH_TOKEN", "Missing refresh token", nil)
			return
		}
	} else {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeServiceError(c, apperror.MapValidationError(err))
			return
		}
		refreshToken = req.RefreshToken
	}

	resp, err := ctrl.service.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if web {
		ctrl.setTokenCookies(c, resp.AccessToken, resp.RefreshToken,
			int(AccessTokenTTL.Seconds()), int(RefreshTokenTTL.Seconds()))
	}

	response.Success(c, http.StatusOK, resp, nil)
}
