package timesheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go-timesheet/internal/middleware"
	"go-timesheet/internal/shared/apperror"
	"go-timesheet/internal/shared/response"
	timesheeterrors "go-timesheet/internal/timesheet/errors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service, rdb ...*redis.Client) *Handler {
	h := &Handler{service: service}
	if len(rdb) > 0 {
		h.rdb = rdb[0]
	}
	return h
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func actorFrom(c *gin.Context) Actor {
	return Actor{
		CompanyID:    c.GetString("company_id"),
		EmployeeID:   c.GetString("employee_id"),
		EmployeeName: c.GetString("employee_name"),
	}
}

// bindOptionalJSON accepts an empty body for requests whose fields are all
// optional.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperror.MapValidationError(err)
	}
	return nil
}

// targetEmployee resolves ?employee_id for report endpoints. Reading another
// employee requires the read-all flag.
func targetEmployee(c *gin.Context) (string, error) {
	self := c.GetString("employee_id")
	requested := c.Query("employee_id")
	if requested == "" || requested == self {
		return self, nil
	}
	if !c.GetBool("has_read_all") {
		return "", apperror.ErrForbidden
	}
	return requested, nil
}

func queryYear(c *gin.Context) (int, error) {
	raw := c.Query("year")
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, timesheeterrors.ErrInvalidYear
	}
	return year, nil
}

// mutate runs one state changing call and records the result for the
// idempotency middleware.
func (h *Handler) mutate(c *gin.Context, status int, fn func(ctx context.Context) (TimesheetResponse, error)) {
	defer middleware.ReleaseIdempotencyLock(c, h.rdb)

	resp, err := fn(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	middleware.StoreIdempotentResult(c, h.rdb, status, resp)
	response.Success(c, status, resp, nil)
}

func (h *Handler) GetToday(c *gin.Context) {
	resp, err := h.service.GetToday(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Start(c *gin.Context) {
	var req StartRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		writeServiceError(c, err)
		return
	}
	h.mutate(c, http.StatusOK, func(ctx context.Context) (TimesheetResponse, error) {
		return h.service.Start(ctx, actorFrom(c), req)
	})
}

func (h *Handler) Pause(c *gin.Context) {
	var req PauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	h.mutate(c, http.StatusOK, func(ctx context.Context) (TimesheetResponse, error) {
		return h.service.Pause(ctx, actorFrom(c), c.Param("id"), req)
	})
}

func (h *Handler) Resume(c *gin.Context) {
	var req ResumeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		writeServiceError(c, err)
		return
	}
	h.mutate(c, http.StatusOK, func(ctx context.Context) (TimesheetResponse, error) {
		return h.service.Resume(ctx, actorFrom(c), c.Param("id"), req)
	})
}

func (h *Handler) End(c *gin.Context) {
	var req EndRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		writeServiceError(c, err)
		return
	}
	h.mutate(c, http.StatusOK, func(ctx context.Context) (TimesheetResponse, error) {
		return h.service.End(ctx, actorFrom(c), c.Param("id"), req)
	})
}

func (h *Handler) AttachSignature(c *gin.Context) {
	var req SignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	h.mutate(c, http.StatusOK, func(ctx context.Context) (TimesheetResponse, error) {
		return h.service.AttachSignature(ctx, actorFrom(c), c.Param("id"), req)
	})
}

func (h *Handler) GetAll(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), c.GetString("company_id"), c.GetString("employee_id"), c.GetBool("has_read_all"), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, pageSize := response.PageParams(c)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString("company_id"), c.GetString("employee_id"), c.Param("id"), c.GetBool("has_read_all"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) WeeklySummary(c *gin.Context) {
	employeeID, err := targetEmployee(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp, err := h.service.WeeklySummary(c.Request.Context(), c.GetString("company_id"), employeeID, c.Query("week_of"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MonthlySummary(c *gin.Context) {
	employeeID, err := targetEmployee(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	year, err := queryYear(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if year == 0 {
		year = currentYear()
	}
	resp, err := h.service.MonthlySummary(c.Request.Context(), c.GetString("company_id"), employeeID, year)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ExportMonthly(c *gin.Context) {
	employeeID, err := targetEmployee(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	year, err := queryYear(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if year == 0 {
		year = currentYear()
	}

	file, err := h.service.ExportMonthly(c.Request.Context(), c.GetString("company_id"), employeeID, year, c.DefaultQuery("format", "xlsx"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func (h *Handler) TeamSummary(c *gin.Context) {
	resp, err := h.service.TeamSummary(c.Request.Context(), c.GetString("company_id"), c.Query("from"), c.Query("to"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Board(c *gin.Context) {
	resp, err := h.service.Board(c.Request.Context(), c.GetString("company_id"), c.Query("date"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
