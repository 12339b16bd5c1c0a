package timesheet_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-timesheet/internal/timesheet"
	timesheeterrors "go-timesheet/internal/timesheet/errors"
	timesheetMock "go-timesheet/internal/timesheet/mock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type apiError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

var (
	testCompanyID  = uuid.NewString()
	testEmployeeID = uuid.NewString()
)

func testActor() timesheet.Actor {
	return timesheet.Actor{CompanyID: testCompanyID, EmployeeID: testEmployeeID, EmployeeName: "Ana"}
}

func newTestContext(method, target string, body []byte, readAll bool) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	c.Set("company_id", testCompanyID)
	c.Set("employee_id", testEmployeeID)
	c.Set("employee_name", "Ana")
	c.Set("has_read_all", readAll)
	return c, w
}

func TestHandler_Start(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := timesheetMock.NewMockService(ctrl)
	h := timesheet.NewHandler(svc)

	t.Run("empty body", func(t *testing.T) {
		svc.EXPECT().Start(gomock.Any(), testActor(), timesheet.StartRequest{}).
			Return(timesheet.TimesheetResponse{ID: "ts-1", Status: "active", Warnings: []string{"start recorded without location: unavailable"}}, nil)

		c, w := newTestContext(http.MethodPost, "/timesheet/today/start", nil, false)
		h.Start(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := mustDecodeEnvelope(t, w)
		assert.True(t, env.Ok)
		var resp timesheet.TimesheetResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, "active", resp.Status)
		assert.Len(t, resp.Warnings, 1)
	})

	t.Run("with location", func(t *testing.T) {
		svc.EXPECT().Start(gomock.Any(), testActor(), gomock.Any()).
			DoAndReturn(func(_ any, _ timesheet.Actor, req timesheet.StartRequest) (timesheet.TimesheetResponse, error) {
				require.NotNil(t, req.Location)
				assert.Equal(t, 40.5, req.Location.Latitude)
				return timesheet.TimesheetResponse{Status: "active"}, nil
			})

		c, w := newTestContext(http.MethodPost, "/timesheet/today/start",
			[]byte(`{"location":{"latitude":40.5,"longitude":-3.5,"accuracy":10}}`), false)
		h.Start(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/timesheet/today/start", []byte(`{"location":`), false)
		h.Start(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("already started", func(t *testing.T) {
		svc.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(timesheet.TimesheetResponse{}, timesheeterrors.ErrInvalidTransition.WithDetails(map[string]string{
				"action": "start", "status": "active",
			}))

		c, w := newTestContext(http.MethodPost, "/timesheet/today/start", nil, false)
		h.Start(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := mustDecodeEnvelope(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
		assert.Equal(t, "active", env.Error.Details["status"])
	})
}

func TestHandler_Pause(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := timesheetMock.NewMockService(ctrl)
	h := timesheet.NewHandler(svc)
	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		svc.EXPECT().Pause(gomock.Any(), testActor(), id, timesheet.PauseRequest{Reason: "lunch"}).
			Return(timesheet.TimesheetResponse{ID: id, Status: "paused"}, nil)

		c, w := newTestContext(http.MethodPost, "/timesheets/"+id+"/pause", []byte(`{"reason":"lunch"}`), false)
		c.Params = []gin.Param{{Key: "id", Value: id}}
		h.Pause(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing reason", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/timesheets/"+id+"/pause", []byte(`{}`), false)
		c.Params = []gin.Param{{Key: "id", Value: id}}
		h.Pause(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := mustDecodeEnvelope(t, w)
		assert.Equal(t, "Reason is required", env.Error.Message)
	})
}

func TestHandler_ResumeEndSign(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := timesheetMock.NewMockService(ctrl)
	h := timesheet.NewHandler(svc)
	id := uuid.NewString()

	svc.EXPECT().Resume(gomock.Any(), testActor(), id, timesheet.ResumeRequest{}).
		Return(timesheet.TimesheetResponse{Status: "active"}, nil)
	c, w := newTestContext(http.MethodPost, "/", nil, false)
	c.Params = []gin.Param{{Key: "id", Value: id}}
	h.Resume(c)
	assert.Equal(t, http.StatusOK, w.Code)

	svc.EXPECT().End(gomock.Any(), testActor(), id, timesheet.EndRequest{}).
		Return(timesheet.TimesheetResponse{Status: "finished", AwaitingSignature: true}, nil)
	c, w = newTestContext(http.MethodPost, "/", nil, false)
	c.Params = []gin.Param{{Key: "id", Value: id}}
	h.End(c)
	assert.Equal(t, http.StatusOK, w.Code)
	var ended timesheet.TimesheetResponse
	require.NoError(t, json.Unmarshal(mustDecodeEnvelope(t, w).Data, &ended))
	assert.True(t, ended.AwaitingSignature)

	c, w = newTestContext(http.MethodPost, "/", []byte(`{"signature":""}`), false)
	c.Params = []gin.Param{{Key: "id", Value: id}}
	h.AttachSignature(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.EXPECT().AttachSignature(gomock.Any(), testActor(), id, timesheet.SignatureRequest{Signature: "sig"}).
		Return(timesheet.TimesheetResponse{}, timesheeterrors.ErrSignatureAlreadyAttached)
	c, w = newTestContext(http.MethodPost, "/", []byte(`{"signature":"sig"}`), false)
	c.Params = []gin.Param{{Key: "id", Value: id}}
	h.AttachSignature(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := timesheetMock.NewMockService(ctrl)
	h := timesheet.NewHandler(svc)

	rows := make([]timesheet.TimesheetResponse, 12)
	for i := range rows {
		rows[i] = timesheet.TimesheetResponse{ID: uuid.NewString()}
	}
	svc.EXPECT().GetAll(gomock.Any(), testCompanyID, testEmployeeID, true,
		timesheet.ListFilter{From: "2026-03-01", Status: "finished"}).Return(rows, nil)

	c, w := newTestContext(http.MethodGet, "/timesheets?from=2026-03-01&status=finished&page=2&page_size=5", nil, true)
	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w)
	var got []timesheet.TimesheetResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Len(t, got, 5)
	assert.Equal(t, rows[5].ID, got[0].ID)
	assert.EqualValues(t, 12, env.Meta["total"])
}

func TestHandler_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := timesheetMock.NewMockService(ctrl)
	h := timesheet.NewHandler(svc)
	id := uuid.NewString()

	svc.EXPECT().GetByID(gomock.Any(), testCompanyID, testEmployeeID, id, false).
		Return(timesheet.TimesheetResponse{}, timesheeterrors.ErrTimesheetNotFound)

	c, w := newTestContext(http.MethodGet, "/timesheets/"+id, nil, false)
	c.Params = []gin.Param{{Key: "id", Value: id}}
	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Reports(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := timesheetMock.NewMockService(ctrl)
	h := timesheet.NewHandler(svc)
	other := uuid.NewString()

	t.Run("monthly own", func(t *testing.T) {
		svc.EXPECT().MonthlySummary(gomock.Any(), testCompanyID, testEmployeeID, 2025).
			Return(timesheet.MonthlySummaryResponse{Year: 2025}, nil)

		c, w := newTestContext(http.MethodGet, "/reports/monthly?year=2025", nil, false)
		h.MonthlySummary(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("monthly other without read all", func(t *testing.T) {
		c, w := newTestContext(http.MethodGet, "/reports/monthly?employee_id="+other, nil, false)
		h.MonthlySummary(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("monthly bad year", func(t *testing.T) {
		c, w := newTestContext(http.MethodGet, "/reports/monthly?year=abc", nil, false)
		h.MonthlySummary(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("weekly other with read all", func(t *testing.T) {
		svc.EXPECT().WeeklySummary(gomock.Any(), testCompanyID, other, "2026-03-04").
			Return(timesheet.WeeklySummaryResponse{EmployeeID: other}, nil)

		c, w := newTestContext(http.MethodGet, "/reports/weekly?employee_id="+other+"&week_of=2026-03-04", nil, true)
		h.WeeklySummary(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("export", func(t *testing.T) {
		svc.EXPECT().ExportMonthly(gomock.Any(), testCompanyID, testEmployeeID, 2025, "pdf").
			Return(timesheet.ExportFile{Filename: "worked-time-2025-ana.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")}, nil)

		c, w := newTestContext(http.MethodGet, "/reports/monthly/export?year=2025&format=pdf", nil, false)
		h.ExportMonthly(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="worked-time-2025-ana.pdf"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "%PDF-1.3", w.Body.String())
	})

	t.Run("team and board", func(t *testing.T) {
		svc.EXPECT().TeamSummary(gomock.Any(), testCompanyID, "2026-03-01", "2026-03-07").
			Return(timesheet.TeamSummaryResponse{From: "2026-03-01"}, nil)
		c, w := newTestContext(http.MethodGet, "/reports/team?from=2026-03-01&to=2026-03-07", nil, true)
		h.TeamSummary(c)
		assert.Equal(t, http.StatusOK, w.Code)

		svc.EXPECT().Board(gomock.Any(), testCompanyID, "").Return([]timesheet.BoardEntry{}, nil)
		c, w = newTestContext(http.MethodGet, "/reports/board", nil, true)
		h.Board(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandler_GetToday(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := timesheetMock.NewMockService(ctrl)
	h := timesheet.NewHandler(svc)

	svc.EXPECT().GetToday(gomock.Any(), testActor()).
		Return(timesheet.TimesheetResponse{Status: "not_started", Elapsed: "00:00:00"}, nil)

	c, w := newTestContext(http.MethodGet, "/timesheet/today", nil, false)
	h.GetToday(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp timesheet.TimesheetResponse
	require.NoError(t, json.Unmarshal(mustDecodeEnvelope(t, w).Data, &resp))
	assert.Equal(t, "00:00:00", resp.Elapsed)
}
