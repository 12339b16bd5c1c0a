package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go-timesheet/internal/apiclient"
	"go-timesheet/internal/geolocation"
	"go-timesheet/internal/tracker"
	"go-timesheet/internal/workday"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOK(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "data": data})
}

func writeErr(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":    false,
		"error": map[string]any{"code": code, "message": msg},
	})
}

const serverEntry = `{
	"id": "ts-1",
	"employee_id": "emp-1",
	"employee_name": "Ana",
	"date": "2026-03-02",
	"status": "paused",
	"start_time": "2026-03-02T09:00:00Z",
	"end_time": null,
	"pauses": [{"start_time": "2026-03-02T09:30:00Z", "end_time": null, "reason": "lunch"}],
	"pause_time": ["2026-03-02T09:30:00Z"],
	"resume_time": [],
	"signature": null,
	"location": {"start_location": {"latitude": 40.4, "longitude": -3.7, "accuracy": 12, "captured_at": "2026-03-02T09:00:00Z"}, "end_location": null},
	"elapsed": "00:30:00",
	"elapsed_seconds": 1800,
	"paused_total": "00:10:00",
	"awaiting_signature": false
}`

func session() apiclient.Session {
	return apiclient.Session{AccessToken: "access-1", RefreshToken: "refresh-1", EmployeeID: "emp-1"}
}

func TestClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		assert.Equal(t, "cli", r.Header.Get("X-Client-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body["email"])

		writeOK(w, http.StatusOK, map[string]any{
			"user":          map[string]any{"id": "u-1", "company_id": "c-1", "employee_id": "emp-1", "employee_name": "Ana", "role": "EMPLOYEE"},
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
		})
	}))
	defer srv.Close()

	var persisted apiclient.Session
	c := apiclient.New(srv.URL, apiclient.Session{}, apiclient.OnSessionChange(func(s apiclient.Session) { persisted = s }))

	s, err := c.Login(context.Background(), "ana@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "access-1", s.AccessToken)
	assert.Equal(t, "c-1", s.CompanyID)
	assert.Equal(t, "Ana", s.EmployeeName)
	assert.Equal(t, s, persisted)
	assert.Equal(t, s, c.Session())
}

func TestClient_LoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password")
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, apiclient.Session{})
	_, err := c.Login(context.Background(), "ana@example.com", "nope")

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Error())
}

func TestClient_Today(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/timesheet/today", r.URL.Path)
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"data":` + serverEntry + `}`))
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, session())
	e, err := c.Today(context.Background())

	require.NoError(t, err)
	require.NoError(t, e.Validate())
	assert.Equal(t, workday.StatusPaused, e.Status)
	require.Len(t, e.Pauses, 1)
	assert.True(t, e.Pauses[0].Open())
	assert.Equal(t, "lunch", e.Pauses[0].Reason)
	require.NotNil(t, e.Location.Start)
	assert.Equal(t, 40.4, e.Location.Start.Latitude)

	now := time.Date(2026, 3, 2, 9, 40, 0, 0, time.UTC)
	assert.Equal(t, "00:30:00", workday.FormatClock(workday.Elapsed(e, now)))
}

func TestClient_NotLoggedIn(t *testing.T) {
	c := apiclient.New("http://127.0.0.1:0", apiclient.Session{})

	_, err := c.Today(context.Background())

	assert.ErrorIs(t, err, apiclient.ErrNotLoggedIn)
}

func TestClient_Apply(t *testing.T) {
	loc := &geolocation.Location{Latitude: 1, Longitude: 2, Accuracy: 3}

	tests := []struct {
		name     string
		cmd      tracker.Command
		wantPath string
		wantBody map[string]any
	}{
		{
			name:     "start",
			cmd:      tracker.Command{OperationID: "op-1", Action: workday.ActionStart, Location: loc},
			wantPath: "/api/v1/timesheet/today/start",
			wantBody: map[string]any{"location": map[string]any{"latitude": 1.0, "longitude": 2.0, "accuracy": 3.0, "captured_at": "0001-01-01T00:00:00Z"}},
		},
		{
			name:     "pause",
			cmd:      tracker.Command{OperationID: "op-2", Action: workday.ActionPause, EntryID: "ts-1", Reason: "lunch"},
			wantPath: "/api/v1/timesheets/ts-1/pause",
			wantBody: map[string]any{"reason": "lunch"},
		},
		{
			name:     "resume",
			cmd:      tracker.Command{OperationID: "op-3", Action: workday.ActionResume, EntryID: "ts-1"},
			wantPath: "/api/v1/timesheets/ts-1/resume",
			wantBody: map[string]any{},
		},
		{
			name:     "end",
			cmd:      tracker.Command{OperationID: "op-4", Action: workday.ActionEnd, EntryID: "ts-1"},
			wantPath: "/api/v1/timesheets/ts-1/end",
			wantBody: map[string]any{},
		},
		{
			name:     "sign",
			cmd:      tracker.Command{OperationID: "op-5", Action: workday.ActionSign, EntryID: "ts-1", Signature: "sig"},
			wantPath: "/api/v1/timesheets/ts-1/signature",
			wantBody: map[string]any{"signature": "sig"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, tt.wantPath, r.URL.Path)
				assert.Equal(t, tt.cmd.OperationID, r.Header.Get("Idempotency-Key"))

				var body map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, tt.wantBody, body)

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"ok":true,"data":` + serverEntry + `}`))
			}))
			defer srv.Close()

			c := apiclient.New(srv.URL, session())
			e, err := c.Apply(context.Background(), tt.cmd)

			require.NoError(t, err)
			assert.Equal(t, "ts-1", e.ID)
		})
	}
}

func TestClient_ApplyValidation(t *testing.T) {
	c := apiclient.New("http://127.0.0.1:0", session())

	_, err := c.Apply(context.Background(), tracker.Command{Action: workday.ActionPause, Reason: "x"})
	assert.ErrorIs(t, err, apiclient.ErrMissingEntry)

	_, err = c.Apply(context.Background(), tracker.Command{Action: "jump"})
	assert.ErrorIs(t, err, apiclient.ErrUnknownAction)
}

func TestClient_ApplyConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusConflict, "INVALID_STATE", "This action is not allowed in the current timesheet status")
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, session())
	_, err := c.Apply(context.Background(), tracker.Command{Action: workday.ActionResume, EntryID: "ts-1"})

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_STATE", apiErr.Code)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestClient_RefreshOnUnauthorized(t *testing.T) {
	var todayCalls, refreshCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/refresh":
			refreshCalls.Add(1)
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "refresh-1", body["refresh_token"])
			writeOK(w, http.StatusOK, map[string]any{
				"user":          map[string]any{"id": "u-1", "employee_id": "emp-1"},
				"access_token":  "access-2",
				"refresh_token": "refresh-2",
			})
		case "/api/v1/timesheet/today":
			todayCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer access-2" {
				writeErr(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired")
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok":true,"data":` + serverEntry + `}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	var persisted []apiclient.Session
	c := apiclient.New(srv.URL, session(), apiclient.OnSessionChange(func(s apiclient.Session) {
		persisted = append(persisted, s)
	}))

	_, err := c.Today(context.Background())

	require.NoError(t, err)
	assert.EqualValues(t, 2, todayCalls.Load())
	assert.EqualValues(t, 1, refreshCalls.Load())
	require.Len(t, persisted, 1)
	assert.Equal(t, "access-2", c.Session().AccessToken)
	assert.Equal(t, "refresh-2", c.Session().RefreshToken)
}

func TestClient_RefreshFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, session())
	_, err := c.Today(context.Background())

	assert.True(t, apiclient.IsUnauthorized(err))
	assert.Equal(t, "access-1", c.Session().AccessToken)
}

func TestClient_Monthly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reports/monthly", r.URL.Path)
		assert.Equal(t, "2025", r.URL.Query().Get("year"))
		writeOK(w, http.StatusOK, map[string]any{
			"employee_id": "emp-1",
			"year":        2025,
			"months":      []map[string]any{{"name": "January", "seconds": 27000, "clock": "07:30:00"}},
			"total":       map[string]any{"name": "Total", "seconds": 27000, "clock": "07:30:00"},
		})
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, session())
	m, err := c.Monthly(context.Background(), 2025)

	require.NoError(t, err)
	assert.Equal(t, 2025, m.Year)
	require.Len(t, m.Months, 1)
	assert.Equal(t, "07:30:00", m.Months[0].Clock)
	assert.EqualValues(t, 27000, m.Total.Seconds)
}

func TestClient_Weekly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reports/weekly", r.URL.Path)
		assert.Equal(t, "2026-03-04", r.URL.Query().Get("week_of"))
		writeOK(w, http.StatusOK, map[string]any{"week_start": "2026-03-02", "week_end": "2026-03-08"})
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, session())
	wk, err := c.Weekly(context.Background(), "2026-03-04")

	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", wk.WeekStart)
}
