package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/fleet-admin/internal/config"
	"github.com/spec-kit/fleet-admin/internal/domain"
	"github.com/spec-kit/fleet-admin/internal/observability"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *ActorClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(config.BackendConfig{BaseURL: srv.URL, TimeoutSeconds: 2}, zap.NewNop(), observability.NewMetrics())
	return client.For(domain.ActorContext{Role: domain.RoleAdmin, UserID: "1", Token: "tok"})
}

func TestListEmployeesForwardsTokenAndUnwraps(t *testing.T) {
	ac := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/employees", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"status":200,"message":"ok","data":[{"id":1,"userFullName":"Nguyễn Văn A","status":"ACTIVE"}]}`)
	})

	got, err := ac.ListEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Nguyễn Văn A", got[0].UserFullName)
	assert.Equal(t, domain.EmployeeStatusActive, got[0].Status)
}

func TestListBranchesSendsSizeAndHandlesNestedContent(t *testing.T) {
	ac := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/branches", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("size"))
		_, _ = io.WriteString(w, `{"data":{"content":[{"id":3,"branchName":"Huế"}]}}`)
	})

	got, err := ac.ListBranches(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, []domain.Branch{{ID: 3, BranchName: "Huế"}}, got)
}

func TestGetEmployeeByUserNotFoundIsNil(t *testing.T) {
	ac := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/employees/user/77", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	got, err := ac.GetEmployeeByUser(context.Background(), "77")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateEmployeeBodyAndErrorMessage(t *testing.T) {
	ac := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/employees/12", r.URL.Path)

		var body domain.EmployeeUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, domain.EmployeeUpdate{BranchID: 2, RoleID: 4, Status: domain.EmployeeStatusInactive}, body)

		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"Nhân viên đang có chuyến"}`)
	})

	err := ac.UpdateEmployee(context.Background(), 12, domain.EmployeeUpdate{BranchID: 2, RoleID: 4, Status: domain.EmployeeStatusInactive})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Nhân viên đang có chuyến", apiErr.Error())
}

func TestWrapperFailureOn200(t *testing.T) {
	ac := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"denied"}`)
	})

	_, err := ac.ListRoles(context.Background())
	require.EqualError(t, err, "denied")
}

func TestNotificationsDashboardQuery(t *testing.T) {
	ac := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("branchId"))
		_, _ = io.WriteString(w, `{"data":{"alerts":[],"pendingApprovals":[]}}`)
	})

	raw, err := ac.NotificationsDashboard(context.Background(), 5)
	require.NoError(t, err)
	assert.JSONEq(t, `{"alerts":[],"pendingApprovals":[]}`, string(raw))
}

func TestApprovalActionsPostUserAndNote(t *testing.T) {
	type call struct {
		path string
		body map[string]any
	}
	var calls []call
	ac := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		calls = append(calls, call{path: r.URL.Path, body: body})
		_, _ = io.WriteString(w, `{"status":200,"data":{"id":9}}`)
	})
	ctx := context.Background()

	_, err := ac.AcknowledgeAlert(ctx, 3, 100)
	require.NoError(t, err)
	_, err = ac.ApproveRequest(ctx, 9, 100, "")
	require.NoError(t, err)
	raw, err := ac.RejectRequest(ctx, 9, 100, "thiếu chứng từ")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":9}`, string(raw))

	require.Len(t, calls, 3)
	assert.Equal(t, "/api/notifications/alerts/3/acknowledge", calls[0].path)
	assert.Equal(t, map[string]any{"userId": float64(100)}, calls[0].body)
	assert.Equal(t, "/api/notifications/approvals/9/approve", calls[1].path)
	assert.Equal(t, map[string]any{"userId": float64(100), "note": ""}, calls[1].body)
	assert.Equal(t, "/api/notifications/approvals/9/reject", calls[2].path)
	assert.Equal(t, "thiếu chứng từ", calls[2].body["note"])
}
