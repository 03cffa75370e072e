package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/fleet-admin/internal/config"
	"github.com/spec-kit/fleet-admin/internal/domain"
	"github.com/spec-kit/fleet-admin/internal/events"
	"github.com/spec-kit/fleet-admin/internal/listview"
	apperrors "github.com/spec-kit/fleet-admin/pkg/util"
)

type stubBackend struct {
	mu        sync.Mutex
	employees []domain.Employee
	self      *domain.Employee
	updateErr error
	dashboard json.RawMessage
	branches  []int64
	actions   []string
	actionErr error
}

func (b *stubBackend) ListEmployees(context.Context) ([]domain.Employee, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Employee(nil), b.employees...), nil
}

func (b *stubBackend) ListEmployeesByBranch(_ context.Context, branchID int64) ([]domain.Employee, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []domain.Employee{}
	for _, e := range b.employees {
		if e.BranchID == branchID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (b *stubBackend) GetEmployeeByUser(context.Context, string) (*domain.Employee, error) {
	return b.self, nil
}

func (b *stubBackend) ListBranches(context.Context, int) ([]domain.Branch, error) {
	return []domain.Branch{{ID: 1, BranchName: "Hà Nội"}}, nil
}

func (b *stubBackend) ListRoles(context.Context) ([]domain.RoleRecord, error) {
	return []domain.RoleRecord{{ID: 1, RoleName: "ADMIN"}, {ID: 3, RoleName: "DRIVER"}}, nil
}

func (b *stubBackend) UpdateEmployee(_ context.Context, id int64, update domain.EmployeeUpdate) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.updateErr != nil {
		return b.updateErr
	}
	for i := range b.employees {
		if b.employees[i].ID == id {
			b.employees[i].Status = update.Status
		}
	}
	return nil
}

func (b *stubBackend) NotificationsDashboard(ctx context.Context, branchID int64) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.branches = append(b.branches, branchID)
	return b.dashboard, nil
}

func (b *stubBackend) record(action string) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.actionErr != nil {
		return nil, b.actionErr
	}
	b.actions = append(b.actions, action)
	return json.RawMessage(`{"ok":true}`), nil
}

func (b *stubBackend) AcknowledgeAlert(_ context.Context, alertID, userID int64) (json.RawMessage, error) {
	return b.record(fmt.Sprintf("ack %d by %d", alertID, userID))
}

func (b *stubBackend) ApproveRequest(_ context.Context, historyID, userID int64, note string) (json.RawMessage, error) {
	return b.record(fmt.Sprintf("approve %d by %d: %s", historyID, userID, note))
}

func (b *stubBackend) RejectRequest(_ context.Context, historyID, userID int64, note string) (json.RawMessage, error) {
	return b.record(fmt.Sprintf("reject %d by %d: %s", historyID, userID, note))
}

func newStubBackend() *stubBackend {
	return &stubBackend{employees: []domain.Employee{
		{ID: 1, UserFullName: "Quản trị", RoleName: "ADMIN", RoleID: 1, BranchID: 1, Status: domain.EmployeeStatusActive},
		{ID: 2, UserFullName: "Trần Văn Tài", RoleName: "DRIVER", RoleID: 3, BranchID: 1, Status: domain.EmployeeStatusActive},
	}}
}

func newViewService(b *stubBackend, dispatcher events.Dispatcher) *EmployeeViewService {
	factory := func(actor domain.ActorContext) *listview.Controller {
		return listview.NewController(actor, func(domain.ActorContext) listview.Fetcher { return b }, listview.Options{PageSize: 10})
	}
	registry := listview.NewRegistry(factory, nil, time.Minute, zap.NewNop(), nil)
	return NewEmployeeViewService(registry, dispatcher, zap.NewNop())
}

var admin = domain.ActorContext{Role: domain.RoleAdmin, UserID: "1"}

func statusOf(err error) int {
	return apperrors.ToDomainError(err).HTTPStatus
}

func TestEmployeeViewToggleFlow(t *testing.T) {
	b := newStubBackend()
	dispatcher := events.NewInMemoryDispatcher()
	var published []events.Event
	dispatcher.Subscribe(events.EventEmployeeStatusChanged, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})
	svc := newViewService(b, dispatcher)
	ctx := context.Background()

	id, snap := svc.OpenView(ctx, admin)
	require.Len(t, snap.Items, 1)

	_, err := svc.ToggleStatus(ctx, id, admin, 2, false)
	require.Equal(t, http.StatusPreconditionRequired, statusOf(err))
	assert.Contains(t, err.Error(), `"Trần Văn Tài"`)

	res, err := svc.ToggleStatus(ctx, id, admin, 2, true)
	require.NoError(t, err)
	assert.Equal(t, domain.EmployeeStatusInactive, res.Snapshot.Items[0].Status)
	require.Len(t, published, 1)
	assert.Equal(t, int64(2), published[0].EmployeeID)
	assert.NotEmpty(t, published[0].ID)

	b.updateErr = errors.New("mất kết nối")
	_, err = svc.ToggleStatus(ctx, id, admin, 2, true)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadGateway, domainErr.HTTPStatus)
	assert.Equal(t, "Kích hoạt lại nhân viên thất bại: mất kết nối", domainErr.Message)
	assert.Len(t, published, 1)
}

func TestEmployeeViewErrors(t *testing.T) {
	svc := newViewService(newStubBackend(), nil)
	ctx := context.Background()
	id, _ := svc.OpenView(ctx, admin)

	_, err := svc.GetView(ctx, "nope", admin)
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	_, err = svc.GetView(ctx, id, domain.ActorContext{Role: domain.RoleAdmin, UserID: "9"})
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	_, err = svc.ToggleStatus(ctx, id, admin, 1, true)
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	require.NoError(t, svc.CloseView(ctx, id, admin))
	assert.Equal(t, http.StatusNotFound, statusOf(svc.CloseView(ctx, id, admin)))
}

func TestEmployeeViewFilterAndPage(t *testing.T) {
	b := newStubBackend()
	for i := int64(10); i < 35; i++ {
		b.employees = append(b.employees, domain.Employee{ID: i, UserFullName: "Tài xế", RoleID: 3, RoleName: "DRIVER", BranchID: 1, Status: domain.EmployeeStatusActive})
	}
	svc := newViewService(b, nil)
	ctx := context.Background()
	id, snap := svc.OpenView(ctx, admin)
	assert.Equal(t, 3, snap.TotalPages)

	snap, err := svc.SetPage(ctx, id, admin, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.CurrentPage)

	term := "trần"
	snap, err = svc.UpdateFilter(ctx, id, admin, listview.FilterPatch{SearchTerm: &term})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.CurrentPage)
	assert.Equal(t, 1, snap.TotalCount)
}

func newDashboardService(b *stubBackend) *DashboardService {
	return NewDashboardService(func(domain.ActorContext) DashboardFetcher { return b }, time.Second, zap.NewNop())
}

func TestDashboardService(t *testing.T) {
	b := newStubBackend()
	b.dashboard = json.RawMessage(`{"alerts":[]}`)
	svc := newDashboardService(b)
	ctx := context.Background()

	raw, err := svc.Dashboard(ctx, domain.ActorContext{Role: domain.RoleDriver, UserID: "4"}, 0)
	require.NoError(t, err)
	assert.Nil(t, raw)
	assert.Empty(t, b.branches)

	raw, err = svc.Dashboard(ctx, admin, 3)
	require.NoError(t, err)
	assert.JSONEq(t, `{"alerts":[]}`, string(raw))

	b.self = &domain.Employee{ID: 8, BranchID: 5}
	_, err = svc.Dashboard(ctx, domain.ActorContext{Role: domain.RoleManager, UserID: "8"}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 5}, b.branches)
}

func TestDashboardPinsNonAdminRolesToOwnBranch(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleCoordinator, domain.RoleConsultant, domain.RoleAccountant} {
		b := newStubBackend()
		b.dashboard = json.RawMessage(`{"alerts":[]}`)
		b.self = &domain.Employee{ID: 9, BranchID: 5}
		svc := newDashboardService(b)

		_, err := svc.Dashboard(context.Background(), domain.ActorContext{Role: role, UserID: "9"}, 7)
		require.NoError(t, err, role)
		assert.Equal(t, []int64{5}, b.branches, role)
	}

	b := newStubBackend()
	svc := newDashboardService(b)
	raw, err := svc.Dashboard(context.Background(), domain.ActorContext{Role: domain.RoleCoordinator, UserID: "9"}, 7)
	require.NoError(t, err)
	assert.Nil(t, raw)
	assert.Empty(t, b.branches)
}

func TestDashboardSurvivesCancelledCaller(t *testing.T) {
	b := newStubBackend()
	b.dashboard = json.RawMessage(`{"alerts":[]}`)
	svc := newDashboardService(b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	raw, err := svc.Dashboard(ctx, admin, 0)
	require.NoError(t, err)
	assert.JSONEq(t, `{"alerts":[]}`, string(raw))
}

func TestDashboardActions(t *testing.T) {
	b := newStubBackend()
	svc := newDashboardService(b)
	ctx := context.Background()
	manager := domain.ActorContext{Role: domain.RoleManager, UserID: "8"}
	coordinator := domain.ActorContext{Role: domain.RoleCoordinator, UserID: "6"}

	_, err := svc.AcknowledgeAlert(ctx, coordinator, 3)
	require.NoError(t, err)
	_, err = svc.AcknowledgeAlert(ctx, domain.ActorContext{Role: domain.RoleDriver, UserID: "4"}, 3)
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	raw, err := svc.ApproveRequest(ctx, manager, 11, "  ")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	_, err = svc.ApproveRequest(ctx, coordinator, 11, "")
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	_, err = svc.RejectRequest(ctx, manager, 12, " ")
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
	assert.Equal(t, "Vui lòng nhập lý do từ chối", domainErr.Message)
	_, err = svc.RejectRequest(ctx, admin, 12, "thiếu hóa đơn")
	require.NoError(t, err)

	_, err = svc.ApproveRequest(ctx, domain.ActorContext{Role: domain.RoleAdmin, UserID: "abc"}, 11, "")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	assert.Equal(t, []string{"ack 3 by 6", "approve 11 by 8: ", "reject 12 by 1: thiếu hóa đơn"}, b.actions)

	b.actionErr = errors.New("đã được xử lý")
	_, err = svc.ApproveRequest(ctx, manager, 11, "")
	domainErr = apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadGateway, domainErr.HTTPStatus)
	assert.Equal(t, "APPROVAL_FAILED", domainErr.Code)
	assert.Equal(t, "đã được xử lý", domainErr.Details["reason"])
}

type fakeHistory struct {
	created []domain.StatusHistoryEntry
	entries []domain.StatusHistoryEntry
	err     error
}

func (f *fakeHistory) Create(_ context.Context, entry *domain.StatusHistoryEntry) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *entry)
	return nil
}

func (f *fakeHistory) ListByEmployee(context.Context, int64, int) ([]domain.StatusHistoryEntry, error) {
	return f.entries, f.err
}

func TestNotificationServiceRecordsHistory(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	history := &fakeHistory{}
	NewNotificationService(dispatcher, history, zap.NewNop(), config.NotificationConfig{WebhookURL: "http://hook"}).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:         "evt-1",
		Type:       events.EventEmployeeStatusChanged,
		EmployeeID: 2,
		Actor:      events.Actor{Role: domain.RoleManager, UserID: "8"},
		Payload: events.EmployeeStatusChangedPayload{
			EmployeeName: "Trần Văn Tài",
			BranchID:     1,
			OldStatus:    domain.EmployeeStatusActive,
			NewStatus:    domain.EmployeeStatusInactive,
		},
	})
	require.NoError(t, err)
	require.Len(t, history.created, 1)
	assert.Equal(t, "evt-1", history.created[0].EventID)
	assert.Equal(t, domain.RoleManager, history.created[0].ActorRole)

	history.err = errors.New("db down")
	err = dispatcher.Publish(context.Background(), events.Event{ID: "evt-2", Type: events.EventEmployeeStatusChanged, Payload: events.EmployeeStatusChangedPayload{}})
	assert.ErrorIs(t, err, history.err)
}

func TestStatusHistoryScopedToBranch(t *testing.T) {
	b := newStubBackend()
	history := &fakeHistory{entries: []domain.StatusHistoryEntry{
		{EventID: "a", EmployeeID: 2, BranchID: 1},
		{EventID: "b", EmployeeID: 2, BranchID: 2},
	}}
	svc := NewStatusHistoryService(history, func(domain.ActorContext) BranchResolver { return b })
	ctx := context.Background()

	all, err := svc.List(ctx, admin, 2, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	b.self = &domain.Employee{BranchID: 2}
	scoped, err := svc.List(ctx, domain.ActorContext{Role: domain.RoleManager, UserID: "8"}, 2, 0)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "b", scoped[0].EventID)

	_, err = NewStatusHistoryService(nil, nil).List(ctx, admin, 2, 0)
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(err))
}
