package backend

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// NotificationsDashboard calls GET /api/notifications/dashboard. The payload is passed through untouched.
func (a *ActorClient) NotificationsDashboard(ctx context.Context, branchID int64) (json.RawMessage, error) {
	path := "/api/notifications/dashboard"
	if branchID > 0 {
		params := url.Values{}
		params.Set("branchId", strconv.FormatInt(branchID, 10))
		path += "?" + params.Encode()
	}
	return a.get(ctx, "notifications.dashboard", path)
}

type acknowledgeBody struct {
	UserID int64 `json:"userId"`
}

type decisionBody struct {
	UserID int64  `json:"userId"`
	Note   string `json:"note"`
}

// AcknowledgeAlert calls POST /api/notifications/alerts/{id}/acknowledge.
func (a *ActorClient) AcknowledgeAlert(ctx context.Context, alertID, userID int64) (json.RawMessage, error) {
	path := "/api/notifications/alerts/" + strconv.FormatInt(alertID, 10) + "/acknowledge"
	return a.post(ctx, "notifications.acknowledge", path, acknowledgeBody{UserID: userID})
}

// ApproveRequest calls POST /api/notifications/approvals/{id}/approve.
func (a *ActorClient) ApproveRequest(ctx context.Context, historyID, userID int64, note string) (json.RawMessage, error) {
	path := "/api/notifications/approvals/" + strconv.FormatInt(historyID, 10) + "/approve"
	return a.post(ctx, "notifications.approve", path, decisionBody{UserID: userID, Note: note})
}

// RejectRequest calls POST /api/notifications/approvals/{id}/reject.
func (a *ActorClient) RejectRequest(ctx context.Context, historyID, userID int64, note string) (json.RawMessage, error) {
	path := "/api/notifications/approvals/" + strconv.FormatInt(historyID, 10) + "/reject"
	return a.post(ctx, "notifications.reject", path, decisionBody{UserID: userID, Note: note})
}
