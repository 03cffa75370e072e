package dto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterRequestPatch(t *testing.T) {
	cases := []struct {
		body        string
		branch      *int64
		clearBranch bool
		role        *int64
		clearRole   bool
		search      *string
	}{
		{body: `{}`},
		{body: `{"branchId": 3}`, branch: ptr(3)},
		{body: `{"branchId": "4", "roleId": null}`, branch: ptr(4), clearRole: true},
		{body: `{"branchId": "", "roleId": 2, "searchTerm": "an"}`, clearBranch: true, role: ptr(2), search: str("an")},
	}
	for _, c := range cases {
		var req FilterRequest
		require.NoError(t, json.Unmarshal([]byte(c.body), &req), c.body)
		patch, err := req.Patch()
		require.NoError(t, err, c.body)
		assert.Equal(t, c.branch, patch.BranchID, c.body)
		assert.Equal(t, c.clearBranch, patch.ClearBranch, c.body)
		assert.Equal(t, c.role, patch.RoleID, c.body)
		assert.Equal(t, c.clearRole, patch.ClearRole, c.body)
		assert.Equal(t, c.search, patch.SearchTerm, c.body)
	}
}

func TestFilterRequestRejectsBadIDs(t *testing.T) {
	for _, body := range []string{`{"branchId": "abc"}`, `{"roleId": -1}`, `{"roleId": 1.5}`, `{"branchId": true}`} {
		var req FilterRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		_, err := req.Patch()
		assert.Error(t, err, body)
	}
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(PageRequest{Page: 2}))
	assert.Equal(t, map[string]any{"page": "required"}, Validate(PageRequest{}))

	long := strings.Repeat("a", 201)
	assert.Equal(t, map[string]any{"searchTerm": "max=200"}, Validate(FilterRequest{SearchTerm: &long}))
	assert.Nil(t, Validate(FilterRequest{}))

	assert.Equal(t, map[string]any{"limit": "lte=200"}, Validate(HistoryQuery{Limit: 500}))
}

func ptr(v int64) *int64 { return &v }

func str(s string) *string { return &s }

func TestDecisionRequestValidation(t *testing.T) {
	assert.Nil(t, Validate(ApproveRequest{}))
	assert.Equal(t, map[string]any{"note": "required"}, Validate(RejectRequest{}))
	assert.Nil(t, Validate(RejectRequest{Note: "thiếu chứng từ"}))
	assert.Equal(t, map[string]any{"note": "max=500"}, Validate(RejectRequest{Note: strings.Repeat("x", 501)}))
}
