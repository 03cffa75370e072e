package backend

import (
	"context"
	"net/url"
	"strconv"

	"github.com/spec-kit/fleet-admin/internal/domain"
)

// ListBranches calls GET /api/branches with the first page of the given size.
func (a *ActorClient) ListBranches(ctx context.Context, size int) ([]domain.Branch, error) {
	params := url.Values{}
	params.Set("page", "0")
	if size > 0 {
		params.Set("size", strconv.Itoa(size))
	}
	raw, err := a.get(ctx, "branches.list", "/api/branches?"+params.Encode())
	if err != nil {
		return nil, err
	}
	return DecodeList[domain.Branch](raw)
}

// ListRoles calls GET /api/roles.
func (a *ActorClient) ListRoles(ctx context.Context) ([]domain.RoleRecord, error) {
	raw, err := a.get(ctx, "roles.list", "/api/roles")
	if err != nil {
		return nil, err
	}
	return DecodeList[domain.RoleRecord](raw)
}
