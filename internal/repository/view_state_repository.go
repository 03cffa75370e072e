package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/fleet-admin/internal/listview"
	"github.com/spec-kit/fleet-admin/internal/persistence"
)

// ViewStateRepository keeps list view state in Redis so a view can be resumed on any replica.
type ViewStateRepository struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

var _ listview.StateStore = (*ViewStateRepository)(nil)

// NewViewStateRepository builds repository over the wrapped client, keyed under
// the "view" namespace. Entries expire after ttl without a save.
func NewViewStateRepository(store *persistence.Redis, ttl time.Duration) *ViewStateRepository {
	return &ViewStateRepository{client: store.Client, namespace: store.Key("view"), ttl: ttl}
}

func (r *ViewStateRepository) key(id string) string {
	return r.namespace + ":" + id
}

func (r *ViewStateRepository) Save(ctx context.Context, view listview.SavedView) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode view %s: %w", view.ID, err)
	}
	return r.client.Set(ctx, r.key(view.ID), payload, r.ttl).Err()
}

func (r *ViewStateRepository) Load(ctx context.Context, id string) (*listview.SavedView, error) {
	payload, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var view listview.SavedView
	if err := json.Unmarshal(payload, &view); err != nil {
		return nil, fmt.Errorf("decode view %s: %w", id, err)
	}
	return &view, nil
}

func (r *ViewStateRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}
