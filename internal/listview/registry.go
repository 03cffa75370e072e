package listview

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/fleet-admin/internal/domain"
	"github.com/spec-kit/fleet-admin/internal/observability"
)

// SavedView is the persisted part of a view.
type SavedView struct {
	ID            string      `json:"id"`
	OwnerUserID   string      `json:"ownerUserId"`
	OwnerRole     domain.Role `json:"ownerRole"`
	State         State       `json:"state"`
	Scope         Scope       `json:"scope"`
	ScopeResolved bool        `json:"scopeResolved"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// StateStore persists SavedView records. Load returns nil, nil for unknown ids.
type StateStore interface {
	Save(ctx context.Context, view SavedView) error
	Load(ctx context.Context, id string) (*SavedView, error)
	Delete(ctx context.Context, id string) error
}

// Factory builds a fresh controller for an actor.
type Factory func(actor domain.ActorContext) *Controller

type entry struct {
	controller *Controller
	owner      domain.ActorContext
	lastUsed   time.Time
}

// Registry keeps open views in memory and mirrors their state to a StateStore.
type Registry struct {
	factory Factory
	store   StateStore
	idleTTL time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time

	mu    sync.Mutex
	views map[string]*entry
}

// NewRegistry creates a registry. A nil store keeps views in memory only.
func NewRegistry(factory Factory, store StateStore, idleTTL time.Duration, logger *zap.Logger, metrics *observability.Metrics) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		factory: factory,
		store:   store,
		idleTTL: idleTTL,
		logger:  logger.Named("views"),
		metrics: metrics,
		now:     time.Now,
		views:   make(map[string]*entry),
	}
}

// Open registers a new view for the actor. The view is not loaded. A store
// failure leaves the view usable from memory only.
func (r *Registry) Open(ctx context.Context, actor domain.ActorContext) (string, *Controller) {
	id := uuid.NewString()
	ctrl := r.factory(actor)

	r.mu.Lock()
	r.views[id] = &entry{controller: ctrl, owner: actor, lastUsed: r.now()}
	r.metrics.SetOpenViews(len(r.views))
	r.mu.Unlock()

	if err := r.Persist(ctx, id); err != nil {
		r.logger.Warn("persist new view", zap.String("view_id", id), zap.Error(err))
	}
	return id, ctrl
}

// Get returns the actor's view. A view missing from memory is rebuilt from the
// store and reloaded before it is returned.
func (r *Registry) Get(ctx context.Context, id string, actor domain.ActorContext) (*Controller, error) {
	r.mu.Lock()
	if e, ok := r.views[id]; ok {
		if !sameOwner(e.owner, actor) {
			r.mu.Unlock()
			return nil, ErrViewForbidden
		}
		e.lastUsed = r.now()
		r.mu.Unlock()
		e.controller.Rebind(actor)
		return e.controller, nil
	}
	r.mu.Unlock()

	if r.store == nil {
		return nil, ErrViewNotFound
	}
	saved, err := r.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, ErrViewNotFound
	}
	if saved.OwnerUserID != actor.UserID || saved.OwnerRole != actor.Role {
		return nil, ErrViewForbidden
	}

	ctrl := r.factory(actor)
	ctrl.Restore(saved.State, saved.Scope, saved.ScopeResolved)
	if err := ctrl.Load(ctx); err != nil {
		r.logger.Warn("reload resumed view", zap.String("view_id", id), zap.Error(err))
	}

	r.mu.Lock()
	if e, ok := r.views[id]; ok {
		// another request resumed it first
		r.mu.Unlock()
		return e.controller, nil
	}
	r.views[id] = &entry{controller: ctrl, owner: actor, lastUsed: r.now()}
	r.metrics.SetOpenViews(len(r.views))
	r.mu.Unlock()

	r.logger.Info("resumed view", zap.String("view_id", id), zap.String("user_id", actor.UserID))
	return ctrl, nil
}

// Persist writes the view's current state to the store.
func (r *Registry) Persist(ctx context.Context, id string) error {
	if r.store == nil {
		return nil
	}
	r.mu.Lock()
	e, ok := r.views[id]
	r.mu.Unlock()
	if !ok {
		return ErrViewNotFound
	}
	state, scope, resolved := e.controller.Saved()
	return r.store.Save(ctx, SavedView{
		ID:            id,
		OwnerUserID:   e.owner.UserID,
		OwnerRole:     e.owner.Role,
		State:         state,
		Scope:         scope,
		ScopeResolved: resolved,
		UpdatedAt:     r.now().UTC(),
	})
}

// Close discards the view in memory and in the store.
func (r *Registry) Close(ctx context.Context, id string, actor domain.ActorContext) error {
	r.mu.Lock()
	e, ok := r.views[id]
	if ok && !sameOwner(e.owner, actor) {
		r.mu.Unlock()
		return ErrViewForbidden
	}
	r.mu.Unlock()

	if !ok {
		if r.store == nil {
			return ErrViewNotFound
		}
		saved, err := r.store.Load(ctx, id)
		if err != nil {
			return err
		}
		if saved == nil {
			return ErrViewNotFound
		}
		if saved.OwnerUserID != actor.UserID || saved.OwnerRole != actor.Role {
			return ErrViewForbidden
		}
	}

	r.drop(id)
	if r.store != nil {
		return r.store.Delete(ctx, id)
	}
	return nil
}

// Sweep evicts views idle for longer than the idle TTL and returns how many went.
// Persisted state is left to expire in the store.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, e := range r.views {
		if e.lastUsed.Before(cutoff) {
			delete(r.views, id)
			evicted++
		}
	}
	r.metrics.SetOpenViews(len(r.views))
	return evicted
}

// Len returns the number of views held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *Registry) drop(id string) {
	r.mu.Lock()
	delete(r.views, id)
	r.metrics.SetOpenViews(len(r.views))
	r.mu.Unlock()
}

func sameOwner(a, b domain.ActorContext) bool {
	return a.UserID == b.UserID && a.Role == b.Role
}
