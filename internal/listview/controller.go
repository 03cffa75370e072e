package listview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/fleet-admin/internal/domain"
	"github.com/spec-kit/fleet-admin/internal/observability"
)

// Fetcher is the slice of the REST backend a view needs.
type Fetcher interface {
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	ListEmployeesByBranch(ctx context.Context, branchID int64) ([]domain.Employee, error)
	GetEmployeeByUser(ctx context.Context, userID string) (*domain.Employee, error)
	ListBranches(ctx context.Context, size int) ([]domain.Branch, error)
	ListRoles(ctx context.Context) ([]domain.RoleRecord, error)
	UpdateEmployee(ctx context.Context, id int64, update domain.EmployeeUpdate) error
}

// FetcherFunc binds a Fetcher to the actor's credentials.
type FetcherFunc func(actor domain.ActorContext) Fetcher

// Phase is the lifecycle position of a view.
type Phase string

const (
	PhaseInit    Phase = "INIT"
	PhaseLoading Phase = "LOADING"
	PhaseReady   Phase = "READY"
)

// Options tunes a Controller.
type Options struct {
	PageSize       int
	BranchPageSize int
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	Now            func() time.Time
}

// Controller owns the state of one employee list view.
type Controller struct {
	fetchers FetcherFunc
	opts     Options
	logger   *zap.Logger

	mu            sync.Mutex
	actor         domain.ActorContext
	phase         Phase
	loading       bool
	generation    uint64
	scope         Scope
	scopeResolved bool
	state         State
	employees     []domain.Employee
	branches      []domain.Branch
	roles         []domain.RoleRecord
	lastErr       error
}

// NewController creates a view in the INIT phase. Nothing is fetched until Load.
func NewController(actor domain.ActorContext, fetchers FetcherFunc, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.BranchPageSize <= 0 {
		opts.BranchPageSize = 100
	}
	return &Controller{
		fetchers:  fetchers,
		opts:      opts,
		logger:    opts.Logger.Named("listview"),
		actor:     actor,
		phase:     PhaseInit,
		state:     NewState(opts.PageSize),
		employees: []domain.Employee{},
		branches:  []domain.Branch{},
		roles:     []domain.RoleRecord{},
	}
}

// Actor returns the actor the view was opened for.
func (c *Controller) Actor() domain.ActorContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actor
}

// Rebind refreshes the credentials used for backend calls. Role and user are kept.
func (c *Controller) Rebind(actor domain.ActorContext) {
	c.mu.Lock()
	c.actor.Token = actor.Token
	c.mu.Unlock()
}

// Load fetches employees, branches and roles and replaces the cached lists.
// Only the most recently started load may apply its results or end the loading phase.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.loading = true
	c.phase = PhaseLoading
	actor := c.actor
	scope, resolved := c.scope, c.scopeResolved
	c.mu.Unlock()

	fetcher := c.fetchers(actor)

	if actor.Role.IsBranchScoped() && !resolved {
		var err error
		scope, err = c.resolveScope(ctx, fetcher, actor)
		if err != nil {
			if errors.Is(err, ErrScopeUnresolved) {
				c.logger.Warn("skipping load without actor branch",
					zap.String("role", string(actor.Role)),
					zap.String("user_id", actor.UserID))
				c.finish(gen, err, observability.LoadSkipped)
				return err
			}
			c.logger.Error("resolve actor branch", zap.Error(err))
			c.finish(gen, err, observability.LoadFailed)
			return err
		}
		c.mu.Lock()
		if !c.scopeResolved {
			c.scope = scope
			c.scopeResolved = true
			c.state.Filter.BranchID = int64Ptr(scope.BranchID)
		}
		c.mu.Unlock()
	}

	var (
		employees []domain.Employee
		branches  []domain.Branch
		roles     []domain.RoleRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if scope.Restricted() {
			employees, err = fetcher.ListEmployeesByBranch(gctx, scope.BranchID)
		} else {
			employees, err = fetcher.ListEmployees(gctx)
		}
		if err != nil {
			return fmt.Errorf("fetch employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if branches, err = fetcher.ListBranches(gctx, c.opts.BranchPageSize); err != nil {
			return fmt.Errorf("fetch branches: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if roles, err = fetcher.ListRoles(gctx); err != nil {
			return fmt.Errorf("fetch roles: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		c.logger.Error("load employee view", zap.Uint64("generation", gen), zap.Error(err))
		c.finish(gen, err, observability.LoadFailed)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.logger.Debug("dropping stale load", zap.Uint64("generation", gen), zap.Uint64("latest", c.generation))
		c.opts.Metrics.RecordViewLoad(observability.LoadStale)
		return nil
	}
	c.employees = nonNil(employees)
	c.branches = nonNil(branches)
	c.roles = RoleOptions(roles)
	c.lastErr = nil
	c.loading = false
	c.phase = PhaseReady
	c.state = ClampPage(c.state, c.totalPagesLocked())
	c.opts.Metrics.RecordViewLoad(observability.LoadApplied)
	return nil
}

// finish ends a load that produced no data. Cached lists are kept.
func (c *Controller) finish(gen uint64, err error, outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.opts.Metrics.RecordViewLoad(observability.LoadStale)
		return
	}
	c.lastErr = err
	c.loading = false
	c.phase = PhaseReady
	c.opts.Metrics.RecordViewLoad(outcome)
}

func (c *Controller) resolveScope(ctx context.Context, fetcher Fetcher, actor domain.ActorContext) (Scope, error) {
	if !actor.HasUser() {
		return Scope{}, fmt.Errorf("%w: no user id in session", ErrScopeUnresolved)
	}
	self, err := fetcher.GetEmployeeByUser(ctx, actor.UserID)
	if err != nil {
		return Scope{}, fmt.Errorf("fetch actor employee record: %w", err)
	}
	if self == nil || self.BranchID == 0 {
		return Scope{}, fmt.Errorf("%w: user %s has no branch", ErrScopeUnresolved, actor.UserID)
	}
	return Scope{BranchID: self.BranchID, BranchName: self.BranchName}, nil
}

// SetFilter merges the patch and returns to page 1. No fetch is issued.
func (c *Controller) SetFilter(p FilterPatch) {
	c.mu.Lock()
	c.state = ApplyFilter(c.state, p)
	c.mu.Unlock()
}

// SetPage moves to the given page, clamped to the available pages.
func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	c.state = SetPage(c.state, page, c.totalPagesLocked())
	c.mu.Unlock()
}

func (c *Controller) totalPagesLocked() int {
	return TotalPages(len(FilterEmployees(c.employees, c.state.Filter, c.scope)), c.state.PageSize)
}

// ToggleStatus flips an employee between ACTIVE and INACTIVE and reloads the view.
// Without confirmation it returns a *ConfirmationRequiredError naming the target.
func (c *Controller) ToggleStatus(ctx context.Context, employeeID int64, confirmed bool) (*domain.StatusChange, error) {
	c.mu.Lock()
	actor := c.actor
	var target *domain.Employee
	for _, e := range FilterEmployees(c.employees, FilterState{}, c.scope) {
		if e.ID == employeeID {
			rec := e
			target = &rec
			break
		}
	}
	c.mu.Unlock()

	if !actor.Role.CanToggleStatus() {
		return nil, ErrViewOnly
	}
	if target == nil {
		return nil, ErrEmployeeNotFound
	}

	next := target.Status.Flip()
	action := domain.ToggleAction(next)
	if !confirmed {
		return nil, &ConfirmationRequiredError{EmployeeID: target.ID, EmployeeName: target.UserFullName, Action: action}
	}

	update := domain.EmployeeUpdate{BranchID: target.BranchID, RoleID: target.RoleID, Status: next}
	if err := c.fetchers(actor).UpdateEmployee(ctx, target.ID, update); err != nil {
		c.logger.Warn("toggle employee status",
			zap.Int64("employee_id", target.ID),
			zap.String("target_status", string(next)),
			zap.Error(err))
		return nil, &ToggleError{EmployeeID: target.ID, Action: action, Err: err}
	}

	change := &domain.StatusChange{
		EmployeeID:   target.ID,
		EmployeeName: target.UserFullName,
		BranchID:     target.BranchID,
		RoleID:       target.RoleID,
		OldStatus:    target.Status,
		NewStatus:    next,
		Actor:        actor,
		ChangedAt:    c.opts.Now().UTC(),
	}
	if err := c.Load(ctx); err != nil {
		c.logger.Warn("reload after status toggle", zap.Int64("employee_id", target.ID), zap.Error(err))
	}
	return change, nil
}

// Snapshot is a read-only rendering of the view.
type Snapshot struct {
	Phase           Phase               `json:"phase"`
	Loading         bool                `json:"loading"`
	Actor           domain.ActorContext `json:"actor"`
	Scope           *Scope              `json:"scope,omitempty"`
	Filter          FilterState         `json:"filter"`
	CurrentPage     int                 `json:"currentPage"`
	PageSize        int                 `json:"pageSize"`
	TotalPages      int                 `json:"totalPages"`
	TotalCount      int                 `json:"totalCount"`
	Items           []domain.Employee   `json:"items"`
	Empty           bool                `json:"empty"`
	Branches        []domain.Branch     `json:"branches,omitempty"`
	Roles           []domain.RoleRecord `json:"roles"`
	CanToggleStatus bool                `json:"canToggleStatus"`
	ViewOnly        bool                `json:"viewOnly"`
	LastError       string              `json:"lastError,omitempty"`
}

// Snapshot derives the current page of the view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	filtered := FilterEmployees(c.employees, c.state.Filter, c.scope)
	total := TotalPages(len(filtered), c.state.PageSize)
	page := Paginate(filtered, c.state.CurrentPage, c.state.PageSize)

	snap := Snapshot{
		Phase:           c.phase,
		Loading:         c.loading,
		Actor:           c.actor,
		Filter:          c.state.Filter,
		CurrentPage:     c.state.CurrentPage,
		PageSize:        c.state.PageSize,
		TotalPages:      total,
		TotalCount:      len(filtered),
		Items:           append([]domain.Employee(nil), page...),
		Empty:           len(filtered) == 0,
		Roles:           append([]domain.RoleRecord{}, c.roles...),
		CanToggleStatus: c.actor.Role.CanToggleStatus(),
		ViewOnly:        !c.actor.Role.CanToggleStatus(),
	}
	if snap.Items == nil {
		snap.Items = []domain.Employee{}
	}
	if c.scope.Restricted() {
		scope := c.scope
		snap.Scope = &scope
	}
	if !c.actor.Role.IsBranchScoped() {
		snap.Branches = append([]domain.Branch{}, c.branches...)
	}
	if c.lastErr != nil {
		snap.LastError = c.lastErr.Error()
	}
	return snap
}

// Saved captures what is needed to resume the view elsewhere.
func (c *Controller) Saved() (State, Scope, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.scope, c.scopeResolved
}

// Restore replaces filter, page and scope. Cached lists are not touched; call Load after.
func (c *Controller) Restore(state State, scope Scope, scopeResolved bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if state.PageSize <= 0 {
		state.PageSize = c.state.PageSize
	}
	c.state = ClampPage(state, state.CurrentPage)
	c.scope = scope
	c.scopeResolved = scopeResolved && scope.Restricted()
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
