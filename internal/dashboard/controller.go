package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wisetech/console/internal/models"
	"github.com/wisetech/console/pkg/wisetech"
)

// ErrConfirmationRequired is returned when a destructive action was requested
// without the explicit confirmation flag. Nothing changes in that case.
var ErrConfirmationRequired = errors.New("confirmation required")

// Entity identifies one of the dashboard's managed lists.
type Entity string

const (
	EntityUsers   Entity = "users"
	EntityGadgets Entity = "gadgets"
	EntityReviews Entity = "reviews"
)

// LoadState is the per-entity load lifecycle.
type LoadState string

const (
	StateIdle       LoadState = "idle"
	StateLoading    LoadState = "loading"
	StateLoaded     LoadState = "loaded"
	StateLoadFailed LoadState = "load_failed"
)

// AdminAPI is the slice of the WiseTech client the controller drives.
// *wisetech.Client satisfies it.
type AdminAPI interface {
	DashboardStats(ctx context.Context) (*wisetech.StatsResult, error)
	AdminUsers(ctx context.Context, params wisetech.ListParams) (*wisetech.UsersResult, error)
	AdminGadgets(ctx context.Context, params wisetech.ListParams) (*wisetech.GadgetsResult, error)
	AdminReviews(ctx context.Context, params wisetech.ListParams) (*wisetech.ReviewsResult, error)

	CreateUser(ctx context.Context, in models.UserCreate) (*models.User, error)
	UpdateUser(ctx context.Context, id int, in models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id int) error

	CreateGadget(ctx context.Context, in models.GadgetInput) (*models.Gadget, error)
	UpdateGadget(ctx context.Context, id int, in models.GadgetInput) (*models.Gadget, error)
	DeleteGadget(ctx context.Context, id int) error

	UpdateAdminReview(ctx context.Context, id int, in models.ReviewInput) (*models.Review, error)
	DeleteAdminReview(ctx context.Context, id int) error
	ApproveReview(ctx context.Context, id int) (*models.Review, error)
	RejectReview(ctx context.Context, id int) (*models.Review, error)
}

// Controller owns the admin dashboard's in-memory entity lists for one admin
// session. The remote API is the source of truth; the lists are a cache
// refreshed in full by Load and patched in place after each successful
// mutation.
type Controller struct {
	mu  sync.Mutex
	api AdminAPI

	users   []models.User
	gadgets []models.Gadget
	reviews []models.Review
	stats   models.DashboardStats

	states  map[Entity]LoadState
	errs    map[Entity]string
	sources map[Entity]wisetech.Source

	statsSource wisetech.Source
	saving      bool

	// Per-entity sequence numbers: a mutation or load that has been
	// superseded by a newer one for the same entity is discarded on return,
	// so response arrival order cannot clobber newer state.
	seq map[Entity]uint64

	// nowFn is swappable in tests.
	nowFn func() time.Time
}

func (c *Controller) now() time.Time {
	return c.nowFn()
}

// NewController creates an idle controller over the given API binding.
func NewController(api AdminAPI) *Controller {
	return &Controller{
		api: api,
		states: map[Entity]LoadState{
			EntityUsers:   StateIdle,
			EntityGadgets: StateIdle,
			EntityReviews: StateIdle,
		},
		errs:    make(map[Entity]string),
		sources: make(map[Entity]wisetech.Source),
		seq:     make(map[Entity]uint64),
		nowFn:   time.Now,
	}
}

// SetAPI rebinds the controller to a fresh token-bound client.
func (c *Controller) SetAPI(api AdminAPI) {
	c.mu.Lock()
	c.api = api
	c.mu.Unlock()
}

// Load refreshes stats and all three entity lists concurrently and waits for
// joint completion. A failed list resets to empty with a surfaced error; a
// failed stats fetch falls back to recomputing from whatever lists loaded.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	api := c.api
	for _, e := range []Entity{EntityUsers, EntityGadgets, EntityReviews} {
		c.states[e] = StateLoading
		c.errs[e] = ""
		c.seq[e]++
	}
	seqs := map[Entity]uint64{
		EntityUsers:   c.seq[EntityUsers],
		EntityGadgets: c.seq[EntityGadgets],
		EntityReviews: c.seq[EntityReviews],
	}
	c.mu.Unlock()

	var wg sync.WaitGroup
	var statsRes *wisetech.StatsResult

	wg.Add(4)
	go func() {
		defer wg.Done()
		res, err := api.DashboardStats(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("dashboard stats load failed")
			return
		}
		statsRes = res
	}()
	go func() {
		defer wg.Done()
		res, err := api.AdminUsers(ctx, wisetech.ListParams{})
		c.finishLoad(EntityUsers, seqs[EntityUsers], err, func() {
			c.users = res.Users
			c.sources[EntityUsers] = res.Source
		})
	}()
	go func() {
		defer wg.Done()
		res, err := api.AdminGadgets(ctx, wisetech.ListParams{})
		c.finishLoad(EntityGadgets, seqs[EntityGadgets], err, func() {
			c.gadgets = res.Gadgets
			c.sources[EntityGadgets] = res.Source
		})
	}()
	go func() {
		defer wg.Done()
		res, err := api.AdminReviews(ctx, wisetech.ListParams{})
		c.finishLoad(EntityReviews, seqs[EntityReviews], err, func() {
			c.reviews = res.Reviews
			c.sources[EntityReviews] = res.Source
		})
	}()
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if statsRes != nil {
		c.stats = statsRes.Stats
		c.statsSource = statsRes.Source
	} else {
		c.recomputeStatsLocked()
	}
}

// finishLoad applies one list fetch outcome under the lock, discarding it if
// a newer load or mutation for the entity has been issued since.
func (c *Controller) finishLoad(e Entity, seq uint64, err error, apply func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq[e] != seq {
		log.Debug().Str("entity", string(e)).Msg("discarding superseded load result")
		return
	}
	if err != nil {
		c.states[e] = StateLoadFailed
		c.errs[e] = fmt.Sprintf("Failed to load %s: %v", e, err)
		c.resetLocked(e)
		return
	}
	apply()
	c.states[e] = StateLoaded
	c.errs[e] = ""
}

func (c *Controller) resetLocked(e Entity) {
	switch e {
	case EntityUsers:
		c.users = nil
	case EntityGadgets:
		c.gadgets = nil
	case EntityReviews:
		c.reviews = nil
	}
}

func (c *Controller) recomputeStatsLocked() {
	c.stats = models.ComputeStats(c.users, c.gadgets, c.reviews)
	c.statsSource = wisetech.SourceDerived
}

// begin marks the controller as saving and claims the next sequence number
// for the entity.
func (c *Controller) begin(e Entity) (AdminAPI, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saving = true
	c.seq[e]++
	return c.api, c.seq[e]
}

// finish applies a mutation outcome under the lock. On success the list is
// spliced and stats are recomputed from the now-current lists; on failure the
// list stays untouched and the error is surfaced. Results superseded by a
// newer request for the same entity are discarded either way.
func (c *Controller) finish(e Entity, seq uint64, err error, apply func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saving = false
	if c.seq[e] != seq {
		log.Debug().Str("entity", string(e)).Msg("discarding superseded mutation result")
		if err != nil {
			return err
		}
		return nil
	}
	if err != nil {
		c.errs[e] = fmt.Sprintf("Failed to save %s: %v", e, err)
		return err
	}
	apply()
	c.errs[e] = ""
	c.recomputeStatsLocked()
	return nil
}

// Snapshot is a point-in-time copy of the controller state for rendering.
type Snapshot struct {
	Stats       models.DashboardStats      `json:"stats"`
	StatsSource wisetech.Source            `json:"stats_source"`
	Users       []models.User              `json:"users"`
	Gadgets     []models.Gadget            `json:"gadgets"`
	Reviews     []models.Review            `json:"reviews"`
	States      map[Entity]LoadState       `json:"states"`
	Errors      map[Entity]string          `json:"errors"`
	Sources     map[Entity]wisetech.Source `json:"sources"`
	Saving      bool                       `json:"saving"`
}

// Snapshot returns a copy of the current state. The slices are copied so the
// caller can render without racing subsequent mutations.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Stats:       c.stats,
		StatsSource: c.statsSource,
		Users:       make([]models.User, len(c.users)),
		Gadgets:     make([]models.Gadget, len(c.gadgets)),
		Reviews:     make([]models.Review, len(c.reviews)),
		States:      make(map[Entity]LoadState, len(c.states)),
		Errors:      make(map[Entity]string, len(c.errs)),
		Sources:     make(map[Entity]wisetech.Source, len(c.sources)),
		Saving:      c.saving,
	}
	copy(snap.Users, c.users)
	copy(snap.Gadgets, c.gadgets)
	copy(snap.Reviews, c.reviews)
	for k, v := range c.states {
		snap.States[k] = v
	}
	for k, v := range c.errs {
		snap.Errors[k] = v
	}
	for k, v := range c.sources {
		snap.Sources[k] = v
	}
	return snap
}

// Stats returns the current derived stats.
func (c *Controller) Stats() models.DashboardStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
