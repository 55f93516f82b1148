package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisetech/console/internal/models"
	"github.com/wisetech/console/pkg/wisetech"
)

// fakeAPI implements AdminAPI with overridable behavior per method.
type fakeAPI struct {
	stats   func(ctx context.Context) (*wisetech.StatsResult, error)
	users   func(ctx context.Context) (*wisetech.UsersResult, error)
	gadgets func(ctx context.Context) (*wisetech.GadgetsResult, error)
	reviews func(ctx context.Context) (*wisetech.ReviewsResult, error)

	createUser func(ctx context.Context, in models.UserCreate) (*models.User, error)
	updateUser func(ctx context.Context, id int, in models.UserUpdate) (*models.User, error)
	deleteUser func(ctx context.Context, id int) error

	createGadget func(ctx context.Context, in models.GadgetInput) (*models.Gadget, error)
	updateGadget func(ctx context.Context, id int, in models.GadgetInput) (*models.Gadget, error)
	deleteGadget func(ctx context.Context, id int) error

	updateReview  func(ctx context.Context, id int, in models.ReviewInput) (*models.Review, error)
	deleteReview  func(ctx context.Context, id int) error
	approveReview func(ctx context.Context, id int) (*models.Review, error)
	rejectReview  func(ctx context.Context, id int) (*models.Review, error)
}

func (f *fakeAPI) DashboardStats(ctx context.Context) (*wisetech.StatsResult, error) {
	return f.stats(ctx)
}
func (f *fakeAPI) AdminUsers(ctx context.Context, _ wisetech.ListParams) (*wisetech.UsersResult, error) {
	return f.users(ctx)
}
func (f *fakeAPI) AdminGadgets(ctx context.Context, _ wisetech.ListParams) (*wisetech.GadgetsResult, error) {
	return f.gadgets(ctx)
}
func (f *fakeAPI) AdminReviews(ctx context.Context, _ wisetech.ListParams) (*wisetech.ReviewsResult, error) {
	return f.reviews(ctx)
}
func (f *fakeAPI) CreateUser(ctx context.Context, in models.UserCreate) (*models.User, error) {
	return f.createUser(ctx, in)
}
func (f *fakeAPI) UpdateUser(ctx context.Context, id int, in models.UserUpdate) (*models.User, error) {
	return f.updateUser(ctx, id, in)
}
func (f *fakeAPI) DeleteUser(ctx context.Context, id int) error { return f.deleteUser(ctx, id) }
func (f *fakeAPI) CreateGadget(ctx context.Context, in models.GadgetInput) (*models.Gadget, error) {
	return f.createGadget(ctx, in)
}
func (f *fakeAPI) UpdateGadget(ctx context.Context, id int, in models.GadgetInput) (*models.Gadget, error) {
	return f.updateGadget(ctx, id, in)
}
func (f *fakeAPI) DeleteGadget(ctx context.Context, id int) error { return f.deleteGadget(ctx, id) }
func (f *fakeAPI) UpdateAdminReview(ctx context.Context, id int, in models.ReviewInput) (*models.Review, error) {
	return f.updateReview(ctx, id, in)
}
func (f *fakeAPI) DeleteAdminReview(ctx context.Context, id int) error {
	return f.deleteReview(ctx, id)
}
func (f *fakeAPI) ApproveReview(ctx context.Context, id int) (*models.Review, error) {
	return f.approveReview(ctx, id)
}
func (f *fakeAPI) RejectReview(ctx context.Context, id int) (*models.Review, error) {
	return f.rejectReview(ctx, id)
}

func seedUsers() []models.User {
	return []models.User{
		{ID: 1, Email: "admin@example.com", IsAdmin: true},
		{ID: 2, Email: "ana@example.com"},
		{ID: 3, Email: "bo@example.com"},
	}
}

func seedReviews() []models.Review {
	return []models.Review{
		{ID: 10, GadgetID: 1, Rating: 5, Status: models.ReviewStatusApproved, GadgetName: "Pixel Slab"},
		{ID: 11, GadgetID: 1, Rating: 2, Status: models.ReviewStatusPending, GadgetName: "Pixel Slab"},
	}
}

// happyAPI serves the seed data from every list endpoint.
func happyAPI() *fakeAPI {
	return &fakeAPI{
		stats: func(context.Context) (*wisetech.StatsResult, error) {
			return &wisetech.StatsResult{
				Stats:  models.DashboardStats{TotalUsers: 3, TotalGadgets: 1, TotalReviews: 2, PendingReviews: 1},
				Source: wisetech.SourceDirect,
			}, nil
		},
		users: func(context.Context) (*wisetech.UsersResult, error) {
			return &wisetech.UsersResult{Users: seedUsers(), Source: wisetech.SourceDirect}, nil
		},
		gadgets: func(context.Context) (*wisetech.GadgetsResult, error) {
			return &wisetech.GadgetsResult{
				Gadgets: []models.Gadget{{ID: 1, Name: "Pixel Slab"}},
				Source:  wisetech.SourceDirect,
			}, nil
		},
		reviews: func(context.Context) (*wisetech.ReviewsResult, error) {
			return &wisetech.ReviewsResult{Reviews: seedReviews(), Source: wisetech.SourceDirect}, nil
		},
	}
}

func loadedController(t *testing.T, api *fakeAPI) *Controller {
	t.Helper()
	ctrl := NewController(api)
	ctrl.Load(context.Background())
	snap := ctrl.Snapshot()
	require.Equal(t, StateLoaded, snap.States[EntityUsers])
	return ctrl
}

func TestLoadPopulatesAllEntities(t *testing.T) {
	ctrl := NewController(happyAPI())

	snap := ctrl.Snapshot()
	for _, e := range []Entity{EntityUsers, EntityGadgets, EntityReviews} {
		assert.Equal(t, StateIdle, snap.States[e])
	}

	ctrl.Load(context.Background())
	snap = ctrl.Snapshot()

	for _, e := range []Entity{EntityUsers, EntityGadgets, EntityReviews} {
		assert.Equal(t, StateLoaded, snap.States[e])
		assert.Empty(t, snap.Errors[e])
		assert.Equal(t, wisetech.SourceDirect, snap.Sources[e])
	}
	assert.Len(t, snap.Users, 3)
	assert.Len(t, snap.Gadgets, 1)
	assert.Len(t, snap.Reviews, 2)
	assert.Equal(t, wisetech.SourceDirect, snap.StatsSource)
	assert.Equal(t, 3, snap.Stats.TotalUsers)
}

func TestLoadStatsFallbackRecomputes(t *testing.T) {
	api := happyAPI()
	api.stats = func(context.Context) (*wisetech.StatsResult, error) {
		return nil, errors.New("boom")
	}
	ctrl := NewController(api)
	ctrl.Load(context.Background())

	snap := ctrl.Snapshot()
	assert.Equal(t, wisetech.SourceDerived, snap.StatsSource)
	assert.Equal(t, models.DashboardStats{
		TotalUsers: 3, TotalGadgets: 1, TotalReviews: 2, PendingReviews: 1,
	}, snap.Stats)
}

func TestLoadFailureResetsEntity(t *testing.T) {
	api := happyAPI()
	api.users = func(context.Context) (*wisetech.UsersResult, error) {
		return nil, errors.New("upstream down")
	}
	ctrl := NewController(api)
	ctrl.Load(context.Background())

	snap := ctrl.Snapshot()
	assert.Equal(t, StateLoadFailed, snap.States[EntityUsers])
	assert.Equal(t, "Failed to load users: upstream down", snap.Errors[EntityUsers])
	assert.Empty(t, snap.Users)

	// The other entities are unaffected.
	assert.Equal(t, StateLoaded, snap.States[EntityGadgets])
	assert.Equal(t, StateLoaded, snap.States[EntityReviews])
}

func TestCreateUserAppends(t *testing.T) {
	api := happyAPI()
	api.createUser = func(_ context.Context, in models.UserCreate) (*models.User, error) {
		return &models.User{ID: 4, Email: in.Email}, nil
	}
	ctrl := loadedController(t, api)

	user, err := ctrl.CreateUser(context.Background(), models.UserCreate{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 4, user.ID)

	snap := ctrl.Snapshot()
	require.Len(t, snap.Users, 4)
	assert.Equal(t, "new@example.com", snap.Users[3].Email)
	assert.Equal(t, 4, snap.Stats.TotalUsers)
}

func TestUpdateUserReplacesInPlace(t *testing.T) {
	api := happyAPI()
	api.updateUser = func(_ context.Context, id int, in models.UserUpdate) (*models.User, error) {
		return &models.User{ID: id, Email: *in.Email}, nil
	}
	ctrl := loadedController(t, api)

	email := "renamed@example.com"
	_, err := ctrl.UpdateUser(context.Background(), 2, models.UserUpdate{Email: &email})
	require.NoError(t, err)

	snap := ctrl.Snapshot()
	require.Len(t, snap.Users, 3)
	assert.Equal(t, "renamed@example.com", snap.Users[1].Email)
	// Neighbors untouched, order preserved.
	assert.Equal(t, 1, snap.Users[0].ID)
	assert.Equal(t, 3, snap.Users[2].ID)
}

func TestDeleteUserRequiresConfirmation(t *testing.T) {
	api := happyAPI()
	api.deleteUser = func(context.Context, int) error {
		t.Fatal("remote delete must not run without confirmation")
		return nil
	}
	ctrl := loadedController(t, api)

	err := ctrl.DeleteUser(context.Background(), 2, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Len(t, ctrl.Snapshot().Users, 3)
}

func TestDeleteUserRemovesExactlyOne(t *testing.T) {
	api := happyAPI()
	api.deleteUser = func(context.Context, int) error { return nil }
	ctrl := loadedController(t, api)

	require.NoError(t, ctrl.DeleteUser(context.Background(), 2, true))

	snap := ctrl.Snapshot()
	require.Len(t, snap.Users, 2)
	assert.Equal(t, 1, snap.Users[0].ID)
	assert.Equal(t, 3, snap.Users[1].ID)
	assert.Equal(t, 2, snap.Stats.TotalUsers)
}

func TestMutationFailureLeavesListUntouched(t *testing.T) {
	api := happyAPI()
	api.deleteUser = func(context.Context, int) error { return errors.New("forbidden") }
	ctrl := loadedController(t, api)

	err := ctrl.DeleteUser(context.Background(), 2, true)
	require.Error(t, err)

	snap := ctrl.Snapshot()
	assert.Len(t, snap.Users, 3)
	assert.Equal(t, "Failed to save users: forbidden", snap.Errors[EntityUsers])
	assert.False(t, snap.Saving)
}

func TestSupersededMutationDiscarded(t *testing.T) {
	api := happyAPI()
	started := make(chan struct{})
	release := make(chan struct{})
	api.deleteUser = func(context.Context, int) error {
		close(started)
		<-release
		return nil
	}
	ctrl := loadedController(t, api)

	done := make(chan error, 1)
	go func() {
		done <- ctrl.DeleteUser(context.Background(), 2, true)
	}()
	<-started

	// A full reload claims newer sequence numbers for every entity, so the
	// in-flight delete's local splice must be discarded when it lands.
	ctrl.Load(context.Background())
	close(release)
	require.NoError(t, <-done)

	assert.Len(t, ctrl.Snapshot().Users, 3)
}

func TestApproveReviewKeepsDisplayFields(t *testing.T) {
	api := happyAPI()
	api.approveReview = func(_ context.Context, id int) (*models.Review, error) {
		// Moderation endpoints echo the bare review without display fields.
		return &models.Review{ID: id, GadgetID: 1, Rating: 2, Status: models.ReviewStatusApproved}, nil
	}
	ctrl := loadedController(t, api)

	_, err := ctrl.ApproveReview(context.Background(), 11)
	require.NoError(t, err)

	snap := ctrl.Snapshot()
	require.Len(t, snap.Reviews, 2)
	assert.Equal(t, models.ReviewStatusApproved, snap.Reviews[1].Status)
	assert.Equal(t, "Pixel Slab", snap.Reviews[1].GadgetName)
	assert.Equal(t, 0, snap.Stats.PendingReviews)
}

func TestUpdateReviewNormalizesInput(t *testing.T) {
	api := happyAPI()
	var sent models.ReviewInput
	api.updateReview = func(_ context.Context, id int, in models.ReviewInput) (*models.Review, error) {
		sent = in
		return &models.Review{ID: id, Rating: in.Rating}, nil
	}
	ctrl := loadedController(t, api)

	blank := ""
	cons := "pricey"
	_, err := ctrl.UpdateReview(context.Background(), 10, models.ReviewInput{
		Rating: 9,
		Pros:   &blank,
		Cons:   &cons,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, sent.Rating)
	// Blank pros travel as null, never as an empty string.
	assert.Nil(t, sent.Pros)
	require.NotNil(t, sent.Cons)
	assert.Equal(t, "pricey", *sent.Cons)
}

func TestManagerReusesAndRebinds(t *testing.T) {
	mgr := NewManager()
	first := happyAPI()
	second := happyAPI()

	ctrl := mgr.For("sid-1", first)
	assert.Same(t, ctrl, mgr.For("sid-1", second))
	assert.NotSame(t, ctrl, mgr.For("sid-2", first))

	mgr.Drop("sid-1")
	assert.NotSame(t, ctrl, mgr.For("sid-1", first))
}
