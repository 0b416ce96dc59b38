package usecase

import (
	"context"
	"testing"
	"time"

	natsadapter "github.com/encounterhub/listing-service/internal/adapter/messaging/nats"
	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/encounterhub/listing-service/internal/platform/logger"
	"github.com/encounterhub/listing-service/internal/platform/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newListingUsecase(repo *mockListingRepo, cache *mockCache, events *mockPublisher) *ListingUsecase {
	storage := new(mockStorage)
	storage.On("Delete", mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewListingUsecase(repo, cache, events, passthroughNormalizer{}, storage,
		metrics.NewManager("test"), logger.NewLogger())
}

func member(id string) *domain.User {
	return &domain.User{ID: id, Name: "Member " + id, Role: domain.RoleMember, Status: domain.UserActive}
}

func admin(id string) *domain.User {
	return &domain.User{ID: id, Name: "Admin " + id, Role: domain.RoleAdmin, Status: domain.UserActive}
}

func approvedListing(id, ownerID string) *domain.Listing {
	return &domain.Listing{
		ID:        id,
		UserID:    ownerID,
		Title:     "Relaxing massage",
		Status:    domain.StatusApproved,
		Images:    []string{"https://cdn.example.com/a.jpg"},
		CreatedAt: time.Now().UTC(),
	}
}

func validCreateInput() CreateListingInput {
	age := 25
	return CreateListingInput{
		Title:       "Relaxing massage",
		Description: "Deep tissue and swedish",
		Category:    domain.CategoryMassage,
		Age:         &age,
		Price:       120,
		Media:       []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.mp4"},
	}
}

func TestList_ForcesApprovedForPublicCallers(t *testing.T) {
	repo := new(mockListingRepo)
	uc := newListingUsecase(repo, new(mockCache), new(mockPublisher))

	repo.On("FindByFilter", mock.Anything, mock.MatchedBy(func(f domain.Filter) bool {
		return f.Status == domain.StatusApproved
	})).Return([]*domain.Listing{}, nil)

	_, err := uc.List(context.Background(), nil, domain.Filter{Status: domain.StatusPending})
	require.NoError(t, err)

	_, err = uc.List(context.Background(), member("u1"), domain.Filter{Status: domain.StatusRejected})
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestList_OwnerFilteringSelfKeepsRequestedStatus(t *testing.T) {
	repo := new(mockListingRepo)
	uc := newListingUsecase(repo, new(mockCache), new(mockPublisher))
	ctx := context.Background()

	repo.On("FindByFilter", mock.Anything, mock.MatchedBy(func(f domain.Filter) bool {
		return f.UserID == "u1" && f.Status == domain.StatusPending
	})).Return([]*domain.Listing{}, nil).Once()

	_, err := uc.List(ctx, member("u1"), domain.Filter{UserID: "u1", Status: domain.StatusPending})
	require.NoError(t, err)

	// a stranger asking for the same owner is still pinned to approved
	repo.On("FindByFilter", mock.Anything, mock.MatchedBy(func(f domain.Filter) bool {
		return f.UserID == "u1" && f.Status == domain.StatusApproved
	})).Return([]*domain.Listing{}, nil).Once()

	_, err = uc.List(ctx, member("u2"), domain.Filter{UserID: "u1", Status: domain.StatusPending})
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestList_AdminKeepsRequestedStatus(t *testing.T) {
	repo := new(mockListingRepo)
	uc := newListingUsecase(repo, new(mockCache), new(mockPublisher))

	repo.On("FindByFilter", mock.Anything, mock.MatchedBy(func(f domain.Filter) bool {
		return f.Status == domain.StatusPending
	})).Return([]*domain.Listing{}, nil)

	_, err := uc.List(context.Background(), admin("a1"), domain.Filter{Status: domain.StatusPending})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestList_RejectsUnknownStatusAndCategory(t *testing.T) {
	uc := newListingUsecase(new(mockListingRepo), new(mockCache), new(mockPublisher))

	_, err := uc.List(context.Background(), admin("a1"), domain.Filter{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.List(context.Background(), nil, domain.Filter{Category: "Cars"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCount_SharesFilterNormalizationWithList(t *testing.T) {
	repo := new(mockListingRepo)
	uc := newListingUsecase(repo, new(mockCache), new(mockPublisher))

	repo.On("CountByFilter", mock.Anything, mock.MatchedBy(func(f domain.Filter) bool {
		return f.Status == domain.StatusApproved && f.Page == 0 && f.Limit == 0
	})).Return(int64(42), nil)

	total, err := uc.Count(context.Background(), nil, domain.Filter{
		Status: domain.StatusPending, Page: 3, Limit: 16,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), total)
	repo.AssertExpectations(t)
}

func TestGet_HiddenListingLooksMissing(t *testing.T) {
	repo := new(mockListingRepo)
	cache := new(mockCache)
	uc := newListingUsecase(repo, cache, new(mockPublisher))

	pending := approvedListing("l1", "owner")
	pending.Status = domain.StatusPending

	cache.On("GetListing", mock.Anything, "l1").Return(nil, nil)
	repo.On("FindByID", mock.Anything, "l1").Return(pending, nil)
	cache.On("SetListing", mock.Anything, pending).Return(nil)

	_, err := uc.Get(context.Background(), nil, "l1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Get(context.Background(), member("stranger"), "l1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_OwnerAndAdminSeePending(t *testing.T) {
	repo := new(mockListingRepo)
	cache := new(mockCache)
	uc := newListingUsecase(repo, cache, new(mockPublisher))

	pending := approvedListing("l1", "owner")
	pending.Status = domain.StatusPending

	cache.On("GetListing", mock.Anything, "l1").Return(nil, nil)
	repo.On("FindByID", mock.Anything, "l1").Return(pending, nil)
	cache.On("SetListing", mock.Anything, pending).Return(nil)
	repo.On("IncrementViews", mock.Anything, "l1").Return(nil).Maybe()

	got, err := uc.Get(context.Background(), member("owner"), "l1")
	require.NoError(t, err)
	assert.Equal(t, "l1", got.ID)

	got, err = uc.Get(context.Background(), admin("a1"), "l1")
	require.NoError(t, err)
	assert.Equal(t, "l1", got.ID)
}

func TestGet_IncrementsViewsOutOfBand(t *testing.T) {
	repo := new(mockListingRepo)
	cache := new(mockCache)
	uc := newListingUsecase(repo, cache, new(mockPublisher))

	listing := approvedListing("l1", "owner")
	bumped := make(chan struct{})

	cache.On("GetListing", mock.Anything, "l1").Return(listing, nil)
	repo.On("IncrementViews", mock.Anything, "l1").Run(func(mock.Arguments) {
		close(bumped)
	}).Return(nil).Once()

	_, err := uc.Get(context.Background(), nil, "l1")
	require.NoError(t, err)

	select {
	case <-bumped:
	case <-time.After(2 * time.Second):
		t.Fatal("view increment was never issued")
	}
	repo.AssertExpectations(t)
}

func TestGet_OwnerFetchDoesNotCountAsView(t *testing.T) {
	repo := new(mockListingRepo)
	cache := new(mockCache)
	uc := newListingUsecase(repo, cache, new(mockPublisher))

	cache.On("GetListing", mock.Anything, "l1").Return(approvedListing("l1", "owner"), nil)

	_, err := uc.Get(context.Background(), member("owner"), "l1")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	repo.AssertNotCalled(t, "IncrementViews", mock.Anything, "l1")
}

func TestCreate_ForcesModerationDefaults(t *testing.T) {
	repo := new(mockListingRepo)
	events := new(mockPublisher)
	uc := newListingUsecase(repo, new(mockCache), events)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Listing) bool {
		return l.Status == domain.StatusPending && !l.Featured && l.Views == 0 && l.ID != ""
	})).Return(nil)
	events.On("Publish", natsadapter.SubjectListingCreated, mock.Anything).Return(nil)

	got, err := uc.Create(context.Background(), member("u1"), validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, got.Images)
	assert.Equal(t, []string{"https://cdn.example.com/b.mp4"}, got.Videos)
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestCreate_Validation(t *testing.T) {
	uc := newListingUsecase(new(mockListingRepo), new(mockCache), new(mockPublisher))
	ctx := context.Background()

	_, err := uc.Create(ctx, nil, validCreateInput())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	in := validCreateInput()
	in.Media = nil
	_, err = uc.Create(ctx, member("u1"), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = validCreateInput()
	tooYoung := 17
	in.Age = &tooYoung
	_, err = uc.Create(ctx, member("u1"), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = validCreateInput()
	tooOld := 100
	in.Age = &tooOld
	_, err = uc.Create(ctx, member("u1"), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = validCreateInput()
	in.Category = "Cars"
	_, err = uc.Create(ctx, member("u1"), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = validCreateInput()
	in.PricingTiers = []domain.PricingTier{{Hours: 0, Price: 100}}
	_, err = uc.Create(ctx, member("u1"), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_OwnerEditGoesBackToPending(t *testing.T) {
	repo := new(mockListingRepo)
	cache := new(mockCache)
	uc := newListingUsecase(repo, cache, new(mockPublisher))

	existing := approvedListing("l1", "u1")
	edited := approvedListing("l1", "u1")
	edited.Title = "New title"
	pending := approvedListing("l1", "u1")
	pending.Title = "New title"
	pending.Status = domain.StatusPending

	title := "New title"
	repo.On("FindByID", mock.Anything, "l1").Return(existing, nil)
	repo.On("UpdateFields", mock.Anything, "l1", mock.Anything).Return(edited, nil)
	repo.On("UpdateStatus", mock.Anything, "l1", domain.StatusPending).Return(pending, nil)
	cache.On("Invalidate", mock.Anything, "l1").Return(nil)

	got, err := uc.Update(context.Background(), member("u1"), "l1", domain.ListingUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	repo.AssertExpectations(t)
}

func TestUpdate_AdminEditKeepsStatus(t *testing.T) {
	repo := new(mockListingRepo)
	cache := new(mockCache)
	uc := newListingUsecase(repo, cache, new(mockPublisher))

	existing := approvedListing("l1", "u1")
	title := "New title"
	repo.On("FindByID", mock.Anything, "l1").Return(existing, nil)
	repo.On("UpdateFields", mock.Anything, "l1", mock.Anything).Return(existing, nil)
	cache.On("Invalidate", mock.Anything, "l1").Return(nil)

	got, err := uc.Update(context.Background(), admin("a1"), "l1", domain.ListingUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_StrangerForbidden(t *testing.T) {
	repo := new(mockListingRepo)
	uc := newListingUsecase(repo, new(mockCache), new(mockPublisher))

	repo.On("FindByID", mock.Anything, "l1").Return(approvedListing("l1", "u1"), nil)

	title := "New title"
	_, err := uc.Update(context.Background(), member("u2"), "l1", domain.ListingUpdate{Title: &title})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_OwnerOrAdminOnly(t *testing.T) {
	repo := new(mockListingRepo)
	cache := new(mockCache)
	events := new(mockPublisher)
	uc := newListingUsecase(repo, cache, events)

	repo.On("FindByID", mock.Anything, "l1").Return(approvedListing("l1", "u1"), nil)

	err := uc.Delete(context.Background(), member("u2"), "l1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	repo.On("Delete", mock.Anything, "l1").Return(nil)
	cache.On("Invalidate", mock.Anything, "l1").Return(nil)
	events.On("Publish", natsadapter.SubjectListingDeleted, mock.Anything).Return(nil)

	require.NoError(t, uc.Delete(context.Background(), member("u1"), "l1"))
	repo.AssertExpectations(t)
}

func TestDelete_RemovesStoredMediaOutOfBand(t *testing.T) {
	repo := new(mockListingRepo)
	cache := new(mockCache)
	events := new(mockPublisher)
	storage := new(mockStorage)
	uc := NewListingUsecase(repo, cache, events, passthroughNormalizer{}, storage,
		metrics.NewManager("test"), logger.NewLogger())

	listing := approvedListing("l1", "u1")
	listing.Videos = []string{"https://cdn.example.com/b.mp4"}

	repo.On("FindByID", mock.Anything, "l1").Return(listing, nil)
	repo.On("Delete", mock.Anything, "l1").Return(nil)
	cache.On("Invalidate", mock.Anything, "l1").Return(nil)
	events.On("Publish", natsadapter.SubjectListingDeleted, mock.Anything).Return(nil)

	cleaned := make(chan struct{})
	storage.On("Delete", mock.Anything, "https://cdn.example.com/a.jpg").Return(nil).Once()
	storage.On("Delete", mock.Anything, "https://cdn.example.com/b.mp4").Run(func(mock.Arguments) {
		close(cleaned)
	}).Return(nil).Once()

	require.NoError(t, uc.Delete(context.Background(), member("u1"), "l1"))

	select {
	case <-cleaned:
	case <-time.After(2 * time.Second):
		t.Fatal("media objects were never deleted")
	}
	storage.AssertExpectations(t)
}

func TestListByUser_VisibilityRules(t *testing.T) {
	repo := new(mockListingRepo)
	uc := newListingUsecase(repo, new(mockCache), new(mockPublisher))
	ctx := context.Background()

	approved := domain.StatusApproved
	repo.On("FindByUser", mock.Anything, "u1", (*domain.ListingStatus)(nil)).Return([]*domain.Listing{}, nil).Twice()
	repo.On("FindByUser", mock.Anything, "u1", &approved).Return([]*domain.Listing{}, nil).Twice()

	// owner and admin see every status
	_, err := uc.ListByUser(ctx, member("u1"), "u1", nil)
	require.NoError(t, err)
	_, err = uc.ListByUser(ctx, admin("a1"), "u1", nil)
	require.NoError(t, err)

	// strangers and anonymous callers are pinned to approved
	_, err = uc.ListByUser(ctx, member("u2"), "u1", nil)
	require.NoError(t, err)
	_, err = uc.ListByUser(ctx, nil, "u1", nil)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}
