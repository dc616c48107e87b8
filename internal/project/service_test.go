package project

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saishdhuri8/Authspark/internal/auth"
	"github.com/saishdhuri8/Authspark/internal/logging"
)

type fakeStore struct {
	projects map[uuid.UUID]*Project
	users    map[uuid.UUID]int // user count per project

	setAPIKeyCalls  int
	monthlyCalls    int
	monthlyStats    []MonthlyStat
	listUsersResult *UserPage
}

func newFakeProjectStore() *fakeStore {
	return &fakeStore{
		projects: make(map[uuid.UUID]*Project),
		users:    make(map[uuid.UUID]int),
	}
}

func (f *fakeStore) Create(ctx context.Context, ownerID uuid.UUID, name string, tokenValidTime int, urlForSignup string) (*Project, error) {
	p := &Project{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Name:           name,
		TokenValidTime: tokenValidTime,
		URLForSignup:   urlForSignup,
		CreatedAt:      time.Now(),
	}
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeStore) SetAPIKey(ctx context.Context, projectID, ownerID uuid.UUID, apiKey string) error {
	f.setAPIKeyCalls++
	p, ok := f.projects[projectID]
	if !ok || p.OwnerID != ownerID {
		return ErrNotFound
	}
	p.APIKey = apiKey
	return nil
}

func (f *fakeStore) GetByIDAndOwner(ctx context.Context, projectID, ownerID uuid.UUID) (*Project, error) {
	p, ok := f.projects[projectID]
	if !ok || p.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Summary, error) {
	summaries := []Summary{}
	for _, p := range f.projects {
		if p.OwnerID == ownerID {
			summaries = append(summaries, Summary{ID: p.ID, Name: p.Name, TotalUsers: f.users[p.ID], CreatedAt: p.CreatedAt})
		}
	}
	return summaries, nil
}

func (f *fakeStore) CountUsers(ctx context.Context, projectID, ownerID uuid.UUID) (int, error) {
	if _, err := f.GetByIDAndOwner(ctx, projectID, ownerID); err != nil {
		return 0, err
	}
	return f.users[projectID], nil
}

func (f *fakeStore) UpdateSettings(ctx context.Context, projectID, ownerID uuid.UUID, tokenValidTime *int, urlForSignup *string) error {
	p, ok := f.projects[projectID]
	if !ok || p.OwnerID != ownerID {
		return ErrNotFound
	}
	if tokenValidTime != nil {
		p.TokenValidTime = *tokenValidTime
	}
	if urlForSignup != nil {
		p.URLForSignup = *urlForSignup
	}
	return nil
}

func (f *fakeStore) ListUsersPage(ctx context.Context, projectID, ownerID uuid.UUID, page int) (*UserPage, error) {
	if f.listUsersResult != nil {
		return f.listUsersResult, nil
	}
	return &UserPage{Users: []ProjectUser{}}, nil
}

func (f *fakeStore) RemoveUserByEmail(ctx context.Context, projectID, ownerID uuid.UUID, email string) error {
	if f.users[projectID] == 0 {
		return ErrUserNotFound
	}
	f.users[projectID]--
	return nil
}

func (f *fakeStore) MonthlySignupCounts(ctx context.Context, projectID, ownerID uuid.UUID, year int) ([]MonthlyStat, error) {
	f.monthlyCalls++
	return f.monthlyStats, nil
}

type fakeCache struct {
	stats map[string][]MonthlyStat

	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{stats: make(map[string][]MonthlyStat)}
}

func (f *fakeCache) key(projectID uuid.UUID, year int) string {
	return fmt.Sprintf("%s:%d", projectID, year)
}

func (f *fakeCache) GetMonthlyStats(ctx context.Context, projectID uuid.UUID, year int) ([]MonthlyStat, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	stats, ok := f.stats[f.key(projectID, year)]
	if !ok {
		return nil, ErrCacheMiss
	}
	return stats, nil
}

func (f *fakeCache) SetMonthlyStats(ctx context.Context, projectID uuid.UUID, year int, stats []MonthlyStat) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.stats[f.key(projectID, year)] = stats
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeCache, *auth.TokenCodec) {
	t.Helper()

	codec, err := auth.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	store := newFakeProjectStore()
	cache := newFakeCache()
	service := NewService(store, cache, codec, logging.NewLogger(true))
	return service, store, cache, codec
}

func TestCreateProject(t *testing.T) {
	service, store, _, codec := newTestService(t)
	ownerID := uuid.New()

	t.Run("missing name", func(t *testing.T) {
		_, err := service.CreateProject(context.Background(), ownerID, "", 1, "")
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("non-positive token validity", func(t *testing.T) {
		_, err := service.CreateProject(context.Background(), ownerID, "My App", 0, "")
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("success mints and persists the api key", func(t *testing.T) {
		created, err := service.CreateProject(context.Background(), ownerID, "My App", 24, "https://hook.example.com")
		require.NoError(t, err)
		require.NotEmpty(t, created.APIKey)
		assert.Equal(t, 1, store.setAPIKeyCalls)

		// The key decodes to the scope of the project it was minted for
		scope, err := codec.DecodeAPIKey(created.APIKey)
		require.NoError(t, err)
		assert.Equal(t, ownerID, scope.OwnerID)
		assert.Equal(t, created.ID, scope.ProjectID)

		// The persisted row carries the same key
		assert.Equal(t, created.APIKey, store.projects[created.ID].APIKey)
	})
}

func TestGetInfo_PageCount(t *testing.T) {
	service, store, _, _ := newTestService(t)
	ownerID := uuid.New()

	created, err := service.CreateProject(context.Background(), ownerID, "My App", 1, "")
	require.NoError(t, err)

	tests := []struct {
		totalUsers int
		wantPages  int
	}{
		{totalUsers: 0, wantPages: 0},
		{totalUsers: 1, wantPages: 1},
		{totalUsers: 7, wantPages: 1},
		{totalUsers: 8, wantPages: 2},
		{totalUsers: 14, wantPages: 2},
		{totalUsers: 15, wantPages: 3},
	}

	for _, tt := range tests {
		store.users[created.ID] = tt.totalUsers

		info, err := service.GetInfo(context.Background(), created.ID, ownerID)
		require.NoError(t, err)
		assert.Equal(t, tt.wantPages, info.Pages, "totalUsers=%d", tt.totalUsers)
		assert.Equal(t, tt.totalUsers, info.TotalUsers)
	}
}

func TestGetInfo_ForeignProject(t *testing.T) {
	service, _, _, _ := newTestService(t)
	ownerID := uuid.New()

	created, err := service.CreateProject(context.Background(), ownerID, "My App", 1, "")
	require.NoError(t, err)

	// Another owner sees not-found, never the project's data
	_, err = service.GetInfo(context.Background(), created.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUsersPage_ForeignProject(t *testing.T) {
	service, _, _, _ := newTestService(t)
	ownerID := uuid.New()

	created, err := service.CreateProject(context.Background(), ownerID, "My App", 1, "")
	require.NoError(t, err)

	_, err = service.ListUsersPage(context.Background(), created.ID, uuid.New(), 0)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = service.ListUsersPage(context.Background(), uuid.New(), ownerID, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateSettings(t *testing.T) {
	service, store, _, _ := newTestService(t)
	ownerID := uuid.New()

	created, err := service.CreateProject(context.Background(), ownerID, "My App", 1, "https://old.example.com")
	require.NoError(t, err)

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		newValidity := 48
		err := service.UpdateSettings(context.Background(), created.ID, ownerID, &newValidity, nil)
		require.NoError(t, err)

		assert.Equal(t, 48, store.projects[created.ID].TokenValidTime)
		assert.Equal(t, "https://old.example.com", store.projects[created.ID].URLForSignup)
	})

	t.Run("foreign project", func(t *testing.T) {
		newValidity := 12
		err := service.UpdateSettings(context.Background(), created.ID, uuid.New(), &newValidity, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMonthlyStats(t *testing.T) {
	ctx := context.Background()
	year := 2026

	t.Run("ownership checked before cache", func(t *testing.T) {
		service, _, cache, _ := newTestService(t)
		ownerID := uuid.New()

		created, err := service.CreateProject(ctx, ownerID, "My App", 1, "")
		require.NoError(t, err)

		// Warm the cache, then ask as a different owner: the cached entry
		// must stay unreachable
		require.NoError(t, cache.SetMonthlyStats(ctx, created.ID, year, fillMonthlyBuckets(map[int]int{1: 5})))

		_, err = service.MonthlyStats(ctx, created.ID, uuid.New(), year)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("cache miss aggregates and populates", func(t *testing.T) {
		service, store, cache, _ := newTestService(t)
		ownerID := uuid.New()

		created, err := service.CreateProject(ctx, ownerID, "My App", 1, "")
		require.NoError(t, err)
		store.monthlyStats = fillMonthlyBuckets(map[int]int{3: 2, 8: 9})

		stats, err := service.MonthlyStats(ctx, created.ID, ownerID, year)
		require.NoError(t, err)
		assert.Equal(t, store.monthlyStats, stats)
		assert.Equal(t, 1, store.monthlyCalls)

		cached, err := cache.GetMonthlyStats(ctx, created.ID, year)
		require.NoError(t, err)
		assert.Equal(t, stats, cached)
	})

	t.Run("cache hit skips aggregation", func(t *testing.T) {
		service, store, cache, _ := newTestService(t)
		ownerID := uuid.New()

		created, err := service.CreateProject(ctx, ownerID, "My App", 1, "")
		require.NoError(t, err)

		warm := fillMonthlyBuckets(map[int]int{12: 1})
		require.NoError(t, cache.SetMonthlyStats(ctx, created.ID, year, warm))

		stats, err := service.MonthlyStats(ctx, created.ID, ownerID, year)
		require.NoError(t, err)
		assert.Equal(t, warm, stats)
		assert.Equal(t, 0, store.monthlyCalls)
	})

	t.Run("cache failures fall through to the store", func(t *testing.T) {
		service, store, cache, _ := newTestService(t)
		ownerID := uuid.New()

		created, err := service.CreateProject(ctx, ownerID, "My App", 1, "")
		require.NoError(t, err)
		store.monthlyStats = fillMonthlyBuckets(nil)
		cache.getErr = errors.New("redis down")
		cache.setErr = errors.New("redis down")

		stats, err := service.MonthlyStats(ctx, created.ID, ownerID, year)
		require.NoError(t, err)
		assert.Equal(t, store.monthlyStats, stats)
		assert.Equal(t, 1, store.monthlyCalls)
	})
}

func TestDeleteUser(t *testing.T) {
	service, store, _, _ := newTestService(t)
	ownerID := uuid.New()

	created, err := service.CreateProject(context.Background(), ownerID, "My App", 1, "")
	require.NoError(t, err)

	err = service.DeleteUser(context.Background(), created.ID, ownerID, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	store.users[created.ID] = 1
	err = service.DeleteUser(context.Background(), created.ID, ownerID, "someone@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, store.users[created.ID])
}
