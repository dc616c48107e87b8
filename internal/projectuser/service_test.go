package projectuser

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saishdhuri8/Authspark/internal/auth"
	"github.com/saishdhuri8/Authspark/internal/logging"
	"github.com/saishdhuri8/Authspark/internal/project"
)

type fakeProjectStore struct {
	mu      sync.Mutex
	project *project.Project
	users   map[uuid.UUID]*project.ProjectUser
	byEmail map[string]uuid.UUID
}

func newFakeProjectStore(p *project.Project) *fakeProjectStore {
	return &fakeProjectStore{
		project: p,
		users:   make(map[uuid.UUID]*project.ProjectUser),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (f *fakeProjectStore) GetByIDAndOwner(ctx context.Context, projectID, ownerID uuid.UUID) (*project.Project, error) {
	if f.project == nil || f.project.ID != projectID || f.project.OwnerID != ownerID {
		return nil, project.ErrNotFound
	}
	return f.project, nil
}

func (f *fakeProjectStore) AppendUser(ctx context.Context, projectID uuid.UUID, email, passwordHash string, metadata map[string]any) (*project.ProjectUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.byEmail[email]; exists {
		return nil, project.ErrDuplicateEmail
	}
	u := &project.ProjectUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		Metadata:     metadata,
		CreatedAt:    time.Now(),
	}
	f.users[u.ID] = u
	f.byEmail[email] = u.ID
	return u, nil
}

func (f *fakeProjectStore) GetUserByEmail(ctx context.Context, projectID, ownerID uuid.UUID, email string) (*project.ProjectUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.byEmail[email]
	if !ok {
		return nil, project.ErrUserNotFound
	}
	return f.users[id], nil
}

func (f *fakeProjectStore) GetUserByID(ctx context.Context, projectID, ownerID, userID uuid.UUID) (*project.ProjectUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[userID]
	if !ok {
		return nil, project.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeProjectStore) SetUserActive(ctx context.Context, projectID, ownerID, userID uuid.UUID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[userID]
	if !ok {
		return project.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func (f *fakeProjectStore) SetUserMetadata(ctx context.Context, projectID, ownerID, userID uuid.UUID, metadata map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[userID]
	if !ok {
		return project.ErrUserNotFound
	}
	u.Metadata = metadata
	return nil
}

type fakeNotifier struct {
	calls chan struct {
		url  string
		user PublicUser
	}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{calls: make(chan struct {
		url  string
		user PublicUser
	}, 1)}
}

func (f *fakeNotifier) SendSignupNotification(ctx context.Context, url string, user PublicUser) error {
	f.calls <- struct {
		url  string
		user PublicUser
	}{url, user}
	return nil
}

func newTestService(t *testing.T, urlForSignup string) (*Service, *fakeProjectStore, *fakeNotifier, *auth.TokenCodec, auth.Scope) {
	t.Helper()

	codec, err := auth.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	p := &project.Project{
		ID:             uuid.New(),
		OwnerID:        uuid.New(),
		Name:           "My App",
		TokenValidTime: 24,
		URLForSignup:   urlForSignup,
		CreatedAt:      time.Now(),
	}

	store := newFakeProjectStore(p)
	notifier := newFakeNotifier()
	service := NewService(store, codec, notifier, logging.NewLogger(true))
	scope := auth.Scope{OwnerID: p.OwnerID, ProjectID: p.ID}
	return service, store, notifier, codec, scope
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("missing params", func(t *testing.T) {
		service, _, _, _, scope := newTestService(t, "")
		_, _, err := service.Signup(ctx, scope, "", "password123", nil)
		assert.ErrorIs(t, err, ErrMissingParams)

		_, _, err = service.Signup(ctx, scope, "a@b.com", "", nil)
		assert.ErrorIs(t, err, ErrMissingParams)
	})

	t.Run("stale scope", func(t *testing.T) {
		service, _, _, _, _ := newTestService(t, "")
		stale := auth.Scope{OwnerID: uuid.New(), ProjectID: uuid.New()}
		_, _, err := service.Signup(ctx, stale, "a@b.com", "password123", nil)
		assert.ErrorIs(t, err, project.ErrNotFound)
	})

	t.Run("success returns a session token for the new user", func(t *testing.T) {
		service, store, _, codec, scope := newTestService(t, "")

		created, token, err := service.Signup(ctx, scope, "a@b.com", "password123", map[string]any{"plan": "free"})
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", created.Email)
		assert.Equal(t, map[string]any{"plan": "free"}, created.Metadata)

		decoded, err := codec.VerifyProjectUserToken(token)
		require.NoError(t, err)
		assert.Equal(t, created.ID, decoded)

		// The stored hash verifies the original password
		stored := store.users[created.ID]
		assert.True(t, auth.VerifyPassword(stored.PasswordHash, "password123"))
	})

	t.Run("duplicate email", func(t *testing.T) {
		service, _, _, _, scope := newTestService(t, "")

		_, _, err := service.Signup(ctx, scope, "a@b.com", "password123", nil)
		require.NoError(t, err)

		_, _, err = service.Signup(ctx, scope, "a@b.com", "other-password", nil)
		assert.ErrorIs(t, err, project.ErrDuplicateEmail)
	})

	t.Run("webhook fires when a url is configured", func(t *testing.T) {
		service, _, notifier, _, scope := newTestService(t, "https://hook.example.com")

		created, _, err := service.Signup(ctx, scope, "a@b.com", "password123", nil)
		require.NoError(t, err)

		select {
		case call := <-notifier.calls:
			assert.Equal(t, "https://hook.example.com", call.url)
			assert.Equal(t, created.ID, call.user.ID)
		case <-time.After(2 * time.Second):
			t.Fatal("webhook was never delivered")
		}
	})

	t.Run("webhook skipped without a url", func(t *testing.T) {
		service, _, notifier, _, scope := newTestService(t, "")

		_, _, err := service.Signup(ctx, scope, "a@b.com", "password123", nil)
		require.NoError(t, err)

		select {
		case <-notifier.calls:
			t.Fatal("webhook must not fire without a configured url")
		case <-time.After(100 * time.Millisecond):
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	service, _, _, codec, scope := newTestService(t, "")

	created, _, err := service.Signup(ctx, scope, "a@b.com", "password123", nil)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		got, token, err := service.Login(ctx, scope, "a@b.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)

		decoded, err := codec.VerifyProjectUserToken(token)
		require.NoError(t, err)
		assert.Equal(t, created.ID, decoded)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := service.Login(ctx, scope, "nobody@b.com", "password123")
		assert.ErrorIs(t, err, project.ErrUserNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := service.Login(ctx, scope, "a@b.com", "wrong")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("missing params", func(t *testing.T) {
		_, _, err := service.Login(ctx, scope, "", "")
		assert.ErrorIs(t, err, ErrMissingParams)
	})
}

func TestGetInfo(t *testing.T) {
	ctx := context.Background()
	service, _, _, _, scope := newTestService(t, "")

	created, _, err := service.Signup(ctx, scope, "a@b.com", "password123", nil)
	require.NoError(t, err)

	got, err := service.GetInfo(ctx, scope, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, got.Email)
	// Metadata is never nil on the wire
	assert.NotNil(t, got.Metadata)

	_, err = service.GetInfo(ctx, scope, uuid.New())
	assert.ErrorIs(t, err, project.ErrUserNotFound)
}

func TestToggleActive(t *testing.T) {
	ctx := context.Background()
	service, store, _, codec, scope := newTestService(t, "")

	created, token, err := service.Signup(ctx, scope, "a@b.com", "password123", nil)
	require.NoError(t, err)
	require.True(t, store.users[created.ID].IsActive)

	t.Run("flips the flag via the payload token", func(t *testing.T) {
		require.NoError(t, service.ToggleActive(ctx, scope, token, false))
		assert.False(t, store.users[created.ID].IsActive)

		require.NoError(t, service.ToggleActive(ctx, scope, token, true))
		assert.True(t, store.users[created.ID].IsActive)
	})

	t.Run("rejects a non-session token", func(t *testing.T) {
		ownerToken, err := codec.CreateOwnerToken(uuid.New(), time.Hour)
		require.NoError(t, err)

		err = service.ToggleActive(ctx, scope, ownerToken, false)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("token for a deleted user", func(t *testing.T) {
		ghostToken, err := codec.CreateProjectUserToken(uuid.New(), time.Hour)
		require.NoError(t, err)

		err = service.ToggleActive(ctx, scope, ghostToken, false)
		assert.ErrorIs(t, err, project.ErrUserNotFound)
	})
}

func TestUpdateMetadata(t *testing.T) {
	ctx := context.Background()
	service, store, _, _, scope := newTestService(t, "")

	created, _, err := service.Signup(ctx, scope, "a@b.com", "password123", map[string]any{"plan": "free", "theme": "dark"})
	require.NoError(t, err)

	// Replacement is wholesale: keys absent from the new document disappear
	err = service.UpdateMetadata(ctx, scope, created.ID, map[string]any{"plan": "pro"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"plan": "pro"}, store.users[created.ID].Metadata)

	err = service.UpdateMetadata(ctx, scope, uuid.New(), map[string]any{})
	assert.ErrorIs(t, err, project.ErrUserNotFound)
}
