package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"housiee-backend/internal/domains/user/model"
	infracache "housiee-backend/internal/infrastructure/cache"
	"housiee-backend/internal/shared/authz"
	"housiee-backend/pkg/apperror"
	"housiee-backend/pkg/cache"
)

// memRepo keeps users by email.
type memRepo struct {
	mu        sync.Mutex
	users     map[string]*model.User
	providers map[uuid.UUID]uuid.UUID
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]*model.User{}, providers: map[uuid.UUID]uuid.UUID{}}
}

func (r *memRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return fmt.Errorf("user %s: %w", u.Email, apperror.ErrDuplicate)
	}
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperror.ErrNotFound
}

func (r *memRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[email]
	return ok, nil
}

func (r *memRepo) ResolveCaller(ctx context.Context, id uuid.UUID) (*authz.Caller, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	caller := &authz.Caller{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
	if pid, ok := r.providers[u.ID]; ok {
		caller.ProviderID = &pid
	}
	return caller, nil
}

func setup(t *testing.T) (*userService, *memRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newMemRepo()
	svc := NewUserService(repo, infracache.NewRedisCache(client)).(*userService)
	svc.bcryptCost = bcrypt.MinCost
	return svc, repo, mr
}

func register(t *testing.T, svc *userService) *model.UserResponse {
	t.Helper()
	u, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "  Ana@Example.com ",
		Password: "correct horse",
		Name:     "Ana",
	})
	require.NoError(t, err)
	return u
}

func TestRegister_NormalisesAndHashes(t *testing.T) {
	svc, repo, _ := setup(t)

	u := register(t, svc)

	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, authz.RoleUser, u.Role)

	stored := repo.users["ana@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))
}

func TestRegister_EmailTaken(t *testing.T) {
	svc, _, _ := setup(t)
	register(t, svc)

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Email: "ana@example.com", Password: "another pass", Name: "Other",
	})

	require.Error(t, err)
	assert.Equal(t, "Email already registered", apperror.As(err).Message)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := setup(t)

	cases := []model.RegisterRequest{
		{Email: "not-an-email", Password: "long enough", Name: "A"},
		{Email: "a@b.co", Password: "short", Name: "A"},
		{Email: "a@b.co", Password: "long enough", Name: "  "},
	}
	for _, req := range cases {
		_, err := svc.Register(context.Background(), req)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation), "%+v", req)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, repo, _ := setup(t)
	registered := register(t, svc)
	providerID := uuid.New()
	repo.providers[registered.ID] = providerID

	u, err := svc.Login(context.Background(), model.LoginRequest{Email: "ANA@example.com", Password: "correct horse"})

	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	require.NotNil(t, u.ProviderID)
	assert.Equal(t, providerID, *u.ProviderID)
}

func TestLogin_BadCredentialsLookAlike(t *testing.T) {
	svc, _, _ := setup(t)
	register(t, svc)

	_, wrongPass := svc.Login(context.Background(), model.LoginRequest{Email: "ana@example.com", Password: "nope"})
	_, unknown := svc.Login(context.Background(), model.LoginRequest{Email: "bob@example.com", Password: "nope"})

	assert.True(t, apperror.IsKind(wrongPass, apperror.KindUnauthorized))
	assert.Equal(t, apperror.As(wrongPass).Message, apperror.As(unknown).Message)
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	svc, _, mr := setup(t)
	register(t, svc)
	ctx := context.Background()

	for i := 0; i < model.MaxFailedAttempts; i++ {
		_, err := svc.Login(ctx, model.LoginRequest{Email: "ana@example.com", Password: "wrong"})
		require.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	}

	// correct password is refused while locked
	_, err := svc.Login(ctx, model.LoginRequest{Email: "ana@example.com", Password: "correct horse"})
	assert.True(t, apperror.IsKind(err, apperror.KindRateLimited))
	assert.Equal(t, model.AttemptWindow, mr.TTL(cache.FailedLoginKey("ana@example.com")))

	mr.FastForward(model.AttemptWindow)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "ana@example.com", Password: "correct horse"})
	assert.NoError(t, err)
}

func TestLogin_SuccessResetsCounter(t *testing.T) {
	svc, _, mr := setup(t)
	register(t, svc)
	ctx := context.Background()

	_, _ = svc.Login(ctx, model.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	require.True(t, mr.Exists(cache.FailedLoginKey("ana@example.com")))

	_, err := svc.Login(ctx, model.LoginRequest{Email: "ana@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.FailedLoginKey("ana@example.com")))
}

func TestLogin_RedisDownStillAuthenticates(t *testing.T) {
	svc, _, mr := setup(t)
	register(t, svc)
	mr.Close()

	_, err := svc.Login(context.Background(), model.LoginRequest{Email: "ana@example.com", Password: "correct horse"})

	assert.NoError(t, err)
}

func TestMe(t *testing.T) {
	svc, _, _ := setup(t)
	registered := register(t, svc)

	_, err := svc.Me(context.Background(), nil)
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))

	u, err := svc.Me(context.Background(), &authz.Caller{UserID: registered.ID, Role: authz.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)

	_, err = svc.Me(context.Background(), &authz.Caller{UserID: uuid.New()})
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}
