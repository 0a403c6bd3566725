package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housiee-backend/internal/domains/provider/model"
	"housiee-backend/internal/shared/authz"
	"housiee-backend/pkg/apperror"
)

// memRepo mimics the transactional apply: the profile insert and the role
// flip happen together or not at all.
type memRepo struct {
	mu        sync.Mutex
	providers map[uuid.UUID]*model.Provider
	roles     map[uuid.UUID]authz.Role
	stats     *model.DashboardStats
}

func newMemRepo() *memRepo {
	return &memRepo{providers: map[uuid.UUID]*model.Provider{}, roles: map[uuid.UUID]authz.Role{}}
}

func (r *memRepo) Create(_ context.Context, p *model.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[p.UserID]; ok {
		return fmt.Errorf("provider for user %s: %w", p.UserID, apperror.ErrDuplicate)
	}
	cp := *p
	r.providers[p.UserID] = &cp
	if r.roles[p.UserID] != authz.RoleAdmin {
		r.roles[p.UserID] = authz.RoleServiceProvider
	}
	return nil
}

func (r *memRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[userID]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, p *model.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[p.UserID]; !ok {
		return apperror.ErrNotFound
	}
	cp := *p
	r.providers[p.UserID] = &cp
	return nil
}

func (r *memRepo) GetDashboardStats(context.Context, uuid.UUID) (*model.DashboardStats, error) {
	return r.stats, nil
}

func newUser(repo *memRepo, role authz.Role) *authz.Caller {
	c := &authz.Caller{UserID: uuid.New(), Email: "p@example.com", Role: role}
	repo.roles[c.UserID] = role
	return c
}

func TestApply_PromotesUser(t *testing.T) {
	repo := newMemRepo()
	svc := NewProviderService(repo)
	caller := newUser(repo, authz.RoleUser)

	resp, err := svc.Apply(context.Background(), caller, model.ApplyRequest{BusinessName: "  Sea View Stays ", City: "Goa"})

	require.NoError(t, err)
	assert.Equal(t, authz.RoleServiceProvider, resp.Role)
	assert.Equal(t, "Sea View Stays", resp.Provider.BusinessName)
	assert.False(t, resp.Provider.IsVerified)
	assert.Equal(t, authz.RoleServiceProvider, repo.roles[caller.UserID])
}

func TestApply_SecondApplicationRejected(t *testing.T) {
	repo := newMemRepo()
	svc := NewProviderService(repo)
	caller := newUser(repo, authz.RoleUser)

	_, err := svc.Apply(context.Background(), caller, model.ApplyRequest{BusinessName: "First"})
	require.NoError(t, err)

	// stale caller without the provider id reaches the unique constraint
	_, err = svc.Apply(context.Background(), caller, model.ApplyRequest{BusinessName: "Second"})
	require.Error(t, err)
	assert.Equal(t, "Provider profile already exists", apperror.As(err).Message)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	// resolved caller short-circuits
	pid := uuid.New()
	caller.ProviderID = &pid
	_, err = svc.Apply(context.Background(), caller, model.ApplyRequest{BusinessName: "Third"})
	assert.Equal(t, "Provider profile already exists", apperror.As(err).Message)
}

func TestApply_ConcurrentApplicationsCreateOneProfile(t *testing.T) {
	repo := newMemRepo()
	svc := NewProviderService(repo)
	caller := newUser(repo, authz.RoleUser)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Apply(context.Background(), caller, model.ApplyRequest{BusinessName: "Racer"}); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Len(t, repo.providers, 1)
}

func TestApply_AdminKeepsRole(t *testing.T) {
	repo := newMemRepo()
	svc := NewProviderService(repo)
	admin := newUser(repo, authz.RoleAdmin)

	resp, err := svc.Apply(context.Background(), admin, model.ApplyRequest{BusinessName: "Admin Co"})

	require.NoError(t, err)
	assert.Equal(t, authz.RoleAdmin, resp.Role)
	assert.Equal(t, authz.RoleAdmin, repo.roles[admin.UserID])
}

func TestApply_Validation(t *testing.T) {
	repo := newMemRepo()
	svc := NewProviderService(repo)

	_, err := svc.Apply(context.Background(), newUser(repo, authz.RoleUser), model.ApplyRequest{BusinessName: "   "})

	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Empty(t, repo.providers)
}

func TestProfile_NotFound(t *testing.T) {
	svc := NewProviderService(newMemRepo())

	_, err := svc.GetProfile(context.Background(), &authz.Caller{UserID: uuid.New()})

	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.As(err).Kind)
	assert.Equal(t, "Provider profile not found", apperror.As(err).Message)
}

func TestUpdateProfile_Partial(t *testing.T) {
	repo := newMemRepo()
	svc := NewProviderService(repo)
	caller := newUser(repo, authz.RoleUser)
	_, err := svc.Apply(context.Background(), caller, model.ApplyRequest{BusinessName: "Old Name", City: "Pune"})
	require.NoError(t, err)

	name := "New Name"
	resp, err := svc.UpdateProfile(context.Background(), caller, model.UpdateProfileRequest{BusinessName: &name})

	require.NoError(t, err)
	assert.Equal(t, "New Name", resp.BusinessName)
	assert.Equal(t, "Pune", resp.City)

	empty := ""
	_, err = svc.UpdateProfile(context.Background(), caller, model.UpdateProfileRequest{BusinessName: &empty})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestDashboardStats(t *testing.T) {
	repo := newMemRepo()
	avg := 4.5
	repo.stats = &model.DashboardStats{
		TotalServices:    3,
		ActiveServices:   2,
		BookingsByStatus: map[string]int{"PENDING": 2, "COMPLETED": 1},
		Revenue:          decimal.RequireFromString("300"),
		AverageRating:    &avg,
		ReviewCount:      2,
	}
	svc := NewProviderService(repo)

	_, err := svc.GetDashboardStats(context.Background(), &authz.Caller{UserID: uuid.New()})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	pid := uuid.New()
	stats, err := svc.GetDashboardStats(context.Background(), &authz.Caller{UserID: uuid.New(), ProviderID: &pid})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalBookings)
	assert.Equal(t, 0, stats.BookingsByStatus["CANCELLED"])
	assert.Equal(t, "300", stats.Revenue.String())
}
