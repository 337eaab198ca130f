package resolver

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/BarnaTB/employee-leave-system/internal/auth"
	"github.com/BarnaTB/employee-leave-system/internal/employee"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(store employee.Store, production bool) *StoreResolver {
	return NewStoreResolver(store, auth.NewDomainPolicy("@ist.com"), production)
}

func TestResolve_CreatesNewEmployee(t *testing.T) {
	store := employee.NewMemoryStore()
	r := newResolver(store, false)

	identity := auth.ExtractIdentity(auth.Claims{"email": "a@ist.com", "sub": "ms-1", "name": "Ann"})
	e, err := r.Resolve(context.Background(), identity)
	require.NoError(t, err)

	assert.NotZero(t, e.ID)
	assert.Equal(t, "a@ist.com", e.Email)
	assert.Equal(t, "ms-1", e.ExternalID)
	assert.Equal(t, "Ann", e.Name)
	assert.Equal(t, employee.RoleUser, e.Role)
	assert.True(t, e.Active)
	assert.Zero(t, e.LeaveBalance)
	assert.Equal(t, 1, store.Len())
}

func TestResolve_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := employee.NewMemoryStore()
	r := newResolver(store, false)
	identity := auth.Identity{Email: "a@ist.com", ExternalID: "ms-1", DisplayName: "Ann"}

	first, err := r.Resolve(ctx, identity)
	require.NoError(t, err)
	second, err := r.Resolve(ctx, identity)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.Len())
}

func TestResolve_UpdatesNameOnReplay(t *testing.T) {
	ctx := context.Background()
	store := employee.NewMemoryStore()
	r := newResolver(store, false)

	first, err := r.Resolve(ctx, auth.Identity{Email: "a@ist.com", ExternalID: "ms-1", DisplayName: "Ann"})
	require.NoError(t, err)

	second, err := r.Resolve(ctx, auth.Identity{Email: "a@ist.com", ExternalID: "ms-1", DisplayName: "Ann B."})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ann B.", second.Name)

	stored, _ := store.FindByID(ctx, first.ID)
	assert.Equal(t, "Ann B.", stored.Name)
	assert.Equal(t, 1, store.Len())
}

func TestResolve_EmailMatchUpdatesExternalID(t *testing.T) {
	ctx := context.Background()
	store := employee.NewMemoryStore()
	existing, err := store.Save(ctx, employee.New("a@ist.com", "old-id", "Ann", "https://img/old.png"))
	require.NoError(t, err)

	r := newResolver(store, false)
	e, err := r.Resolve(ctx, auth.Identity{Email: "a@ist.com", ExternalID: "new-id", AvatarURL: "https://img/new.png"})
	require.NoError(t, err)

	assert.Equal(t, existing.ID, e.ID)
	assert.Equal(t, "a@ist.com", e.Email)
	assert.Equal(t, "new-id", e.ExternalID)
	assert.Equal(t, "https://img/new.png", e.AvatarURL)
	assert.Equal(t, "Ann", e.Name, "absent name must not clear the stored one")
}

func TestResolve_ExternalIDMatchUpdatesEmail(t *testing.T) {
	ctx := context.Background()
	store := employee.NewMemoryStore()
	existing, err := store.Save(ctx, employee.New("old@ist.com", "ms-1", "Ann", ""))
	require.NoError(t, err)

	r := newResolver(store, false)
	e, err := r.Resolve(ctx, auth.Identity{Email: "new@ist.com", ExternalID: "ms-1", DisplayName: "Ann"})
	require.NoError(t, err)

	assert.Equal(t, existing.ID, e.ID)
	assert.Equal(t, "new@ist.com", e.Email)
	assert.Equal(t, 1, store.Len())

	byOld, _ := store.FindByEmail(ctx, "old@ist.com")
	assert.Nil(t, byOld)
}

func TestResolve_EmailTakesPrecedenceOverExternalID(t *testing.T) {
	ctx := context.Background()
	store := employee.NewMemoryStore()
	byEmail, _ := store.Save(ctx, employee.New("a@ist.com", "", "", ""))
	_, _ = store.Save(ctx, employee.New("other@ist.com", "ms-1", "", ""))

	r := newResolver(store, false)
	_, err := r.Resolve(ctx, auth.Identity{Email: "a@ist.com", ExternalID: "ms-1"})

	// The email match wins; moving ms-1 onto it collides with the other
	// record and the store keeps rejecting the write.
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrStoreUnavailable)

	stored, _ := store.FindByID(ctx, byEmail.ID)
	assert.Empty(t, stored.ExternalID)
	assert.Equal(t, 2, store.Len())
}

func TestResolve_MissingEmail(t *testing.T) {
	store := employee.NewMemoryStore()
	r := newResolver(store, false)

	_, err := r.Resolve(context.Background(), auth.ExtractIdentity(auth.Claims{"sub": "ms-1", "name": "Ann"}))
	assert.ErrorIs(t, err, auth.ErrMissingEmail)
	assert.Zero(t, store.Len())
}

func TestResolve_DomainPolicy(t *testing.T) {
	ctx := context.Background()

	prod := newResolver(employee.NewMemoryStore(), true)
	_, err := prod.Resolve(ctx, auth.Identity{Email: "a@other.com"})
	assert.ErrorIs(t, err, auth.ErrDomainNotAllowed)

	_, err = prod.Resolve(ctx, auth.Identity{Email: "a@ist.com"})
	assert.NoError(t, err)

	dev := newResolver(employee.NewMemoryStore(), false)
	_, err = dev.Resolve(ctx, auth.Identity{Email: "a@other.com"})
	assert.NoError(t, err)
}

func TestResolve_ConcurrentFirstLogin(t *testing.T) {
	store := employee.NewMemoryStore()
	r := newResolver(store, false)
	identity := auth.Identity{Email: "race@ist.com", ExternalID: "ms-race", DisplayName: "Racer"}

	const callers = 20
	ids := make([]int64, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := r.Resolve(context.Background(), identity)
			errs[i] = err
			if e != nil {
				ids[i] = e.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, 1, store.Len())
}

// racingStore registers the same person just before the resolver's first
// insert reaches the store, so that insert deterministically loses.
type racingStore struct {
	*employee.MemoryStore
	raced atomic.Bool
}

func (s *racingStore) Save(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	if e.ID == 0 && s.raced.CompareAndSwap(false, true) {
		winner := *e
		if _, err := s.MemoryStore.Save(ctx, &winner); err != nil {
			return nil, err
		}
	}
	return s.MemoryStore.Save(ctx, e)
}

func TestResolve_RecoversLostInsertRace(t *testing.T) {
	store := &racingStore{MemoryStore: employee.NewMemoryStore()}
	r := newResolver(store, false)

	e, err := r.Resolve(context.Background(), auth.Identity{Email: "a@ist.com", ExternalID: "ms-1"})
	require.NoError(t, err)

	assert.True(t, store.raced.Load())
	assert.Equal(t, int64(1), e.ID)
	assert.Equal(t, 1, store.Len())
}

type failingStore struct {
	employee.Store
	err error
}

func (s failingStore) FindByEmail(context.Context, string) (*employee.Employee, error) {
	return nil, s.err
}

func TestResolve_StoreUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	r := newResolver(failingStore{err: cause}, false)

	_, err := r.Resolve(context.Background(), auth.Identity{Email: "a@ist.com"})
	assert.ErrorIs(t, err, auth.ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
}

type alwaysDuplicateStore struct {
	*employee.MemoryStore
	saves atomic.Int32
}

func (s *alwaysDuplicateStore) Save(context.Context, *employee.Employee) (*employee.Employee, error) {
	s.saves.Add(1)
	return nil, employee.ErrDuplicate
}

func TestResolve_GivesUpAfterBoundedRetries(t *testing.T) {
	store := &alwaysDuplicateStore{MemoryStore: employee.NewMemoryStore()}
	r := newResolver(store, false)

	_, err := r.Resolve(context.Background(), auth.Identity{Email: "a@ist.com"})
	assert.ErrorIs(t, err, auth.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, employee.ErrDuplicate)
	assert.Equal(t, int32(maxAttempts), store.saves.Load())
}
