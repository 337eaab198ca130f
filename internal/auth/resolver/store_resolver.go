package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/BarnaTB/employee-leave-system/internal/auth"
	"github.com/BarnaTB/employee-leave-system/internal/employee"
	"github.com/BarnaTB/employee-leave-system/internal/logger"
)

// maxAttempts bounds re-resolution after a lost insert race.
const maxAttempts = 3

const (
	matchedByEmail      = "email"
	matchedByExternalID = "external_id"
	matchedByCreated    = "created"
)

// StoreResolver links identities to employees using two candidate keys:
// email first, then external id. Conflicts are settled last-write-wins in
// favour of the values the provider just sent.
type StoreResolver struct {
	store      employee.Store
	policy     auth.DomainPolicy
	production bool
}

// NewStoreResolver builds a resolver. production is supplied by the
// deployment configuration and switches on the domain policy.
func NewStoreResolver(store employee.Store, policy auth.DomainPolicy, production bool) *StoreResolver {
	return &StoreResolver{
		store:      store,
		policy:     policy,
		production: production,
	}
}

func (r *StoreResolver) Resolve(
	ctx context.Context,
	identity auth.Identity,
) (*employee.Employee, error) {

	if identity.Email == "" {
		return nil, auth.ErrMissingEmail
	}

	if !r.policy.Allowed(identity.Email, r.production) {
		return nil, auth.ErrDomainNotAllowed
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		e, err := r.resolveOnce(ctx, identity)
		if errors.Is(err, employee.ErrDuplicate) {
			// Another request linked or registered this person between our
			// lookup and our write. Looking up again picks up its record.
			logger.Warn("employee write lost a uniqueness race, re-resolving", map[string]any{
				"attempt":     attempt,
				"external_id": identity.ExternalID,
			})
			continue
		}
		return e, err
	}

	return nil, fmt.Errorf("%w: identity still conflicting after %d attempts", auth.ErrStoreUnavailable, maxAttempts)
}

func (r *StoreResolver) resolveOnce(
	ctx context.Context,
	identity auth.Identity,
) (*employee.Employee, error) {

	// 1. Primary match by email
	existing, err := r.store.FindByEmail(ctx, identity.Email)
	if err != nil {
		return nil, storeError(err)
	}
	if existing != nil {
		changed := reconcile(existing, identity)
		return r.persist(ctx, existing, changed, matchedByEmail)
	}

	// 2. Fallback by external id: the provider's email drifted
	if identity.ExternalID != "" {
		existing, err = r.store.FindByExternalID(ctx, identity.ExternalID)
		if err != nil {
			return nil, storeError(err)
		}
		if existing != nil {
			changed := false
			if existing.Email != identity.Email {
				existing.Email = identity.Email
				changed = true
			}
			changed = reconcile(existing, identity) || changed
			return r.persist(ctx, existing, changed, matchedByExternalID)
		}
	}

	// 3. Register a new employee
	created := employee.New(
		identity.Email,
		identity.ExternalID,
		identity.DisplayName,
		identity.AvatarURL,
	)
	return r.persist(ctx, created, true, matchedByCreated)
}

func (r *StoreResolver) persist(
	ctx context.Context,
	e *employee.Employee,
	changed bool,
	matchedBy string,
) (*employee.Employee, error) {

	if !changed {
		logger.Debug("employee resolved", map[string]any{
			"employee_id": e.ID,
			"matched_by":  matchedBy,
			"updated":     false,
		})
		return e, nil
	}

	saved, err := r.store.Save(ctx, e)
	if errors.Is(err, employee.ErrDuplicate) {
		return nil, err
	}
	if err != nil {
		return nil, storeError(err)
	}

	logger.Info("employee resolved", map[string]any{
		"employee_id": saved.ID,
		"matched_by":  matchedBy,
		"updated":     matchedBy != matchedByCreated,
	})
	return saved, nil
}

// reconcile copies provider-supplied values that differ from the stored
// ones. Absent values never clear stored data.
func reconcile(e *employee.Employee, identity auth.Identity) bool {
	changed := false
	if identity.ExternalID != "" && identity.ExternalID != e.ExternalID {
		e.ExternalID = identity.ExternalID
		changed = true
	}
	if identity.DisplayName != "" && identity.DisplayName != e.Name {
		e.Name = identity.DisplayName
		changed = true
	}
	if identity.AvatarURL != "" && identity.AvatarURL != e.AvatarURL {
		e.AvatarURL = identity.AvatarURL
		changed = true
	}
	return changed
}

func storeError(err error) error {
	return fmt.Errorf("%w: %w", auth.ErrStoreUnavailable, err)
}
