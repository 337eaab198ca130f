package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/BarnaTB/employee-leave-system/internal/employee"

	"github.com/stretchr/testify/assert"
)

func TestIsPolicyFailure(t *testing.T) {
	assert.True(t, IsPolicyFailure(ErrMissingEmail))
	assert.True(t, IsPolicyFailure(fmt.Errorf("resolve: %w", ErrDomainNotAllowed)))
	assert.True(t, IsPolicyFailure(Fail("invalid state", nil)))

	assert.False(t, IsPolicyFailure(fmt.Errorf("%w: boom", ErrStoreUnavailable)))
	assert.False(t, IsPolicyFailure(ErrTokenSigning))
	assert.False(t, IsPolicyFailure(errors.New("unexpected")))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "invalid email domain", PublicMessage(fmt.Errorf("x: %w", ErrDomainNotAllowed)))
	assert.Equal(t, "code exchange failed", PublicMessage(Fail("code exchange failed", errors.New("secret detail"))))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("pq: connection refused")))
}

func TestFailure_ErrorWrapsCause(t *testing.T) {
	cause := errors.New("oauth2: bad code")
	f := Fail("code exchange failed", cause)

	assert.ErrorIs(t, f, cause)
	assert.Equal(t, "code exchange failed: oauth2: bad code", f.Error())
}

func TestPrincipal_Variants(t *testing.T) {
	e := &employee.Employee{ID: 1, Email: "a@ist.com", Role: employee.RoleUser}

	full := EmployeePrincipal(e, Claims{"email": "a@ist.com"})
	assert.Equal(t, PrincipalEmployee, full.Kind())
	assert.Equal(t, "a@ist.com", full.Subject())
	assert.Same(t, e, full.Employee())

	bare := SubjectPrincipal("b@ist.com")
	assert.Equal(t, PrincipalSubject, bare.Kind())
	assert.Nil(t, bare.Employee())

	var missing *Principal
	assert.Equal(t, PrincipalNone, missing.Kind())
	assert.Equal(t, PrincipalNone, EmployeePrincipal(nil, nil).Kind())
	assert.Equal(t, PrincipalNone, SubjectPrincipal("").Kind())
}
