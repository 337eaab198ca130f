package auth

import "github.com/BarnaTB/employee-leave-system/internal/employee"

type PrincipalKind int

const (
	PrincipalNone PrincipalKind = iota
	// PrincipalEmployee carries a resolved employee record.
	PrincipalEmployee
	// PrincipalSubject carries only a bare subject (email or name) and
	// yields a reduced-trust token without role claims.
	PrincipalSubject
)

func (k PrincipalKind) String() string {
	switch k {
	case PrincipalEmployee:
		return "employee"
	case PrincipalSubject:
		return "subject"
	default:
		return "none"
	}
}

// Principal is the authenticated identity handed to the token issuer.
// Construct it with EmployeePrincipal or SubjectPrincipal.
type Principal struct {
	kind     PrincipalKind
	employee *employee.Employee
	subject  string
	claims   Claims
}

// EmployeePrincipal wraps a resolved record together with the raw provider
// claims of the current request.
func EmployeePrincipal(e *employee.Employee, claims Claims) *Principal {
	if e == nil {
		return &Principal{}
	}
	return &Principal{
		kind:     PrincipalEmployee,
		employee: e,
		subject:  e.Email,
		claims:   claims,
	}
}

func SubjectPrincipal(subject string) *Principal {
	if subject == "" {
		return &Principal{}
	}
	return &Principal{kind: PrincipalSubject, subject: subject}
}

// Kind is safe to call on a nil principal.
func (p *Principal) Kind() PrincipalKind {
	if p == nil {
		return PrincipalNone
	}
	return p.kind
}

func (p *Principal) Employee() *employee.Employee {
	if p == nil {
		return nil
	}
	return p.employee
}

func (p *Principal) Subject() string {
	if p == nil {
		return ""
	}
	return p.subject
}

func (p *Principal) Claims() Claims {
	if p == nil {
		return nil
	}
	return p.claims
}
