package auth

import "strings"

// DomainPolicy restricts sign-in to the organization's email domain in
// production. It never reads deployment state itself; callers pass it in.
type DomainPolicy struct {
	Suffix string // e.g. "@ist.com"
}

func NewDomainPolicy(suffix string) DomainPolicy {
	return DomainPolicy{Suffix: suffix}
}

// Allowed reports whether email may sign in. Outside production every
// email is allowed. In production the email must end with Suffix; an
// unconfigured suffix allows nothing.
func (p DomainPolicy) Allowed(email string, production bool) bool {
	if !production {
		return true
	}
	if p.Suffix == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(email), strings.ToLower(p.Suffix))
}
