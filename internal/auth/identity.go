package auth

import "fmt"

// Identity is a normalized external authentication identity built from
// provider claims. It contains facts only, no decisions. Empty optional
// fields mean the provider did not supply them.
type Identity struct {
	Email       string // required before resolution proceeds
	ExternalID  string // provider-scoped user id (sub / oid)
	DisplayName string
	AvatarURL   string
}

// Claims is the raw attribute mapping returned by the identity provider.
type Claims map[string]any

var (
	emailKeys      = []string{"email", "userPrincipalName", "preferred_username"}
	externalIDKeys = []string{"sub", "oid"}
	nameKeys       = []string{"name", "displayName"}
	avatarKeys     = []string{"picture"}
)

// ExtractIdentity normalizes provider claims. For each field the first
// listed key carrying a non-nil value wins; missing fields stay empty.
func ExtractIdentity(claims Claims) Identity {
	return Identity{
		Email:       claims.first(emailKeys...),
		ExternalID:  claims.first(externalIDKeys...),
		DisplayName: claims.first(nameKeys...),
		AvatarURL:   claims.first(avatarKeys...),
	}
}

// String returns the value under key, or "" when the key is absent or nil.
// Non-string scalars are formatted with their default representation.
func (c Claims) String(key string) (string, bool) {
	v, ok := c[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case fmt.Stringer:
		return t.String(), true
	default:
		return fmt.Sprint(t), true
	}
}

func (c Claims) first(keys ...string) string {
	for _, k := range keys {
		if v, ok := c.String(k); ok {
			return v
		}
	}
	return ""
}
