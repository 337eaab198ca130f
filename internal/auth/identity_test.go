package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractIdentity_EmailPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		claims Claims
		want   string
	}{
		{"email only", Claims{"email": "a@ist.com"}, "a@ist.com"},
		{"upn only", Claims{"userPrincipalName": "upn@ist.com"}, "upn@ist.com"},
		{"preferred_username only", Claims{"preferred_username": "pu@ist.com"}, "pu@ist.com"},
		{
			"email wins over all",
			Claims{"email": "a@ist.com", "userPrincipalName": "upn@ist.com", "preferred_username": "pu@ist.com"},
			"a@ist.com",
		},
		{
			"upn wins over preferred_username",
			Claims{"userPrincipalName": "upn@ist.com", "preferred_username": "pu@ist.com"},
			"upn@ist.com",
		},
		{"nil value falls through", Claims{"email": nil, "preferred_username": "pu@ist.com"}, "pu@ist.com"},
		{"absent", Claims{"name": "Ann"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractIdentity(tt.claims).Email)
		})
	}
}

func TestExtractIdentity_OptionalFields(t *testing.T) {
	id := ExtractIdentity(Claims{
		"email":       "a@ist.com",
		"sub":         "sub-1",
		"oid":         "oid-1",
		"displayName": "Ann Display",
		"picture":     "https://img/a.png",
	})

	assert.Equal(t, Identity{
		Email:       "a@ist.com",
		ExternalID:  "sub-1",
		DisplayName: "Ann Display",
		AvatarURL:   "https://img/a.png",
	}, id)
}

func TestExtractIdentity_FallbackKeys(t *testing.T) {
	id := ExtractIdentity(Claims{"oid": "oid-1", "name": "Ann", "displayName": "ignored"})

	assert.Equal(t, "oid-1", id.ExternalID)
	assert.Equal(t, "Ann", id.DisplayName)
	assert.Empty(t, id.Email)
	assert.Empty(t, id.AvatarURL)
}

func TestExtractIdentity_NilClaims(t *testing.T) {
	assert.Equal(t, Identity{}, ExtractIdentity(nil))
}

func TestClaimsString_NonStringScalar(t *testing.T) {
	v, ok := Claims{"sub": 42}.String("sub")
	assert.True(t, ok)
	assert.Equal(t, "42", v)
}
