package provider

import (
	"context"

	"github.com/BarnaTB/employee-leave-system/internal/auth"
)

// OAuthProvider defines the contract of the external identity provider.
// Implementations return identity facts only and must not perform
// employee creation, linking, or session management.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "microsoft").
	Name() string

	// AuthCodeURL returns the OAuth authorization URL.
	// State and PKCE parameters are provided by the caller.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode exchanges the authorization code for provider
	// credentials and returns the raw claims mapping of the user.
	ExchangeCode(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (auth.Claims, error)
}
