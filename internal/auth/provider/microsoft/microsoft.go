package microsoft

import (
	"context"
	"errors"
	"fmt"

	"github.com/BarnaTB/employee-leave-system/internal/auth"
	"github.com/BarnaTB/employee-leave-system/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const providerName = "microsoft"

type Config struct {
	// Issuer is the authority, e.g.
	// https://login.microsoftonline.com/common/v2.0
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	// SkipIssuerCheck is needed for the multi-tenant "common" authority,
	// whose tokens carry the tenant-specific issuer.
	SkipIssuerCheck bool
}

// Provider implements OAuth + OIDC authentication against Microsoft Entra ID.
// It returns identity facts only; no employee/session decisions are made here.
type Provider struct {
	oauthConfig *oauth2.Config
	oidc        *oidc.Provider
	verifier    *oidc.IDTokenVerifier
}

// New initializes the provider using OIDC discovery.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Issuer == "" || cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("microsoft oauth config missing required fields")
	}

	discoveryCtx := ctx
	if cfg.SkipIssuerCheck {
		discoveryCtx = oidc.InsecureIssuerURLContext(ctx, cfg.Issuer)
	}

	oidcProvider, err := oidc.NewProvider(discoveryCtx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init microsoft oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID:        cfg.ClientID,
		SkipIssuerCheck: cfg.SkipIssuerCheck,
	})

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes:       scopes,
	}

	return &Provider{
		oauthConfig: oauthCfg,
		oidc:        oidcProvider,
		verifier:    verifier,
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// ExchangeCode exchanges the authorization code and returns the id_token
// claims merged with the userinfo claims. id_token values win on conflict.
func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (auth.Claims, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("microsoft token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("microsoft did not return id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("microsoft id_token verification failed: %w", err)
	}

	claims := auth.Claims{}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("microsoft id_token claims parse failed: %w", err)
	}

	userInfo, err := p.oidc.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		logger.Warn("microsoft userinfo unavailable", map[string]any{
			"error": err.Error(),
		})
	} else {
		var extra auth.Claims
		if err := userInfo.Claims(&extra); err == nil {
			for k, v := range extra {
				if _, exists := claims[k]; !exists {
					claims[k] = v
				}
			}
		}
	}

	logger.Info("microsoft oidc verified", map[string]any{
		"issuer":          idToken.Issuer,
		"subject_present": idToken.Subject != "",
		"claim_count":     len(claims),
		"expiry_unix":     idToken.Expiry.Unix(),
	})

	return claims, nil
}
