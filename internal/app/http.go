package app

import (
	"context"
	"net/http"

	"github.com/BarnaTB/employee-leave-system/internal/auth"
	"github.com/BarnaTB/employee-leave-system/internal/auth/handler"
	"github.com/BarnaTB/employee-leave-system/internal/auth/outcome"
	"github.com/BarnaTB/employee-leave-system/internal/auth/provider"
	"github.com/BarnaTB/employee-leave-system/internal/auth/provider/microsoft"
	"github.com/BarnaTB/employee-leave-system/internal/auth/resolver"
	"github.com/BarnaTB/employee-leave-system/internal/auth/token"
	"github.com/BarnaTB/employee-leave-system/internal/config"
	"github.com/BarnaTB/employee-leave-system/internal/employee"
	"github.com/BarnaTB/employee-leave-system/internal/middleware"
	"github.com/BarnaTB/employee-leave-system/internal/session"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	ms, err := microsoft.New(ctx, microsoft.Config{
		Issuer:          cfg.OIDCIssuer,
		ClientID:        cfg.OIDCClientID,
		ClientSecret:    cfg.OIDCClientSecret,
		RedirectURL:     cfg.OIDCRedirectURL,
		Scopes:          cfg.OIDCScopes,
		SkipIssuerCheck: cfg.OIDCSkipIssuerCheck,
	})
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	router, err := newRouter(cfg, ms, infra.Employees, session.NewRedisStore(infra.Redis.Client))
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	return router, infra.Close, nil
}

// newRouter assembles the HTTP surface from already-connected dependencies.
func newRouter(
	cfg config.Config,
	p provider.OAuthProvider,
	employees employee.Store,
	sessions session.Store,
) (*gin.Engine, error) {

	issuer, err := token.NewIssuer(token.Config{
		Secret:    []byte(cfg.JWTSecret),
		Algorithm: cfg.JWTAlgorithm,
		Lifetime:  cfg.JWTExpiration,
	})
	if err != nil {
		return nil, err
	}

	identityResolver := resolver.NewStoreResolver(
		employees,
		auth.NewDomainPolicy(cfg.AllowedEmailDomain),
		cfg.IsProduction(),
	)

	authHandler := handler.NewHandler(
		p,
		identityResolver,
		outcome.New(issuer),
		sessions,
		employees,
		handler.Options{
			SessionTTL:   cfg.SessionTTL,
			CookieSecure: cfg.CookieSecure,
		},
	)

	authMiddleware := middleware.NewAuthMiddleware(sessions)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	authHandler.RegisterRoutes(router, middleware.GinRequireAuth(authMiddleware))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router, nil
}
