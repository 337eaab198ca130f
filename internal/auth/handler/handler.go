package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/BarnaTB/employee-leave-system/internal/auth"
	"github.com/BarnaTB/employee-leave-system/internal/auth/outcome"
	"github.com/BarnaTB/employee-leave-system/internal/auth/provider"
	"github.com/BarnaTB/employee-leave-system/internal/auth/resolver"
	"github.com/BarnaTB/employee-leave-system/internal/employee"
	"github.com/BarnaTB/employee-leave-system/internal/logger"
	"github.com/BarnaTB/employee-leave-system/internal/middleware"
	"github.com/BarnaTB/employee-leave-system/internal/session"

	"github.com/gin-gonic/gin"
)

type Options struct {
	SessionTTL   time.Duration
	CookieSecure bool
}

type Handler struct {
	provider   provider.OAuthProvider
	resolver   resolver.Resolver
	protocol   *outcome.Protocol
	sessions   session.Store
	employees  employee.Store
	sessionTTL time.Duration
	cookie     session.CookieOptions
	now        func() time.Time
}

func NewHandler(
	p provider.OAuthProvider,
	r resolver.Resolver,
	protocol *outcome.Protocol,
	sessions session.Store,
	employees employee.Store,
	opts Options,
) *Handler {
	return &Handler{
		provider:   p,
		resolver:   r,
		protocol:   protocol,
		sessions:   sessions,
		employees:  employees,
		sessionTTL: opts.SessionTTL,
		cookie: session.CookieOptions{
			Secure:   opts.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		},
		now: time.Now,
	}
}

// RegisterRoutes mounts the sign-in flow on r. requireAuth guards the
// session-backed endpoints.
func (h *Handler) RegisterRoutes(r gin.IRouter, requireAuth gin.HandlerFunc) {
	r.GET("/oauth/login", h.login)
	r.GET("/oauth/callback", h.callback)
	r.POST("/auth/logout", h.logout)

	api := r.Group("/api/auth", requireAuth)
	api.GET("/token", h.token)
	api.GET("/user", h.user)
}

// login starts the authorization-code ceremony at the identity provider.
func (h *Handler) login(c *gin.Context) {
	state, err := h.generateState(c)
	if err != nil {
		h.protocol.Respond(c, outcome.Failure(err))
		return
	}

	codeChallenge, err := h.generatePKCE(c)
	if err != nil {
		h.protocol.Respond(c, outcome.Failure(err))
		return
	}

	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state, codeChallenge))
}

// callback completes the ceremony. Every outcome is answered as JSON.
func (h *Handler) callback(c *gin.Context) {
	claims, err := h.exchange(c)
	if err != nil {
		h.protocol.Respond(c, outcome.Failure(err))
		return
	}

	logger.Debug("provider claims received", map[string]any{
		"provider":    h.provider.Name(),
		"claim_count": len(claims),
	})

	identity := auth.ExtractIdentity(claims)

	emp, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		h.protocol.Respond(c, outcome.Failure(err))
		return
	}

	sess, err := session.New(emp.ID, emp.Email, h.now(), h.sessionTTL)
	if err == nil {
		err = h.sessions.Create(c.Request.Context(), sess)
	}
	if err != nil {
		h.protocol.Respond(c, outcome.Failure(fmt.Errorf("%w: %w", auth.ErrStoreUnavailable, err)))
		return
	}

	session.SetCookie(c.Writer, sess, h.cookie)

	logger.Info("login succeeded", map[string]any{
		"employee_id": emp.ID,
		"client_ip":   c.ClientIP(),
	})

	h.protocol.Respond(c, outcome.Success(auth.EmployeePrincipal(emp, claims)))
}

// exchange validates the callback request and trades the code for claims.
func (h *Handler) exchange(c *gin.Context) (auth.Claims, error) {
	if !validateState(c) {
		return nil, auth.Fail("invalid state", nil)
	}

	codeVerifier := getPKCEVerifier(c)
	h.clearFlowCookies(c)

	if errParam := c.Query("error"); errParam != "" {
		errDesc := c.Query("error_description")
		logger.Warn("oidc callback returned error", map[string]any{
			"provider": h.provider.Name(),
			"error":    errParam,
			"desc":     errDesc,
		})
		if errDesc == "" {
			errDesc = errParam
		}
		return nil, auth.Fail(errDesc, nil)
	}

	code := c.Query("code")
	if code == "" {
		return nil, auth.Fail("missing authorization code", nil)
	}

	if codeVerifier == "" {
		return nil, auth.Fail("missing pkce verifier", nil)
	}

	claims, err := h.provider.ExchangeCode(c.Request.Context(), code, codeVerifier)
	if err != nil {
		return nil, auth.Fail("identity provider rejected the sign-in", err)
	}
	return claims, nil
}

// token re-issues a session token for an already signed-in employee.
func (h *Handler) token(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c.Request.Context())
	if !ok {
		h.protocol.Respond(c, outcome.Success(nil))
		return
	}

	emp, err := h.employees.FindByID(c.Request.Context(), sess.EmployeeID)
	if err != nil {
		h.protocol.Respond(c, outcome.Failure(fmt.Errorf("%w: %w", auth.ErrStoreUnavailable, err)))
		return
	}

	principal := auth.EmployeePrincipal(emp, nil)
	if emp == nil {
		logger.Warn("session employee not found, issuing subject token", map[string]any{
			"employee_id": sess.EmployeeID,
		})
		principal = auth.SubjectPrincipal(sess.Subject)
	}

	h.protocol.Respond(c, outcome.Success(principal))
}

func (h *Handler) logout(c *gin.Context) {
	if sessionID, ok := session.ReadCookie(c.Request); ok {
		// best-effort: the cookie is cleared regardless
		if err := h.sessions.Delete(c.Request.Context(), sessionID); err != nil {
			logger.Warn("session delete failed", map[string]any{
				"error": err.Error(),
			})
		}
		logger.Info("logout", map[string]any{
			"client_ip": c.ClientIP(),
		})
	}

	session.ClearCookie(c.Writer, h.cookie)

	// Idempotent response
	c.Status(http.StatusNoContent)
}
