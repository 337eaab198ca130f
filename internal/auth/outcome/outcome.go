package outcome

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/BarnaTB/employee-leave-system/internal/auth"
	"github.com/BarnaTB/employee-leave-system/internal/logger"

	"github.com/gin-gonic/gin"
)

const errorTitle = "Authentication failed"

type State int

const (
	Pending State = iota
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Outcome is the terminal result of one authentication attempt.
type Outcome struct {
	State     State
	Principal *auth.Principal
	Err       error
}

func Success(p *auth.Principal) Outcome {
	return Outcome{State: Succeeded, Principal: p}
}

func Failure(err error) Outcome {
	return Outcome{State: Failed, Err: err}
}

// TokenIssuer signs a session token for a principal.
type TokenIssuer interface {
	IssueFor(p *auth.Principal) (string, error)
}

// Protocol turns authentication outcomes into JSON responses. It never
// redirects: the consumer is a single-page app expecting JSON.
type Protocol struct {
	issuer TokenIssuer
}

func New(issuer TokenIssuer) *Protocol {
	return &Protocol{issuer: issuer}
}

// Respond writes the response for o. Exactly one response is written,
// including when issuing or serializing panics.
func (p *Protocol) Respond(c *gin.Context, o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("authentication response panicked", map[string]any{
				"state": o.State.String(),
				"panic": fmt.Sprint(r),
			})
			if !c.Writer.Written() {
				writeError(c, http.StatusInternalServerError, auth.PublicMessage(nil))
			}
		}
	}()

	switch o.State {
	case Succeeded:
		p.succeeded(c, o.Principal)
	case Failed:
		p.failed(c, o.Err)
	default:
		p.failed(c, errors.New("authentication attempt did not complete"))
	}
}

func (p *Protocol) succeeded(c *gin.Context, principal *auth.Principal) {
	if principal.Kind() == auth.PrincipalNone {
		logger.Warn("authentication succeeded without a principal", nil)
		writeError(c, http.StatusUnauthorized, "No authentication data found")
		return
	}

	token, err := p.issuer.IssueFor(principal)
	if err != nil {
		p.failed(c, err)
		return
	}

	fields := map[string]any{
		"principal": principal.Kind().String(),
		"subject":   principal.Subject(),
	}
	if e := principal.Employee(); e != nil {
		fields["employee_id"] = e.ID
	}
	logger.Info("session token issued", fields)

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (p *Protocol) failed(c *gin.Context, err error) {
	if err == nil {
		err = auth.Fail("authentication failed", nil)
	}

	if auth.IsPolicyFailure(err) {
		logger.Warn("authentication rejected", map[string]any{
			"error": err.Error(),
		})
		writeError(c, http.StatusUnauthorized, auth.PublicMessage(err))
		return
	}

	logger.Error("authentication failed internally", map[string]any{
		"error": err.Error(),
	})
	writeError(c, http.StatusInternalServerError, auth.PublicMessage(err))
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":   errorTitle,
		"message": message,
	})
}
