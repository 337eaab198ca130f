package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/BarnaTB/employee-leave-system/internal/auth"
	"github.com/BarnaTB/employee-leave-system/internal/employee"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session token payload. Role, Roles and EmployeeID are
// only set on tokens issued from a resolved employee record.
type Claims struct {
	Email      string          `json:"email,omitempty"`
	Name       string          `json:"name,omitempty"`
	Role       employee.Role   `json:"role,omitempty"`
	EmployeeID int64           `json:"employeeId,omitempty"`
	Roles      []employee.Role `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret    []byte
	Algorithm string // HS256, HS384 or HS512
	Lifetime  time.Duration
	Now       func() time.Time
}

// Issuer signs session tokens with a configured HMAC key. It holds no
// mutable state and is safe for concurrent use.
type Issuer struct {
	secret   []byte
	method   jwt.SigningMethod
	lifetime time.Duration
	now      func() time.Time
}

func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token: signing secret is required")
	}
	if cfg.Lifetime <= 0 {
		return nil, errors.New("token: lifetime must be positive")
	}

	method, err := signingMethod(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Issuer{
		secret:   cfg.Secret,
		method:   method,
		lifetime: cfg.Lifetime,
		now:      now,
	}, nil
}

// Issue builds a full token for a resolved employee.
func (i *Issuer) Issue(e *employee.Employee) (string, error) {
	if e == nil {
		return "", fmt.Errorf("%w: nil employee", auth.ErrTokenSigning)
	}

	return i.sign(Claims{
		Email:            e.Email,
		Name:             e.Name,
		Role:             e.Role,
		EmployeeID:       e.ID,
		Roles:            []employee.Role{employee.RoleUser, e.Role},
		RegisteredClaims: i.registered(e.Email),
	})
}

// IssueSubject builds a reduced-trust token carrying only the subject and
// validity window. Consumers must not infer any role from it.
func (i *Issuer) IssueSubject(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: empty subject", auth.ErrTokenSigning)
	}
	return i.sign(Claims{RegisteredClaims: i.registered(subject)})
}

// IssueFor dispatches on the principal variant.
func (i *Issuer) IssueFor(p *auth.Principal) (string, error) {
	switch p.Kind() {
	case auth.PrincipalEmployee:
		return i.Issue(p.Employee())
	case auth.PrincipalSubject:
		return i.IssueSubject(p.Subject())
	default:
		return "", fmt.Errorf("%w: no principal", auth.ErrTokenSigning)
	}
}

func (i *Issuer) registered(subject string) jwt.RegisteredClaims {
	now := i.now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
	}
}

func (i *Issuer) sign(claims Claims) (string, error) {
	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", auth.ErrTokenSigning, err)
	}
	return signed, nil
}

func signingMethod(alg string) (jwt.SigningMethod, error) {
	switch alg {
	case "", "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("token: unsupported signing algorithm %q", alg)
	}
}
