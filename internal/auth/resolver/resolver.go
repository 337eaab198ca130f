package resolver

import (
	"context"

	"github.com/BarnaTB/employee-leave-system/internal/auth"
	"github.com/BarnaTB/employee-leave-system/internal/employee"
)

// Resolver determines which employee an external identity belongs to.
// It is the ONLY place where identity-to-employee linking logic lives.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity auth.Identity,
	) (*employee.Employee, error)
}
