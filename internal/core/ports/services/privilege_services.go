package services

import (
	"context"

	"github.com/clearstream/hubledger/internal/core/domain"
)

// PrivilegeChecker decides whether any of the caller's roles grants a
// privilege. Guarded operations fail with apperrors.ErrUnauthorized before
// doing any work when it returns false.
type PrivilegeChecker interface {
	HasPrivilege(ctx context.Context, caller domain.CallerContext, privilege domain.Privilege) bool
}
