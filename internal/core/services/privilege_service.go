package services

import (
	"context"

	"github.com/clearstream/hubledger/internal/core/domain"
	portssvc "github.com/clearstream/hubledger/internal/core/ports/services"
)

// Built-in roles. Role names arrive in the caller's JWT roles claim.
const (
	RoleHubAdmin    = "hub_admin"    // full control, including account admin
	RoleHubOperator = "hub_operator" // transfer processing and entry creation
	RoleAuditor     = "auditor"      // read-only
)

// privilegeService maps caller roles to ledger privileges via a static
// table. An unknown role grants nothing.
type privilegeService struct {
	rolePrivileges map[string]map[domain.Privilege]struct{}
}

// NewPrivilegeService creates the privilege checker with the built-in role
// table.
func NewPrivilegeService() portssvc.PrivilegeChecker {
	grant := func(privileges ...domain.Privilege) map[domain.Privilege]struct{} {
		set := make(map[domain.Privilege]struct{}, len(privileges))
		for _, p := range privileges {
			set[p] = struct{}{}
		}
		return set
	}

	return &privilegeService{
		rolePrivileges: map[string]map[domain.Privilege]struct{}{
			RoleHubAdmin: grant(
				domain.PrivilegeCreateAccounts,
				domain.PrivilegeCreateJournalEntries,
				domain.PrivilegeViewAccounts,
				domain.PrivilegeViewJournalEntries,
				domain.PrivilegeChangeAccountState,
				domain.PrivilegeProcessHighLevelBatch,
				domain.PrivilegeManageCurrencies,
			),
			RoleHubOperator: grant(
				domain.PrivilegeCreateJournalEntries,
				domain.PrivilegeViewAccounts,
				domain.PrivilegeViewJournalEntries,
				domain.PrivilegeProcessHighLevelBatch,
			),
			RoleAuditor: grant(
				domain.PrivilegeViewAccounts,
				domain.PrivilegeViewJournalEntries,
			),
		},
	}
}

var _ portssvc.PrivilegeChecker = (*privilegeService)(nil)

// HasPrivilege reports whether any of the caller's roles grants privilege.
func (s *privilegeService) HasPrivilege(_ context.Context, caller domain.CallerContext, privilege domain.Privilege) bool {
	for _, role := range caller.Roles {
		if set, ok := s.rolePrivileges[role]; ok {
			if _, granted := set[privilege]; granted {
				return true
			}
		}
	}
	return false
}
