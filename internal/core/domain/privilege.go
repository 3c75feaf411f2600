package domain

// Privilege identifies one guarded ledger operation.
type Privilege string

const (
	PrivilegeCreateAccounts        Privilege = "LEDGER_CREATE_ACCOUNTS"
	PrivilegeCreateJournalEntries  Privilege = "LEDGER_CREATE_JOURNAL_ENTRIES"
	PrivilegeViewAccounts          Privilege = "LEDGER_VIEW_ACCOUNTS"
	PrivilegeViewJournalEntries    Privilege = "LEDGER_VIEW_JOURNAL_ENTRIES"
	PrivilegeChangeAccountState    Privilege = "LEDGER_CHANGE_ACCOUNT_STATE"
	PrivilegeProcessHighLevelBatch Privilege = "LEDGER_PROCESS_HIGH_LEVEL_BATCH"
	PrivilegeManageCurrencies      Privilege = "LEDGER_MANAGE_CURRENCIES"
)

// CallerContext carries the identity and roles of the caller of a guarded
// operation, as established by the authentication middleware.
type CallerContext struct {
	SubjectID string
	Roles     []string
}
