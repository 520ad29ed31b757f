// Package account implements the account lifecycle as a table-driven state machine.
//
// An account moves through six statuses driven by five event types:
//
//	ACCOUNT_CREATED   --ACCOUNT_CREATED-->   ACCOUNT_PENDING    (createAccount)
//	ACCOUNT_PENDING   --ACCOUNT_CONFIRMED--> ACCOUNT_CONFIRMED  (confirmAccount)
//	ACCOUNT_CONFIRMED --ACCOUNT_ACTIVATED--> ACCOUNT_ACTIVE     (activateAccount)
//	ACCOUNT_ACTIVE    --ACCOUNT_ARCHIVED-->  ACCOUNT_ARCHIVED   (archiveAccount)
//	ACCOUNT_ACTIVE    --ACCOUNT_SUSPENDED--> ACCOUNT_SUSPENDED  (suspendAccount)
//	ACCOUNT_ARCHIVED  --ACCOUNT_ACTIVATED--> ACCOUNT_ACTIVE     (unarchiveAccount)
//	ACCOUNT_SUSPENDED --ACCOUNT_ACTIVATED--> ACCOUNT_ACTIVE     (unsuspendAccount)
//
// Every transition runs one Command. Commands are injected through the
// Commands struct; NewCommands supplies repository-backed defaults.
//
// # Replication marker
//
// An Event built with NewEvent carries itself in Replicated. The ReplayGuard
// runs the command only when that marker is present. Events stripped with
// Bare still advance the status but never repeat side effects, which is how
// Service.Replay rebuilds a status from a recorded log.
//
// # Failures
//
// A command failure is logged and reported to observers; the status still
// advances. Handle returns an error only for malformed events, events that are
// not valid in the current status (statemachine.ErrInvalidTransition) and
// repository failures.
//
// # Concurrency
//
// Service serialises events per account with an internal keyed lock, so it is
// safe to call Handle concurrently. For ordered delivery from a stream use
// pkg/partition keyed by account id.
package account
