package account

import "github.com/dmitrymomot/accountworker/pkg/statemachine"

// Action ids bound to the lifecycle transitions.
const (
	ActionCreate    statemachine.ActionID = "createAccount"
	ActionConfirm   statemachine.ActionID = "confirmAccount"
	ActionActivate  statemachine.ActionID = "activateAccount"
	ActionArchive   statemachine.ActionID = "archiveAccount"
	ActionSuspend   statemachine.ActionID = "suspendAccount"
	ActionUnarchive statemachine.ActionID = "unarchiveAccount"
	ActionUnsuspend statemachine.ActionID = "unsuspendAccount"
)

// Transitions returns the account lifecycle in definition order.
// ACCOUNT_ACTIVATED is bound three times; the source status picks the action.
func Transitions() []statemachine.Transition {
	return []statemachine.Transition{
		{From: StatusCreated, Event: EventCreated, To: StatusPending, Action: ActionCreate},
		{From: StatusPending, Event: EventConfirmed, To: StatusConfirmed, Action: ActionConfirm},
		{From: StatusConfirmed, Event: EventActivated, To: StatusActive, Action: ActionActivate},
		{From: StatusActive, Event: EventArchived, To: StatusArchived, Action: ActionArchive},
		{From: StatusActive, Event: EventSuspended, To: StatusSuspended, Action: ActionSuspend},
		{From: StatusArchived, Event: EventActivated, To: StatusActive, Action: ActionUnarchive},
		{From: StatusSuspended, Event: EventActivated, To: StatusActive, Action: ActionUnsuspend},
	}
}

// NewTable builds the account transition table.
func NewTable() (*statemachine.Table, error) {
	return statemachine.NewTable(Transitions()...)
}
