package order

import (
	"fmt"

	"github.com/agrimart/server/internal/module/user"
)

// Action is a lifecycle action a party can perform on an order.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

// IsValid reports whether a is a known action.
func (a Action) IsValid() bool {
	switch a {
	case ActionAccept, ActionReject, ActionCancel, ActionComplete:
		return true
	}
	return false
}

type transitionKey struct {
	role   user.UserType
	status Status
}

// StateMachine decides which actions each party may perform on an order
// given its current status, and the status each action leads to.
type StateMachine struct {
	permitted map[transitionKey][]Action
	targets   map[Action]Status
}

// NewStateMachine creates the order state machine.
//
// The seller accepts, rejects, or completes; the buyer may only cancel
// a pending order. A rejected order can be re-accepted by the seller.
// COMPLETED accepts no further actions from either party.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		permitted: map[transitionKey][]Action{
			{user.UserTypeSeller, StatusPending}:  {ActionAccept, ActionReject},
			{user.UserTypeSeller, StatusAccepted}: {ActionComplete, ActionReject},
			{user.UserTypeSeller, StatusRejected}: {ActionAccept},
			{user.UserTypeBuyer, StatusPending}:   {ActionCancel},
		},
		targets: map[Action]Status{
			ActionAccept:   StatusAccepted,
			ActionReject:   StatusRejected,
			ActionCancel:   StatusRejected,
			ActionComplete: StatusCompleted,
		},
	}
}

// PermittedActions returns the actions the role may perform on an order
// in the given status. Unknown pairs yield an empty set.
func (sm *StateMachine) PermittedActions(role user.UserType, status Status) []Action {
	actions, ok := sm.permitted[transitionKey{role, status}]
	if !ok {
		return []Action{}
	}
	result := make([]Action, len(actions))
	copy(result, actions)
	return result
}

// CanPerform reports whether the role may perform the action on an order
// in the given status.
func (sm *StateMachine) CanPerform(role user.UserType, status Status, action Action) bool {
	for _, a := range sm.permitted[transitionKey{role, status}] {
		if a == action {
			return true
		}
	}
	return false
}

// Target returns the status an action transitions to.
func (sm *StateMachine) Target(action Action) (Status, error) {
	target, ok := sm.targets[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
	return target, nil
}
