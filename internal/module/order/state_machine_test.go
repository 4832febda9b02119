package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agrimart/server/internal/module/user"
)

func TestStateMachine_PermittedActions(t *testing.T) {
	sm := NewStateMachine()

	tests := []struct {
		role     user.UserType
		status   Status
		expected []Action
	}{
		{user.UserTypeSeller, StatusPending, []Action{ActionAccept, ActionReject}},
		{user.UserTypeSeller, StatusAccepted, []Action{ActionComplete, ActionReject}},
		{user.UserTypeSeller, StatusRejected, []Action{ActionAccept}},
		{user.UserTypeSeller, StatusCompleted, []Action{}},
		{user.UserTypeBuyer, StatusPending, []Action{ActionCancel}},
		{user.UserTypeBuyer, StatusAccepted, []Action{}},
		{user.UserTypeBuyer, StatusRejected, []Action{}},
		{user.UserTypeBuyer, StatusCompleted, []Action{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"_"+string(tt.status), func(t *testing.T) {
			assert.ElementsMatch(t, tt.expected, sm.PermittedActions(tt.role, tt.status))
		})
	}
}

func TestStateMachine_UnknownPairsAreEmpty(t *testing.T) {
	sm := NewStateMachine()

	assert.Empty(t, sm.PermittedActions(user.UserType("admin"), StatusPending))
	assert.Empty(t, sm.PermittedActions(user.UserTypeBuyer, Status("SHIPPED")))
	assert.Empty(t, sm.PermittedActions(user.UserType(""), Status("")))
}

func TestStateMachine_CanPerform(t *testing.T) {
	sm := NewStateMachine()

	tests := []struct {
		name    string
		role    user.UserType
		status  Status
		action  Action
		allowed bool
	}{
		{"seller accepts pending", user.UserTypeSeller, StatusPending, ActionAccept, true},
		{"seller rejects pending", user.UserTypeSeller, StatusPending, ActionReject, true},
		{"seller completes pending", user.UserTypeSeller, StatusPending, ActionComplete, false},
		{"seller cancels pending", user.UserTypeSeller, StatusPending, ActionCancel, false},
		{"seller completes accepted", user.UserTypeSeller, StatusAccepted, ActionComplete, true},
		{"seller rejects accepted", user.UserTypeSeller, StatusAccepted, ActionReject, true},
		{"seller accepts accepted", user.UserTypeSeller, StatusAccepted, ActionAccept, false},
		{"seller re-accepts rejected", user.UserTypeSeller, StatusRejected, ActionAccept, true},
		{"seller rejects rejected", user.UserTypeSeller, StatusRejected, ActionReject, false},
		{"seller acts on completed", user.UserTypeSeller, StatusCompleted, ActionReject, false},
		{"buyer cancels pending", user.UserTypeBuyer, StatusPending, ActionCancel, true},
		{"buyer accepts pending", user.UserTypeBuyer, StatusPending, ActionAccept, false},
		{"buyer cancels accepted", user.UserTypeBuyer, StatusAccepted, ActionCancel, false},
		{"buyer cancels rejected", user.UserTypeBuyer, StatusRejected, ActionCancel, false},
		{"buyer acts on completed", user.UserTypeBuyer, StatusCompleted, ActionCancel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, sm.CanPerform(tt.role, tt.status, tt.action))
		})
	}
}

func TestStateMachine_Target(t *testing.T) {
	sm := NewStateMachine()

	tests := []struct {
		action Action
		target Status
	}{
		{ActionAccept, StatusAccepted},
		{ActionReject, StatusRejected},
		{ActionCancel, StatusRejected},
		{ActionComplete, StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			target, err := sm.Target(tt.action)
			assert.NoError(t, err)
			assert.Equal(t, tt.target, target)
		})
	}

	_, err := sm.Target(Action("ship"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusAccepted.IsValid())
	assert.True(t, StatusRejected.IsValid())
	assert.True(t, StatusCompleted.IsValid())
	assert.False(t, Status("CANCELLED").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestAction_IsValid(t *testing.T) {
	assert.True(t, ActionAccept.IsValid())
	assert.True(t, ActionReject.IsValid())
	assert.True(t, ActionCancel.IsValid())
	assert.True(t, ActionComplete.IsValid())
	assert.False(t, Action("ship").IsValid())
}
