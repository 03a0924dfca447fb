package request

import "sinfopers/internal/apperr"

type Status string

const (
	StatusPendingHR Status = "pending_hr"
	StatusValid     Status = "valid"
	StatusInvalid   Status = "invalid"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

var Statuses = []Status{StatusPendingHR, StatusValid, StatusInvalid, StatusApproved, StatusRejected}

func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

type Action string

const (
	ActionHRValid   Action = "hr_valid"
	ActionHRInvalid Action = "hr_invalid"
	ActionExpire    Action = "expire"
	ActionApprove   Action = "approve"
	ActionReject    Action = "reject"
)

type transitionKey struct {
	from   Status
	action Action
}

// transitions is the whole state machine. Anything absent is refused.
var transitions = map[transitionKey]Status{
	{StatusPendingHR, ActionHRValid}:   StatusValid,
	{StatusPendingHR, ActionHRInvalid}: StatusInvalid,
	{StatusPendingHR, ActionExpire}:    StatusInvalid,
	{StatusValid, ActionApprove}:       StatusApproved,
	{StatusValid, ActionReject}:        StatusRejected,
}

// noteRequired lists actions that must carry a reviewer note.
var noteRequired = map[Action]bool{
	ActionHRInvalid: true,
	ActionReject:    true,
}

// Next returns the status reached by applying action to from.
func Next(from Status, action Action) (Status, error) {
	to, ok := transitions[transitionKey{from, action}]
	if !ok {
		return "", apperr.State("cannot apply %s to a request in status %s", action, from)
	}
	return to, nil
}

func RequiresNote(a Action) bool { return noteRequired[a] }

// IsTerminal reports whether no action can move a request out of s.
func IsTerminal(s Status) bool {
	for k := range transitions {
		if k.from == s {
			return false
		}
	}
	return true
}
