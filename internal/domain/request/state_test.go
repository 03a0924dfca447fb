package request

import (
	"errors"
	"testing"
	"time"

	"sinfopers/internal/apperr"
)

func TestNext_AllowedTransitions(t *testing.T) {
	tests := []struct {
		from   Status
		action Action
		want   Status
	}{
		{StatusPendingHR, ActionHRValid, StatusValid},
		{StatusPendingHR, ActionHRInvalid, StatusInvalid},
		{StatusPendingHR, ActionExpire, StatusInvalid},
		{StatusValid, ActionApprove, StatusApproved},
		{StatusValid, ActionReject, StatusRejected},
	}
	for _, tt := range tests {
		got, err := Next(tt.from, tt.action)
		if err != nil {
			t.Fatalf("Next(%s, %s) err: %v", tt.from, tt.action, err)
		}
		if got != tt.want {
			t.Fatalf("Next(%s, %s) = %s, want %s", tt.from, tt.action, got, tt.want)
		}
	}
}

func TestNext_TerminalStatusesRefuseEverything(t *testing.T) {
	actions := []Action{ActionHRValid, ActionHRInvalid, ActionExpire, ActionApprove, ActionReject}
	for _, s := range []Status{StatusInvalid, StatusApproved, StatusRejected} {
		if !IsTerminal(s) {
			t.Fatalf("%s should be terminal", s)
		}
		for _, a := range actions {
			if _, err := Next(s, a); !errors.Is(err, apperr.ErrState) {
				t.Fatalf("Next(%s, %s) err = %v, want state error", s, a, err)
			}
		}
	}
}

func TestNext_LeadershipOnlyFromValid(t *testing.T) {
	for _, a := range []Action{ActionApprove, ActionReject} {
		if _, err := Next(StatusPendingHR, a); !errors.Is(err, apperr.ErrState) {
			t.Fatalf("leadership %s on pending_hr should be refused, got %v", a, err)
		}
	}
	for _, a := range []Action{ActionHRValid, ActionHRInvalid, ActionExpire} {
		if _, err := Next(StatusValid, a); !errors.Is(err, apperr.ErrState) {
			t.Fatalf("%s on valid should be refused, got %v", a, err)
		}
	}
}

func TestRequiresNote(t *testing.T) {
	if !RequiresNote(ActionHRInvalid) || !RequiresNote(ActionReject) {
		t.Fatal("invalid and reject need a note")
	}
	if RequiresNote(ActionHRValid) || RequiresNote(ActionApprove) || RequiresNote(ActionExpire) {
		t.Fatal("valid, approve and expire do not need a caller note")
	}
}

func TestDayCount(t *testing.T) {
	d := func(s string) time.Time {
		v, _ := time.Parse("2006-01-02", s)
		return v
	}
	tests := []struct {
		start, end string
		want       int
	}{
		{"2024-03-01", "2024-03-01", 1},
		{"2024-03-01", "2024-03-03", 3},
		{"2024-02-28", "2024-03-01", 3}, // leap year
		{"2024-12-31", "2025-01-02", 3},
	}
	for _, tt := range tests {
		if got := DayCount(d(tt.start), d(tt.end)); got != tt.want {
			t.Fatalf("DayCount(%s, %s) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}
