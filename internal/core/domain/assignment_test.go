package domain

import "testing"

func TestAssignmentStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to AssignmentStatus
		want     bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusPending, false},
		{StatusAccepted, StatusRejected, false},
		{StatusAccepted, StatusPending, false},
		{StatusRejected, StatusAccepted, false},
		{StatusRejected, StatusPending, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestAssignmentStatus_Terminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Fatalf("pending must not be terminal")
	}
	if !StatusAccepted.Terminal() || !StatusRejected.Terminal() {
		t.Fatalf("accepted and rejected must be terminal")
	}
}

func TestPrincipalKind_Valid(t *testing.T) {
	if !KindUser.Valid() || !KindAdmin.Valid() {
		t.Fatalf("known kinds must be valid")
	}
	if PrincipalKind("moderator").Valid() {
		t.Fatalf("unknown kind must be invalid")
	}
}
