package registration

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"checked-in to in-consult", StatusCheckedIn, StatusInConsult, true},
		{"in-consult to waiting-donation", StatusInConsult, StatusWaitingDonation, true},
		{"in-consult back to registered on deferral", StatusInConsult, StatusRegistered, true},
		{"waiting-donation to donated", StatusWaitingDonation, StatusDonated, true},
		{"donated to completed", StatusDonated, StatusCompleted, true},
		{"registered straight to in-consult", StatusRegistered, StatusInConsult, false},
		{"skip consult entirely", StatusCheckedIn, StatusWaitingDonation, false},
		{"backwards from waiting", StatusWaitingDonation, StatusCheckedIn, false},
		{"completed is terminal", StatusCompleted, StatusRegistered, false},
		{"cancelled is terminal", StatusCancelled, StatusRegistered, false},
		{"cancel mid-flow", StatusInConsult, StatusCancelled, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{
		StatusPendingApproval, StatusRegistered, StatusCheckedIn, StatusInConsult,
		StatusWaitingDonation, StatusDonated, StatusCompleted, StatusCancelled,
	} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("ARCHIVED").Valid() {
		t.Error("unknown status should not be valid")
	}
	if Status("").Valid() {
		t.Error("empty status should not be valid")
	}
}
