package core

import "testing"

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from PRStatus
		to   PRStatus
		want bool
	}{
		{"pending to approved", StatusPending, StatusApproved, true},
		{"pending to changes requested", StatusPending, StatusChangesRequested, true},
		{"pending to merged", StatusPending, StatusMerged, false},
		{"pending to closed", StatusPending, StatusClosed, true},
		{"approved to merged", StatusApproved, StatusMerged, true},
		{"approved to pending", StatusApproved, StatusPending, true},
		{"approved to changes requested", StatusApproved, StatusChangesRequested, false},
		{"changes requested to pending", StatusChangesRequested, StatusPending, true},
		{"changes requested to merged", StatusChangesRequested, StatusMerged, false},
		{"changes requested to closed", StatusChangesRequested, StatusClosed, true},
		{"merged is absorbing", StatusMerged, StatusClosed, false},
		{"merged to pending", StatusMerged, StatusPending, false},
		{"closed is absorbing", StatusClosed, StatusApproved, false},
		{"closed to closed", StatusClosed, StatusClosed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("%s.CanTransitionTo(%s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestParsePRStatus(t *testing.T) {
	if _, err := ParsePRStatus("approved"); err != nil {
		t.Fatalf("ParsePRStatus(approved) returned error: %v", err)
	}
	if _, err := ParsePRStatus("bogus"); err == nil {
		t.Fatal("ParsePRStatus(bogus) did not fail")
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range Statuses {
		want := s == StatusMerged || s == StatusClosed
		if s.Terminal() != want {
			t.Errorf("%s.Terminal() = %v, want %v", s, s.Terminal(), want)
		}
	}
}
