package claims

import "testing"

func TestMemoryStore_Contract(t *testing.T) {
	RunStoreContract(t, NewMemoryStore())
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusDraft, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusCompleted, StatusApproved, true},
		{StatusCompleted, StatusRejected, true},
		{StatusDraft, StatusCompleted, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusDraft, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}
