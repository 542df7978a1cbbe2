package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoanStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		name string
		from LoanStatus
		to   LoanStatus
		want bool
	}{
		{"on_loan to overdue", StatusOnLoan, StatusOverdue, true},
		{"on_loan to returned", StatusOnLoan, StatusReturned, true},
		{"overdue to returned", StatusOverdue, StatusReturned, true},
		{"returned is terminal", StatusReturned, StatusOnLoan, false},
		{"returned cannot go overdue", StatusReturned, StatusOverdue, false},
		{"overdue cannot revert", StatusOverdue, StatusOnLoan, false},
		{"no self transition", StatusOnLoan, StatusOnLoan, false},
		{"unknown status has no transitions", LoanStatus("bogus"), StatusReturned, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestLoanStatus_Open(t *testing.T) {
	assert.True(t, StatusOnLoan.Open())
	assert.True(t, StatusOverdue.Open())
	assert.False(t, StatusReturned.Open())
}

func TestSession_IsAdmin(t *testing.T) {
	assert.True(t, (&Session{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&Session{Role: RoleMember}).IsAdmin())

	var missing *Session
	assert.False(t, missing.IsAdmin())
}
