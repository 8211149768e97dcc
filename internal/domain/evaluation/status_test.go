package evaluation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidTransitionTable(t *testing.T) {
	legal := map[Status][]Status{
		StatusDraft:              {StatusPendingHoDApproval, StatusRejected},
		StatusPendingHoDApproval: {StatusPendingHRApproval, StatusRejected, StatusDraft},
		StatusPendingHRApproval:  {StatusEmployeeReview, StatusRejected, StatusPendingHoDApproval},
		StatusEmployeeReview:     {StatusApproved, StatusRejected},
		StatusApproved:           {StatusCompleted},
		StatusRejected:           {StatusDraft},
		StatusCompleted:          {},
	}
	for _, from := range Statuses {
		for _, to := range Statuses {
			want := from == to
			for _, allowed := range legal[from] {
				if allowed == to {
					want = true
				}
			}
			assert.Equal(t, want, IsValidTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestIsValidTransitionExamples(t *testing.T) {
	assert.True(t, IsValidTransition(StatusDraft, StatusPendingHoDApproval))
	assert.False(t, IsValidTransition(StatusDraft, StatusCompleted))
	assert.False(t, IsValidTransition(StatusDraft, StatusApproved))
	assert.False(t, IsValidTransition(StatusApproved, StatusRejected))
	for _, s := range Statuses {
		assert.True(t, IsValidTransition(s, s))
		if s != StatusCompleted {
			assert.False(t, IsValidTransition(StatusCompleted, s))
		}
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.Empty(t, NextStatuses(StatusCompleted))
	for _, s := range Statuses {
		if s != StatusCompleted {
			assert.False(t, s.Terminal(), s)
		}
	}
}

func TestAllowedTransitionsStartsWithCurrent(t *testing.T) {
	assert.Equal(t, []Status{StatusDraft, StatusPendingHoDApproval, StatusRejected}, AllowedTransitions(StatusDraft))
	assert.Equal(t, []Status{StatusCompleted}, AllowedTransitions(StatusCompleted))
}

func TestNextStatusesReturnsCopy(t *testing.T) {
	next := NextStatuses(StatusDraft)
	next[0] = StatusCompleted
	assert.True(t, IsValidTransition(StatusDraft, StatusPendingHoDApproval))
}

func TestCheckTransitionError(t *testing.T) {
	require.NoError(t, CheckTransition(StatusApproved, StatusCompleted))

	err := CheckTransition(StatusApproved, StatusRejected)
	var illegal *IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, StatusApproved, illegal.From)
	assert.Equal(t, StatusRejected, illegal.To)
	assert.Equal(t, "Invalid status transition from Approved to Rejected", err.Error())
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"Draft":                StatusDraft,
		"Pending HoD Approval": StatusPendingHoDApproval,
		"PendingHoDApproval":   StatusPendingHoDApproval,
		"PENDING_HR_APPROVAL":  StatusPendingHRApproval,
		" employee review ":    StatusEmployeeReview,
		"completed":            StatusCompleted,
		"PENDING_HOD":          StatusPendingHoDApproval,
		"PENDING_HR":           StatusPendingHRApproval,
	}
	for raw, want := range cases {
		got, err := ParseStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseStatus("Archived")
	assert.Error(t, err)
}
