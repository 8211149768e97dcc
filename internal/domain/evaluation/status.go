package evaluation

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusDraft              Status = "Draft"
	StatusPendingHoDApproval Status = "Pending HoD Approval"
	StatusPendingHRApproval  Status = "Pending HR Approval"
	StatusEmployeeReview     Status = "Employee Review"
	StatusApproved           Status = "Approved"
	StatusRejected           Status = "Rejected"
	StatusCompleted          Status = "Completed"
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{
	StatusDraft,
	StatusPendingHoDApproval,
	StatusPendingHRApproval,
	StatusEmployeeReview,
	StatusApproved,
	StatusRejected,
	StatusCompleted,
}

// transitions maps each status to the statuses it may move to next.
// Self transitions are legal and not listed.
var transitions = map[Status][]Status{
	StatusDraft:              {StatusPendingHoDApproval, StatusRejected},
	StatusPendingHoDApproval: {StatusPendingHRApproval, StatusRejected, StatusDraft},
	StatusPendingHRApproval:  {StatusEmployeeReview, StatusRejected, StatusPendingHoDApproval},
	StatusEmployeeReview:     {StatusApproved, StatusRejected},
	StatusApproved:           {StatusCompleted},
	StatusRejected:           {StatusDraft},
	StatusCompleted:          {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

func (s Status) String() string {
	return string(s)
}

// statusAliases holds the short upper snake forms older clients send.
var statusAliases = map[string]Status{
	"pendinghod": StatusPendingHoDApproval,
	"pendinghr":  StatusPendingHRApproval,
}

// ParseStatus accepts the display label ("Pending HoD Approval"), the compact
// form ("PendingHoDApproval"), the upper snake form ("PENDING_HOD_APPROVAL")
// or its short alias ("PENDING_HOD").
func ParseStatus(raw string) (Status, error) {
	key := statusKey(raw)
	if s, ok := statusAliases[key]; ok {
		return s, nil
	}
	for _, s := range Statuses {
		if statusKey(string(s)) == key {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown evaluation status %q", raw)
}

func statusKey(raw string) string {
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(raw)))
}

func IsValidTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from `from` in one step,
// excluding `from` itself.
func NextStatuses(from Status) []Status {
	next := transitions[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// AllowedTransitions is the option list an edit form offers: the current
// status first, then every legal next status.
func AllowedTransitions(from Status) []Status {
	return append([]Status{from}, NextStatuses(from)...)
}

func CheckTransition(from, to Status) error {
	if !IsValidTransition(from, to) {
		return &IllegalTransitionError{From: from, To: to}
	}
	return nil
}
