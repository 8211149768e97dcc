package evaluation

import (
	"fmt"
	"strings"
)

type ReviewerRole string

const (
	RoleLineManager    ReviewerRole = "LM"
	RoleHeadOfDivision ReviewerRole = "HOD"
	RoleHR             ReviewerRole = "HR"
)

type Reviewer struct {
	ID   string       `json:"id" yaml:"id"`
	Name string       `json:"name" yaml:"name"`
	Role ReviewerRole `json:"role" yaml:"role"`
}

// Directory resolves reviewer ids to names. It is built once from
// configuration and shared read-only.
type Directory struct {
	reviewers []Reviewer
	byID      map[string]Reviewer
}

func DefaultReviewers() []Reviewer {
	return []Reviewer{
		{ID: "1", Name: "Michael Chen", Role: RoleLineManager},
		{ID: "2", Name: "Emily Rodriguez", Role: RoleHeadOfDivision},
		{ID: "3", Name: "Sarah Johnson", Role: RoleHR},
		{ID: "4", Name: "David Kim", Role: RoleLineManager},
		{ID: "5", Name: "Lisa Wang", Role: RoleHeadOfDivision},
	}
}

func NewDirectory(reviewers []Reviewer) (*Directory, error) {
	d := &Directory{
		reviewers: make([]Reviewer, 0, len(reviewers)),
		byID:      make(map[string]Reviewer, len(reviewers)),
	}
	for i, r := range reviewers {
		r.ID = strings.TrimSpace(r.ID)
		r.Name = strings.TrimSpace(r.Name)
		if r.ID == "" || r.Name == "" {
			return nil, fmt.Errorf("%w: reviewer %d needs an id and a name", ErrInvalidReviewerList, i)
		}
		switch r.Role {
		case RoleLineManager, RoleHeadOfDivision, RoleHR:
		default:
			return nil, fmt.Errorf("%w: reviewer %s has unknown role %q", ErrInvalidReviewerList, r.ID, r.Role)
		}
		if _, dup := d.byID[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate reviewer id %s", ErrInvalidReviewerList, r.ID)
		}
		d.byID[r.ID] = r
		d.reviewers = append(d.reviewers, r)
	}
	return d, nil
}

func (d *Directory) Lookup(id string) (Reviewer, bool) {
	if d == nil {
		return Reviewer{}, false
	}
	r, ok := d.byID[strings.TrimSpace(id)]
	return r, ok
}

func (d *Directory) List() []Reviewer {
	if d == nil {
		return nil
	}
	out := make([]Reviewer, len(d.reviewers))
	copy(out, d.reviewers)
	return out
}
