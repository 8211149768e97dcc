package evaluation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateRequest struct {
	Kind       Kind      `json:"type"`
	Year       int       `json:"year"`
	Quarter    *int      `json:"quarter,omitempty"`
	ReviewerID string    `json:"reviewer_id"`
	Date       time.Time `json:"date"`
}

// Generator expands one create request into the dated records the review
// process needs. It never persists anything.
type Generator struct {
	Reviewers *Directory
	NewID     func() string
}

func NewGenerator(reviewers *Directory) *Generator {
	return &Generator{Reviewers: reviewers, NewID: uuid.NewString}
}

func (g *Generator) Generate(employeeID string, req CreateRequest) ([]Evaluation, error) {
	reviewer, err := g.check(req)
	if err != nil {
		return nil, err
	}

	base := Evaluation{
		EmployeeID:   employeeID,
		Status:       StatusDraft,
		ReviewerID:   reviewer.ID,
		ReviewerName: reviewer.Name,
		Date:         req.Date,
	}

	var records []Evaluation
	switch req.Kind {
	case KindQuarterly:
		for q := 1; q <= 4; q++ {
			records = append(records, g.record(base, fmt.Sprintf("%d-Q%d", req.Year, q), TypeQuarterly))
		}
	case KindAnnual:
		records = append(records,
			g.record(base, fmt.Sprintf("%d-Mid", req.Year), TypeMidYear),
			g.record(base, fmt.Sprintf("%d-End", req.Year), TypeAnnual),
		)
	case KindOptional:
		records = append(records, g.record(base, fmt.Sprintf("%d-Q%d", req.Year, *req.Quarter), TypeOptional))
	}
	return records, nil
}

func (g *Generator) record(base Evaluation, period, evalType string) Evaluation {
	newID := g.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	base.ID = newID()
	base.Period = period
	base.Type = evalType
	return base
}

func (g *Generator) check(req CreateRequest) (Reviewer, error) {
	verr := &ValidationError{}
	var reviewer Reviewer
	if strings.TrimSpace(req.ReviewerID) == "" {
		verr.Add("reviewer_id", "Reviewer is required")
	} else if r, ok := g.Reviewers.Lookup(req.ReviewerID); !ok {
		verr.Add("reviewer_id", "Reviewer does not exist")
	} else {
		reviewer = r
	}

	switch req.Kind {
	case KindQuarterly, KindAnnual:
	case KindOptional:
		if req.Quarter == nil {
			verr.Add("quarter", "Quarter is required for optional reviews")
		} else if *req.Quarter < MinQuarter || *req.Quarter > MaxQuarter {
			verr.Add("quarter", fmt.Sprintf("Quarter must be between %d-%d", MinQuarter, MaxQuarter))
		}
	default:
		verr.Add("type", "Type must be one of Quarterly, Annual, Optional")
	}

	if req.Year < 1000 || req.Year > 9999 {
		verr.Add("year", "Year must be a four-digit year")
	}
	if req.Date.IsZero() {
		verr.Add("date", "Date is required")
	}
	return reviewer, verr.errOrNil()
}
