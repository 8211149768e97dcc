package evaluation

import "time"

type Evaluation struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	Type         string    `json:"type"`
	Period       string    `json:"period"`
	Status       Status    `json:"status"`
	ReviewerID   string    `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer"`
	Date         time.Time `json:"date"`
	Score        *float64  `json:"score,omitempty"`
	Revision     int       `json:"revision"`
}

type Objective struct {
	ID           string          `json:"id"`
	EvaluationID string          `json:"evaluation_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Target       int             `json:"target"`
	Achieved     int             `json:"achieved"`
	Weight       int             `json:"weight"`
	Status       ObjectiveStatus `json:"status"`
}

func (o Objective) Score() float64 {
	return ItemScore(o.Achieved, o.Target)
}

func (o Objective) ScoreWeight() int {
	return o.Weight
}

type Competency struct {
	ID            string   `json:"id"`
	EvaluationID  string   `json:"evaluation_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      Category `json:"category"`
	RequiredLevel int      `json:"required_level"`
	ActualLevel   int      `json:"actual_level"`
	Weight        int      `json:"weight"`
}

func (c Competency) Score() float64 {
	return ItemScore(c.ActualLevel, c.RequiredLevel)
}

func (c Competency) ScoreWeight() int {
	return c.Weight
}

type ObjectiveDraft struct {
	Title       string          `json:"title" validate:"notblank"`
	Description string          `json:"description" validate:"notblank"`
	Target      int             `json:"target" validate:"min=1,max=10"`
	Achieved    int             `json:"achieved" validate:"min=1,max=10"`
	Weight      int             `json:"weight" validate:"min=1,max=100"`
	Status      ObjectiveStatus `json:"status" validate:"omitempty,oneof=not-started in-progress completed"`
}

type CompetencyDraft struct {
	Name          string   `json:"name" validate:"notblank"`
	Description   string   `json:"description" validate:"notblank"`
	Category      Category `json:"category" validate:"omitempty,oneof=Core Leadership Functional"`
	RequiredLevel int      `json:"required_level" validate:"min=1,max=10"`
	ActualLevel   int      `json:"actual_level" validate:"min=1,max=10"`
	Weight        int      `json:"weight" validate:"min=1,max=100"`
}

// Filter narrows a cross-employee evaluation query. Empty fields match
// everything; Type compares case-insensitively.
type Filter struct {
	EmployeeID string
	Type       string
	Status     Status
	Period     string
}

// Edit is the full set of fields the evaluation edit form submits.
// Score is stored rounded half away from zero to one decimal, the same
// precision every computed score carries.
type Edit struct {
	Type       string
	Period     string
	ReviewerID string
	Date       time.Time
	Status     Status
	Score      *float64
}

type Snapshot struct {
	Evaluation   Evaluation   `json:"evaluation"`
	Objectives   []Objective  `json:"objectives"`
	Competencies []Competency `json:"competencies"`
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		Evaluation:   s.Evaluation,
		Objectives:   make([]Objective, len(s.Objectives)),
		Competencies: make([]Competency, len(s.Competencies)),
	}
	if s.Evaluation.Score != nil {
		score := *s.Evaluation.Score
		out.Evaluation.Score = &score
	}
	copy(out.Objectives, s.Objectives)
	copy(out.Competencies, s.Competencies)
	return out
}

type Summary struct {
	ObjectiveScore     float64  `json:"objective_score"`
	CompetencyScore    float64  `json:"competency_score"`
	OverallScore       *float64 `json:"overall_score,omitempty"`
	AllowedTransitions []Status `json:"allowed_transitions"`
}

type Detail struct {
	Snapshot
	Summary Summary `json:"summary"`
}
