package evaluation

import (
	"strings"

	"github.com/google/uuid"
)

// Aggregate is the consistency boundary around one evaluation and its
// objectives and competencies. Every mutating method either applies the
// whole change or leaves the state untouched.
type Aggregate struct {
	state     Snapshot
	reviewers *Directory
	newID     func() string
}

func NewAggregate(snap Snapshot, reviewers *Directory) *Aggregate {
	return &Aggregate{state: snap.clone(), reviewers: reviewers, newID: uuid.NewString}
}

func (a *Aggregate) Snapshot() Snapshot {
	return a.state.clone()
}

func (a *Aggregate) Evaluation() Evaluation {
	return a.state.clone().Evaluation
}

func (a *Aggregate) Revision() int {
	return a.state.Evaluation.Revision
}

func (a *Aggregate) touch() {
	a.state.Evaluation.Revision++
}

func (a *Aggregate) UpdateStatus(to Status) (Evaluation, error) {
	current := a.state.Evaluation
	if err := checkComplete(current); err != nil {
		return Evaluation{}, err
	}
	if !to.Valid() {
		return Evaluation{}, fieldError("status", "Status is not recognised")
	}
	if err := CheckTransition(current.Status, to); err != nil {
		return Evaluation{}, err
	}
	if to != current.Status {
		a.state.Evaluation.Status = to
		a.touch()
	}
	return a.Evaluation(), nil
}

// Update applies an edit form submission: completeness first, then the
// transition check against the stored status, then the remaining fields.
// An empty status keeps the current one.
func (a *Aggregate) Update(edit Edit) (Evaluation, error) {
	proposed := a.state.Evaluation
	proposed.Type = strings.TrimSpace(edit.Type)
	proposed.Period = strings.TrimSpace(edit.Period)
	proposed.ReviewerID = strings.TrimSpace(edit.ReviewerID)
	proposed.Date = edit.Date
	if edit.Status != "" {
		proposed.Status = edit.Status
	}
	if err := checkComplete(proposed); err != nil {
		return Evaluation{}, err
	}
	if !proposed.Status.Valid() {
		return Evaluation{}, fieldError("status", "Status is not recognised")
	}
	if err := CheckTransition(a.state.Evaluation.Status, proposed.Status); err != nil {
		return Evaluation{}, err
	}

	verr := &ValidationError{}
	if !knownType(proposed.Type) {
		verr.Add("type", "Type must be one of "+strings.Join(Types, ", "))
	}
	if reviewer, ok := a.reviewers.Lookup(proposed.ReviewerID); ok {
		proposed.ReviewerName = reviewer.Name
	} else {
		verr.Add("reviewer_id", "Reviewer does not exist")
	}
	if edit.Score != nil {
		if *edit.Score < 0 || *edit.Score > MaxScore {
			verr.Add("score", "Score must be between 0-10")
		} else {
			score := RoundScore(*edit.Score)
			proposed.Score = &score
		}
	}
	if err := verr.errOrNil(); err != nil {
		return Evaluation{}, err
	}

	a.state.Evaluation = proposed
	a.touch()
	return a.Evaluation(), nil
}

func (a *Aggregate) Objectives() []Objective {
	return a.state.clone().Objectives
}

func (a *Aggregate) Competencies() []Competency {
	return a.state.clone().Competencies
}

func (a *Aggregate) AddObjective(draft ObjectiveDraft) (Objective, error) {
	obj, err := a.buildObjective(a.newID(), draft)
	if err != nil {
		return Objective{}, err
	}
	a.state.Objectives = append(a.state.Objectives, obj)
	a.touch()
	return obj, nil
}

func (a *Aggregate) UpdateObjective(id string, draft ObjectiveDraft) (Objective, error) {
	idx := a.objectiveIndex(id)
	if idx < 0 {
		return Objective{}, ErrObjectiveNotFound
	}
	obj, err := a.buildObjective(id, draft)
	if err != nil {
		return Objective{}, err
	}
	a.state.Objectives[idx] = obj
	a.touch()
	return obj, nil
}

func (a *Aggregate) DeleteObjective(id string) error {
	idx := a.objectiveIndex(id)
	if idx < 0 {
		return ErrObjectiveNotFound
	}
	a.state.Objectives = append(a.state.Objectives[:idx:idx], a.state.Objectives[idx+1:]...)
	a.touch()
	return nil
}

func (a *Aggregate) AddCompetency(draft CompetencyDraft) (Competency, error) {
	comp, err := a.buildCompetency(a.newID(), draft)
	if err != nil {
		return Competency{}, err
	}
	a.state.Competencies = append(a.state.Competencies, comp)
	a.touch()
	return comp, nil
}

func (a *Aggregate) UpdateCompetency(id string, draft CompetencyDraft) (Competency, error) {
	idx := a.competencyIndex(id)
	if idx < 0 {
		return Competency{}, ErrCompetencyNotFound
	}
	comp, err := a.buildCompetency(id, draft)
	if err != nil {
		return Competency{}, err
	}
	a.state.Competencies[idx] = comp
	a.touch()
	return comp, nil
}

func (a *Aggregate) DeleteCompetency(id string) error {
	idx := a.competencyIndex(id)
	if idx < 0 {
		return ErrCompetencyNotFound
	}
	a.state.Competencies = append(a.state.Competencies[:idx:idx], a.state.Competencies[idx+1:]...)
	a.touch()
	return nil
}

func (a *Aggregate) OverallObjectiveScore() float64 {
	return CompositeScore(a.state.Objectives)
}

func (a *Aggregate) OverallCompetencyScore() float64 {
	return CompositeScore(a.state.Competencies)
}

func (a *Aggregate) Summary() Summary {
	summary := Summary{
		ObjectiveScore:     a.OverallObjectiveScore(),
		CompetencyScore:    a.OverallCompetencyScore(),
		AllowedTransitions: AllowedTransitions(a.state.Evaluation.Status),
	}
	if a.state.Evaluation.Score != nil {
		score := *a.state.Evaluation.Score
		summary.OverallScore = &score
	}
	return summary
}

func (a *Aggregate) Detail() Detail {
	return Detail{Snapshot: a.Snapshot(), Summary: a.Summary()}
}

func (a *Aggregate) buildObjective(id string, draft ObjectiveDraft) (Objective, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	if err := checkDraft(draft); err != nil {
		return Objective{}, err
	}
	if draft.Status == "" {
		draft.Status = ObjectiveNotStarted
	}
	return Objective{
		ID:           id,
		EvaluationID: a.state.Evaluation.ID,
		Title:        draft.Title,
		Description:  draft.Description,
		Target:       draft.Target,
		Achieved:     draft.Achieved,
		Weight:       draft.Weight,
		Status:       draft.Status,
	}, nil
}

func (a *Aggregate) buildCompetency(id string, draft CompetencyDraft) (Competency, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Description = strings.TrimSpace(draft.Description)
	if err := checkDraft(draft); err != nil {
		return Competency{}, err
	}
	if draft.Category == "" {
		draft.Category = CategoryCore
	}
	return Competency{
		ID:            id,
		EvaluationID:  a.state.Evaluation.ID,
		Name:          draft.Name,
		Description:   draft.Description,
		Category:      draft.Category,
		RequiredLevel: draft.RequiredLevel,
		ActualLevel:   draft.ActualLevel,
		Weight:        draft.Weight,
	}, nil
}

func (a *Aggregate) objectiveIndex(id string) int {
	for i, obj := range a.state.Objectives {
		if obj.ID == id {
			return i
		}
	}
	return -1
}

func (a *Aggregate) competencyIndex(id string) int {
	for i, comp := range a.state.Competencies {
		if comp.ID == id {
			return i
		}
	}
	return -1
}
