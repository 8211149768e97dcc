package evaluation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hreval/internal/domain/evaluation")

type Service struct {
	Store     StoreAPI
	Reviewers *Directory
	Generator *Generator
	Observer  Observer
}

func NewService(store StoreAPI, reviewers *Directory, observer Observer) *Service {
	return &Service{Store: store, Reviewers: reviewers, Generator: NewGenerator(reviewers), Observer: observer}
}

func (s *Service) ListReviewers() []Reviewer {
	return s.Reviewers.List()
}

func (s *Service) Create(ctx context.Context, employeeID string, req CreateRequest) ([]Evaluation, error) {
	ctx, span := tracer.Start(ctx, "evaluation.create", trace.WithAttributes(
		attribute.String("employee.id", employeeID),
		attribute.String("evaluation.kind", string(req.Kind)),
	))
	defer span.End()

	records, err := s.create(ctx, employeeID, req)
	if err != nil {
		endSpan(span, err)
		return nil, err
	}
	if s.Observer != nil {
		s.Observer.ObserveCreated(string(req.Kind), len(records))
	}
	slog.Debug("evaluations created", "employeeId", employeeID, "kind", req.Kind, "count", len(records))
	return records, nil
}

func (s *Service) create(ctx context.Context, employeeID string, req CreateRequest) ([]Evaluation, error) {
	exists, err := s.Store.EmployeeExists(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("lookup employee: %w", err)
	}
	if !exists {
		return nil, ErrEmployeeNotFound
	}
	records, err := s.Generator.Generate(employeeID, req)
	if err != nil {
		return nil, err
	}
	if err := s.Store.AppendEvaluations(ctx, employeeID, records); err != nil {
		return nil, fmt.Errorf("append evaluations: %w", err)
	}
	return records, nil
}

func (s *Service) List(ctx context.Context, employeeID string) ([]Evaluation, error) {
	exists, err := s.Store.EmployeeExists(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("lookup employee: %w", err)
	}
	if !exists {
		return nil, ErrEmployeeNotFound
	}
	return s.Store.ListEvaluations(ctx, employeeID)
}

// Query lists evaluations across employees, one page at a time.
func (s *Service) Query(ctx context.Context, filter Filter, limit, offset int) ([]Evaluation, int, error) {
	ctx, span := tracer.Start(ctx, "evaluation.query", trace.WithAttributes(
		attribute.String("filter.status", string(filter.Status)),
		attribute.Int("page.limit", limit),
	))
	defer span.End()

	records, total, err := s.Store.QueryEvaluations(ctx, filter, limit, offset)
	if err != nil {
		endSpan(span, err)
		return nil, 0, fmt.Errorf("query evaluations: %w", err)
	}
	return records, total, nil
}

func (s *Service) Get(ctx context.Context, evaluationID string) (Detail, error) {
	agg, err := s.load(ctx, evaluationID, nil)
	if err != nil {
		return Detail{}, err
	}
	return agg.Detail(), nil
}

// Report renders the evaluation detail as a PDF.
func (s *Service) Report(ctx context.Context, evaluationID string, w io.Writer) error {
	ctx, span := tracer.Start(ctx, "evaluation.report", trace.WithAttributes(attribute.String("evaluation.id", evaluationID)))
	defer span.End()

	detail, err := s.Get(ctx, evaluationID)
	if err != nil {
		endSpan(span, err)
		return err
	}
	name, err := s.Store.EmployeeName(ctx, detail.Evaluation.EmployeeID)
	if err != nil {
		endSpan(span, err)
		return err
	}
	if err := WriteReport(w, name, detail); err != nil {
		endSpan(span, err)
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func (s *Service) UpdateStatus(ctx context.Context, evaluationID string, to Status, expected *int) (Evaluation, error) {
	var from Status
	var out Evaluation
	err := s.mutate(ctx, "update_status", evaluationID, expected, func(agg *Aggregate) error {
		from = agg.state.Evaluation.Status
		updated, err := agg.UpdateStatus(to)
		out = updated
		return err
	})
	s.observeTransition(evaluationID, from, to, err)
	return out, err
}

func (s *Service) Update(ctx context.Context, evaluationID string, edit Edit, expected *int) (Evaluation, error) {
	var from Status
	var out Evaluation
	err := s.mutate(ctx, "update", evaluationID, expected, func(agg *Aggregate) error {
		from = agg.state.Evaluation.Status
		updated, err := agg.Update(edit)
		out = updated
		return err
	})
	if edit.Status != "" && from != edit.Status {
		s.observeTransition(evaluationID, from, edit.Status, err)
	}
	return out, err
}

func (s *Service) Delete(ctx context.Context, evaluationID string, expected *int) error {
	ctx, span := tracer.Start(ctx, "evaluation.delete", trace.WithAttributes(attribute.String("evaluation.id", evaluationID)))
	defer span.End()

	agg, err := s.load(ctx, evaluationID, expected)
	if err != nil {
		endSpan(span, err)
		return err
	}
	ev := agg.state.Evaluation
	if err := s.Store.RemoveEvaluation(ctx, ev.EmployeeID, ev.ID, ev.Revision); err != nil {
		endSpan(span, err)
		return err
	}
	slog.Debug("evaluation deleted", "evaluationId", evaluationID, "employeeId", ev.EmployeeID)
	return nil
}

func (s *Service) AddObjective(ctx context.Context, evaluationID string, draft ObjectiveDraft, expected *int) (Objective, error) {
	var out Objective
	err := s.mutate(ctx, "add_objective", evaluationID, expected, func(agg *Aggregate) error {
		obj, err := agg.AddObjective(draft)
		out = obj
		return err
	})
	return out, err
}

func (s *Service) UpdateObjective(ctx context.Context, evaluationID, objectiveID string, draft ObjectiveDraft, expected *int) (Objective, error) {
	var out Objective
	err := s.mutate(ctx, "update_objective", evaluationID, expected, func(agg *Aggregate) error {
		obj, err := agg.UpdateObjective(objectiveID, draft)
		out = obj
		return err
	})
	return out, err
}

func (s *Service) DeleteObjective(ctx context.Context, evaluationID, objectiveID string, expected *int) error {
	err := s.mutate(ctx, "delete_objective", evaluationID, expected, func(agg *Aggregate) error {
		return agg.DeleteObjective(objectiveID)
	})
	return err
}

func (s *Service) AddCompetency(ctx context.Context, evaluationID string, draft CompetencyDraft, expected *int) (Competency, error) {
	var out Competency
	err := s.mutate(ctx, "add_competency", evaluationID, expected, func(agg *Aggregate) error {
		comp, err := agg.AddCompetency(draft)
		out = comp
		return err
	})
	return out, err
}

func (s *Service) UpdateCompetency(ctx context.Context, evaluationID, competencyID string, draft CompetencyDraft, expected *int) (Competency, error) {
	var out Competency
	err := s.mutate(ctx, "update_competency", evaluationID, expected, func(agg *Aggregate) error {
		comp, err := agg.UpdateCompetency(competencyID, draft)
		out = comp
		return err
	})
	return out, err
}

func (s *Service) DeleteCompetency(ctx context.Context, evaluationID, competencyID string, expected *int) error {
	err := s.mutate(ctx, "delete_competency", evaluationID, expected, func(agg *Aggregate) error {
		return agg.DeleteCompetency(competencyID)
	})
	return err
}

func (s *Service) load(ctx context.Context, evaluationID string, expected *int) (*Aggregate, error) {
	snap, err := s.Store.LoadSnapshot(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	if expected != nil && *expected != snap.Evaluation.Revision {
		return nil, ErrRevisionConflict
	}
	agg := NewAggregate(snap, s.Reviewers)
	if s.Generator != nil && s.Generator.NewID != nil {
		agg.newID = s.Generator.NewID
	}
	return agg, nil
}

// mutate loads the aggregate, applies fn and stores the result. Nothing is
// written when fn fails.
func (s *Service) mutate(ctx context.Context, op, evaluationID string, expected *int, fn func(*Aggregate) error) error {
	ctx, span := tracer.Start(ctx, "evaluation."+op, trace.WithAttributes(attribute.String("evaluation.id", evaluationID)))
	defer span.End()

	agg, err := s.load(ctx, evaluationID, expected)
	if err != nil {
		endSpan(span, err)
		return err
	}
	base := agg.Revision()
	if err := fn(agg); err != nil {
		endSpan(span, err)
		return err
	}
	if agg.Revision() == base {
		return nil
	}
	if err := s.Store.ReplaceSnapshot(ctx, agg.state, base); err != nil {
		endSpan(span, err)
		return err
	}
	span.SetAttributes(attribute.Int("evaluation.revision", agg.Revision()))
	return nil
}

func (s *Service) observeTransition(evaluationID string, from, to Status, err error) {
	if from == "" {
		return
	}
	var illegal *IllegalTransitionError
	if errors.As(err, &illegal) {
		slog.Warn("evaluation transition rejected", "evaluationId", evaluationID, "from", illegal.From, "to", illegal.To)
		if s.Observer != nil {
			s.Observer.ObserveTransition(string(from), string(to), false)
		}
		return
	}
	if err == nil && s.Observer != nil && from != to {
		s.Observer.ObserveTransition(string(from), string(to), true)
	}
}

func endSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
