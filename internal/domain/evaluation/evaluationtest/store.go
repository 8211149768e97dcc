// Package evaluationtest provides an in-memory evaluation store for tests.
package evaluationtest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"hreval/internal/domain/evaluation"
)

type Store struct {
	mu        sync.Mutex
	employees map[string]string
	order     []string
	snaps     map[string]evaluation.Snapshot
	Writes    int
}

func NewStore() *Store {
	return &Store{
		employees: map[string]string{},
		snaps:     map[string]evaluation.Snapshot{},
	}
}

func (s *Store) AddEmployee(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[id] = name
}

// Put seeds a snapshot directly, bypassing revision checks.
func (s *Store) Put(snap evaluation.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snaps[snap.Evaluation.ID]; !ok {
		s.order = append(s.order, snap.Evaluation.ID)
	}
	s.snaps[snap.Evaluation.ID] = snap
}

func (s *Store) Snapshot(id string) (evaluation.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[id]
	return snap, ok
}

func (s *Store) EmployeeExists(_ context.Context, employeeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.employees[employeeID]
	return ok, nil
}

func (s *Store) EmployeeName(_ context.Context, employeeID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.employees[employeeID]
	if !ok {
		return "", evaluation.ErrEmployeeNotFound
	}
	return name, nil
}

func (s *Store) ListEvaluations(_ context.Context, employeeID string) ([]evaluation.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matching(evaluation.Filter{EmployeeID: employeeID}), nil
}

func (s *Store) QueryEvaluations(_ context.Context, filter evaluation.Filter, limit, offset int) ([]evaluation.Evaluation, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.matching(filter)
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

// matching mirrors the SQL store: newest date first, insertion order among
// equal dates.
func (s *Store) matching(filter evaluation.Filter) []evaluation.Evaluation {
	var out []evaluation.Evaluation
	for _, id := range s.order {
		snap, ok := s.snaps[id]
		if !ok {
			continue
		}
		ev := snap.Evaluation
		if filter.EmployeeID != "" && ev.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Type != "" && !strings.EqualFold(ev.Type, filter.Type) {
			continue
		}
		if filter.Status != "" && ev.Status != filter.Status {
			continue
		}
		if filter.Period != "" && ev.Period != filter.Period {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (s *Store) LoadSnapshot(_ context.Context, evaluationID string) (evaluation.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[evaluationID]
	if !ok {
		return evaluation.Snapshot{}, evaluation.ErrNotFound
	}
	return snap, nil
}

func (s *Store) AppendEvaluations(_ context.Context, employeeID string, evaluations []evaluation.Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range evaluations {
		ev.EmployeeID = employeeID
		s.order = append(s.order, ev.ID)
		s.snaps[ev.ID] = evaluation.Snapshot{Evaluation: ev}
	}
	s.Writes++
	return nil
}

func (s *Store) ReplaceSnapshot(_ context.Context, snap evaluation.Snapshot, baseRevision int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.snaps[snap.Evaluation.ID]
	if !ok {
		return evaluation.ErrNotFound
	}
	if current.Evaluation.Revision != baseRevision {
		return evaluation.ErrRevisionConflict
	}
	s.snaps[snap.Evaluation.ID] = snap
	s.Writes++
	return nil
}

func (s *Store) RemoveEvaluation(_ context.Context, employeeID, evaluationID string, baseRevision int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.snaps[evaluationID]
	if !ok || current.Evaluation.EmployeeID != employeeID {
		return evaluation.ErrNotFound
	}
	if current.Evaluation.Revision != baseRevision {
		return evaluation.ErrRevisionConflict
	}
	delete(s.snaps, evaluationID)
	for i, id := range s.order {
		if id == evaluationID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.Writes++
	return nil
}
