package evaluation

import "context"

// StoreAPI is the persistence collaborator: it appends, replaces and removes
// evaluations in an employee's evaluation list.
type StoreAPI interface {
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
	EmployeeName(ctx context.Context, employeeID string) (string, error)
	ListEvaluations(ctx context.Context, employeeID string) ([]Evaluation, error)
	// QueryEvaluations returns one page of matches in list order plus the
	// total match count.
	QueryEvaluations(ctx context.Context, filter Filter, limit, offset int) ([]Evaluation, int, error)
	LoadSnapshot(ctx context.Context, evaluationID string) (Snapshot, error)
	AppendEvaluations(ctx context.Context, employeeID string, evaluations []Evaluation) error
	// ReplaceSnapshot stores snap only if the stored revision still equals
	// baseRevision, otherwise it returns ErrRevisionConflict.
	ReplaceSnapshot(ctx context.Context, snap Snapshot, baseRevision int) error
	// RemoveEvaluation deletes the evaluation together with its objectives
	// and competencies.
	RemoveEvaluation(ctx context.Context, employeeID, evaluationID string, baseRevision int) error
}

// Observer receives workflow events, typically for metrics.
type Observer interface {
	ObserveTransition(from, to string, allowed bool)
	ObserveCreated(kind string, count int)
}
