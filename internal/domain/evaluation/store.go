package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE id::text = $1", employeeID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) EmployeeName(ctx context.Context, employeeID string) (string, error) {
	var name string
	err := s.DB.QueryRow(ctx, "SELECT first_name || ' ' || last_name FROM employees WHERE id::text = $1", employeeID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrEmployeeNotFound
	}
	return name, err
}

const evaluationColumns = "e.id, e.employee_id, e.type, e.period, e.status, e.reviewer_id, e.reviewer, e.date, e.score, e.revision"

// evaluationOrder lists the newest review date first. seq keeps generation
// order (Q1 before Q2, Mid before End) among records sharing a date.
const evaluationOrder = "ORDER BY e.date DESC, e.seq"

// evaluationWhere builds the WHERE clause for a filter; args are positional
// starting at $1.
func evaluationWhere(filter Filter) (string, []any) {
	clauses := []string{"1=1"}
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("e.employee_id::text = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, strings.ToLower(filter.Type))
		clauses = append(clauses, fmt.Sprintf("lower(e.type) = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		clauses = append(clauses, fmt.Sprintf("e.status = $%d", len(args)))
	}
	if filter.Period != "" {
		args = append(args, filter.Period)
		clauses = append(clauses, fmt.Sprintf("e.period = $%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func (s *Store) ListEvaluations(ctx context.Context, employeeID string) ([]Evaluation, error) {
	where, args := evaluationWhere(Filter{EmployeeID: employeeID})
	rows, err := s.DB.Query(ctx, "SELECT "+evaluationColumns+" FROM evaluations e WHERE "+where+" "+evaluationOrder, args...)
	if err != nil {
		return nil, err
	}
	return collectEvaluations(rows)
}

func (s *Store) QueryEvaluations(ctx context.Context, filter Filter, limit, offset int) ([]Evaluation, int, error) {
	where, args := evaluationWhere(filter)

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM evaluations e WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := s.DB.Query(ctx, fmt.Sprintf(`
    SELECT %s
    FROM evaluations e
    WHERE %s
    %s
    LIMIT $%d OFFSET $%d
  `, evaluationColumns, where, evaluationOrder, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	out, err := collectEvaluations(rows)
	return out, total, err
}

func collectEvaluations(rows pgx.Rows) ([]Evaluation, error) {
	defer rows.Close()
	var out []Evaluation
	for rows.Next() {
		ev, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *Store) LoadSnapshot(ctx context.Context, evaluationID string) (Snapshot, error) {
	ev, err := scanEvaluation(s.DB.QueryRow(ctx, `
    SELECT `+evaluationColumns+`
    FROM evaluations e
    WHERE e.id::text = $1
  `, evaluationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Evaluation: ev}
	if snap.Objectives, err = s.listObjectives(ctx, ev.ID); err != nil {
		return Snapshot{}, err
	}
	if snap.Competencies, err = s.listCompetencies(ctx, ev.ID); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) AppendEvaluations(ctx context.Context, employeeID string, evaluations []Evaluation) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, ev := range evaluations {
		if _, err := tx.Exec(ctx, `
      INSERT INTO evaluations (id, employee_id, type, period, status, reviewer_id, reviewer, date, score, revision)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    `, ev.ID, employeeID, ev.Type, ev.Period, string(ev.Status), ev.ReviewerID, ev.ReviewerName, ev.Date, ev.Score, ev.Revision); err != nil {
			return fmt.Errorf("insert evaluation %s: %w", ev.Period, err)
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) ReplaceSnapshot(ctx context.Context, snap Snapshot, baseRevision int) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ev := snap.Evaluation
	tag, err := tx.Exec(ctx, `
    UPDATE evaluations
    SET type = $1, period = $2, status = $3, reviewer_id = $4, reviewer = $5, date = $6, score = $7, revision = $8, updated_at = now()
    WHERE id::text = $9 AND revision = $10
  `, ev.Type, ev.Period, string(ev.Status), ev.ReviewerID, ev.ReviewerName, ev.Date, ev.Score, ev.Revision, ev.ID, baseRevision)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.missingOrConflict(ctx, tx, ev.ID)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM evaluation_objectives WHERE evaluation_id::text = $1", ev.ID); err != nil {
		return err
	}
	for i, obj := range snap.Objectives {
		if _, err := tx.Exec(ctx, `
      INSERT INTO evaluation_objectives (id, evaluation_id, position, title, description, target, achieved, weight, status)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `, obj.ID, ev.ID, i, obj.Title, obj.Description, obj.Target, obj.Achieved, obj.Weight, string(obj.Status)); err != nil {
			return fmt.Errorf("insert objective: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM evaluation_competencies WHERE evaluation_id::text = $1", ev.ID); err != nil {
		return err
	}
	for i, comp := range snap.Competencies {
		if _, err := tx.Exec(ctx, `
      INSERT INTO evaluation_competencies (id, evaluation_id, position, name, description, category, required_level, actual_level, weight)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `, comp.ID, ev.ID, i, comp.Name, comp.Description, string(comp.Category), comp.RequiredLevel, comp.ActualLevel, comp.Weight); err != nil {
			return fmt.Errorf("insert competency: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) RemoveEvaluation(ctx context.Context, employeeID, evaluationID string, baseRevision int) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM evaluation_objectives WHERE evaluation_id::text = $1", evaluationID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM evaluation_competencies WHERE evaluation_id::text = $1", evaluationID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
    DELETE FROM evaluations
    WHERE id::text = $1 AND employee_id::text = $2 AND revision = $3
  `, evaluationID, employeeID, baseRevision)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.missingOrConflict(ctx, tx, evaluationID)
	}
	return tx.Commit(ctx)
}

func (s *Store) missingOrConflict(ctx context.Context, tx pgx.Tx, evaluationID string) error {
	var count int
	if err := tx.QueryRow(ctx, "SELECT COUNT(1) FROM evaluations WHERE id::text = $1", evaluationID).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrRevisionConflict
}

func (s *Store) listObjectives(ctx context.Context, evaluationID string) ([]Objective, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, evaluation_id, title, description, target, achieved, weight, status
    FROM evaluation_objectives
    WHERE evaluation_id::text = $1
    ORDER BY position
  `, evaluationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Objective
	for rows.Next() {
		var obj Objective
		var status string
		if err := rows.Scan(&obj.ID, &obj.EvaluationID, &obj.Title, &obj.Description, &obj.Target, &obj.Achieved, &obj.Weight, &status); err != nil {
			return nil, err
		}
		obj.Status = ObjectiveStatus(status)
		out = append(out, obj)
	}
	return out, rows.Err()
}

func (s *Store) listCompetencies(ctx context.Context, evaluationID string) ([]Competency, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, evaluation_id, name, description, category, required_level, actual_level, weight
    FROM evaluation_competencies
    WHERE evaluation_id::text = $1
    ORDER BY position
  `, evaluationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Competency
	for rows.Next() {
		var comp Competency
		var category string
		if err := rows.Scan(&comp.ID, &comp.EvaluationID, &comp.Name, &comp.Description, &category, &comp.RequiredLevel, &comp.ActualLevel, &comp.Weight); err != nil {
			return nil, err
		}
		comp.Category = Category(category)
		out = append(out, comp)
	}
	return out, rows.Err()
}

func scanEvaluation(row pgx.Row) (Evaluation, error) {
	var ev Evaluation
	var status string
	if err := row.Scan(&ev.ID, &ev.EmployeeID, &ev.Type, &ev.Period, &status, &ev.ReviewerID, &ev.ReviewerName, &ev.Date, &ev.Score, &ev.Revision); err != nil {
		return Evaluation{}, err
	}
	ev.Status = Status(status)
	return ev, nil
}
