package core

import "context"

type StoreAPI interface {
	ListEmployees(ctx context.Context, filter EmployeeFilter, limit, offset int) ([]Employee, int, error)
	GetEmployee(ctx context.Context, employeeID string) (Employee, error)
	ListDepartments(ctx context.Context, limit, offset int) ([]Department, int, error)
}

// Service exposes the employee and department roster read-only.
type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) ListEmployees(ctx context.Context, filter EmployeeFilter, limit, offset int) ([]Employee, int, error) {
	return s.Store.ListEmployees(ctx, filter, limit, offset)
}

func (s *Service) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	return s.Store.GetEmployee(ctx, employeeID)
}

func (s *Service) ListDepartments(ctx context.Context, limit, offset int) ([]Department, int, error) {
	return s.Store.ListDepartments(ctx, limit, offset)
}
