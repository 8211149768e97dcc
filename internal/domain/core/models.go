package core

import "time"

const EmployeeStatusActive = "active"

type Employee struct {
	ID             string    `json:"id"`
	EmployeeNumber string    `json:"employeeNumber"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Position       string    `json:"position"`
	DepartmentID   string    `json:"departmentId"`
	DepartmentName string    `json:"departmentName"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type Department struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	EmployeeCount int       `json:"employeeCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type EmployeeFilter struct {
	DepartmentID string
	Search       string
	Status       string
}
