package client

import (
	"context"
	"fmt"
	"net/url"

	"starcomm_training_client/internal/model"
)

// Company admin scope: tenant-local employee management, training assignment
// and reporting.

func (c *Client) CompanyLogin(ctx context.Context, companyID uint, password string) (*model.AuthStatus, error) {
	body := map[string]string{"password": password}
	var status model.AuthStatus
	if err := c.post(ctx, fmt.Sprintf("/api/company/%d/login", companyID), body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) CompanyLogout(ctx context.Context, companyID uint) error {
	return c.post(ctx, fmt.Sprintf("/api/company/%d/logout", companyID), nil, nil)
}

func (c *Client) CheckCompanyAuth(ctx context.Context, companyID uint) (*model.AuthStatus, error) {
	var status model.AuthStatus
	if err := c.get(ctx, fmt.Sprintf("/api/company/%d/check-auth", companyID), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) CompanyDashboard(ctx context.Context, companyID uint) (*model.CompanyDashboard, error) {
	var dash model.CompanyDashboard
	if err := c.get(ctx, fmt.Sprintf("/api/company/%d/dashboard", companyID), &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

func (c *Client) CompanyEmployees(ctx context.Context, companyID uint, search, department string) ([]model.Employee, error) {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}
	if department != "" {
		params.Set("department", department)
	}
	path := fmt.Sprintf("/api/company/%d/employees", companyID)
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var employees []model.Employee
	if err := c.get(ctx, path, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

type EmployeePayload struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"max=100"`
	EmployeeID string `json:"employee_id" validate:"max=50"`
	Password   string `json:"password,omitempty" validate:"omitempty,min=8"`
}

func (c *Client) CreateEmployee(ctx context.Context, companyID uint, payload EmployeePayload) (*model.Employee, error) {
	var employee model.Employee
	path := fmt.Sprintf("/api/company/%d/employees", companyID)
	if err := c.post(ctx, path, payload, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (c *Client) UpdateEmployee(ctx context.Context, companyID, employeeID uint, payload EmployeePayload) (*model.Employee, error) {
	var employee model.Employee
	path := fmt.Sprintf("/api/company/%d/employees/%d", companyID, employeeID)
	if err := c.put(ctx, path, payload, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, companyID, employeeID uint) error {
	return c.delete(ctx, fmt.Sprintf("/api/company/%d/employees/%d", companyID, employeeID))
}

// BulkImportResult reports the outcome of a CSV employee import.
type BulkImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// BulkImportEmployees sends pre-parsed CSV rows for import. Parsing happens
// client side (util.ParseCSV) so malformed files fail before any network call.
func (c *Client) BulkImportEmployees(ctx context.Context, companyID uint, rows []EmployeePayload) (*BulkImportResult, error) {
	var result BulkImportResult
	path := fmt.Sprintf("/api/company/%d/employees/bulk-import", companyID)
	if err := c.post(ctx, path, map[string]any{"employees": rows}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CompanyTrainingModules(ctx context.Context, companyID uint) ([]model.TrainingModule, error) {
	var modules []model.TrainingModule
	path := fmt.Sprintf("/api/company/%d/training-modules", companyID)
	if err := c.get(ctx, path, &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

func (c *Client) AssignTraining(ctx context.Context, companyID uint, employeeIDs, moduleIDs []uint) error {
	body := map[string]any{"employee_ids": employeeIDs, "module_ids": moduleIDs}
	return c.post(ctx, fmt.Sprintf("/api/company/%d/assign-training", companyID), body, nil)
}

func (c *Client) CompanyProgressReport(ctx context.Context, companyID uint) (*model.CompanyReport, error) {
	var report model.CompanyReport
	path := fmt.Sprintf("/api/company/%d/reports/progress", companyID)
	if err := c.get(ctx, path, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
