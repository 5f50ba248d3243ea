package client

import (
	"context"
	"fmt"
	"net/url"

	"starcomm_training_client/internal/model"
)

// Master admin scope: platform-wide company management and reporting.

func (c *Client) MasterLogin(ctx context.Context, username, password string) (*model.AuthStatus, error) {
	body := map[string]string{"username": username, "password": password}
	var status model.AuthStatus
	if err := c.post(ctx, "/api/master/login", body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) MasterLogout(ctx context.Context) error {
	return c.post(ctx, "/api/master/logout", nil, nil)
}

func (c *Client) CheckMasterAuth(ctx context.Context) (*model.AuthStatus, error) {
	var status model.AuthStatus
	if err := c.get(ctx, "/api/master/check-auth", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) MasterDashboard(ctx context.Context) (*model.MasterDashboard, error) {
	var dash model.MasterDashboard
	if err := c.get(ctx, "/api/master/dashboard", &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

// Companies lists companies, optionally filtered by a free-text search and an
// active/inactive status.
func (c *Client) Companies(ctx context.Context, search, status string) ([]model.Company, error) {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}
	if status != "" && status != "all" {
		params.Set("status", status)
	}
	path := "/api/master/companies"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var companies []model.Company
	if err := c.get(ctx, path, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

type CompanyPayload struct {
	Name          string `json:"name" validate:"required,max=200"`
	ContactEmail  string `json:"contact_email" validate:"required,email"`
	Industry      string `json:"industry" validate:"max=100"`
	EmployeeCount int    `json:"employee_count" validate:"gte=0"`
	AdminPassword string `json:"admin_password,omitempty" validate:"omitempty,min=8"`
}

func (c *Client) CreateCompany(ctx context.Context, payload CompanyPayload) (*model.Company, error) {
	var company model.Company
	if err := c.post(ctx, "/api/master/companies", payload, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *Client) UpdateCompany(ctx context.Context, companyID uint, payload CompanyPayload) (*model.Company, error) {
	var company model.Company
	path := fmt.Sprintf("/api/master/companies/%d", companyID)
	if err := c.put(ctx, path, payload, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *Client) DeleteCompany(ctx context.Context, companyID uint) error {
	return c.delete(ctx, fmt.Sprintf("/api/master/companies/%d", companyID))
}

// BulkCompanyAction applies "activate" or "deactivate" to a set of companies.
func (c *Client) BulkCompanyAction(ctx context.Context, companyIDs []uint, action string) error {
	body := map[string]any{"company_ids": companyIDs, "action": action}
	return c.post(ctx, "/api/master/companies/bulk-action", body, nil)
}

func (c *Client) TrainingModules(ctx context.Context) ([]model.TrainingModule, error) {
	var modules []model.TrainingModule
	if err := c.get(ctx, "/api/master/training-modules", &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

func (c *Client) PlatformReport(ctx context.Context) (*model.PlatformReport, error) {
	var report model.PlatformReport
	if err := c.get(ctx, "/api/master/reports/overview", &report); err != nil {
		return nil, err
	}
	return &report, nil
}
