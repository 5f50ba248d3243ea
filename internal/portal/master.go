package portal

import (
	"context"
	"fmt"

	"starcomm_training_client/internal/client"
	"starcomm_training_client/internal/model"
	"starcomm_training_client/internal/router"
	"starcomm_training_client/internal/session"
	"starcomm_training_client/internal/view"

	"go.uber.org/zap"
)

// MasterPortal drives the master admin screens: platform dashboard, company
// management and cross-company reports.
type MasterPortal struct {
	api     *client.Client
	session *session.Context
	router  *router.Router
	log     *zap.Logger
}

func NewMasterPortal(api *client.Client, sess *session.Context, r *router.Router, log *zap.Logger) *MasterPortal {
	return &MasterPortal{api: api, session: sess, router: r, log: log}
}

// LoginForm is the declarative payload of a login screen.
type LoginForm struct {
	Scope      string   `json:"scope"`
	CompanyID  uint     `json:"company_id,omitempty"`
	EmployeeID uint     `json:"employee_id,omitempty"`
	Fields     []string `json:"fields"`
}

func (p *MasterPortal) ShowLogin(ctx context.Context, _ map[string]string) (*view.View, error) {
	if p.session.CheckAuth(ctx, "master/login") && p.session.HasRole(model.RoleMasterAdmin) {
		return redirect(p.router, "master/dashboard")
	}
	return &view.View{
		Kind:    view.KindLogin,
		Title:   "Master Admin",
		Data:    LoginForm{Scope: "master", Fields: []string{"username", "password"}},
		Actions: []view.Action{{Label: "Back to Home", Path: ""}},
	}, nil
}

// Login authenticates and moves to the dashboard. Failures surface to the
// caller so the form can offer a retry.
func (p *MasterPortal) Login(ctx context.Context, username, password string) error {
	if err := p.session.LoginMaster(ctx, username, password); err != nil {
		return err
	}
	p.router.Navigate("master/dashboard")
	return nil
}

func (p *MasterPortal) Logout(ctx context.Context) {
	p.session.Logout(ctx)
	p.router.Navigate("")
}

func (p *MasterPortal) ShowDashboard(ctx context.Context, _ map[string]string) (*view.View, error) {
	if !p.session.RequireAuth(ctx, "master/dashboard", model.RoleMasterAdmin) {
		return redirect(p.router, "master/login")
	}

	dash, err := p.api.MasterDashboard(ctx)
	if err != nil {
		return nil, err
	}
	return &view.View{
		Kind:  view.KindDashboard,
		Title: "Master Admin Dashboard",
		Data:  dash,
		Actions: []view.Action{
			{Label: "Companies", Path: "master/companies"},
			{Label: "Create Company", Path: "master/create-company"},
			{Label: "Reports", Path: "master/reports"},
		},
	}, nil
}

// CompanyListData carries the table plus the filters it was built with.
type CompanyListData struct {
	Companies []model.Company `json:"companies"`
	Search    string          `json:"search"`
	Status    string          `json:"status"`
}

func (p *MasterPortal) ShowCompanies(ctx context.Context, _ map[string]string) (*view.View, error) {
	if !p.session.RequireAuth(ctx, "master/companies", model.RoleMasterAdmin) {
		return redirect(p.router, "master/login")
	}
	return p.CompanyList(ctx, "", "all")
}

// CompanyList rebuilds the company table for a filter change without a full
// navigation; repeated calls with the same filters are idempotent.
func (p *MasterPortal) CompanyList(ctx context.Context, search, status string) (*view.View, error) {
	companies, err := p.api.Companies(ctx, search, status)
	if err != nil {
		return nil, err
	}
	return &view.View{
		Kind:  view.KindTable,
		Title: "Companies",
		Data:  CompanyListData{Companies: companies, Search: search, Status: status},
		Actions: []view.Action{
			{Label: "Create Company", Path: "master/create-company"},
			{Label: "Dashboard", Path: "master/dashboard"},
		},
	}, nil
}

func (p *MasterPortal) ShowCreateCompany(ctx context.Context, _ map[string]string) (*view.View, error) {
	if !p.session.RequireAuth(ctx, "master/create-company", model.RoleMasterAdmin) {
		return redirect(p.router, "master/login")
	}
	return &view.View{
		Kind:    view.KindForm,
		Title:   "Create New Company",
		Data:    client.CompanyPayload{},
		Actions: []view.Action{{Label: "Back to Companies", Path: "master/companies"}},
	}, nil
}

// CreateCompany validates and submits the form, then moves to the company
// list. Validation failures never reach the network.
func (p *MasterPortal) CreateCompany(ctx context.Context, payload client.CompanyPayload) (*model.Company, error) {
	if err := validateStruct(payload); err != nil {
		return nil, err
	}
	company, err := p.api.CreateCompany(ctx, payload)
	if err != nil {
		return nil, err
	}
	p.router.Navigate("master/companies")
	return company, nil
}

func (p *MasterPortal) UpdateCompany(ctx context.Context, companyID uint, payload client.CompanyPayload) (*model.Company, error) {
	if err := validateStruct(payload); err != nil {
		return nil, err
	}
	return p.api.UpdateCompany(ctx, companyID, payload)
}

func (p *MasterPortal) DeleteCompany(ctx context.Context, companyID uint) error {
	return p.api.DeleteCompany(ctx, companyID)
}

// BulkCompanyAction activates or deactivates a selection of companies.
func (p *MasterPortal) BulkCompanyAction(ctx context.Context, companyIDs []uint, action string) error {
	if action != "activate" && action != "deactivate" {
		return &ValidationError{Err: fmt.Errorf("unknown bulk action %q", action)}
	}
	if len(companyIDs) == 0 {
		return &ValidationError{Err: fmt.Errorf("no companies selected")}
	}
	return p.api.BulkCompanyAction(ctx, companyIDs, action)
}

func (p *MasterPortal) ShowReports(ctx context.Context, _ map[string]string) (*view.View, error) {
	if !p.session.RequireAuth(ctx, "master/reports", model.RoleMasterAdmin) {
		return redirect(p.router, "master/login")
	}

	report, err := p.api.PlatformReport(ctx)
	if err != nil {
		return nil, err
	}
	return &view.View{
		Kind:    view.KindReport,
		Title:   "Platform Reports",
		Data:    report,
		Actions: []view.Action{{Label: "Dashboard", Path: "master/dashboard"}},
	}, nil
}
