package portal

import (
	"context"
	"fmt"
	"io"

	"starcomm_training_client/internal/client"
	"starcomm_training_client/internal/model"
	"starcomm_training_client/internal/router"
	"starcomm_training_client/internal/session"
	"starcomm_training_client/internal/util"
	"starcomm_training_client/internal/view"

	"go.uber.org/zap"
)

// CompanyPortal drives the company admin screens: tenant dashboard, employee
// management, CSV import, training assignment and progress reports.
type CompanyPortal struct {
	api     *client.Client
	session *session.Context
	router  *router.Router
	log     *zap.Logger
}

func NewCompanyPortal(api *client.Client, sess *session.Context, r *router.Router, log *zap.Logger) *CompanyPortal {
	return &CompanyPortal{api: api, session: sess, router: r, log: log}
}

func companyID(params map[string]string) uint {
	return util.MustParseUint(params["id"])
}

func (p *CompanyPortal) loginPath(id uint) string {
	return fmt.Sprintf("company/%d/login", id)
}

// require gates a company-scoped handler: the session must belong to a
// company admin of this exact tenant.
func (p *CompanyPortal) require(ctx context.Context, path string) bool {
	return p.session.RequireAuth(ctx, path, model.RoleCompanyAdmin)
}

func (p *CompanyPortal) ShowLogin(ctx context.Context, params map[string]string) (*view.View, error) {
	id := companyID(params)
	if p.session.CheckAuth(ctx, p.loginPath(id)) &&
		p.session.HasRole(model.RoleCompanyAdmin) && p.session.CompanyID() == id {
		return redirect(p.router, fmt.Sprintf("company/%d/dashboard", id))
	}
	return &view.View{
		Kind:    view.KindLogin,
		Title:   "Company Admin",
		Data:    LoginForm{Scope: "company", CompanyID: id, Fields: []string{"password"}},
		Actions: []view.Action{{Label: "Back to Home", Path: ""}},
	}, nil
}

func (p *CompanyPortal) Login(ctx context.Context, id uint, password string) error {
	if err := p.session.LoginCompany(ctx, id, password); err != nil {
		return err
	}
	p.router.Navigate(fmt.Sprintf("company/%d/dashboard", id))
	return nil
}

func (p *CompanyPortal) Logout(ctx context.Context) {
	p.session.Logout(ctx)
	p.router.Navigate("")
}

func (p *CompanyPortal) ShowDashboard(ctx context.Context, params map[string]string) (*view.View, error) {
	id := companyID(params)
	path := fmt.Sprintf("company/%d/dashboard", id)
	if !p.require(ctx, path) {
		return redirect(p.router, p.loginPath(id))
	}

	dash, err := p.api.CompanyDashboard(ctx, id)
	if err != nil {
		return nil, err
	}
	return &view.View{
		Kind:  view.KindDashboard,
		Title: "Company Dashboard",
		Data:  dash,
		Actions: []view.Action{
			{Label: "Employees", Path: fmt.Sprintf("company/%d/employees", id)},
			{Label: "Assign Training", Path: fmt.Sprintf("company/%d/assign-training", id)},
			{Label: "Reports", Path: fmt.Sprintf("company/%d/reports", id)},
		},
	}, nil
}

// EmployeeListData carries the employee table plus its filters.
type EmployeeListData struct {
	Employees  []model.Employee `json:"employees"`
	Search     string           `json:"search"`
	Department string           `json:"department"`
}

func (p *CompanyPortal) ShowEmployees(ctx context.Context, params map[string]string) (*view.View, error) {
	id := companyID(params)
	path := fmt.Sprintf("company/%d/employees", id)
	if !p.require(ctx, path) {
		return redirect(p.router, p.loginPath(id))
	}
	return p.EmployeeList(ctx, id, "", "")
}

func (p *CompanyPortal) EmployeeList(ctx context.Context, id uint, search, department string) (*view.View, error) {
	employees, err := p.api.CompanyEmployees(ctx, id, search, department)
	if err != nil {
		return nil, err
	}
	return &view.View{
		Kind:  view.KindTable,
		Title: "Employees",
		Data:  EmployeeListData{Employees: employees, Search: search, Department: department},
		Actions: []view.Action{
			{Label: "Dashboard", Path: fmt.Sprintf("company/%d/dashboard", id)},
		},
	}, nil
}

func (p *CompanyPortal) CreateEmployee(ctx context.Context, id uint, payload client.EmployeePayload) (*model.Employee, error) {
	if err := validateStruct(payload); err != nil {
		return nil, err
	}
	return p.api.CreateEmployee(ctx, id, payload)
}

func (p *CompanyPortal) UpdateEmployee(ctx context.Context, id, employeeID uint, payload client.EmployeePayload) (*model.Employee, error) {
	if err := validateStruct(payload); err != nil {
		return nil, err
	}
	return p.api.UpdateEmployee(ctx, id, employeeID, payload)
}

func (p *CompanyPortal) DeleteEmployee(ctx context.Context, id, employeeID uint) error {
	return p.api.DeleteEmployee(ctx, id, employeeID)
}

// ImportEmployeesCSV parses a CSV export (name, email, department,
// employee_id columns) and submits the valid rows. Rows failing validation
// are reported back without aborting the rest.
func (p *CompanyPortal) ImportEmployeesCSV(ctx context.Context, id uint, file io.Reader) (*client.BulkImportResult, error) {
	table, err := util.ParseCSV(file)
	if err != nil {
		return nil, &ValidationError{Err: fmt.Errorf("unreadable CSV file: %w", err)}
	}
	if len(table.Rows) == 0 {
		return nil, &ValidationError{Err: fmt.Errorf("CSV file has no data rows")}
	}

	var (
		rows     []client.EmployeePayload
		rejected []string
	)
	for i, row := range table.Rows {
		payload := client.EmployeePayload{
			Name:       row["name"],
			Email:      row["email"],
			Department: row["department"],
			EmployeeID: row["employee_id"],
		}
		if err := validate.Struct(payload); err != nil {
			rejected = append(rejected, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		rows = append(rows, payload)
	}
	if len(rows) == 0 {
		return nil, &ValidationError{Err: fmt.Errorf("no valid rows in CSV file")}
	}

	result, err := p.api.BulkImportEmployees(ctx, id, rows)
	if err != nil {
		return nil, err
	}
	result.Skipped += len(rejected)
	result.Errors = append(result.Errors, rejected...)
	return result, nil
}

// AssignTrainingData pairs the selectable employees and modules.
type AssignTrainingData struct {
	Employees []model.Employee       `json:"employees"`
	Modules   []model.TrainingModule `json:"modules"`
}

func (p *CompanyPortal) ShowAssignTraining(ctx context.Context, params map[string]string) (*view.View, error) {
	id := companyID(params)
	path := fmt.Sprintf("company/%d/assign-training", id)
	if !p.require(ctx, path) {
		return redirect(p.router, p.loginPath(id))
	}

	employees, err := p.api.CompanyEmployees(ctx, id, "", "")
	if err != nil {
		return nil, err
	}
	modules, err := p.api.CompanyTrainingModules(ctx, id)
	if err != nil {
		return nil, err
	}
	return &view.View{
		Kind:  view.KindForm,
		Title: "Assign Training",
		Data:  AssignTrainingData{Employees: employees, Modules: modules},
		Actions: []view.Action{
			{Label: "Dashboard", Path: fmt.Sprintf("company/%d/dashboard", id)},
		},
	}, nil
}

func (p *CompanyPortal) AssignTraining(ctx context.Context, id uint, employeeIDs, moduleIDs []uint) error {
	if len(employeeIDs) == 0 || len(moduleIDs) == 0 {
		return &ValidationError{Err: fmt.Errorf("select at least one employee and one module")}
	}
	return p.api.AssignTraining(ctx, id, employeeIDs, moduleIDs)
}

func (p *CompanyPortal) ShowReports(ctx context.Context, params map[string]string) (*view.View, error) {
	id := companyID(params)
	path := fmt.Sprintf("company/%d/reports", id)
	if !p.require(ctx, path) {
		return redirect(p.router, p.loginPath(id))
	}

	report, err := p.api.CompanyProgressReport(ctx, id)
	if err != nil {
		return nil, err
	}
	return &view.View{
		Kind:  view.KindReport,
		Title: "Progress Reports",
		Data:  report,
		Actions: []view.Action{
			{Label: "Dashboard", Path: fmt.Sprintf("company/%d/dashboard", id)},
		},
	}, nil
}
