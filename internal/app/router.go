package app

import (
	"context"

	"starcomm_training_client/internal/router"
	"starcomm_training_client/internal/view"
)

// closing wraps a handler so the employee portal's active player or quiz is
// torn down before the next screen loads. Navigating away from a module is
// the only thing that ends its timers, so every route gets the wrapper.
func (a *App) closing(h router.Handler) router.Handler {
	return func(ctx context.Context, params map[string]string) (*view.View, error) {
		a.Employee.CloseActive(ctx)
		return h(ctx, params)
	}
}

func (a *App) registerRoutes() {
	r := a.Router

	r.AddRoute("", a.closing(a.showHome))

	r.AddRoute("master/login", a.closing(a.Master.ShowLogin))
	r.AddRoute("master/dashboard", a.closing(a.Master.ShowDashboard))
	r.AddRoute("master/companies", a.closing(a.Master.ShowCompanies))
	r.AddRoute("master/create-company", a.closing(a.Master.ShowCreateCompany))
	r.AddRoute("master/reports", a.closing(a.Master.ShowReports))

	r.AddRoute("company/:id/login", a.closing(a.Company.ShowLogin))
	r.AddRoute("company/:id/dashboard", a.closing(a.Company.ShowDashboard))
	r.AddRoute("company/:id/employees", a.closing(a.Company.ShowEmployees))
	r.AddRoute("company/:id/assign-training", a.closing(a.Company.ShowAssignTraining))
	r.AddRoute("company/:id/reports", a.closing(a.Company.ShowReports))

	r.AddRoute("training/:id/login", a.closing(a.Employee.ShowLogin))
	r.AddRoute("training/:id/dashboard", a.closing(a.Employee.ShowDashboard))
	r.AddRoute("training/:id/training/:moduleId", a.closing(a.Employee.ShowModule))
	r.AddRoute("training/:id/quiz/:moduleId", a.closing(a.Employee.ShowQuiz))
	r.AddRoute("training/:id/progress", a.closing(a.Employee.ShowProgress))
	r.AddRoute("training/:id/certificates", a.closing(a.Employee.ShowCertificates))

	r.SetNotFound(a.closing(func(ctx context.Context, params map[string]string) (*view.View, error) {
		return view.NotFound(), nil
	}))
}

func (a *App) showHome(ctx context.Context, _ map[string]string) (*view.View, error) {
	return &view.View{
		Kind:  view.KindHome,
		Title: "Starcomm Training System",
		Actions: []view.Action{
			{Label: "Master Admin", Path: "master/login"},
			{Label: "Company Admin", Path: "company/1/login"},
			{Label: "Employee Training", Path: "training/1/login"},
		},
	}, nil
}
