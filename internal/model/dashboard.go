package model

// MasterDashboard is the platform-wide stat payload for the master admin.
type MasterDashboard struct {
	TotalCompanies  int `json:"total_companies"`
	ActiveCompanies int `json:"active_companies"`
	TotalEmployees  int `json:"total_employees"`
	ActiveModules   int `json:"active_modules"`
}

// CompanyDashboard is the tenant-scoped stat payload for a company admin.
type CompanyDashboard struct {
	Company          *Company `json:"company,omitempty"`
	TotalEmployees   int      `json:"total_employees"`
	ActiveEmployees  int      `json:"active_employees"`
	AssignedModules  int      `json:"assigned_modules"`
	CompletedModules int      `json:"completed_modules"`
	CompletionRate   float64  `json:"completion_rate"`
}

// EmployeeDashboard lists the modules assigned to an employee with progress.
type EmployeeDashboard struct {
	Employee *Employee        `json:"employee,omitempty"`
	Modules  []TrainingModule `json:"modules"`
	Progress []ProgressRecord `json:"progress"`
}

// CompanyReport is the per-employee progress breakdown for a company.
type CompanyReport struct {
	Employees      []EmployeeReportRow `json:"employees"`
	AverageScore   float64             `json:"average_score"`
	CompletionRate float64             `json:"completion_rate"`
}

type EmployeeReportRow struct {
	Employee         Employee `json:"employee"`
	CompletedModules int      `json:"completed_modules"`
	AssignedModules  int      `json:"assigned_modules"`
	AverageScore     float64  `json:"average_score"`
}

// PlatformReport is the master-level overview across companies.
type PlatformReport struct {
	Companies      []CompanyReportRow `json:"companies"`
	TotalCompleted int                `json:"total_completed"`
	AverageScore   float64            `json:"average_score"`
}

type CompanyReportRow struct {
	Company        Company `json:"company"`
	EmployeeCount  int     `json:"employee_count"`
	CompletionRate float64 `json:"completion_rate"`
	AverageScore   float64 `json:"average_score"`
}
