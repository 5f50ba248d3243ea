package model

import "time"

type Role string

const (
	RoleMasterAdmin  Role = "master_admin"
	RoleCompanyAdmin Role = "company_admin"
	RoleEmployee     Role = "employee"
)

type Company struct {
	ID            uint       `json:"id"`
	Name          string     `json:"name"`
	ContactEmail  string     `json:"contact_email"`
	Industry      string     `json:"industry"`
	EmployeeCount int        `json:"employee_count"`
	IsActive      bool       `json:"is_active"`
	CreatedDate   *time.Time `json:"created_date,omitempty"`
}

type Employee struct {
	ID         uint       `json:"id"`
	CompanyID  uint       `json:"company_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Department string     `json:"department"`
	EmployeeID string     `json:"employee_id"` // company-specific id
	IsActive   bool       `json:"is_active"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}

type TrainingModule struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Content         string     `json:"content"`
	VideoURL        string     `json:"video_url"`
	DurationMinutes int        `json:"duration_minutes"`
	DifficultyLevel string     `json:"difficulty_level"`
	Category        string     `json:"category"`
	QuizQuestions   []Question `json:"quiz_questions"`
	PassingScore    float64    `json:"passing_score"`
	IsActive        bool       `json:"is_active"`
}

// HasQuiz reports whether the module carries at least one quiz question.
func (m *TrainingModule) HasQuiz() bool {
	return m != nil && len(m.QuizQuestions) > 0
}

type Question struct {
	ID       uint     `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// ProgressRecord mirrors the backend EmployeeProgress row. Position is the
// playback time in seconds for media modules or the scroll percentage for
// text modules.
type ProgressRecord struct {
	ModuleID        uint         `json:"module_id"`
	Progress        float64      `json:"progress"`
	LastPosition    float64      `json:"last_position"`
	Completed       bool         `json:"completed"`
	CompletedAt     *time.Time   `json:"completed_at,omitempty"`
	LastAccessed    *time.Time   `json:"last_accessed,omitempty"`
	QuizScore       *float64     `json:"score,omitempty"`
	Attempts        int          `json:"attempts"`
	Notes           string       `json:"notes,omitempty"`
	QuizAnswers     map[uint]int `json:"quiz_answers,omitempty"`
	CurrentQuestion int          `json:"current_question,omitempty"`
}

// ProgressUpdate carries a partial progress write: nil fields are left
// unchanged by the backend.
type ProgressUpdate struct {
	Progress        *float64     `json:"progress,omitempty"`
	LastPosition    *float64     `json:"last_position,omitempty"`
	Completed       *bool        `json:"completed,omitempty"`
	CompletedAt     *time.Time   `json:"completed_at,omitempty"`
	LastAccessed    *time.Time   `json:"last_accessed,omitempty"`
	QuizAnswers     map[uint]int `json:"quiz_answers,omitempty"`
	CurrentQuestion *int         `json:"current_question,omitempty"`
	TimeStarted     *time.Time   `json:"time_started,omitempty"`
}

type QuizResult struct {
	Score          float64 `json:"score"`
	Passed         bool    `json:"passed"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
	Attempts       int     `json:"attempts"`
	Message        string  `json:"message"`
}

type Certificate struct {
	CertificateID string    `json:"certificate_id"`
	EmployeeName  string    `json:"employee_name"`
	ModuleTitle   string    `json:"module_title"`
	Score         float64   `json:"score"`
	CompletedAt   time.Time `json:"completed_at"`
}

type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Role          Role   `json:"role,omitempty"`
	CompanyID     uint   `json:"company_id,omitempty"`
	EmployeeID    uint   `json:"employee_id,omitempty"`
	Name          string `json:"name,omitempty"`
	Token         string `json:"token,omitempty"`
}
