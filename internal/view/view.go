// Package view holds the declarative screen descriptions produced by the
// portals. Nothing here renders; a host binds the actions and displays the
// data however it likes.
package view

type Kind string

const (
	KindHome        Kind = "home"
	KindLogin       Kind = "login"
	KindDashboard   Kind = "dashboard"
	KindTable       Kind = "table"
	KindForm        Kind = "form"
	KindReport      Kind = "report"
	KindPlayer      Kind = "player"
	KindQuiz        Kind = "quiz"
	KindQuizResults Kind = "quiz_results"
	KindNotFound    Kind = "not_found"
	KindUnavailable Kind = "unavailable"
)

type AlertLevel string

const (
	AlertSuccess AlertLevel = "success"
	AlertWarning AlertLevel = "warning"
	AlertError   AlertLevel = "error"
)

type Alert struct {
	Level   AlertLevel `json:"level"`
	Message string     `json:"message"`
}

// Action is a navigation affordance the host wires to its own widget.
type Action struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type View struct {
	Kind    Kind     `json:"kind"`
	Title   string   `json:"title"`
	Alert   *Alert   `json:"alert,omitempty"`
	Data    any      `json:"data,omitempty"`
	Actions []Action `json:"actions,omitempty"`
}

func NotFound() *View {
	return &View{
		Kind:    KindNotFound,
		Title:   "Page Not Found",
		Actions: []Action{{Label: "Go Home", Path: ""}},
	}
}

// Unavailable is the inline failure state for a missing module or quiz. It
// always carries exactly one way back to the dashboard.
func Unavailable(title, message, dashboardPath string) *View {
	return &View{
		Kind:    KindUnavailable,
		Title:   title,
		Alert:   &Alert{Level: AlertError, Message: message},
		Actions: []Action{{Label: "Back to Dashboard", Path: dashboardPath}},
	}
}
