package portal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"starcomm_training_client/internal/client"
	"starcomm_training_client/internal/config"
	"starcomm_training_client/internal/engine"
	"starcomm_training_client/internal/model"
	"starcomm_training_client/internal/router"
	"starcomm_training_client/internal/session"
	"starcomm_training_client/internal/util"
	"starcomm_training_client/internal/view"

	"go.uber.org/zap"
)

// EmployeePortal drives the training screens: dashboard, content player,
// quiz, progress overview and certificates. It owns the active player and
// quiz session and releases their timers on every navigation.
type EmployeePortal struct {
	api       *client.Client
	session   *session.Context
	router    *router.Router
	host      router.Host
	cfg       *config.Config
	confirmer engine.Confirmer
	log       *zap.Logger

	mu         sync.Mutex
	activePlay *engine.Player
	activeQuiz *engine.Quiz
}

func NewEmployeePortal(
	api *client.Client,
	sess *session.Context,
	r *router.Router,
	host router.Host,
	cfg *config.Config,
	confirmer engine.Confirmer,
	log *zap.Logger,
) *EmployeePortal {
	return &EmployeePortal{
		api:       api,
		session:   sess,
		router:    r,
		host:      host,
		cfg:       cfg,
		confirmer: confirmer,
		log:       log,
	}
}

func employeeID(params map[string]string) uint {
	return util.MustParseUint(params["id"])
}

func (p *EmployeePortal) loginPath(id uint) string {
	return fmt.Sprintf("training/%d/login", id)
}

func (p *EmployeePortal) dashboardPath(id uint) string {
	return fmt.Sprintf("training/%d/dashboard", id)
}

func (p *EmployeePortal) require(ctx context.Context, path string) bool {
	return p.session.RequireAuth(ctx, path, model.RoleEmployee)
}

// CloseActive stops any running player or quiz timers and flushes pending
// progress. Called on every navigation so no orphaned ticker outlives its
// screen.
func (p *EmployeePortal) CloseActive(ctx context.Context) {
	p.mu.Lock()
	player, quiz := p.activePlay, p.activeQuiz
	p.activePlay, p.activeQuiz = nil, nil
	p.mu.Unlock()

	if player != nil {
		player.Close(ctx)
	}
	if quiz != nil {
		quiz.StopTimer()
	}
}

func (p *EmployeePortal) ShowLogin(ctx context.Context, params map[string]string) (*view.View, error) {
	id := employeeID(params)
	if p.session.CheckAuth(ctx, p.loginPath(id)) &&
		p.session.HasRole(model.RoleEmployee) && p.session.EmployeeID() == id {
		return redirect(p.router, p.dashboardPath(id))
	}
	return &view.View{
		Kind:    view.KindLogin,
		Title:   "Employee Training Portal",
		Data:    LoginForm{Scope: "training", EmployeeID: id, Fields: []string{"password"}},
		Actions: []view.Action{{Label: "Back to Home", Path: ""}},
	}, nil
}

func (p *EmployeePortal) Login(ctx context.Context, id uint, password string) error {
	if err := p.session.LoginEmployee(ctx, id, password); err != nil {
		return err
	}
	p.router.Navigate(p.dashboardPath(id))
	return nil
}

func (p *EmployeePortal) Logout(ctx context.Context) {
	p.CloseActive(ctx)
	p.session.Logout(ctx)
	p.router.Navigate("")
}

func (p *EmployeePortal) ShowDashboard(ctx context.Context, params map[string]string) (*view.View, error) {
	id := employeeID(params)
	path := p.dashboardPath(id)
	if !p.require(ctx, path) {
		return redirect(p.router, p.loginPath(id))
	}

	dash, err := p.api.EmployeeDashboard(ctx, id)
	if err != nil {
		return nil, err
	}
	return &view.View{
		Kind:  view.KindDashboard,
		Title: "My Training",
		Data:  dash,
		Actions: []view.Action{
			{Label: "Progress", Path: fmt.Sprintf("training/%d/progress", id)},
			{Label: "Certificates", Path: fmt.Sprintf("training/%d/certificates", id)},
		},
	}, nil
}

// PlayerData is the declarative payload of the content player screen.
type PlayerData struct {
	Module   *model.TrainingModule `json:"module"`
	Progress float64               `json:"progress"`
	Display  string                `json:"display"`
	State    engine.ProgressState  `json:"state"`
	Notes    string                `json:"notes"`
	HasQuiz  bool                  `json:"has_quiz"`
}

func (p *EmployeePortal) ShowModule(ctx context.Context, params map[string]string) (*view.View, error) {
	id := employeeID(params)
	moduleID := util.MustParseUint(params["moduleId"])
	path := fmt.Sprintf("training/%d/training/%d", id, moduleID)
	if !p.require(ctx, path) {
		return redirect(p.router, p.loginPath(id))
	}

	p.CloseActive(ctx)

	player := engine.NewPlayer(p.api, p.cfg, p.log)
	if err := player.Open(ctx, id, moduleID); err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			return view.Unavailable("Module Not Found",
				"The requested training module could not be loaded.",
				p.dashboardPath(id)), nil
		}
		return nil, err
	}
	player.StartAutosave(ctx)

	p.mu.Lock()
	p.activePlay = player
	p.mu.Unlock()

	return p.playerView(id, player), nil
}

func (p *EmployeePortal) playerView(id uint, player *engine.Player) *view.View {
	module := player.Module()
	progress := player.Progress()
	actions := []view.Action{
		{Label: "Back to Dashboard", Path: p.dashboardPath(id)},
	}
	if module.HasQuiz() {
		actions = append(actions, view.Action{
			Label: "Take Quiz",
			Path:  fmt.Sprintf("training/%d/quiz/%d", id, module.ID),
		})
	}
	return &view.View{
		Kind:  view.KindPlayer,
		Title: module.Title,
		Data: PlayerData{
			Module:   module,
			Progress: progress,
			Display:  util.FormatPercent(progress),
			State:    player.State(),
			Notes:    player.Notes(),
			HasQuiz:  module.HasQuiz(),
		},
		Actions: actions,
	}
}

// Player returns the active content player, or nil outside a module screen.
func (p *EmployeePortal) Player() *engine.Player {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activePlay
}

// Quiz returns the active quiz session, or nil outside a quiz screen.
func (p *EmployeePortal) Quiz() *engine.Quiz {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activeQuiz
}

func (p *EmployeePortal) ShowQuiz(ctx context.Context, params map[string]string) (*view.View, error) {
	id := employeeID(params)
	moduleID := util.MustParseUint(params["moduleId"])
	path := fmt.Sprintf("training/%d/quiz/%d", id, moduleID)
	if !p.require(ctx, path) {
		return redirect(p.router, p.loginPath(id))
	}

	p.CloseActive(ctx)

	quiz := engine.NewQuiz(p.api, p.cfg, p.confirmer, p.log)
	if err := quiz.Init(ctx, id, moduleID); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			return view.Unavailable("No Quiz Available",
				"This training module does not have a quiz.",
				p.dashboardPath(id)), nil
		}
		if errors.Is(err, util.ErrModuleNotFound) {
			return view.Unavailable("Module Not Found",
				"The requested training module could not be loaded.",
				p.dashboardPath(id)), nil
		}
		return nil, err
	}

	quiz.OnExpire = func(results *engine.QuizResults, err error) {
		if err != nil {
			p.log.Error("auto-submission failed", zap.Error(err))
			p.host.Alert(view.AlertError, "Failed to submit quiz. Please try again.")
			return
		}
		p.host.Render(p.resultsView(id, moduleID, results))
	}
	quiz.StartTimer(ctx)

	p.mu.Lock()
	p.activeQuiz = quiz
	p.mu.Unlock()

	return p.quizView(quiz), nil
}

func (p *EmployeePortal) quizView(quiz *engine.Quiz) *view.View {
	snapshot := quiz.Snapshot()
	return &view.View{
		Kind:  view.KindQuiz,
		Title: snapshot.ModuleTitle + " - Quiz",
		Data:  snapshot,
	}
}

func (p *EmployeePortal) resultsView(id, moduleID uint, results *engine.QuizResults) *view.View {
	title := "Quiz Not Passed"
	actions := []view.Action{
		{Label: "Retake Quiz", Path: fmt.Sprintf("training/%d/quiz/%d", id, moduleID)},
		{Label: "Back to Dashboard", Path: p.dashboardPath(id)},
	}
	if results.Passed {
		title = "Congratulations!"
		actions = []view.Action{
			{Label: "Download Certificate", Path: fmt.Sprintf("training/%d/certificates", id)},
			{Label: "Back to Dashboard", Path: p.dashboardPath(id)},
		}
	}
	return &view.View{
		Kind:    view.KindQuizResults,
		Title:   title,
		Data:    results,
		Actions: actions,
	}
}

// SubmitQuiz runs a manual submission. A nil view with nil error means the
// user cancelled at the confirmation prompt and the session continues.
func (p *EmployeePortal) SubmitQuiz(ctx context.Context) (*view.View, error) {
	quiz := p.Quiz()
	if quiz == nil {
		return nil, util.ErrNoQuizLoaded
	}

	result, err := quiz.Submit(ctx, false)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	params := p.router.CurrentParams()
	return p.resultsView(employeeID(params), util.MustParseUint(params["moduleId"]), quiz.Results()), nil
}

func (p *EmployeePortal) RetakeQuiz(ctx context.Context) (*view.View, error) {
	quiz := p.Quiz()
	if quiz == nil {
		return nil, util.ErrNoQuizLoaded
	}
	if err := quiz.Retake(ctx); err != nil {
		return nil, err
	}
	return p.quizView(quiz), nil
}

func (p *EmployeePortal) ShowProgress(ctx context.Context, params map[string]string) (*view.View, error) {
	id := employeeID(params)
	path := fmt.Sprintf("training/%d/progress", id)
	if !p.require(ctx, path) {
		return redirect(p.router, p.loginPath(id))
	}

	records, err := p.api.LoadProgress(ctx, id)
	if err != nil {
		return nil, err
	}
	return &view.View{
		Kind:  view.KindTable,
		Title: "My Progress",
		Data:  records,
		Actions: []view.Action{
			{Label: "Back to Dashboard", Path: p.dashboardPath(id)},
		},
	}, nil
}

func (p *EmployeePortal) ShowCertificates(ctx context.Context, params map[string]string) (*view.View, error) {
	id := employeeID(params)
	path := fmt.Sprintf("training/%d/certificates", id)
	if !p.require(ctx, path) {
		return redirect(p.router, p.loginPath(id))
	}

	certs, err := p.api.EmployeeCertificates(ctx, id)
	if err != nil {
		return nil, err
	}
	return &view.View{
		Kind:  view.KindTable,
		Title: "My Certificates",
		Data:  certs,
		Actions: []view.Action{
			{Label: "Back to Dashboard", Path: p.dashboardPath(id)},
		},
	}, nil
}
