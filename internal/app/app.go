package app

import (
	"context"

	"starcomm_training_client/internal/client"
	"starcomm_training_client/internal/config"
	"starcomm_training_client/internal/engine"
	"starcomm_training_client/internal/portal"
	"starcomm_training_client/internal/router"
	"starcomm_training_client/internal/session"
	"starcomm_training_client/pkg/logger"

	"go.uber.org/zap"
)

// App wires the API client, session context, router and the three role
// portals together. The host and confirmer come from the caller so the
// same wiring serves both the interactive binary and the tests.
type App struct {
	Config  *config.Config
	Log     *zap.Logger
	API     *client.Client
	Session *session.Context
	Router  *router.Router

	Master   *portal.MasterPortal
	Company  *portal.CompanyPortal
	Employee *portal.EmployeePortal
}

func NewApp(cfg *config.Config, host router.Host, confirmer engine.Confirmer) *App {
	logger.InitLogger(cfg)
	log := logger.Log

	api := client.New(cfg, log)
	sess := session.New(api, log)
	r := router.New(host, log)

	a := &App{
		Config:  cfg,
		Log:     log,
		API:     api,
		Session: sess,
		Router:  r,

		Master:   portal.NewMasterPortal(api, sess, r, log),
		Company:  portal.NewCompanyPortal(api, sess, r, log),
		Employee: portal.NewEmployeePortal(api, sess, r, host, cfg, confirmer, log),
	}
	a.registerRoutes()
	return a
}

// Run drives the navigation loop until ctx is cancelled or Stop is called.
func (a *App) Run(ctx context.Context) {
	a.Log.Info("starting navigation loop",
		zap.String("api_base_url", a.Config.API.BaseURL))
	a.Router.Run(ctx)
}

// Stop shuts the navigation loop down, releases any active player or quiz
// timers and waits for in-flight handlers to finish.
func (a *App) Stop(ctx context.Context) {
	a.Router.Stop()
	a.Employee.CloseActive(ctx)
	a.Router.Wait()
	a.Log.Info("navigation loop stopped")
}
