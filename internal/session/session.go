// Package session holds the authenticated identity of the running client:
// role, tenant identifiers and the backing token. State is derived from the
// current path scope plus a backend auth check, never trusted locally.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"starcomm_training_client/internal/client"
	"starcomm_training_client/internal/model"
	"starcomm_training_client/internal/util"

	"go.uber.org/zap"
)

type Context struct {
	mu         sync.RWMutex
	api        *client.Client
	log        *zap.Logger
	role       model.Role
	companyID  uint
	employeeID uint
	name       string
	claims     *util.Claims
}

func New(api *client.Client, log *zap.Logger) *Context {
	return &Context{api: api, log: log}
}

func (s *Context) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.role == "" {
		return false
	}
	if util.TokenExpired(s.claims) {
		return false
	}
	return true
}

func (s *Context) HasRole(role model.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role == role
}

func (s *Context) Role() model.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *Context) CompanyID() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.companyID
}

func (s *Context) EmployeeID() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.employeeID
}

func (s *Context) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// scopeOf reports which portal a path belongs to, with the scoping id when
// the path carries one.
func scopeOf(path string) (scope string, id uint) {
	segments := strings.Split(path, "/")
	if len(segments) == 0 {
		return "", 0
	}
	switch segments[0] {
	case "master":
		return "master", 0
	case "company", "training":
		if len(segments) > 1 {
			id = util.MustParseUint(segments[1])
		}
		return segments[0], id
	}
	return "", 0
}

// CheckAuth asks the backend whether the session behind our cookie/token is
// still valid for the scope the path belongs to, and refreshes local state
// from the answer. A failed check clears the local identity.
func (s *Context) CheckAuth(ctx context.Context, path string) bool {
	scope, id := scopeOf(path)

	var (
		status *model.AuthStatus
		err    error
	)
	switch scope {
	case "master":
		status, err = s.api.CheckMasterAuth(ctx)
	case "company":
		if id == 0 {
			return false
		}
		status, err = s.api.CheckCompanyAuth(ctx, id)
	case "training":
		if id == 0 {
			return false
		}
		status, err = s.api.CheckEmployeeAuth(ctx, id)
	default:
		return false
	}

	if err != nil || status == nil || !status.Authenticated {
		if err != nil {
			s.log.Debug("auth check failed", zap.String("path", path), zap.Error(err))
		}
		s.clear()
		return false
	}

	s.apply(status)
	return true
}

// RequireAuth is the access-control gate used by every route handler: it
// verifies the session is live, carries one of the allowed roles, and is
// scoped to the tenant the path names.
func (s *Context) RequireAuth(ctx context.Context, path string, roles ...model.Role) bool {
	if !s.IsAuthenticated() && !s.CheckAuth(ctx, path) {
		return false
	}

	if len(roles) > 0 {
		allowed := false
		for _, role := range roles {
			if s.HasRole(role) {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	scope, id := scopeOf(path)
	switch scope {
	case "company":
		if id != 0 && s.CompanyID() != id {
			return false
		}
	case "training":
		if id != 0 && s.EmployeeID() != id {
			return false
		}
	}
	return true
}

// LoginTarget computes the role-appropriate login route for a path, used for
// the unauthorized redirect. Unauthorized is always a redirect, never an
// error screen.
func (s *Context) LoginTarget(path string) string {
	scope, id := scopeOf(path)
	switch scope {
	case "master":
		return "master/login"
	case "company":
		if id != 0 {
			return fmt.Sprintf("company/%d/login", id)
		}
	case "training":
		if id != 0 {
			return fmt.Sprintf("training/%d/login", id)
		}
	}
	return ""
}

func (s *Context) LoginMaster(ctx context.Context, username, password string) error {
	status, err := s.api.MasterLogin(ctx, username, password)
	if err != nil {
		return err
	}
	s.apply(status)
	return nil
}

func (s *Context) LoginCompany(ctx context.Context, companyID uint, password string) error {
	status, err := s.api.CompanyLogin(ctx, companyID, password)
	if err != nil {
		return err
	}
	s.apply(status)
	return nil
}

func (s *Context) LoginEmployee(ctx context.Context, employeeID uint, password string) error {
	status, err := s.api.EmployeeLogin(ctx, employeeID, password)
	if err != nil {
		return err
	}
	s.apply(status)
	return nil
}

// Logout tells the backend to drop the session, then clears local state
// regardless of the outcome.
func (s *Context) Logout(ctx context.Context) {
	var err error
	switch {
	case s.HasRole(model.RoleMasterAdmin):
		err = s.api.MasterLogout(ctx)
	case s.HasRole(model.RoleCompanyAdmin) && s.CompanyID() != 0:
		err = s.api.CompanyLogout(ctx, s.CompanyID())
	case s.HasRole(model.RoleEmployee) && s.EmployeeID() != 0:
		err = s.api.EmployeeLogout(ctx, s.EmployeeID())
	}
	if err != nil {
		s.log.Warn("logout request failed", zap.Error(err))
	}
	s.clear()
}

func (s *Context) apply(status *model.AuthStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.role = status.Role
	s.companyID = status.CompanyID
	s.employeeID = status.EmployeeID
	s.name = status.Name

	if status.Token != "" {
		s.api.SetToken(status.Token)
		claims, err := util.ParseSessionToken(status.Token)
		if err != nil {
			s.log.Debug("session token has no readable claims", zap.Error(err))
			s.claims = nil
		} else {
			s.claims = claims
		}
	}
}

func (s *Context) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.role = ""
	s.companyID = 0
	s.employeeID = 0
	s.name = ""
	s.claims = nil
	s.api.ClearToken()
}
