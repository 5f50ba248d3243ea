package client

import (
	"context"
	"fmt"

	"starcomm_training_client/internal/model"
)

// Employee scope: training consumption, progress, notes, quizzes and
// certificates. All paths are keyed by the employee id.

func (c *Client) EmployeeLogin(ctx context.Context, employeeID uint, password string) (*model.AuthStatus, error) {
	body := map[string]string{"password": password}
	var status model.AuthStatus
	if err := c.post(ctx, fmt.Sprintf("/api/employee/%d/login", employeeID), body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) EmployeeLogout(ctx context.Context, employeeID uint) error {
	return c.post(ctx, fmt.Sprintf("/api/employee/%d/logout", employeeID), nil, nil)
}

func (c *Client) CheckEmployeeAuth(ctx context.Context, employeeID uint) (*model.AuthStatus, error) {
	var status model.AuthStatus
	if err := c.get(ctx, fmt.Sprintf("/api/employee/%d/check-auth", employeeID), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) EmployeeDashboard(ctx context.Context, employeeID uint) (*model.EmployeeDashboard, error) {
	var dash model.EmployeeDashboard
	if err := c.get(ctx, fmt.Sprintf("/api/employee/%d/dashboard", employeeID), &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

// LoadModule fetches one training module, including its quiz questions when
// the backend grants this employee access. Fails with util.ErrNotFound on a
// module/tenant mismatch.
func (c *Client) LoadModule(ctx context.Context, employeeID, moduleID uint) (*model.TrainingModule, error) {
	var module model.TrainingModule
	path := fmt.Sprintf("/api/employee/%d/modules/%d", employeeID, moduleID)
	if err := c.get(ctx, path, &module); err != nil {
		return nil, err
	}
	return &module, nil
}

func (c *Client) LoadProgress(ctx context.Context, employeeID uint) ([]model.ProgressRecord, error) {
	var records []model.ProgressRecord
	if err := c.get(ctx, fmt.Sprintf("/api/employee/%d/progress", employeeID), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveProgress writes a partial progress update: fields present overwrite,
// absent fields stay unchanged.
func (c *Client) SaveProgress(ctx context.Context, employeeID, moduleID uint, update model.ProgressUpdate) error {
	path := fmt.Sprintf("/api/employee/%d/progress/%d", employeeID, moduleID)
	return c.put(ctx, path, update, nil)
}

func (c *Client) LoadNotes(ctx context.Context, employeeID, moduleID uint) (string, error) {
	var payload struct {
		Notes string `json:"notes"`
	}
	path := fmt.Sprintf("/api/employee/%d/notes/%d", employeeID, moduleID)
	if err := c.get(ctx, path, &payload); err != nil {
		return "", err
	}
	return payload.Notes, nil
}

func (c *Client) SaveNotes(ctx context.Context, employeeID, moduleID uint, notes string) error {
	path := fmt.Sprintf("/api/employee/%d/notes/%d", employeeID, moduleID)
	return c.post(ctx, path, map[string]string{"notes": notes}, nil)
}

func (c *Client) SubmitQuiz(ctx context.Context, employeeID, moduleID uint, answers map[uint]int) (*model.QuizResult, error) {
	var result model.QuizResult
	path := fmt.Sprintf("/api/employee/%d/quiz/%d", employeeID, moduleID)
	if err := c.post(ctx, path, map[string]any{"answers": answers}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) EmployeeCertificates(ctx context.Context, employeeID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	if err := c.get(ctx, fmt.Sprintf("/api/employee/%d/certificates", employeeID), &certs); err != nil {
		return nil, err
	}
	return certs, nil
}

func (c *Client) Certificate(ctx context.Context, employeeID, moduleID uint) (*model.Certificate, error) {
	var cert model.Certificate
	path := fmt.Sprintf("/api/employee/%d/certificate/%d", employeeID, moduleID)
	if err := c.get(ctx, path, &cert); err != nil {
		return nil, err
	}
	return &cert, nil
}
