package portal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"starcomm_training_client/internal/client"
	"starcomm_training_client/internal/config"
	"starcomm_training_client/internal/router"
	"starcomm_training_client/internal/session"
	"starcomm_training_client/internal/view"
)

type nullHost struct{}

func (nullHost) Render(*view.View)             {}
func (nullHost) Alert(view.AlertLevel, string) {}

func newCompanyPortal(t *testing.T, register func(r *gin.Engine)) (*CompanyPortal, *router.Router) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if register != nil {
		register(r)
	}
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	cfg := &config.Config{API: config.APIConfig{
		BaseURL:        server.URL,
		Timeout:        5 * time.Second,
		RequestsPerSec: 1000,
		Burst:          1000,
	}}
	api := client.New(cfg, zap.NewNop())
	sess := session.New(api, zap.NewNop())
	rt := router.New(nullHost{}, zap.NewNop())
	return NewCompanyPortal(api, sess, rt, zap.NewNop()), rt
}

func TestCreateEmployeeValidation(t *testing.T) {
	hit := false
	portal, _ := newCompanyPortal(t, func(r *gin.Engine) {
		r.POST("/api/company/:id/employees", func(c *gin.Context) {
			hit = true
			c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success"})
		})
	})

	tests := []struct {
		name    string
		payload client.EmployeePayload
		wantErr bool
	}{
		{
			name:    "missing name",
			payload: client.EmployeePayload{Email: "ada@acme.test"},
			wantErr: true,
		},
		{
			name:    "bad email",
			payload: client.EmployeePayload{Name: "Ada", Email: "not-an-email"},
			wantErr: true,
		},
		{
			name:    "short password",
			payload: client.EmployeePayload{Name: "Ada", Email: "ada@acme.test", Password: "short"},
			wantErr: true,
		},
		{
			name:    "valid",
			payload: client.EmployeePayload{Name: "Ada", Email: "ada@acme.test", Password: "long-enough"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit = false
			_, err := portal.CreateEmployee(context.Background(), 42, tt.payload)
			if tt.wantErr {
				var vErr *ValidationError
				assert.True(t, errors.As(err, &vErr), "want a validation error, got %v", err)
				assert.False(t, hit, "invalid payloads never reach the backend")
			} else {
				assert.NoError(t, err)
				assert.True(t, hit)
			}
		})
	}
}

func TestImportEmployeesCSV(t *testing.T) {
	var imported []client.EmployeePayload
	portal, _ := newCompanyPortal(t, func(r *gin.Engine) {
		r.POST("/api/company/:id/employees/bulk-import", func(c *gin.Context) {
			var body struct {
				Employees []client.EmployeePayload `json:"employees"`
			}
			assert.NoError(t, c.ShouldBindJSON(&body))
			imported = body.Employees
			c.JSON(http.StatusOK, gin.H{
				"code": http.StatusOK, "message": "success",
				"data": client.BulkImportResult{Imported: len(body.Employees)},
			})
		})
	})

	csvFile := strings.Join([]string{
		"name,email,department,employee_id",
		"Ada Lovelace,ada@acme.test,Engineering,E-1",
		"No Email Person,,Engineering,E-2",
		"Grace Hopper,grace@acme.test,Security,E-3",
	}, "\n")

	result, err := portal.ImportEmployeesCSV(context.Background(), 42, strings.NewReader(csvFile))
	assert.NoError(t, err)
	assert.Len(t, imported, 2, "only valid rows are submitted")
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "row 3")
}

func TestImportEmployeesCSVNoValidRows(t *testing.T) {
	portal, _ := newCompanyPortal(t, nil)

	_, err := portal.ImportEmployeesCSV(context.Background(), 42,
		strings.NewReader("name,email\n,not-an-email\n"))
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestImportEmployeesCSVEmptyFile(t *testing.T) {
	portal, _ := newCompanyPortal(t, nil)

	_, err := portal.ImportEmployeesCSV(context.Background(), 42, strings.NewReader(""))
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestAssignTrainingRequiresSelections(t *testing.T) {
	portal, _ := newCompanyPortal(t, nil)

	err := portal.AssignTraining(context.Background(), 42, nil, []uint{3})
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))

	err = portal.AssignTraining(context.Background(), 42, []uint{7}, nil)
	assert.True(t, errors.As(err, &vErr))
}

func TestBulkCompanyActionValidatesAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server := httptest.NewServer(gin.New())
	t.Cleanup(server.Close)

	cfg := &config.Config{API: config.APIConfig{
		BaseURL:        server.URL,
		Timeout:        5 * time.Second,
		RequestsPerSec: 1000,
		Burst:          1000,
	}}
	api := client.New(cfg, zap.NewNop())
	sess := session.New(api, zap.NewNop())
	rt := router.New(nullHost{}, zap.NewNop())
	master := NewMasterPortal(api, sess, rt, zap.NewNop())

	var vErr *ValidationError
	err := master.BulkCompanyAction(context.Background(), []uint{1, 2}, "explode")
	assert.True(t, errors.As(err, &vErr))

	err = master.BulkCompanyAction(context.Background(), nil, "activate")
	assert.True(t, errors.As(err, &vErr))
}

func TestValidationErrorMessage(t *testing.T) {
	err := validateStruct(client.CompanyPayload{Name: "", ContactEmail: "nope"})
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.NotEmpty(t, vErr.Error())
}
