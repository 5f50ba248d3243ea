package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"starcomm_training_client/internal/config"
	"starcomm_training_client/internal/model"
	"starcomm_training_client/internal/util"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		API: config.APIConfig{
			BaseURL:        baseURL,
			Timeout:        5 * time.Second,
			RequestsPerSec: 1000,
			Burst:          1000,
		},
	}
}

func newBackend(t *testing.T, register func(r *gin.Engine)) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return New(testConfig(server.URL), zap.NewNop())
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{"code": status, "message": message, "data": data})
}

func TestEnvelopeDataDecoded(t *testing.T) {
	c := newBackend(t, func(r *gin.Engine) {
		r.GET("/api/employee/:id/dashboard", func(c *gin.Context) {
			respond(c, http.StatusOK, "success", model.EmployeeDashboard{
				Employee: &model.Employee{ID: 7, Name: "Ada"},
				Modules:  []model.TrainingModule{{ID: 3, Title: "Phishing Awareness"}},
				Progress: []model.ProgressRecord{{ModuleID: 3, Progress: 25}},
			})
		})
	})

	dash, err := c.EmployeeDashboard(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, "Ada", dash.Employee.Name)
	assert.Len(t, dash.Modules, 1)
	assert.Equal(t, 25.0, dash.Progress[0].Progress)
}

func TestErrorTaxonomy(t *testing.T) {
	c := newBackend(t, func(r *gin.Engine) {
		r.GET("/api/employee/:id/modules/:moduleId", func(c *gin.Context) {
			respond(c, http.StatusNotFound, "module not found", nil)
		})
		r.GET("/api/employee/:id/dashboard", func(c *gin.Context) {
			respond(c, http.StatusUnauthorized, "authentication required", nil)
		})
		r.GET("/api/employee/:id/progress", func(c *gin.Context) {
			respond(c, http.StatusForbidden, "wrong tenant", nil)
		})
		r.GET("/api/employee/:id/certificates", func(c *gin.Context) {
			respond(c, http.StatusInternalServerError, "database unavailable", nil)
		})
	})
	ctx := context.Background()

	_, err := c.LoadModule(ctx, 7, 99)
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = c.EmployeeDashboard(ctx, 7)
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	_, err = c.LoadProgress(ctx, 7)
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	_, err = c.EmployeeCertificates(ctx, 7)
	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "database unavailable")
}

func TestTransportErrorWrapped(t *testing.T) {
	// A closed port: the request never reaches a backend.
	c := New(testConfig("http://127.0.0.1:1"), zap.NewNop())
	_, err := c.EmployeeDashboard(context.Background(), 7)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, util.ErrNotFound)
	assert.NotErrorIs(t, err, util.ErrUnauthorized)
}

func TestBearerTokenAttached(t *testing.T) {
	var got string
	c := newBackend(t, func(r *gin.Engine) {
		r.GET("/api/employee/:id/dashboard", func(c *gin.Context) {
			got = c.GetHeader("Authorization")
			respond(c, http.StatusOK, "success", nil)
		})
	})

	c.SetToken("session-token")
	_, err := c.EmployeeDashboard(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, "Bearer session-token", got)

	c.ClearToken()
	_, err = c.EmployeeDashboard(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestRequestIDHeaderSet(t *testing.T) {
	seen := map[string]bool{}
	c := newBackend(t, func(r *gin.Engine) {
		r.GET("/api/employee/:id/dashboard", func(c *gin.Context) {
			seen[c.GetHeader("X-Request-ID")] = true
			respond(c, http.StatusOK, "success", nil)
		})
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := c.EmployeeDashboard(ctx, 7)
		assert.NoError(t, err)
	}
	assert.Len(t, seen, 3, "every request carries a fresh id")
	assert.False(t, seen[""])
}

func TestSubmitQuizPayloadAndResult(t *testing.T) {
	var payload struct {
		Answers map[uint]int `json:"answers"`
	}
	c := newBackend(t, func(r *gin.Engine) {
		r.POST("/api/employee/:id/quiz/:moduleId", func(c *gin.Context) {
			assert.NoError(t, c.ShouldBindJSON(&payload))
			respond(c, http.StatusOK, "success", model.QuizResult{
				Score:          66.67,
				CorrectAnswers: 2,
				TotalQuestions: 3,
				Attempts:       2,
			})
		})
	})

	result, err := c.SubmitQuiz(context.Background(), 7, 5, map[uint]int{1: 0, 2: 2})
	assert.NoError(t, err)
	assert.Equal(t, 66.67, result.Score)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, map[uint]int{1: 0, 2: 2}, payload.Answers)
}

func TestSaveProgressSendsPartialUpdate(t *testing.T) {
	var body map[string]any
	c := newBackend(t, func(r *gin.Engine) {
		r.PUT("/api/employee/:id/progress/:moduleId", func(c *gin.Context) {
			assert.NoError(t, c.ShouldBindJSON(&body))
			respond(c, http.StatusOK, "success", nil)
		})
	})

	progress := 42.5
	err := c.SaveProgress(context.Background(), 7, 3, model.ProgressUpdate{Progress: &progress})
	assert.NoError(t, err)

	assert.Equal(t, 42.5, body["progress"])
	_, hasCompleted := body["completed"]
	assert.False(t, hasCompleted, "absent fields stay out of the payload")
}
