package engine

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"starcomm_training_client/internal/client"
	"starcomm_training_client/internal/config"
	"starcomm_training_client/internal/model"
)

// trainingStub is an in-process stand-in for the training backend. It speaks
// the backend's {code, message, data} envelope and records every write so
// tests can assert on save traffic.
type trainingStub struct {
	mu sync.Mutex

	module *model.TrainingModule
	record *model.ProgressRecord
	notes  string
	result model.QuizResult

	failSaves   bool
	failSubmits bool

	saveCalls   int
	submitCalls int

	server *httptest.Server
}

func newTrainingStub(t *testing.T, module *model.TrainingModule) *trainingStub {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &trainingStub{module: module}
	r := gin.New()

	ok := func(c *gin.Context, data any) {
		c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": data})
	}
	fail := func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "database unavailable"})
	}

	r.GET("/api/employee/:id/modules/:moduleId", func(c *gin.Context) {
		s.mu.Lock()
		module := s.module
		s.mu.Unlock()
		if module == nil {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "module not found"})
			return
		}
		ok(c, module)
	})
	r.GET("/api/employee/:id/progress", func(c *gin.Context) {
		s.mu.Lock()
		records := []model.ProgressRecord{}
		if s.record != nil {
			records = append(records, *s.record)
		}
		s.mu.Unlock()
		ok(c, records)
	})
	r.PUT("/api/employee/:id/progress/:moduleId", func(c *gin.Context) {
		s.mu.Lock()
		s.saveCalls++
		failing := s.failSaves
		s.mu.Unlock()
		if failing {
			fail(c)
			return
		}
		var update model.ProgressUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
			return
		}
		s.mu.Lock()
		if s.record == nil {
			s.record = &model.ProgressRecord{}
		}
		if update.Progress != nil {
			s.record.Progress = *update.Progress
		}
		if update.LastPosition != nil {
			s.record.LastPosition = *update.LastPosition
		}
		if update.Completed != nil {
			s.record.Completed = *update.Completed
		}
		s.mu.Unlock()
		ok(c, nil)
	})
	r.GET("/api/employee/:id/notes/:moduleId", func(c *gin.Context) {
		s.mu.Lock()
		notes := s.notes
		s.mu.Unlock()
		ok(c, gin.H{"notes": notes})
	})
	r.POST("/api/employee/:id/notes/:moduleId", func(c *gin.Context) {
		var payload struct {
			Notes string `json:"notes"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
			return
		}
		s.mu.Lock()
		s.notes = payload.Notes
		s.mu.Unlock()
		ok(c, nil)
	})
	r.POST("/api/employee/:id/quiz/:moduleId", func(c *gin.Context) {
		s.mu.Lock()
		s.submitCalls++
		failing := s.failSubmits
		result := s.result
		s.mu.Unlock()
		if failing {
			fail(c)
			return
		}
		ok(c, result)
	})

	s.server = httptest.NewServer(r)
	t.Cleanup(s.server.Close)
	return s
}

func (s *trainingStub) setFailSaves(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSaves = fail
}

func (s *trainingStub) setFailSubmits(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSubmits = fail
}

func (s *trainingStub) setResult(result model.QuizResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
}

func (s *trainingStub) saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCalls
}

func (s *trainingStub) submits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitCalls
}

func (s *trainingStub) savedRecord() *model.ProgressRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return nil
	}
	record := *s.record
	return &record
}

func stubConfig(baseURL string) *config.Config {
	return &config.Config{
		API: config.APIConfig{
			BaseURL:        baseURL,
			Timeout:        5 * time.Second,
			RequestsPerSec: 1000,
			Burst:          1000,
		},
		Progress: config.ProgressConfig{AutosaveInterval: 20 * time.Millisecond},
		Quiz: config.QuizConfig{
			TimeLimit:    30 * time.Minute,
			PassingScore: 80,
		},
	}
}

func stubClient(cfg *config.Config) *client.Client {
	return client.New(cfg, zap.NewNop())
}

// scriptedConfirmer answers every prompt with a fixed choice and records what
// it was asked.
type scriptedConfirmer struct {
	mu       sync.Mutex
	answer   bool
	messages []string
}

func (c *scriptedConfirmer) Confirm(message string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
	return c.answer
}

func (c *scriptedConfirmer) asked() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}
