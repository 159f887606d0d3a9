package handlers

import (
	"context"
	"time"

	"heatkeeper/internal/models"
	"heatkeeper/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockReconciler struct {
	summary  service.RunSummary
	err      error
	runCalls int
	lastOpts service.RunOptions
}

func (m *mockReconciler) Run(ctx context.Context, opts service.RunOptions) (service.RunSummary, error) {
	m.runCalls++
	m.lastOpts = opts
	return m.summary, m.err
}

type mockRunLog struct {
	resp        []models.RunEvent
	err         error
	lastFrom    time.Time
	lastTo      time.Time
	lastOutcome string
}

func (m *mockRunLog) List(ctx context.Context, f service.LogFilter) ([]models.RunEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastOutcome = f.Outcome
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
