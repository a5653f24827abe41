package handler

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/proctorly/invigil/internal/domain"
)

// MockSessionService is a mock implementation of SessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) StartSession(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSessionService) StopSession(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSessionService) Session() domain.ExamSession {
	return m.Called().Get(0).(domain.ExamSession)
}

func newSessionApp(service SessionService) *fiber.App {
	app := newTestApp()
	h := NewSessionHandler(service, testLogger())
	app.Post("/v1/session/start", h.Start)
	app.Post("/v1/session/stop", h.Stop)
	app.Get("/v1/session", h.Get)
	return app
}

func TestSessionHandler_Start(t *testing.T) {
	t.Run("starts the session", func(t *testing.T) {
		service := new(MockSessionService)
		service.On("StartSession", mock.Anything).Return(nil)
		service.On("Session").Return(domain.ExamSession{State: domain.SessionRunning})

		app := newSessionApp(service)
		resp, err := app.Test(httptest.NewRequest("POST", "/v1/session/start", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body SessionResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "started", body.Status)
		assert.Equal(t, domain.SessionRunning, body.Session.State)
	})

	t.Run("double start maps to 409", func(t *testing.T) {
		service := new(MockSessionService)
		service.On("StartSession", mock.Anything).Return(domain.ErrAlreadyRunning)

		app := newSessionApp(service)
		resp, err := app.Test(httptest.NewRequest("POST", "/v1/session/start", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("capture failure maps to 503", func(t *testing.T) {
		service := new(MockSessionService)
		service.On("StartSession", mock.Anything).Return(domain.ErrCaptureUnavailable)

		app := newSessionApp(service)
		resp, err := app.Test(httptest.NewRequest("POST", "/v1/session/start", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestSessionHandler_Stop(t *testing.T) {
	t.Run("stops the session", func(t *testing.T) {
		service := new(MockSessionService)
		service.On("StopSession", mock.Anything).Return(nil)
		service.On("Session").Return(domain.ExamSession{State: domain.SessionStopped})

		app := newSessionApp(service)
		resp, err := app.Test(httptest.NewRequest("POST", "/v1/session/stop", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body SessionResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "stopped", body.Status)
	})

	t.Run("stop before start maps to 409", func(t *testing.T) {
		service := new(MockSessionService)
		service.On("StopSession", mock.Anything).Return(domain.ErrNotRunning)

		app := newSessionApp(service)
		resp, err := app.Test(httptest.NewRequest("POST", "/v1/session/stop", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})
}

func TestSessionHandler_Get(t *testing.T) {
	service := new(MockSessionService)
	service.On("Session").Return(domain.ExamSession{State: domain.SessionNotStarted})

	app := newSessionApp(service)
	resp, err := app.Test(httptest.NewRequest("GET", "/v1/session", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body domain.ExamSession
	decodeBody(t, resp, &body)
	assert.Equal(t, domain.SessionNotStarted, body.State)
}
