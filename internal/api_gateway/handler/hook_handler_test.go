package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aivl-fintrxn-generator/internal/domain/shared"
)

type MockHookService struct {
	mock.Mock
}

func (m *MockHookService) Announce(ctx context.Context, event *shared.HookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func newHookRouter(handler *HookHandler) *gin.Engine {
	router := gin.New()
	router.POST("/hooks/pre", handler.Pre)
	router.POST("/hooks/post", handler.Post)
	return router
}

func TestHookHandler_Pre(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	t.Run("edit pre notification accepted", func(t *testing.T) {
		mockService := new(MockHookService)
		mockService.On("Announce", mock.Anything, mock.MatchedBy(func(event *shared.HookEvent) bool {
			return event.Phase == shared.HookPhasePre &&
				event.Operation == shared.OperationEdit &&
				event.SubjectID == 42
		})).Return(nil).Once()

		handler := NewHookHandler(logger, mockService)
		router := newHookRouter(handler)

		reqBody := HookNotificationRequest{
			Operation: "edit",
			SubjectID: 42,
			Values: map[string]any{
				"id":                     42,
				"contribution_status_id": "2",
				"total_amount":           "150.00",
			},
		}
		jsonBody, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/hooks/pre", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Nil(t, resp.Error)
		mockService.AssertExpectations(t)
	})

	t.Run("create pre notification may omit subject id", func(t *testing.T) {
		mockService := new(MockHookService)
		mockService.On("Announce", mock.Anything, mock.MatchedBy(func(event *shared.HookEvent) bool {
			return event.Phase == shared.HookPhasePre &&
				event.Operation == shared.OperationCreate &&
				event.SubjectID == 0
		})).Return(nil).Once()

		handler := NewHookHandler(logger, mockService)
		router := newHookRouter(handler)

		jsonBody, _ := json.Marshal(HookNotificationRequest{
			Operation: "create",
			Values:    map[string]any{},
		})

		req, _ := http.NewRequest(http.MethodPost, "/hooks/pre", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("invalid operation", func(t *testing.T) {
		mockService := new(MockHookService)
		handler := NewHookHandler(logger, mockService)
		router := newHookRouter(handler)

		jsonBody, _ := json.Marshal(map[string]any{
			"operation": "delete",
			"values":    map[string]any{},
		})

		req, _ := http.NewRequest(http.MethodPost, "/hooks/pre", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Announce")
	})

	t.Run("publish failure", func(t *testing.T) {
		mockService := new(MockHookService)
		mockService.On("Announce", mock.Anything, mock.Anything).
			Return(errors.New("kafka unavailable")).Once()

		handler := NewHookHandler(logger, mockService)
		router := newHookRouter(handler)

		jsonBody, _ := json.Marshal(HookNotificationRequest{
			Operation: "edit",
			SubjectID: 42,
			Values:    map[string]any{"id": 42},
		})

		req, _ := http.NewRequest(http.MethodPost, "/hooks/pre", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHookHandler_Post(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	t.Run("post notification accepted", func(t *testing.T) {
		mockService := new(MockHookService)
		mockService.On("Announce", mock.Anything, mock.MatchedBy(func(event *shared.HookEvent) bool {
			return event.Phase == shared.HookPhasePost && event.SubjectID == 42
		})).Return(nil).Once()

		handler := NewHookHandler(logger, mockService)
		router := newHookRouter(handler)

		jsonBody, _ := json.Marshal(HookNotificationRequest{
			Operation: "create",
			SubjectID: 42,
			Values:    map[string]any{"id": 42, "contribution_status_id": "1"},
		})

		req, _ := http.NewRequest(http.MethodPost, "/hooks/post", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("post notification requires subject id", func(t *testing.T) {
		mockService := new(MockHookService)
		handler := NewHookHandler(logger, mockService)
		router := newHookRouter(handler)

		jsonBody, _ := json.Marshal(HookNotificationRequest{
			Operation: "create",
			Values:    map[string]any{},
		})

		req, _ := http.NewRequest(http.MethodPost, "/hooks/post", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Announce")
	})
}
