package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aivl-fintrxn-generator/internal/api_gateway/middleware"
	"github.com/aivl-fintrxn-generator/internal/api_gateway/service"
	"github.com/aivl-fintrxn-generator/internal/domain/shared"
)

// HookHandler handles HTTP requests carrying contribution hook notifications
type HookHandler struct {
	hookService service.HookService
	logger      *slog.Logger
}

// NewHookHandler creates a new hook notification handler
func NewHookHandler(logger *slog.Logger, hookService service.HookService) *HookHandler {
	return &HookHandler{
		hookService: hookService,
		logger:      logger,
	}
}

// Pre accepts the notification sent before the CRM applies an operation.
// For edits it must carry the full record state; for creates the values are
// ignored downstream and the subject id may be absent.
func (h *HookHandler) Pre(c *gin.Context) {
	h.announce(c, shared.HookPhasePre)
}

// Post accepts the notification sent after the CRM applied an operation.
// Its values are the fields the operation actually supplied.
func (h *HookHandler) Post(c *gin.Context) {
	h.announce(c, shared.HookPhasePost)
}

func (h *HookHandler) announce(c *gin.Context, phase shared.HookPhase) {
	var req HookNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var operation shared.Operation
	switch req.Operation {
	case "create":
		operation = shared.OperationCreate
	case "edit":
		operation = shared.OperationEdit
	default:
		h.logger.Error("Invalid hook operation", "operation", req.Operation)
		RespondBadRequest(c, "Invalid hook operation")
		return
	}

	// A post notification must identify the record it belongs to.
	if phase == shared.HookPhasePost && req.SubjectID == 0 {
		h.logger.Error("Post notification without subject ID", "operation", req.Operation)
		RespondBadRequest(c, "Post notification requires a subject ID")
		return
	}

	event := &shared.HookEvent{
		EventID:       uuid.New(),
		Phase:         phase,
		Operation:     operation,
		SubjectID:     req.SubjectID,
		Values:        req.Values,
		CorrelationID: middleware.GetCorrelationID(c),
		Timestamp:     time.Now(),
	}

	if err := h.hookService.Announce(c.Request.Context(), event); err != nil {
		h.logger.Error("Failed to announce hook event", "error", err)
		RespondInternalError(c)
		return
	}

	RespondAccepted(c, HookAcceptedResponse{
		EventID:   event.EventID.String(),
		Phase:     string(event.Phase),
		Operation: string(event.Operation),
		SubjectID: event.SubjectID,
	})
}
