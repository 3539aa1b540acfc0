package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aivl-fintrxn-generator/internal/api_gateway/service"
	"github.com/aivl-fintrxn-generator/internal/domain/posting"
)

// PostingHandler handles HTTP requests for reading the posting journal
type PostingHandler struct {
	postingService service.PostingService
	logger         *slog.Logger
}

// NewPostingHandler creates a new posting journal handler
func NewPostingHandler(logger *slog.Logger, postingService service.PostingService) *PostingHandler {
	return &PostingHandler{
		postingService: postingService,
		logger:         logger,
	}
}

// GetByID retrieves posting details by its ID, returns 404 if not found
func (h *PostingHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid posting ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid posting ID")
		return
	}

	p, err := h.postingService.GetPostingByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get posting", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	if p == nil {
		RespondNotFound(c, "Posting not found")
		return
	}

	RespondOK(c, mapPostingToResponse(p))
}

// GetBySubjectID retrieves paginated postings derived from one contribution
func (h *PostingHandler) GetBySubjectID(c *gin.Context) {
	subjectIDParam := c.Param("id")
	subjectID, err := strconv.ParseInt(subjectIDParam, 10, 64)
	if err != nil || subjectID <= 0 {
		h.logger.Error("Invalid contribution ID", "contribution_id", subjectIDParam, "error", err)
		RespondBadRequest(c, "Invalid contribution ID")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	postings, total, err := h.postingService.GetPostingsBySubjectID(
		c.Request.Context(),
		subjectID,
		pagination.Page,
		pagination.PerPage,
	)
	if err != nil {
		h.logger.Error("Failed to get postings", "contribution_id", subjectIDParam, "error", err)
		RespondInternalError(c)
		return
	}

	var responses []PostingResponse
	for _, p := range postings {
		responses = append(responses, mapPostingToResponse(p))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, pagination.Page, pagination.PerPage, int(total))
}

// mapPostingToResponse maps a journal posting to a response DTO
func mapPostingToResponse(p *posting.Posting) PostingResponse {
	return PostingResponse{
		ID:                  p.ID.String(),
		SubjectID:           p.SubjectID,
		Case:                string(p.Case),
		TrxnDate:            p.TrxnDate.Format(time.RFC3339),
		TotalAmount:         p.TotalAmount,
		FeeAmount:           p.FeeAmount,
		NetAmount:           p.NetAmount,
		Currency:            p.Currency,
		TrxnID:              p.TrxnID,
		StatusID:            p.StatusID,
		PaymentInstrumentID: p.PaymentInstrumentID,
		CheckNumber:         p.CheckNumber,
		FromAccountID:       p.FromAccountID,
		ToAccountID:         p.ToAccountID,
		CreatedAt:           p.CreatedAt.Format(time.RFC3339),
	}
}
