package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clearstream/hubledger/internal/apperrors"
	"github.com/clearstream/hubledger/internal/core/domain"
	portssvc "github.com/clearstream/hubledger/internal/core/ports/services"
	"github.com/clearstream/hubledger/internal/dto"
	"github.com/clearstream/hubledger/internal/middleware"
)

// highLevelHandler handles the high-level transfer protocol endpoint.
type highLevelHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newHighLevelHandler(ls portssvc.LedgerSvcFacade) *highLevelHandler {
	return &highLevelHandler{
		ledgerService: ls,
	}
}

// registerHighLevelRoutes registers the high-level batch route.
func registerHighLevelRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newHighLevelHandler(ledgerService)
	rg.POST("/high-level-batch", h.processHighLevelBatch)
}

// processHighLevelBatch godoc
// @Summary Process a high-level transfer batch
// @Description Evaluates reservation, commit and cancellation requests strictly in order and returns one response per request. Business failures are reported inside the responses; only system errors fail the call.
// @Tags high-level
// @Accept  json
// @Produce  json
// @Param   batch body dto.HighLevelBatchRequest true "High-level requests"
// @Success 200 {array} domain.HighLevelResponse
// @Failure 400 {object} map[string]string "Malformed batch"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Missing privilege"
// @Failure 500 {object} map[string]string "Batch aborted by a system error"
// @Security BearerAuth
// @Router /high-level-batch [post]
func (h *highLevelHandler) processHighLevelBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.HighLevelBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for high-level batch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		logger.Error("Caller not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// Wire-to-domain conversion failures surface per request inside the
	// batch, the same way the service reports business failures.
	requests := make([]domain.HighLevelRequest, 0, len(req.Requests))
	premapped := make(map[string]string, len(req.Requests))
	for _, wireReq := range req.Requests {
		domainReq, err := wireReq.ToDomain()
		if err != nil {
			premapped[wireReq.RequestID] = err.Error()
			continue
		}
		requests = append(requests, domainReq)
	}
	if len(premapped) > 0 {
		// A malformed request makes strict ordering impossible, so the
		// whole batch is rejected before any evaluation.
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed high-level requests", "requests": premapped})
		return
	}

	logger.Info("Received high-level batch", slog.Int("count", len(requests)))

	responses, err := h.ledgerService.ProcessHighLevelBatch(c.Request.Context(), caller, requests)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUnauthorized):
			logger.Warn("Caller lacks privilege for high-level batch", slog.String("error", err.Error()))
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("High-level batch aborted", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Batch aborted by a system error"})
		}
		return
	}

	c.JSON(http.StatusOK, responses)
}
