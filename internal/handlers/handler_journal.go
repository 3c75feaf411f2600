package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clearstream/hubledger/internal/apperrors"
	portssvc "github.com/clearstream/hubledger/internal/core/ports/services"
	"github.com/clearstream/hubledger/internal/dto"
	"github.com/clearstream/hubledger/internal/middleware"
)

// journalHandler handles HTTP requests that write journal entries.
type journalHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newJournalHandler(ls portssvc.LedgerSvcFacade) *journalHandler {
	return &journalHandler{
		ledgerService: ls,
	}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newJournalHandler(ledgerService)

	journal := rg.Group("/journal-entries")
	{
		journal.POST("", h.createJournalEntry)
		journal.POST("/batch", h.createJournalEntries)
	}
}

// createJournalEntry godoc
// @Summary Create a journal entry
// @Description Validates and stores one journal entry, updating both account balances immediately
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Journal entry"
// @Success 201 {object} map[string]string "Created entry id"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Missing privilege"
// @Failure 500 {object} map[string]string "Failed to create journal entry"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		logger.Error("Caller not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entryID, err := h.ledgerService.CreateJournalEntry(c.Request.Context(), caller, req)
	if err != nil {
		h.respondLedgerError(c, "Failed to create journal entry", err)
		return
	}

	logger.Info("Journal entry created", slog.String("entry_id", entryID))
	c.JSON(http.StatusCreated, gin.H{"id": entryID})
}

// createJournalEntries godoc
// @Summary Create a batch of journal entries
// @Description Validates and stores the entries as one unit of work; any failure aborts the whole batch
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   batch body dto.CreateJournalEntriesRequest true "Journal entries"
// @Success 201 {object} map[string][]string "Created entry ids"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Missing privilege"
// @Failure 500 {object} map[string]string "Failed to create journal entries"
// @Security BearerAuth
// @Router /journal-entries/batch [post]
func (h *journalHandler) createJournalEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournalEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		logger.Error("Caller not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received journal entry batch", slog.Int("count", len(req.Entries)))

	entryIDs, err := h.ledgerService.CreateJournalEntries(c.Request.Context(), caller, req.Entries)
	if err != nil {
		h.respondLedgerError(c, "Failed to create journal entries", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ids": entryIDs})
}

func (h *journalHandler) respondLedgerError(c *gin.Context, internalMsg string, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		logger.Warn("Caller lacks privilege", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Rejected journal entry request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
	}
}
