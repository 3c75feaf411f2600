package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clearstream/hubledger/internal/apperrors"
	"github.com/clearstream/hubledger/internal/core/domain"
	portssvc "github.com/clearstream/hubledger/internal/core/ports/services"
	"github.com/clearstream/hubledger/internal/dto"
	"github.com/clearstream/hubledger/internal/middleware"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccounts)
		accounts.GET("", h.getAccounts)
		accounts.POST("/deactivate", h.deactivateAccounts)
		accounts.POST("/reactivate", h.reactivateAccounts)
		accounts.POST("/delete", h.deleteAccounts)
		accounts.GET("/:accountID/journal-entries", h.getJournalEntriesByAccount)
	}
}

// createAccounts godoc
// @Summary Create accounts
// @Description Creates a batch of ledger accounts and reports the attributed id for each request
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accounts body []dto.CreateAccountRequest true "Accounts to create"
// @Success 201 {array} dto.AccountIDMapping
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Missing privilege"
// @Failure 500 {object} map[string]string "Failed to create accounts"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var reqs []dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		logger.Error("Caller not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received request to create accounts", slog.Int("count", len(reqs)))

	mappings, err := h.accountService.CreateAccounts(c.Request.Context(), caller, reqs)
	if err != nil {
		// Partial mappings are still returned so the caller knows which
		// accounts were created before the failure.
		switch {
		case errors.Is(err, apperrors.ErrUnauthorized):
			logger.Warn("Caller lacks privilege to create accounts", slog.String("error", err.Error()))
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Validation error creating accounts", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "created": mappings})
		default:
			logger.Error("Failed to create accounts in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create accounts", "created": mappings})
		}
		return
	}

	logger.Info("Accounts created successfully", slog.Int("count", len(mappings)))
	c.JSON(http.StatusCreated, mappings)
}

// getAccounts godoc
// @Summary Get accounts by ids
// @Description Retrieves the accounts whose ids are listed in the ids query parameter; unknown ids are omitted
// @Tags accounts
// @Produce  json
// @Param   ids query string true "Comma-separated account ids"
// @Success 200 {array} dto.AccountResponse
// @Failure 400 {object} map[string]string "Missing ids parameter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Missing privilege"
// @Failure 500 {object} map[string]string "Failed to retrieve accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) getAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	idsParam := c.Query("ids")
	if idsParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids query parameter is required"})
		return
	}
	accountIDs := strings.Split(idsParam, ",")

	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		logger.Error("Caller not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	accounts, err := h.accountService.GetAccountsByIDs(c.Request.Context(), caller, accountIDs)
	if err != nil {
		h.respondServiceError(c, "Failed to retrieve accounts", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// getJournalEntriesByAccount godoc
// @Summary List journal entries for an account
// @Description Retrieves every journal entry that debits or credits the account, oldest first
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {array} dto.JournalEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Missing privilege"
// @Failure 500 {object} map[string]string "Failed to retrieve journal entries"
// @Security BearerAuth
// @Router /accounts/{accountID}/journal-entries [get]
func (h *accountHandler) getJournalEntriesByAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		logger.Error("Caller not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entries, err := h.accountService.GetJournalEntriesByAccountID(c.Request.Context(), caller, accountID)
	if err != nil {
		h.respondServiceError(c, "Failed to retrieve journal entries", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponses(entries))
}

// deactivateAccounts godoc
// @Summary Deactivate accounts
// @Description Moves every listed ACTIVE account to INACTIVE
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   body body dto.ChangeAccountStatesRequest true "Account ids"
// @Success 204 "Accounts deactivated"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Missing privilege"
// @Failure 500 {object} map[string]string "Failed to deactivate accounts"
// @Security BearerAuth
// @Router /accounts/deactivate [post]
func (h *accountHandler) deactivateAccounts(c *gin.Context) {
	h.changeAccountStates(c, "deactivate", h.accountService.DeactivateAccountsByIDs)
}

// reactivateAccounts godoc
// @Summary Reactivate accounts
// @Description Moves every listed INACTIVE account back to ACTIVE
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   body body dto.ChangeAccountStatesRequest true "Account ids"
// @Success 204 "Accounts reactivated"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Missing privilege"
// @Failure 500 {object} map[string]string "Failed to reactivate accounts"
// @Security BearerAuth
// @Router /accounts/reactivate [post]
func (h *accountHandler) reactivateAccounts(c *gin.Context) {
	h.changeAccountStates(c, "reactivate", h.accountService.ReactivateAccountsByIDs)
}

// deleteAccounts godoc
// @Summary Delete accounts
// @Description Marks every listed account DELETED; the accounts and their history remain stored
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   body body dto.ChangeAccountStatesRequest true "Account ids"
// @Success 204 "Accounts deleted"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Missing privilege"
// @Failure 500 {object} map[string]string "Failed to delete accounts"
// @Security BearerAuth
// @Router /accounts/delete [post]
func (h *accountHandler) deleteAccounts(c *gin.Context) {
	h.changeAccountStates(c, "delete", h.accountService.DeleteAccountsByIDs)
}

type stateChangeFn func(ctx context.Context, caller domain.CallerContext, accountIDs []string) error

func (h *accountHandler) changeAccountStates(c *gin.Context, action string, fn stateChangeFn) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ChangeAccountStatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for account state change", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		logger.Error("Caller not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received account state change request", slog.String("action", action), slog.Int("count", len(req.AccountIDs)))

	if err := fn(c.Request.Context(), caller, req.AccountIDs); err != nil {
		h.respondServiceError(c, "Failed to "+action+" accounts", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// respondServiceError maps service errors onto HTTP statuses.
func (h *accountHandler) respondServiceError(c *gin.Context, internalMsg string, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		logger.Warn("Caller lacks privilege", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
	}
}
