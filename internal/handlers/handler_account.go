package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/account_ledger/internal/core/ports/services"
	"github.com/SscSPs/account_ledger/internal/core/services"
	"github.com/SscSPs/account_ledger/internal/dto"
	"github.com/SscSPs/account_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
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
		accounts.GET("", h.listAccounts)
		accounts.POST("", h.createAccount)
		accounts.GET("/:number", h.getAccount)
		accounts.DELETE("/:number", h.closeAccount)
	}
}

// listAccounts godoc
// @Summary List bank accounts
// @Description Retrieves a page of accounts, open and closed, oldest first
// @Tags accounts
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list accounts")
		return
	}

	logger.Info("Accounts listed successfully", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// createAccount godoc
// @Summary Open a new bank account
// @Description Opens an empty account for the given owner
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account owner"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Unable to create account"
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), req.Owner)
	if err != nil {
		respondWithError(c, logger, err, "Unable to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_number", newAccount.Number))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// getAccount godoc
// @Summary Get a bank account
// @Description Retrieves an account by its number
// @Tags accounts
// @Produce  json
// @Param   number path string true "Account number"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Router /accounts/{number} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	number := c.Param("number")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_number", number))

	account, err := h.accountService.GetAccountByNumber(c.Request.Context(), number)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// closeAccount godoc
// @Summary Close a bank account
// @Description Closes an account whose balance is zero
// @Tags accounts
// @Produce  json
// @Param   number path string true "Account number"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account already closed"
// @Failure 422 {object} map[string]string "Account balance not liquidated"
// @Failure 500 {object} map[string]string "Unable to close account"
// @Router /accounts/{number} [delete]
func (h *accountHandler) closeAccount(c *gin.Context) {
	number := c.Param("number")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_number", number))

	account, err := h.accountService.CloseAccount(c.Request.Context(), number)
	if err != nil {
		if errors.Is(err, services.ErrAccountAlreadyClosed) {
			logger.Warn("Account already closed")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		respondWithError(c, logger, err, "Unable to close account")
		return
	}

	logger.Info("Account closed successfully")
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
