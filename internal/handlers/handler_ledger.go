package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/account_ledger/internal/apperrors"
	"github.com/SscSPs/account_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/account_ledger/internal/core/ports/services"
	"github.com/SscSPs/account_ledger/internal/dto"
	"github.com/SscSPs/account_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ledgerHandler handles balance movements on accounts.
type ledgerHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerSvcFacade
	limitService   portssvc.TransferLimitSvc
}

// registerLedgerRoutes registers deposit, withdrawal and transfer routes
// under /accounts/:number. transferLimit guards the transfer route only.
func registerLedgerRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, transferLimit gin.HandlerFunc) {
	h := &ledgerHandler{
		accountService: services.Account,
		ledgerService:  services.Ledger,
		limitService:   services.TransferLimit,
	}

	account := rg.Group("/accounts/:number")
	{
		account.POST("/deposit", h.deposit)
		account.POST("/withdrawal", h.withdrawal)
		account.POST("/transfer", transferLimit, h.transfer)
		account.GET("/transfer-fee", h.transferFee)
		account.GET("/daily-limit", h.dailyLimit)
	}
}

// Account roles used in error messages.
const (
	roleAccount     = "Account"
	roleSource      = "Source account"
	roleDestination = "Destination account"
)

// loadOpenAccount fetches the account and writes the error response when it
// is missing or closed.
func (h *ledgerHandler) loadOpenAccount(c *gin.Context, logger *slog.Logger, number string, role string) (*domain.Account, bool) {
	account, ok := h.loadAccount(c, logger, number, role)
	if !ok {
		return nil, false
	}
	if account.IsClosed() {
		logger.Warn("Operation on closed account", slog.String("account_number", number))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": role + " is closed"})
		return nil, false
	}
	return account, true
}

func (h *ledgerHandler) loadAccount(c *gin.Context, logger *slog.Logger, number string, role string) (*domain.Account, bool) {
	account, err := h.accountService.GetAccountByNumber(c.Request.Context(), number)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found", slog.String("account_number", number))
			c.JSON(http.StatusNotFound, gin.H{"error": role + " not found"})
			return nil, false
		}
		respondWithError(c, logger, err, "Failed to retrieve account")
		return nil, false
	}
	return account, true
}

// deposit godoc
// @Summary Deposit into a bank account
// @Description Credits the amount to an open account
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   number path string true "Account number"
// @Param   payload body dto.AmountRequest true "Amount to deposit"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Account is closed"
// @Failure 500 {object} map[string]string "Unable to make deposit"
// @Router /accounts/{number}/deposit [post]
func (h *ledgerHandler) deposit(c *gin.Context) {
	h.move(c, "deposit", h.ledgerService.Deposit, false)
}

// withdrawal godoc
// @Summary Withdraw from a bank account
// @Description Debits the amount from an open account holding enough funds
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   number path string true "Account number"
// @Param   payload body dto.AmountRequest true "Amount to withdraw"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Account is closed or balance insufficient"
// @Failure 500 {object} map[string]string "Unable to make withdrawal"
// @Router /accounts/{number}/withdrawal [post]
func (h *ledgerHandler) withdrawal(c *gin.Context) {
	h.move(c, "withdrawal", h.ledgerService.Withdrawal, true)
}

type movement func(ctx context.Context, account domain.Account, amount decimal.Decimal) (bool, error)

// move runs a single-account balance movement. checkOverdraft rejects
// withdrawals above the current balance before touching storage.
func (h *ledgerHandler) move(c *gin.Context, operation string, apply movement, checkOverdraft bool) {
	number := c.Param("number")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("account_number", number),
		slog.String("operation", operation),
	)

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for balance movement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, ok := h.loadOpenAccount(c, logger, number, roleAccount)
	if !ok {
		return
	}

	if checkOverdraft && account.Balance.LessThan(req.Amount) {
		logger.Warn("Insufficient balance", slog.String("balance", account.Balance.String()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Insufficient balance"})
		return
	}

	applied, err := apply(c.Request.Context(), *account, req.Amount)
	if err != nil {
		respondWithError(c, logger, err, "Unable to make "+operation)
		return
	}
	if !applied {
		logger.Error("Balance movement not applied")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to make " + operation})
		return
	}

	// Re-read so the response reflects the committed balance.
	refreshed, ok := h.loadAccount(c, logger, number, roleAccount)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(refreshed))
}

// transfer godoc
// @Summary Transfer between bank accounts
// @Description Moves the amount to another account, charging the transfer fee to the source
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   number path string true "Source account number"
// @Param   payload body dto.TransferRequest true "Destination and amount"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Source or destination account not found"
// @Failure 422 {object} map[string]string "Account closed, daily limit reached, not approved or insufficient funds"
// @Failure 500 {object} map[string]string "Unable to transfer amount"
// @Router /accounts/{number}/transfer [post]
func (h *ledgerHandler) transfer(c *gin.Context) {
	number := c.Param("number")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("from_account", number))

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	logger = logger.With(slog.String("to_account", req.ToNumber))

	from, ok := h.loadOpenAccount(c, logger, number, roleSource)
	if !ok {
		return
	}
	to, ok := h.loadOpenAccount(c, logger, req.ToNumber, roleDestination)
	if !ok {
		return
	}

	receipt, err := h.ledgerService.Transfer(c.Request.Context(), *from, *to, req.Amount)
	if err != nil {
		respondWithError(c, logger, err, "Unable to transfer amount")
		return
	}

	refreshed, ok := h.loadAccount(c, logger, number, roleSource)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.TransferResponse{
		Account: dto.ToAccountResponse(refreshed),
		Receipt: dto.ToTransferReceiptResponse(receipt),
	})
}

// transferFee godoc
// @Summary Preview a transfer fee
// @Description Returns the fee a transfer to the given account would be charged
// @Tags ledger
// @Produce  json
// @Param   number path string true "Source account number"
// @Param   toNumber query string true "Destination account number"
// @Success 200 {object} dto.TransferFeeResponse
// @Failure 400 {object} map[string]string "Missing destination"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{number}/transfer-fee [get]
func (h *ledgerHandler) transferFee(c *gin.Context) {
	number := c.Param("number")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("from_account", number))

	var params dto.TransferFeeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	from, ok := h.loadAccount(c, logger, number, roleSource)
	if !ok {
		return
	}
	to, ok := h.loadAccount(c, logger, params.ToNumber, roleDestination)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.TransferFeeResponse{
		FromNumber: from.Number,
		ToNumber:   to.Number,
		Fee:        h.ledgerService.CalculateTransferFee(*from, *to),
	})
}

// dailyLimit godoc
// @Summary Daily transfer allowance
// @Description Returns the daily transfer limit and what the account already transferred today
// @Tags ledger
// @Produce  json
// @Param   number path string true "Account number"
// @Success 200 {object} dto.DailyLimitResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to read daily transfer total"
// @Router /accounts/{number}/daily-limit [get]
func (h *ledgerHandler) dailyLimit(c *gin.Context) {
	number := c.Param("number")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_number", number))

	account, ok := h.loadAccount(c, logger, number, roleAccount)
	if !ok {
		return
	}

	transferred, err := h.limitService.TransferredToday(c.Request.Context(), *account)
	if err != nil {
		respondWithError(c, logger, err, "Failed to read daily transfer total")
		return
	}

	c.JSON(http.StatusOK, dto.NewDailyLimitResponse(account.Number, h.limitService.DailyLimit(), transferred))
}
