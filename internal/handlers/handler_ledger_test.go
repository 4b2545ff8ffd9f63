package handlers_test

import (
	"errors"
	"net/http"
	"time"

	"github.com/SscSPs/account_ledger/internal/apperrors"
	"github.com/SscSPs/account_ledger/internal/core/domain"
	"github.com/SscSPs/account_ledger/internal/core/services"
	"github.com/SscSPs/account_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestDeposit_Success() {
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "acc-1").
		Return(testAccount("acc-1", "Ann", "10"), nil).Once()
	suite.mockLedgerService.On("Deposit", mockCtx, accountNumbered("acc-1"), decimalEq("123.45")).
		Return(true, nil).Once()
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "acc-1").
		Return(testAccount("acc-1", "Ann", "133.45"), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/acc-1/deposit", `{"amount":123.45}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.decode(w, &resp)
	suite.Equal("133.45", resp.Balance.String())
}

func (suite *HandlerTestSuite) TestDeposit_AcceptsStringAmount() {
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "acc-1").
		Return(testAccount("acc-1", "Ann", "0"), nil)
	suite.mockLedgerService.On("Deposit", mockCtx, accountNumbered("acc-1"), decimalEq("5")).
		Return(true, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/acc-1/deposit", `{"amount":"5.00"}`)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestDeposit_InvalidAmount() {
	for _, body := range []string{`{}`, `{"amount":0}`, `{"amount":-5}`, `{"amount":"abc"}`} {
		suite.Run(body, func() {
			w := suite.do(http.MethodPost, "/api/v1/accounts/acc-1/deposit", body)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.mockLedgerService.AssertNotCalled(suite.T(), "Deposit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestDeposit_ExcessPrecisionRejectedByService() {
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "acc-1").
		Return(testAccount("acc-1", "Ann", "0"), nil).Once()
	suite.mockLedgerService.On("Deposit", mockCtx, accountNumbered("acc-1"), decimalEq("1.005")).
		Return(false, services.ErrInvalidAmount).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/acc-1/deposit", `{"amount":"1.005"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestDeposit_ClosedAccount() {
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "acc-1").
		Return(closedAccount("acc-1", "Ann"), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/acc-1/deposit", `{"amount":10}`)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal("Account is closed", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestDeposit_AccountNotFound() {
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "missing").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/missing/deposit", `{"amount":10}`)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("Account not found", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestDeposit_NotApplied() {
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "acc-1").
		Return(testAccount("acc-1", "Ann", "0"), nil).Once()
	suite.mockLedgerService.On("Deposit", mockCtx, accountNumbered("acc-1"), decimalEq("10")).
		Return(false, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/acc-1/deposit", `{"amount":10}`)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Unable to make deposit", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestWithdrawal_Success() {
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "acc-1").
		Return(testAccount("acc-1", "Ann", "100"), nil).Once()
	suite.mockLedgerService.On("Withdrawal", mockCtx, accountNumbered("acc-1"), decimalEq("100")).
		Return(true, nil).Once()
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "acc-1").
		Return(testAccount("acc-1", "Ann", "0"), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/acc-1/withdrawal", `{"amount":100}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.decode(w, &resp)
	suite.True(resp.Balance.IsZero())
}

func (suite *HandlerTestSuite) TestWithdrawal_InsufficientBalance() {
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "acc-1").
		Return(testAccount("acc-1", "Ann", "50"), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/acc-1/withdrawal", `{"amount":50.01}`)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal("Insufficient balance", suite.errorMessage(w))
	suite.mockLedgerService.AssertNotCalled(suite.T(), "Withdrawal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestWithdrawal_LostRace() {
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "acc-1").
		Return(testAccount("acc-1", "Ann", "50"), nil).Once()
	suite.mockLedgerService.On("Withdrawal", mockCtx, accountNumbered("acc-1"), decimalEq("50")).
		Return(false, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/acc-1/withdrawal", `{"amount":50}`)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Unable to make withdrawal", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) expectTransferAccounts(from, to *domain.Account) {
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, from.Number).Return(from, nil)
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, to.Number).Return(to, nil)
}

func (suite *HandlerTestSuite) TestTransfer_Success() {
	from := testAccount("src", "Ann", "1000")
	to := testAccount("dst", "Bob", "0")
	suite.expectTransferAccounts(from, to)
	receipt := &domain.TransferReceipt{
		FromNumber: "src",
		ToNumber:   "dst",
		Amount:     decimal.RequireFromString("456"),
		Fee:        decimal.NewFromInt(100),
		ExecutedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	suite.mockLedgerService.On("Transfer", mockCtx, accountNumbered("src"), accountNumbered("dst"), decimalEq("456")).
		Return(receipt, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/src/transfer", dto.TransferRequest{ToNumber: "dst", Amount: decimal.RequireFromString("456")})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TransferResponse
	suite.decode(w, &resp)
	suite.Equal("src", resp.Account.Number)
	suite.Equal("100", resp.Receipt.Fee.String())
	suite.Equal("556", resp.Receipt.Debited.String())
}

func (suite *HandlerTestSuite) TestTransfer_DestinationNotFound() {
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "src").Return(testAccount("src", "Ann", "1000"), nil).Once()
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "nope").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/src/transfer", `{"toNumber":"nope","amount":10}`)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("Destination account not found", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestTransfer_DestinationClosed() {
	suite.expectTransferAccounts(testAccount("src", "Ann", "1000"), closedAccount("dst", "Bob"))

	w := suite.do(http.MethodPost, "/api/v1/accounts/src/transfer", `{"toNumber":"dst","amount":10}`)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal("Destination account is closed", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestTransfer_Rejections() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "daily limit", err: services.ErrDailyLimitExceeded, wantStatus: http.StatusUnprocessableEntity},
		{name: "not approved", err: services.ErrNotApproved, wantStatus: http.StatusUnprocessableEntity},
		{name: "insufficient funds", err: services.ErrWithdrawalFailed, wantStatus: http.StatusUnprocessableEntity},
		{name: "same account", err: services.ErrSameAccount, wantStatus: http.StatusBadRequest},
		{name: "storage", err: errors.New("tx aborted"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			suite.expectTransferAccounts(testAccount("src", "Ann", "1000"), testAccount("dst", "Bob", "0"))
			suite.mockLedgerService.On("Transfer", mockCtx, accountNumbered("src"), accountNumbered("dst"), decimalEq("10")).
				Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/accounts/src/transfer", `{"toNumber":"dst","amount":10}`)

			suite.Equal(tt.wantStatus, w.Code)
		})
	}
}

func (suite *HandlerTestSuite) TestTransfer_MissingDestination() {
	w := suite.do(http.MethodPost, "/api/v1/accounts/src/transfer", `{"amount":10}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestTransferFee() {
	suite.expectTransferAccounts(testAccount("src", "Ann", "0"), testAccount("dst", "Bob", "0"))
	suite.mockLedgerService.On("CalculateTransferFee", accountNumbered("src"), accountNumbered("dst")).
		Return(decimal.NewFromInt(100)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/src/transfer-fee?toNumber=dst", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TransferFeeResponse
	suite.decode(w, &resp)
	suite.Equal("100", resp.Fee.String())
}

func (suite *HandlerTestSuite) TestTransferFee_MissingDestination() {
	w := suite.do(http.MethodGet, "/api/v1/accounts/src/transfer-fee", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestDailyLimit() {
	acc := testAccount("acc-1", "Ann", "0")
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "acc-1").Return(acc, nil).Once()
	suite.mockLimitService.On("TransferredToday", mockCtx, accountNumbered("acc-1")).
		Return(decimal.RequireFromString("2500"), nil).Once()
	suite.mockLimitService.On("DailyLimit").Return(decimal.NewFromInt(10000)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-1/daily-limit", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DailyLimitResponse
	suite.decode(w, &resp)
	suite.Equal("10000", resp.DailyLimit.String())
	suite.Equal("2500", resp.TransferredToday.String())
	suite.Equal("7500", resp.Remaining.String())
}

func (suite *HandlerTestSuite) TestDailyLimit_StoreError() {
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "acc-1").Return(testAccount("acc-1", "Ann", "0"), nil).Once()
	suite.mockLimitService.On("TransferredToday", mockCtx, accountNumbered("acc-1")).
		Return(decimal.Zero, errors.New("redis down")).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-1/daily-limit", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to read daily transfer total", suite.errorMessage(w))
}
