package handlers_test

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/account_ledger/internal/apperrors"
	"github.com/SscSPs/account_ledger/internal/core/domain"
	"github.com/SscSPs/account_ledger/internal/core/services"
	"github.com/SscSPs/account_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	suite.mockAccountService.On("CreateAccount", mockCtx, "John Doe").
		Return(testAccount("acc-1", "John Doe", "0"), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{Owner: "John Doe"})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.decode(w, &resp)
	suite.Equal("acc-1", resp.Number)
	suite.Equal("John Doe", resp.Owner)
	suite.True(resp.Balance.IsZero())
	suite.False(resp.Closed)
}

func (suite *HandlerTestSuite) TestCreateAccount_InvalidPayload() {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing owner", body: `{}`},
		{name: "owner too short", body: `{"owner":"Jo"}`},
		{name: "malformed json", body: `{"owner":`},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/accounts", tt.body)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateAccount_ServiceError() {
	suite.mockAccountService.On("CreateAccount", mockCtx, "John Doe").
		Return(nil, errors.New("connection refused")).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{Owner: "John Doe"})

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Unable to create account", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestListAccounts() {
	suite.mockAccountService.On("ListAccounts", mockCtx, 2, 4).
		Return([]domain.Account{*testAccount("a", "Ann", "1"), *testAccount("b", "Bob", "2")}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts?limit=2&offset=4", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListAccountsResponse
	suite.decode(w, &resp)
	suite.Require().Len(resp.Accounts, 2)
	suite.Equal("a", resp.Accounts[0].Number)
	suite.Equal("b", resp.Accounts[1].Number)
}

func (suite *HandlerTestSuite) TestListAccounts_LimitTooLarge() {
	w := suite.do(http.MethodGet, "/api/v1/accounts?limit=500", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGetAccount() {
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "acc-1").
		Return(testAccount("acc-1", "John Doe", "12.50"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-1", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.decode(w, &resp)
	suite.Equal("12.5", resp.Balance.String())
}

func (suite *HandlerTestSuite) TestGetAccount_NotFound() {
	suite.mockAccountService.On("GetAccountByNumber", mockCtx, "missing").
		Return(nil, fmt.Errorf("%w: account missing", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestCloseAccount() {
	tests := []struct {
		name       string
		account    *domain.Account
		err        error
		wantStatus int
	}{
		{name: "closed", account: closedAccount("acc-1", "John Doe"), wantStatus: http.StatusOK},
		{name: "already closed", err: services.ErrAccountAlreadyClosed, wantStatus: http.StatusConflict},
		{name: "not liquidated", err: services.ErrAccountNotLiquidated, wantStatus: http.StatusUnprocessableEntity},
		{name: "not found", err: fmt.Errorf("%w: account acc-1", apperrors.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "storage error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			call := suite.mockAccountService.On("CloseAccount", mockCtx, "acc-1")
			if tt.err != nil {
				call.Return(nil, tt.err).Once()
			} else {
				call.Return(tt.account, nil).Once()
			}

			w := suite.do(http.MethodDelete, "/api/v1/accounts/acc-1", nil)

			suite.Equal(tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var resp dto.AccountResponse
				suite.decode(w, &resp)
				suite.True(resp.Closed)
			}
		})
	}
}
