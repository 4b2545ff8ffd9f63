package services

import (
	portsrepo "github.com/SscSPs/account_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/account_ledger/internal/core/ports/services"
	"github.com/SscSPs/account_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, approval portssvc.TransferApprovalSvc) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The limit guard is shared: the ledger consults it and handlers report from it
	container.TransferLimit = NewTransferLimitService(
		repos.TransferLimitStore,
		WithDailyLimit(cfg.DailyTransferLimit),
		WithLimitLocation(cfg.LimitLocation),
	)

	container.Account = NewAccountService(repos.AccountRepo)

	container.Ledger = NewLedgerService(
		repos.AccountRepo,
		container.TransferLimit,
		approval,
		WithTransferFee(cfg.TransferFee),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.LedgerSvcFacade  = (*ledgerService)(nil)
	_ portssvc.TransferLimitSvc = (*transferLimitService)(nil)
)
