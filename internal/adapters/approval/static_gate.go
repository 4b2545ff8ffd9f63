package approval

import (
	"context"

	"github.com/SscSPs/account_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/account_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// StaticGate answers every transfer the same way. Local development only.
type StaticGate struct {
	approve bool
}

// NewStaticGate returns a gate that always approves when approve is true and
// always rejects otherwise.
func NewStaticGate(approve bool) *StaticGate {
	return &StaticGate{approve: approve}
}

var _ portssvc.TransferApprovalSvc = (*StaticGate)(nil)

func (g *StaticGate) Approve(_ context.Context, _ domain.Account, _ domain.Account, _ decimal.Decimal) bool {
	return g.approve
}
