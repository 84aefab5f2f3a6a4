package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultTolerance is the largest debit/credit difference still treated as balanced.
var DefaultTolerance = decimal.New(1, -4) // 0.0001

// NetBalance applies the sign convention for the account type to the debit and credit totals.
//
// ASSET/EXPENSE             -> debit - credit
// LIABILITY/EQUITY/REVENUE  -> credit - debit
func NetBalance(accountType domain.AccountType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// IsBalanced reports whether |debit - credit| <= tolerance.
func IsBalanced(debit, credit, tolerance decimal.Decimal) bool {
	return debit.Sub(credit).Abs().LessThanOrEqual(tolerance)
}

// FitsScale reports whether amount has no more than scale decimal places.
func FitsScale(amount decimal.Decimal, scale int32) bool {
	return amount.Equal(amount.Truncate(scale))
}

// LineError describes why a single line is malformed. Empty means the line is fine.
func LineError(debit, credit decimal.Decimal, scale int32) string {
	switch {
	case debit.IsNegative() || credit.IsNegative():
		return "amounts must not be negative"
	case !debit.IsZero() && !credit.IsZero():
		return "a line cannot carry both a debit and a credit"
	case debit.IsZero() && credit.IsZero():
		return "a line must carry a debit or a credit"
	case !FitsScale(debit, scale) || !FitsScale(credit, scale):
		return fmt.Sprintf("amounts must have at most %d decimal places", scale)
	}
	return ""
}
