package accounting

import (
	"fmt"

	"github.com/kopranet/koperasi_ledger/internal/apperrors"
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MaxAmountScale is the permitted number of decimal places on a journal line.
// Amounts are exact to the smallest currency unit; anything finer is rejected
// rather than rounded.
const MaxAmountScale = 2

// ValidateLine checks that exactly one side of the line is positive and that
// the amount is representable in currency units.
func ValidateLine(line domain.JournalLine) error {
	debitSet := line.Debit.IsPositive()
	creditSet := line.Credit.IsPositive()

	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fmt.Errorf("%w: line %s has a negative amount", apperrors.ErrValidation, line.LineID)
	}
	if debitSet == creditSet {
		return fmt.Errorf("%w: line %s must set exactly one of debit or credit", apperrors.ErrValidation, line.LineID)
	}
	if line.Amount().Exponent() < -MaxAmountScale {
		return fmt.Errorf("%w: line %s amount %s exceeds %d decimal places", apperrors.ErrValidation, line.LineID, line.Amount(), MaxAmountScale)
	}
	return nil
}

// ValidateEntryBalance enforces the double-entry invariant over a set of
// lines: at least two lines, each one-sided, and total debits equal to total
// credits exactly.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: journal entry must have at least two lines", apperrors.ErrValidation)
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		if err := ValidateLine(line); err != nil {
			return err
		}
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits sum to %s, credits sum to %s",
			apperrors.ErrUnbalancedEntry, debits.String(), credits.String())
	}
	return nil
}

// SignedAmount applies the account's normal balance convention to a line:
// posting on the normal side increases the balance, posting on the opposite
// side decreases it.
func SignedAmount(line domain.JournalLine, normal domain.NormalBalance) decimal.Decimal {
	amount := line.Amount()
	postsDebit := line.IsDebit()
	if (normal == domain.DebitNormal) == postsDebit {
		return amount
	}
	return amount.Neg()
}

// EntryAmount is the economic value of a balanced entry: the sum of its
// debit side.
func EntryAmount(lines []domain.JournalLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Debit)
	}
	return total
}

// NetBalance folds a set of lines for a single account into its net balance
// on the normal side: debit-normal accounts net Σdebit − Σcredit,
// credit-normal accounts net Σcredit − Σdebit.
func NetBalance(lines []domain.JournalLine, normal domain.NormalBalance) decimal.Decimal {
	net := decimal.Zero
	for _, line := range lines {
		net = net.Add(SignedAmount(line, normal))
	}
	return net
}
