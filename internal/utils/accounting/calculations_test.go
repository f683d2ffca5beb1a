package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kopranet/koperasi_ledger/internal/apperrors"
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	"github.com/kopranet/koperasi_ledger/internal/utils/accounting"
)

func debitLine(amount string) domain.JournalLine {
	return domain.JournalLine{LineID: "d", Debit: decimal.RequireFromString(amount)}
}

func creditLine(amount string) domain.JournalLine {
	return domain.JournalLine{LineID: "c", Credit: decimal.RequireFromString(amount)}
}

func TestValidateLine(t *testing.T) {
	tests := []struct {
		name    string
		line    domain.JournalLine
		wantErr bool
	}{
		{name: "debit only", line: debitLine("100")},
		{name: "credit only", line: creditLine("100")},
		{name: "fractional within scale", line: debitLine("99.99")},
		{name: "both sides set", line: domain.JournalLine{Debit: decimal.NewFromInt(1), Credit: decimal.NewFromInt(1)}, wantErr: true},
		{name: "neither side set", line: domain.JournalLine{}, wantErr: true},
		{name: "negative debit", line: domain.JournalLine{Debit: decimal.NewFromInt(-5)}, wantErr: true},
		{name: "too many decimal places", line: debitLine("10.001"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := accounting.ValidateLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateEntryBalance(t *testing.T) {
	t.Run("balanced two lines", func(t *testing.T) {
		err := accounting.ValidateEntryBalance([]domain.JournalLine{debitLine("100"), creditLine("100")})
		assert.NoError(t, err)
	})

	t.Run("balanced split credit", func(t *testing.T) {
		err := accounting.ValidateEntryBalance([]domain.JournalLine{debitLine("100"), creditLine("60"), creditLine("40")})
		assert.NoError(t, err)
	})

	t.Run("unbalanced", func(t *testing.T) {
		err := accounting.ValidateEntryBalance([]domain.JournalLine{debitLine("100"), creditLine("99.99")})
		assert.ErrorIs(t, err, apperrors.ErrUnbalancedEntry)
	})

	t.Run("single line", func(t *testing.T) {
		err := accounting.ValidateEntryBalance([]domain.JournalLine{debitLine("100")})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("exact decimal comparison, no float drift", func(t *testing.T) {
		err := accounting.ValidateEntryBalance([]domain.JournalLine{
			debitLine("0.1"), debitLine("0.2"), creditLine("0.3"),
		})
		assert.NoError(t, err)
	})
}

func TestSignedAmount(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	// Posting on the normal side increases the balance.
	assert.True(t, accounting.SignedAmount(debitLine("100"), domain.DebitNormal).Equal(hundred))
	assert.True(t, accounting.SignedAmount(creditLine("100"), domain.CreditNormal).Equal(hundred))

	// Posting on the opposite side decreases it.
	assert.True(t, accounting.SignedAmount(creditLine("100"), domain.DebitNormal).Equal(hundred.Neg()))
	assert.True(t, accounting.SignedAmount(debitLine("100"), domain.CreditNormal).Equal(hundred.Neg()))
}

func TestEntryAmount(t *testing.T) {
	lines := []domain.JournalLine{debitLine("60"), debitLine("40"), creditLine("100")}
	assert.True(t, accounting.EntryAmount(lines).Equal(decimal.NewFromInt(100)))
}

func TestNetBalance(t *testing.T) {
	lines := []domain.JournalLine{debitLine("150"), creditLine("50")}

	assert.True(t, accounting.NetBalance(lines, domain.DebitNormal).Equal(decimal.NewFromInt(100)))
	assert.True(t, accounting.NetBalance(lines, domain.CreditNormal).Equal(decimal.NewFromInt(-100)))
}
