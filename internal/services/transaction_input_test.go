package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i64(v int64) *int64 { return &v }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validInput() TransactionInput {
	return TransactionInput{
		Category:    i64(3),
		Amount:      dec("50000"),
		Description: " Lunch ",
		Date:        "2024-03-01",
		Type:        "expense",
	}
}

func TestValidateTransaction_Valid(t *testing.T) {
	got, verr := ValidateTransaction(validInput(), "Asia/Jakarta", "")

	require.Nil(t, verr)
	assert.Equal(t, int64(3), got.CategoryID)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, "Lunch", got.Description)
	assert.Equal(t, models.Expense, got.Type)
	// Local midnight in Jakarta is 17:00 UTC the day before.
	assert.Equal(t, time.Date(2024, 2, 29, 17, 0, 0, 0, time.UTC), got.Date)
}

func TestValidateTransaction_ItemTimezoneWins(t *testing.T) {
	in := validInput()
	in.Timezone = "UTC"

	got, verr := ValidateTransaction(in, "Asia/Jakarta", "")

	require.Nil(t, verr)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got.Date)
}

func TestValidateTransaction_OffsetDateNeedsNoTimezone(t *testing.T) {
	in := validInput()
	in.Date = "2024-03-01T00:30:00+07:00"

	got, verr := ValidateTransaction(in, "", "")

	require.Nil(t, verr)
	assert.Equal(t, time.Date(2024, 2, 29, 17, 30, 0, 0, time.UTC), got.Date)
}

func TestValidateTransaction_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*TransactionInput)
		timezone  string
		wantField string
		wantMsg   string
	}{
		{"missing category", func(in *TransactionInput) { in.Category = nil }, "UTC", "category", "required"},
		{"non-positive category", func(in *TransactionInput) { in.Category = i64(0) }, "UTC", "category", "positive"},
		{"missing amount", func(in *TransactionInput) { in.Amount = nil }, "UTC", "amount", "required"},
		{"negative amount", func(in *TransactionInput) { in.Amount = dec("-5") }, "UTC", "amount", "greater than 0"},
		{"zero amount", func(in *TransactionInput) { in.Amount = dec("0") }, "UTC", "amount", "greater than 0"},
		{"amount over limit", func(in *TransactionInput) { in.Amount = dec("1000000000000") }, "UTC", "amount", "exceed"},
		{"three decimals", func(in *TransactionInput) { in.Amount = dec("1.005") }, "UTC", "amount", "2 decimal"},
		{"bad type", func(in *TransactionInput) { in.Type = "transfer" }, "UTC", "type", "income or expense"},
		{"missing date", func(in *TransactionInput) { in.Date = "" }, "UTC", "date", "required"},
		{"garbage date", func(in *TransactionInput) { in.Date = "yesterday" }, "UTC", "date", "unable to parse"},
		{"local date without timezone", func(in *TransactionInput) {}, "", "date", "no timezone"},
		{"unknown timezone", func(in *TransactionInput) {}, "Mars/Olympus", "date", "unknown timezone"},
		{"long description", func(in *TransactionInput) { in.Description = strings.Repeat("x", MaxDescriptionLength+1) }, "UTC", "description", "at most"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, verr := ValidateTransaction(in, tt.timezone, "")

			require.NotNil(t, verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.wantField, verr.Fields[0].Field)
			assert.Contains(t, verr.Fields[0].Message, tt.wantMsg)
		})
	}
}

func TestValidateTransaction_MaxAmountAccepted(t *testing.T) {
	in := validInput()
	in.Amount = dec("999999999999.99")

	_, verr := ValidateTransaction(in, "UTC", "")
	assert.Nil(t, verr)
}

// A bad second item rejects the whole batch and reports its index
func TestValidateBulk_RejectsWholeBatch(t *testing.T) {
	items := []TransactionInput{validInput(), validInput(), validInput()}
	items[1].Amount = dec("-5")

	got, err := ValidateBulk(items, "UTC")

	assert.Nil(t, got)
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "transactions[1].amount", verr.Fields[0].Field)
}

func TestValidateBulk_CollectsAllErrors(t *testing.T) {
	items := []TransactionInput{validInput(), validInput()}
	items[0].Type = "gift"
	items[1].Category = nil
	items[1].Amount = nil

	_, err := ValidateBulk(items, "UTC")

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
}

func TestValidateBulk_Limits(t *testing.T) {
	_, err := ValidateBulk(nil, "UTC")
	assert.Error(t, err)

	tooMany := make([]TransactionInput, MaxBulkItems+1)
	_, err = ValidateBulk(tooMany, "UTC")
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "transactions", verr.Fields[0].Field)
}

func TestValidateBulk_Valid(t *testing.T) {
	items := []TransactionInput{validInput(), validInput()}
	items[1].Type = "income"

	got, err := ValidateBulk(items, "UTC")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.Income, got[1].Type)
}
