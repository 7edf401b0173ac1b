package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/ashmitsharp/moneylens-api/internal/period"
	"github.com/shopspring/decimal"
)

// MaxBulkItems caps a single bulk insert
const MaxBulkItems = 500

// MaxDescriptionLength bounds the free-text description
const MaxDescriptionLength = 500

// TransactionInput is a transaction as submitted by a client. Date is the
// client's local date or date-time; it is converted to an instant with the
// item's timezone, or the request timezone when the item has none.
type TransactionInput struct {
	Category    *int64           `json:"category"`
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
	Type        string           `json:"type"`
	Timezone    string           `json:"timezone,omitempty"`
}

// ValidateTransaction checks one input and converts it. Field names in the
// returned error are prefixed with prefix (e.g. "transactions[1].").
func ValidateTransaction(in TransactionInput, timezone, prefix string) (models.NewTransaction, *models.ValidationError) {
	verr := &models.ValidationError{}
	out := models.NewTransaction{Description: strings.TrimSpace(in.Description)}

	if in.Category == nil {
		verr.Add(prefix+"category", "is required")
	} else if *in.Category <= 0 {
		verr.Add(prefix+"category", "must be a positive integer id")
	} else {
		out.CategoryID = *in.Category
	}

	if in.Amount == nil {
		verr.Add(prefix+"amount", "is required")
	} else if err := validateAmount(*in.Amount); err != nil {
		verr.Add(prefix+"amount", "%s", err.Error())
	} else {
		out.Amount = *in.Amount
	}

	if len(out.Description) > MaxDescriptionLength {
		verr.Add(prefix+"description", "must be at most %d characters", MaxDescriptionLength)
	}

	typ, err := models.ParseTxnType(in.Type)
	if err != nil {
		verr.Add(prefix+"type", "must be income or expense")
	} else {
		out.Type = typ
	}

	tz := in.Timezone
	if tz == "" {
		tz = timezone
	}
	if date, err := resolveDate(in.Date, tz); err != nil {
		verr.Add(prefix+"date", "%s", err.Error())
	} else {
		out.Date = date
	}

	if len(verr.Fields) > 0 {
		return models.NewTransaction{}, verr
	}
	return out, nil
}

// ValidateBulk validates every item and rejects the whole batch if any fails
func ValidateBulk(items []TransactionInput, timezone string) ([]models.NewTransaction, error) {
	if len(items) == 0 {
		return nil, models.NewValidationError("transactions", "at least one transaction is required")
	}
	if len(items) > MaxBulkItems {
		return nil, models.NewValidationError("transactions", fmt.Sprintf("at most %d transactions per request", MaxBulkItems))
	}

	all := &models.ValidationError{}
	out := make([]models.NewTransaction, 0, len(items))
	for i, item := range items {
		nt, verr := ValidateTransaction(item, timezone, fmt.Sprintf("transactions[%d].", i))
		if verr != nil {
			all.Fields = append(all.Fields, verr.Fields...)
			continue
		}
		out = append(out, nt)
	}

	if err := all.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("must be greater than 0")
	}
	if amount.GreaterThan(models.MaxAmount) {
		return fmt.Errorf("must not exceed %s", models.MaxAmount.StringFixed(2))
	}
	if !amount.Equal(amount.Truncate(2)) {
		return fmt.Errorf("must have at most 2 decimal places")
	}
	return nil
}

// resolveDate converts a client date to a UTC instant. A date carrying its own
// offset needs no timezone; a local date without one cannot be resolved.
func resolveDate(raw, timezone string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("is required")
	}

	var loc *time.Location
	if timezone != "" {
		l, err := period.LoadLocation(timezone)
		if err != nil {
			return time.Time{}, fmt.Errorf("unknown timezone %q", timezone)
		}
		loc = l
	}

	t, err := period.ParseLocalDate(raw, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
