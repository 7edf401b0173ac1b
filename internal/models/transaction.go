package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are rendered as JSON numbers so chart series stay numeric arrays.
	decimal.MarshalJSONWithoutQuotes = true
}

// TxnType classifies a transaction or category. The zero value is invalid.
type TxnType uint8

const (
	TxnTypeUnknown TxnType = iota
	Income
	Expense
)

// ParseTxnType accepts "income" or "expense" (case-insensitive)
func ParseTxnType(s string) (TxnType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	default:
		return TxnTypeUnknown, fmt.Errorf("invalid transaction type %q: must be income or expense", s)
	}
}

func (t TxnType) String() string {
	switch t {
	case Income:
		return "income"
	case Expense:
		return "expense"
	default:
		return "unknown"
	}
}

// Valid reports whether t is Income or Expense
func (t TxnType) Valid() bool {
	return t == Income || t == Expense
}

func (t TxnType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid transaction type %d", t)
	}
	return []byte(t.String()), nil
}

func (t *TxnType) UnmarshalText(b []byte) error {
	parsed, err := ParseTxnType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MaxAmount is the largest value NUMERIC(14,2) can hold.
var MaxAmount = decimal.RequireFromString("999999999999.99")

// Transaction is a stored income or expense row.
// Date is an absolute instant; the local calendar day is derived per request.
type Transaction struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	CategoryID   *int64          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Date         time.Time       `json:"date"`
	Type         TxnType         `json:"type"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewTransaction is a validated insert/replace payload with the date already in UTC.
type NewTransaction struct {
	CategoryID  int64
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	Type        TxnType
}

// TransactionFilter scopes a paginated listing to one user.
type TransactionFilter struct {
	UserID int64
	Search string
	Start  *time.Time
	End    *time.Time
	Limit  int
	Offset int
}
