package models

import "time"

// UncategorizedLabel names the bucket for rows whose category was deleted.
const UncategorizedLabel = "Uncategorized"

// OtherCategoryName is the per-type fallback category.
const OtherCategoryName = "other"

type Category struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Type      TxnType   `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type DefaultCategory struct {
	Name string
	Type TxnType
}

// DefaultCategories is the seed set every user receives once on first sign-in.
var DefaultCategories = []DefaultCategory{
	{Name: "food", Type: Expense},
	{Name: "social-life", Type: Expense},
	{Name: "apparel", Type: Expense},
	{Name: "culture", Type: Expense},
	{Name: "beauty", Type: Expense},
	{Name: "health", Type: Expense},
	{Name: "education", Type: Expense},
	{Name: "gift", Type: Expense},
	{Name: "bill-subscription", Type: Expense},
	{Name: "house-hold", Type: Expense},
	{Name: "transportation", Type: Expense},
	{Name: OtherCategoryName, Type: Expense},

	{Name: "work", Type: Income},
	{Name: "freelance", Type: Income},
	{Name: "bonus", Type: Income},
	{Name: "gift-income", Type: Income},
	{Name: "interest", Type: Income},
	{Name: "investment", Type: Income},
	{Name: OtherCategoryName, Type: Income},
}

// User is an authenticated account keyed by the identity provider subject.
type User struct {
	ID        int64      `json:"id"`
	Subject   string     `json:"subject"`
	Email     string     `json:"email"`
	Name      *string    `json:"name"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}
