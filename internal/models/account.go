package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID          int64           `json:"account_id"`
	AccountType string          `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	UserName    string          `json:"user_name"`
}
