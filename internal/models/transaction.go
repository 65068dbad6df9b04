package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable ledger record. Date and Time are the calendar
// date and wall-clock time of the transfer, formatted YYYY-MM-DD and HH:MM:SS.
type Transaction struct {
	ID            int64           `json:"transaction_id"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	SenderID      int64           `json:"sender_id"`
	RecipientID   int64           `json:"recipient_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   *string         `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
	SenderName    string          `json:"sender_name,omitempty"`
	RecipientName string          `json:"recipient_name,omitempty"`
}

type TransferRequest struct {
	SenderID    int64           `json:"sender_id" validate:"required,gt=0"`
	RecipientID int64           `json:"recipient_id" validate:"required,gt=0,nefield=SenderID"`
	Amount      decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=255"`
}

// TransferResult is the 201 body of a committed transfer.
type TransferResult struct {
	Message     string      `json:"message"`
	Transaction Transaction `json:"transaction"`
}
