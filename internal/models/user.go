package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the public projection of a users row. The national id column is
// never selected, so it has no field here.
type User struct {
	ID        int64           `json:"user_id"`
	Name      string          `json:"name"`
	Address   *string         `json:"address"`
	Balance   decimal.Decimal `json:"balance"`
	Email     *string         `json:"email"`
	Phone     *string         `json:"phone"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
