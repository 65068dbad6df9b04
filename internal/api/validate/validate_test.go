package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/bank-ledger/internal/models"
)

func TestTransferRequestValidation(t *testing.T) {
	long := strings.Repeat("x", 256)
	tests := []struct {
		name   string
		req    models.TransferRequest
		fields []string
	}{
		{"valid", models.TransferRequest{SenderID: 1, RecipientID: 2, Amount: decimal.NewFromInt(5)}, nil},
		{"empty", models.TransferRequest{}, []string{"sender_id", "recipient_id", "amount"}},
		{"negative amount", models.TransferRequest{SenderID: 1, RecipientID: 2, Amount: decimal.NewFromInt(-3)}, []string{"amount"}},
		{"same party", models.TransferRequest{SenderID: 4, RecipientID: 4, Amount: decimal.NewFromInt(1)}, []string{"recipient_id"}},
		{"huge exponent", models.TransferRequest{SenderID: 1, RecipientID: 2, Amount: decimal.New(1, 30000000)}, []string{"amount"}},
		{"tiny exponent", models.TransferRequest{SenderID: 1, RecipientID: 2, Amount: decimal.New(1, -30000000)}, []string{"amount"}},
		{"long description", models.TransferRequest{SenderID: 1, RecipientID: 2, Amount: decimal.NewFromInt(1), Description: &long}, []string{"description"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.req)
			if tt.fields == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var errs Errs
			if !errors.As(err, &errs) {
				t.Fatalf("err = %v, want Errs", err)
			}
			got := map[string]bool{}
			for _, e := range errs {
				got[e.Field] = true
			}
			for _, f := range tt.fields {
				if !got[f] {
					t.Errorf("missing error for %s in %v", f, errs)
				}
			}
		})
	}
}
