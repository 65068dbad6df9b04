package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/baharkarakas/bank-ledger/internal/cache"
	"github.com/baharkarakas/bank-ledger/internal/metrics"
	"github.com/baharkarakas/bank-ledger/internal/models"
	repo "github.com/baharkarakas/bank-ledger/internal/repository"
	"github.com/baharkarakas/bank-ledger/internal/worker"
)

// maxAmount is the largest value a NUMERIC(15,2) column holds.
var maxAmount = decimal.RequireFromString("9999999999999.99")

// Amounts whose exponent falls outside these bounds are rejected before any
// arithmetic touches them; rescaling costs time in the size of the exponent.
const (
	minAmountExp = -32
	maxAmountExp = 13
)

// AmountInRange reports whether d can be compared and rescaled cheaply.
func AmountInRange(d decimal.Decimal) bool {
	e := d.Exponent()
	return e >= minAmountExp && e <= maxAmountExp
}

type TransactionService struct {
	ledger repo.Ledger
	trx    repo.Transactions
	audit  repo.AuditLogs
	wp     *worker.Pool
	byID   *cache.View[models.Transaction]
	log    *zap.Logger
}

func NewTransactionService(
	l repo.Ledger,
	t repo.Transactions,
	a repo.AuditLogs,
	wp *worker.Pool,
	byID *cache.View[models.Transaction],
	log *zap.Logger,
) *TransactionService {
	if byID == nil {
		byID = cache.NewView[models.Transaction](cache.Disabled(), "transactions", 0)
	}
	return &TransactionService{ledger: l, trx: t, audit: a, wp: wp, byID: byID, log: log.Named("transactions")}
}

// Transfer moves req.Amount from the sender's balance to the recipient's and
// records one Transaction, all in a single atomic unit. On any error nothing
// is persisted.
func (s *TransactionService) Transfer(ctx context.Context, req models.TransferRequest) (models.Transaction, error) {
	start := time.Now()
	rec, err := s.transfer(ctx, req)
	metrics.TransfersTotal.WithLabelValues(Classify(err)).Inc()
	metrics.TransferDuration.Observe(time.Since(start).Seconds())
	s.auditTransfer(req, rec, err)
	return rec, err
}

func (s *TransactionService) transfer(ctx context.Context, req models.TransferRequest) (models.Transaction, error) {
	if err := ValidateTransfer(req); err != nil {
		return models.Transaction{}, err
	}

	var rec models.Transaction
	err := s.ledger.WithTx(ctx, func(tx repo.LedgerTx) error {
		balances, err := tx.LockBalances(ctx, req.SenderID, req.RecipientID)
		if err != nil {
			return fmt.Errorf("lock balances: %w", err)
		}
		senderBalance, ok := balances[req.SenderID]
		if !ok {
			return fmt.Errorf("sender %d: %w", req.SenderID, ErrNotFound)
		}
		if _, ok := balances[req.RecipientID]; !ok {
			return fmt.Errorf("recipient %d: %w", req.RecipientID, ErrNotFound)
		}
		if senderBalance.LessThan(req.Amount) {
			return fmt.Errorf("sender %d: %w", req.SenderID, ErrInsufficientFunds)
		}

		rec, err = tx.InsertTransaction(ctx, repo.NewTransaction{
			SenderID:    req.SenderID,
			RecipientID: req.RecipientID,
			Amount:      req.Amount,
			Description: normalizeDescription(req.Description),
		})
		if err != nil {
			return err
		}
		if err := tx.AddToBalance(ctx, req.SenderID, req.Amount.Neg()); err != nil {
			return err
		}
		return tx.AddToBalance(ctx, req.RecipientID, req.Amount)
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return rec, nil
}

// ValidateTransfer checks everything that can be checked without storage.
func ValidateTransfer(req models.TransferRequest) error {
	switch {
	case req.SenderID <= 0 || req.RecipientID <= 0:
		return fmt.Errorf("sender_id and recipient_id are required: %w", ErrInvalidRequest)
	case req.SenderID == req.RecipientID:
		return fmt.Errorf("sender and recipient must differ: %w", ErrInvalidRequest)
	case !req.Amount.IsPositive():
		return fmt.Errorf("amount must be greater than zero: %w", ErrInvalidRequest)
	case !AmountInRange(req.Amount):
		return fmt.Errorf("amount is out of range: %w", ErrInvalidRequest)
	case !req.Amount.Equal(req.Amount.Truncate(2)):
		return fmt.Errorf("amount has more than two decimal places: %w", ErrInvalidRequest)
	case req.Amount.GreaterThan(maxAmount):
		return fmt.Errorf("amount exceeds %s: %w", maxAmount, ErrInvalidRequest)
	case req.Description != nil && !validText(*req.Description):
		return fmt.Errorf("description must be valid UTF-8 without NUL bytes: %w", ErrInvalidRequest)
	}
	return nil
}

func validText(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

func normalizeDescription(d *string) *string {
	if d == nil {
		return nil
	}
	v := strings.TrimSpace(*d)
	if v == "" {
		return nil
	}
	return &v
}

// auditTransfer queues an audit row off the request path. Malformed requests
// are not audited.
func (s *TransactionService) auditTransfer(req models.TransferRequest, rec models.Transaction, err error) {
	if s.wp == nil || s.audit == nil || Classify(err) == "invalid_request" {
		return
	}
	entry := models.AuditLog{
		EntityType: "transaction",
		Action:     "transfer.completed",
		Details: map[string]any{
			"sender_id":    req.SenderID,
			"recipient_id": req.RecipientID,
			"amount":       req.Amount.String(),
		},
	}
	if err != nil {
		entry.Action = "transfer.rejected"
		entry.Details["reason"] = Classify(err)
	} else {
		id := strconv.FormatInt(rec.ID, 10)
		entry.EntityID = &id
	}

	ok := s.wp.TrySubmit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.audit.Create(ctx, entry); err != nil {
			s.log.Warn("audit write failed", zap.String("action", entry.Action), zap.Error(err))
		}
	})
	if !ok {
		s.log.Warn("audit queue full, entry dropped", zap.String("action", entry.Action))
	}
}

// GetByID reads through the view cache; records never change once written.
func (s *TransactionService) GetByID(ctx context.Context, id int64) (models.Transaction, error) {
	if id <= 0 {
		return models.Transaction{}, fmt.Errorf("transaction id must be positive: %w", ErrInvalidRequest)
	}
	return s.byID.Load(ctx, strconv.FormatInt(id, 10), func(ctx context.Context) (models.Transaction, error) {
		t, err := s.trx.GetByID(ctx, id)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("transaction %d: %w", id, err)
		}
		return t, nil
	})
}

func (s *TransactionService) List(ctx context.Context, p PageRequest) (models.Page[models.Transaction], error) {
	total, err := s.trx.Count(ctx)
	if err != nil {
		return models.Page[models.Transaction]{}, fmt.Errorf("count transactions: %w", err)
	}
	var rows []models.Transaction
	if p.Offset() < total {
		rows, err = s.trx.List(ctx, p.Limit, p.Offset())
		if err != nil {
			return models.Page[models.Transaction]{}, fmt.Errorf("list transactions: %w", err)
		}
	}
	return NewPage(p, total, rows), nil
}
