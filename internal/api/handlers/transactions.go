package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/bank-ledger/internal/api/httpx"
	"github.com/baharkarakas/bank-ledger/internal/api/validate"
	"github.com/baharkarakas/bank-ledger/internal/models"
	"github.com/baharkarakas/bank-ledger/internal/services"
)

const maxBodyBytes = 1 << 20

const transferCompleted = "Transaction completed successfully"

type Transactions interface {
	Transfer(ctx context.Context, req models.TransferRequest) (models.Transaction, error)
	GetByID(ctx context.Context, id int64) (models.Transaction, error)
	List(ctx context.Context, p services.PageRequest) (models.Page[models.Transaction], error)
}

type TransactionHandler struct {
	svc  Transactions
	errs httpx.ErrorWriter
}

func NewTransactionHandler(svc Transactions, errs httpx.ErrorWriter) *TransactionHandler {
	return &TransactionHandler{svc: svc, errs: errs}
}

// Create handles POST /api/transactions.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Missing or invalid required fields", "malformed JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		var errs validate.Errs
		if errors.As(err, &errs) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Missing or invalid required fields", errs)
			return
		}
		h.errs.Write(w, r, err)
		return
	}

	t, err := h.svc.Transfer(r.Context(), req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, models.TransferResult{Message: transferCompleted, Transaction: t})
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Missing or invalid required fields", "id must be a positive integer")
		return
	}
	t, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.List(r.Context(), pageRequest(r))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

func pageRequest(r *http.Request) services.PageRequest {
	q := r.URL.Query()
	return services.ParsePageRequest(q.Get("page"), q.Get("limit"))
}
