package handlers

import (
	"context"
	"net/http"

	"github.com/baharkarakas/bank-ledger/internal/api/httpx"
	"github.com/baharkarakas/bank-ledger/internal/models"
	"github.com/baharkarakas/bank-ledger/internal/services"
)

type Directory interface {
	Users(ctx context.Context, p services.PageRequest) (models.Page[models.User], error)
	Accounts(ctx context.Context, p services.PageRequest) (models.Page[models.Account], error)
	Projects(ctx context.Context) ([]models.Project, error)
}

type DirectoryHandler struct {
	svc  Directory
	errs httpx.ErrorWriter
}

func NewDirectoryHandler(svc Directory, errs httpx.ErrorWriter) *DirectoryHandler {
	return &DirectoryHandler{svc: svc, errs: errs}
}

func (h *DirectoryHandler) Users(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Users(r.Context(), pageRequest(r))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

func (h *DirectoryHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Accounts(r.Context(), pageRequest(r))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

func (h *DirectoryHandler) Projects(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.Projects(r.Context())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ps)
}
