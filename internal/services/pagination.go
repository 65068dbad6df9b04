package services

import (
	"strconv"

	"github.com/baharkarakas/bank-ledger/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type PageRequest struct {
	Page  int
	Limit int
}

// ParsePageRequest reads raw page/limit query values. Missing or malformed
// values fall back to the defaults, values below 1 clamp to 1 and limit is
// capped at MaxLimit.
func ParsePageRequest(page, limit string) PageRequest {
	return PageRequest{
		Page:  clampInt(page, DefaultPage, 1<<30),
		Limit: clampInt(limit, DefaultLimit, MaxLimit),
	}
}

func (p PageRequest) Offset() int { return (p.Page - 1) * p.Limit }

// NewPage wraps one page of rows in the envelope. Out-of-range pages yield
// an empty, non-nil data slice.
func NewPage[T any](req PageRequest, total int, rows []T) models.Page[T] {
	if rows == nil {
		rows = []T{}
	}
	totalPages := 0
	if req.Limit > 0 {
		totalPages = (total + req.Limit - 1) / req.Limit
	}
	return models.Page[T]{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		Data:       rows,
	}
}

func clampInt(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}
