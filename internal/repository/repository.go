package repository

import (
	"context"

	"github.com/m2tx/kinchat/internal/model"
)

// ExchangeRepository defines persistence operations for relay audit records.
type ExchangeRepository interface {
	// Record stores one exchange. Records are append-only.
	Record(ctx context.Context, exchange model.Exchange) error

	// Recent returns up to limit exchanges, newest first.
	Recent(ctx context.Context, limit int) ([]model.Exchange, error)
}
