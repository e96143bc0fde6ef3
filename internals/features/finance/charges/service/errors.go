package service

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrInvalidPeriod          = errors.New("charge already exists for payee and period")
	ErrInvalidDates           = errors.New("hard deadline must be on or after due date")
	ErrInvalidCharge          = errors.New("invalid charge")
	ErrFutureDated            = errors.New("payment paid_at is in the future")
	ErrOverpayment            = errors.New("payment exceeds outstanding balance")
	ErrInvalidPayment         = errors.New("invalid payment")
	ErrConcurrentModification = errors.New("charge was modified concurrently, reload and retry")
	ErrChargeNotFound         = errors.New("charge not found")
	ErrChargeLocked           = errors.New("charge has payments and cannot be deleted")
)

// isUniqueViolation: 23505 dari Postgres, ErrDuplicatedKey kalau TranslateError aktif,
// dan pesan UNIQUE dari sqlite (dipakai di test).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "duplicate key")
}
