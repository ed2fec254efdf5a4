// file: internals/databases/tx.go
package database

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type txKey struct{}

// TxFromContext mengembalikan *gorm.DB transaksi yang diselipkan
// WithinTransaction, atau fallback kalau tidak sedang dalam transaksi.
// Repo memakai ini di jalur tulis supaya otomatis ikut transaksi service.
func TxFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

// GormTransactor membungkus fn dalam satu transaksi database.
// Error dari fn membatalkan seluruh transaksi.
type GormTransactor struct {
	DB *gorm.DB
}

func NewTransactor(db *gorm.DB) *GormTransactor { return &GormTransactor{DB: db} }

func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	err := t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	if err == nil {
		return nil
	}
	// *fiber.Error dari dalam closure diteruskan apa adanya supaya
	// status code bisnisnya tidak tertimpa 500.
	if fe, ok := err.(*fiber.Error); ok {
		return fe
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Transaksi database gagal")
}
