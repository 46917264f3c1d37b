package database

import (
	"context"

	"gorm.io/gorm"
)

// ctxTxKey marks the transaction slot in a context. Store methods called
// with a context carrying a transaction join it instead of the root handle.
type ctxTxKey struct{}

// ContextWithTransaction binds tx into ctx for subsequent Store calls.
func ContextWithTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, ctxTxKey{}, tx)
}

// TransactionFromContext returns the bound transaction, or nil when the
// context carries none.
func TransactionFromContext(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(ctxTxKey{}).(*gorm.DB)
	if !ok {
		return nil
	}
	return tx
}

// getDBFromContext prefers the bound transaction over the root handle.
func getDBFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := TransactionFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
