package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// GormUnitOfWork implements shared.UnitOfWork on a gorm connection. The
// transaction handle travels inside the context so repositories used from
// within the transactional function automatically join it.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// WithinTransaction runs fn inside a database transaction. The whole
// function commits or rolls back as one unit; a nested call joins the
// surrounding transaction instead of opening a new one.
func (u *GormUnitOfWork) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// dbFor returns the transaction bound to the context when present, or the
// base connection otherwise
func dbFor(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
