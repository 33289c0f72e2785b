package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is embedded by the domain repositories. Every tenant-owned table is
// read and written through Scoped so no query can cross a tenant boundary.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// WithTx rebinds the base to an open transaction.
func (b Base) WithTx(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Scoped returns a session filtered on tenant_id for the given model's table.
func (b Base) Scoped(ctx context.Context, tenantID uuid.UUID, model any) *gorm.DB {
	return b.DB(ctx).Model(model).Where("tenant_id = ?", tenantID)
}
