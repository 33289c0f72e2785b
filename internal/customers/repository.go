package customers

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/minishop-backend/internal/repo"
	"github.com/angelmondragon/minishop-backend/pkg/db/models"
)

const upsertSQL = `INSERT INTO customers
	(id, tenant_id, name, phone, email, city, address, total_orders, total_spent, last_order_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?, ?)
ON CONFLICT (tenant_id, phone) DO UPDATE SET
	total_orders = customers.total_orders + 1,
	total_spent = customers.total_spent + excluded.total_spent,
	name = excluded.name,
	city = COALESCE(excluded.city, customers.city),
	last_order_at = excluded.last_order_at,
	updated_at = excluded.updated_at`

// OrderPlaced carries what a new order contributes to the customer aggregate.
type OrderPlaced struct {
	TenantID uuid.UUID
	Name     string
	Phone    string
	Email    *string
	City     *string
	Address  *string
	Total    decimal.Decimal
	PlacedAt time.Time
}

// Repository maintains per-tenant customer aggregates keyed by phone.
type Repository struct {
	repo.Base
}

// NewRepository constructs a customer repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// RecordOrder inserts the customer on first order or bumps total_orders and
// total_spent in a single statement. Concurrent orders for the same phone
// serialize on the unique index instead of losing an increment.
func (r *Repository) RecordOrder(ctx context.Context, in OrderPlaced) error {
	placed := in.PlacedAt.UTC()
	return r.DB(ctx).Exec(upsertSQL,
		uuid.New(),
		in.TenantID,
		strings.TrimSpace(in.Name),
		strings.TrimSpace(in.Phone),
		in.Email,
		in.City,
		in.Address,
		in.Total,
		placed,
		placed,
		placed,
	).Error
}

// FindByPhone loads a customer aggregate.
func (r *Repository) FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*models.Customer, error) {
	var customer models.Customer
	err := r.Scoped(ctx, tenantID, &models.Customer{}).
		Where("phone = ?", strings.TrimSpace(phone)).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
