package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
	"github.com/angelmondragon/minishop-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their items.
// Every method is scoped to the tenant that owns the rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
	Create(ctx context.Context, order *models.Order) error
	FindForUpdate(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error)
	FindUpsellItem(ctx context.Context, tenantID, orderID, upsellID uuid.UUID) (*models.OrderItem, error)
	InsertItem(ctx context.Context, item *models.OrderItem) error
	AddToTotals(ctx context.Context, tenantID, orderID uuid.UUID, amount decimal.Decimal) error
	List(ctx context.Context, tenantID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error)
	FindDetail(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, tenantID, orderID uuid.UUID, status enums.OrderStatus) (bool, error)
	UpdateAdminNotes(ctx context.Context, tenantID, orderID uuid.UUID, notes *string) (bool, error)
}
