package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/minishop-backend/internal/repo"
	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
	"github.com/angelmondragon/minishop-backend/pkg/pagination"
)

type repository struct {
	repo.Base
}

// NewRepository constructs an orders repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.WithTx(tx)}
}

// Create inserts the order row followed by its items.
func (r *repository) Create(ctx context.Context, order *models.Order) error {
	conn := r.DB(ctx)
	if err := conn.Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	if len(order.Items) == 0 {
		return nil
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		order.Items[i].TenantID = order.TenantID
	}
	return conn.Create(&order.Items).Error
}

// FindForUpdate loads the order and locks its row for the rest of the transaction.
func (r *repository) FindForUpdate(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.Scoped(ctx, tenantID, &models.Order{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindUpsellItem(ctx context.Context, tenantID, orderID, upsellID uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.Scoped(ctx, tenantID, &models.OrderItem{}).
		Where("order_id = ? AND upsell_id = ?", orderID, upsellID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) InsertItem(ctx context.Context, item *models.OrderItem) error {
	return r.DB(ctx).Create(item).Error
}

// AddToTotals increments subtotal and total in place.
func (r *repository) AddToTotals(ctx context.Context, tenantID, orderID uuid.UUID, amount decimal.Decimal) error {
	res := r.Scoped(ctx, tenantID, &models.Order{}).
		Where("id = ?", orderID).
		UpdateColumns(map[string]any{
			"subtotal":   gorm.Expr("subtotal + ?", amount),
			"total":      gorm.Expr("total + ?", amount),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns orders newest first using keyset pagination on (created_at, id).
func (r *repository) List(ctx context.Context, tenantID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.Scoped(ctx, tenantID, &models.Order{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", filters.DateFrom.UTC())
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", filters.DateTo.UTC())
	}
	if term := strings.ToLower(strings.TrimSpace(filters.Search)); term != "" {
		like := "%" + term + "%"
		query = query.Where(
			"(LOWER(customer_name) LIKE ? OR LOWER(customer_phone) LIKE ? OR LOWER(order_number) LIKE ?)",
			like, like, like,
		)
	}
	if cursor != nil {
		query = query.Where("(created_at < ? OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := &OrderList{Orders: make([]OrderSummary, 0, len(rows))}
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		out.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for _, row := range rows {
		out.Orders = append(out.Orders, newOrderSummary(row))
	}
	return out, nil
}

// FindDetail loads the order with its items in insertion order.
func (r *repository) FindDetail(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.Scoped(ctx, tenantID, &models.Order{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateStatus(ctx context.Context, tenantID, orderID uuid.UUID, status enums.OrderStatus) (bool, error) {
	return r.update(ctx, tenantID, orderID, map[string]any{"status": status})
}

func (r *repository) UpdateAdminNotes(ctx context.Context, tenantID, orderID uuid.UUID, notes *string) (bool, error) {
	return r.update(ctx, tenantID, orderID, map[string]any{"admin_notes": notes})
}

func (r *repository) update(ctx context.Context, tenantID, orderID uuid.UUID, updates map[string]any) (bool, error) {
	updates["updated_at"] = time.Now().UTC()
	res := r.Scoped(ctx, tenantID, &models.Order{}).
		Where("id = ?", orderID).
		UpdateColumns(updates)
	return res.RowsAffected > 0, res.Error
}
