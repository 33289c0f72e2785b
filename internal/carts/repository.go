package carts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/minishop-backend/internal/repo"
	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
	"github.com/angelmondragon/minishop-backend/pkg/pagination"
)

// Repository persists abandoned checkout sessions.
type Repository struct {
	repo.Base
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Upsert inserts the cart or, when the session already exists for the tenant,
// overwrites only the listed columns.
func (r *Repository) Upsert(ctx context.Context, cart *models.AbandonedCart, columns []string) error {
	updates := append(append([]string{}, columns...), "updated_at")
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(cart).Error
}

func (r *Repository) FindBySession(ctx context.Context, tenantID uuid.UUID, sessionID string) (*models.AbandonedCart, error) {
	var cart models.AbandonedCart
	err := r.Scoped(ctx, tenantID, &models.AbandonedCart{}).
		Where("session_id = ?", sessionID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *Repository) FindByID(ctx context.Context, tenantID, cartID uuid.UUID) (*models.AbandonedCart, error) {
	var cart models.AbandonedCart
	err := r.Scoped(ctx, tenantID, &models.AbandonedCart{}).
		Where("id = ?", cartID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// List returns carts newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID, status *enums.CartStatus, params pagination.Params) ([]models.AbandonedCart, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	query := r.Scoped(ctx, tenantID, &models.AbandonedCart{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if cursor != nil {
		query = query.Where("(created_at < ? OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.AbandonedCart
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, tenantID, cartID uuid.UUID, status enums.CartStatus) (bool, error) {
	res := r.Scoped(ctx, tenantID, &models.AbandonedCart{}).
		Where("id = ?", cartID).
		UpdateColumns(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	return res.RowsAffected > 0, res.Error
}

// MarkStaleLost moves carts still abandoned and untouched since cutoff to lost.
// Maintenance sweep; spans every tenant.
func (r *Repository) MarkStaleLost(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	res := r.Base.WithTx(tx).DB(ctx).Model(&models.AbandonedCart{}).
		Where("status = ? AND updated_at < ?", enums.CartStatusAbandoned, cutoff).
		UpdateColumns(map[string]any{"status": enums.CartStatusLost, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

// DeleteLostBefore purges lost carts last touched before cutoff. Spans every tenant.
func (r *Repository) DeleteLostBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	res := r.Base.WithTx(tx).DB(ctx).
		Where("status = ? AND updated_at < ?", enums.CartStatusLost, cutoff).
		Delete(&models.AbandonedCart{})
	return res.RowsAffected, res.Error
}
