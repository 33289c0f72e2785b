package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const orderNumberFormat = "ORD-%04d"

const (
	seedCounterSQL = `INSERT INTO tenant_order_counters (tenant_id, last_value, updated_at)
VALUES (?, 0, ?)
ON CONFLICT (tenant_id) DO NOTHING`

	bumpCounterSQL = `UPDATE tenant_order_counters
SET last_value = last_value + 1, updated_at = ?
WHERE tenant_id = ?
RETURNING last_value`
)

// FormatOrderNumber renders a counter value as a display order number.
func FormatOrderNumber(value int64) string {
	return fmt.Sprintf(orderNumberFormat, value)
}

// NextOrderNumber claims the next value of the tenant's order counter. The
// UPDATE holds the counter row lock until the surrounding transaction ends,
// so concurrent checkouts for one tenant are numbered one after the other.
func (r *repository) NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	now := time.Now().UTC()
	conn := r.DB(ctx)
	if err := conn.Exec(seedCounterSQL, tenantID, now).Error; err != nil {
		return "", fmt.Errorf("seed order counter: %w", err)
	}

	var next int64
	if err := conn.Raw(bumpCounterSQL, now, tenantID).Scan(&next).Error; err != nil {
		return "", fmt.Errorf("bump order counter: %w", err)
	}
	if next <= 0 {
		return "", fmt.Errorf("order counter for tenant %s returned %d", tenantID, next)
	}
	return FormatOrderNumber(next), nil
}
