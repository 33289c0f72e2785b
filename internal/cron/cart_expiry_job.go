package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/minishop-backend/pkg/logger"
)

const (
	defaultCartLostAfter = 7 * 24 * time.Hour
	defaultCartRetention = 90 * 24 * time.Hour
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartSweeper interface {
	MarkStaleLost(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
	DeleteLostBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

// CartExpiryJobParams configure the abandoned cart sweep.
type CartExpiryJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository cartSweeper
	// LostAfter is how long a cart may sit in "abandoned" before it counts as lost.
	LostAfter time.Duration
	// Retention is how long lost carts are kept before they are purged.
	Retention time.Duration
}

// NewCartExpiryJob builds the job that marks stale abandoned carts as lost and
// purges lost carts past retention.
func NewCartExpiryJob(params CartExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	lostAfter := params.LostAfter
	if lostAfter <= 0 {
		lostAfter = defaultCartLostAfter
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultCartRetention
	}
	return &cartExpiryJob{
		logg:      params.Logger,
		db:        params.DB,
		repo:      params.Repository,
		lostAfter: lostAfter,
		retention: retention,
		now:       time.Now,
	}, nil
}

type cartExpiryJob struct {
	logg      *logger.Logger
	db        txRunner
	repo      cartSweeper
	lostAfter time.Duration
	retention time.Duration
	now       func() time.Time
}

func (j *cartExpiryJob) Name() string { return "cart-expiry" }

func (j *cartExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var errs []error

	lostCutoff := now.Add(-j.lostAfter)
	var marked int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.MarkStaleLost(ctx, tx, lostCutoff)
		marked = rows
		return err
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("mark stale carts lost: %w", err))
	}

	purgeCutoff := now.Add(-j.retention)
	var purged int64
	err = j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeleteLostBefore(ctx, tx, purgeCutoff)
		purged = rows
		return err
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("purge lost carts: %w", err))
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"lost_cutoff":  lostCutoff,
		"purge_cutoff": purgeCutoff,
		"carts_lost":   marked,
		"carts_purged": purged,
	})
	j.logg.Info(logCtx, "cart expiry complete")
	return multierr.Combine(errs...)
}
