// Package postgres implements the order repository over gorm.
package postgres

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/rtvox/rtvox-billing/internal/domain/order"
	ierr "github.com/rtvox/rtvox-billing/internal/errors"
	"github.com/rtvox/rtvox-billing/internal/logger"
	"github.com/rtvox/rtvox-billing/internal/types"
)

// pgUndefinedTable is the postgres error code for a missing relation.
const pgUndefinedTable = "42P01"

type orderRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewOrderRepository creates a gorm-backed order repository.
func NewOrderRepository(db *gorm.DB, log *logger.Logger) order.Repository {
	return &orderRepository{
		db:  db,
		log: log,
	}
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	var ord order.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ord).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("order not found").
				WithHint("Order not found").
				WithReportableDetails(map[string]interface{}{
					"order_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, r.wrapStorageError(err, "failed to get order")
	}
	return &ord, nil
}

func (r *orderRepository) LatestPaidByUserAndProduct(ctx context.Context, userID, productID string) (*order.Order, error) {
	var ord order.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND status = ?", userID, productID, types.OrderStatusPaid).
		Order("COALESCE(paid_at, created_at) DESC").
		First(&ord).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("no paid order found").
				WithHint("No paid order found for user").
				WithReportableDetails(map[string]interface{}{
					"user_id":    userID,
					"product_id": productID,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, r.wrapStorageError(err, "failed to query latest paid order")
	}
	return &ord, nil
}

func (r *orderRepository) UpdateMetadata(ctx context.Context, id string, metadata map[string]string) error {
	patch, err := json.Marshal(metadata)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode order metadata").
			Mark(ierr.ErrInternal)
	}

	result := r.db.WithContext(ctx).Exec(
		`UPDATE orders
		 SET metadata = COALESCE(metadata, '{}'::jsonb) || ?::jsonb,
		     updated_at = NOW()
		 WHERE id = ?`,
		string(patch), id,
	)
	if result.Error != nil {
		return r.wrapStorageError(result.Error, "failed to update order metadata")
	}
	if result.RowsAffected == 0 {
		return ierr.NewError("order not found").
			WithHint("Order not found").
			WithReportableDetails(map[string]interface{}{
				"order_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

// MarkRefundRequested is a conditional update so two concurrent refund
// requests cannot both pass a read-then-write check: only the call that
// flips the flag reports true.
func (r *orderRepository) MarkRefundRequested(ctx context.Context, id string, metadata map[string]string) (bool, error) {
	merged := types.Metadata(metadata).Merge(types.Metadata{
		types.MetadataKeyRefundRequested: "true",
	})
	patch, err := json.Marshal(merged)
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to encode order metadata").
			Mark(ierr.ErrInternal)
	}

	result := r.db.WithContext(ctx).Exec(
		`UPDATE orders
		 SET metadata = COALESCE(metadata, '{}'::jsonb) || ?::jsonb,
		     updated_at = NOW()
		 WHERE id = ?
		   AND COALESCE(metadata->>'refund_requested', '') <> 'true'`,
		string(patch), id,
	)
	if result.Error != nil {
		return false, r.wrapStorageError(result.Error, "failed to mark refund requested")
	}
	return result.RowsAffected > 0, nil
}

// wrapStorageError classifies storage errors, marking a missing orders
// relation distinctly so membership checks can report "not provisioned".
func (r *orderRepository) wrapStorageError(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		r.log.Warnw("orders relation does not exist", "error", err)
		return ierr.WithError(errors.Mark(err, order.ErrRelationMissing)).
			WithHint("Order storage is not provisioned").
			Mark(ierr.ErrDatabase)
	}
	return ierr.WithError(err).
		WithHint(msg).
		Mark(ierr.ErrDatabase)
}
