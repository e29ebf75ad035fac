package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/rtvox/rtvox-billing/internal/domain/order"
	ierr "github.com/rtvox/rtvox-billing/internal/errors"
	"github.com/rtvox/rtvox-billing/internal/types"
)

// InMemoryOrderStore implements order.Repository
type InMemoryOrderStore struct {
	mu              sync.RWMutex
	orders          map[string]*order.Order
	relationMissing bool
	failWith        error
}

// NewInMemoryOrderStore creates a new in-memory order store
func NewInMemoryOrderStore() *InMemoryOrderStore {
	return &InMemoryOrderStore{
		orders: make(map[string]*order.Order),
	}
}

// Add stores a copy of the order.
func (s *InMemoryOrderStore) Add(ord *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[ord.ID] = copyOrder(ord)
}

// SetRelationMissing makes every call fail as if the orders relation does
// not exist.
func (s *InMemoryOrderStore) SetRelationMissing(missing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relationMissing = missing
}

// SetError makes every call fail with the given error.
func (s *InMemoryOrderStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *InMemoryOrderStore) storageError() error {
	if s.relationMissing {
		return ierr.WithError(errors.Mark(errors.New("relation \"orders\" does not exist"), order.ErrRelationMissing)).
			WithHint("Order storage is not provisioned").
			Mark(ierr.ErrDatabase)
	}
	if s.failWith != nil {
		return ierr.WithError(s.failWith).
			WithHint("Order store failure").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (s *InMemoryOrderStore) GetByID(ctx context.Context, id string) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.storageError(); err != nil {
		return nil, err
	}

	ord, ok := s.orders[id]
	if !ok {
		return nil, ierr.NewError("order not found").
			WithHint("Order not found").
			WithReportableDetails(map[string]interface{}{
				"order_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyOrder(ord), nil
}

func (s *InMemoryOrderStore) LatestPaidByUserAndProduct(ctx context.Context, userID, productID string) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.storageError(); err != nil {
		return nil, err
	}

	var matches []*order.Order
	for _, ord := range s.orders {
		if ord.UserID == userID && ord.ProductID == productID && ord.Status == types.OrderStatusPaid {
			matches = append(matches, ord)
		}
	}
	if len(matches) == 0 {
		return nil, ierr.NewError("no paid order found").
			WithHint("No paid order found for user").
			WithReportableDetails(map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			}).
			Mark(ierr.ErrNotFound)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].EffectivePaidAt().After(matches[j].EffectivePaidAt())
	})
	return copyOrder(matches[0]), nil
}

func (s *InMemoryOrderStore) UpdateMetadata(ctx context.Context, id string, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storageError(); err != nil {
		return err
	}

	ord, ok := s.orders[id]
	if !ok {
		return ierr.NewError("order not found").
			WithHint("Order not found").
			Mark(ierr.ErrNotFound)
	}
	ord.Metadata = ord.Metadata.Merge(metadata)
	return nil
}

func (s *InMemoryOrderStore) MarkRefundRequested(ctx context.Context, id string, metadata map[string]string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storageError(); err != nil {
		return false, err
	}

	ord, ok := s.orders[id]
	if !ok {
		return false, ierr.NewError("order not found").
			WithHint("Order not found").
			Mark(ierr.ErrNotFound)
	}
	if ord.Metadata[types.MetadataKeyRefundRequested] == "true" {
		return false, nil
	}
	ord.Metadata = ord.Metadata.Merge(metadata).Merge(types.Metadata{
		types.MetadataKeyRefundRequested: "true",
	})
	return true, nil
}

// Helper to copy order
func copyOrder(ord *order.Order) *order.Order {
	if ord == nil {
		return nil
	}

	copied := *ord
	copied.Metadata = types.Metadata{}.Merge(ord.Metadata)
	if ord.PaidAt != nil {
		paidAt := *ord.PaidAt
		copied.PaidAt = &paidAt
	}
	return &copied
}
