package testutil

import (
	"context"
	"sync"

	"github.com/rtvox/rtvox-billing/internal/domain/membership"
	ierr "github.com/rtvox/rtvox-billing/internal/errors"
)

// StubProviderClient implements membership.ProviderClient for tests.
type StubProviderClient struct {
	mu sync.Mutex

	Subscriptions map[string]*membership.ProviderSubscription
	Sessions      map[string]*membership.ProviderSession

	SubscriptionErr error
	SessionErr      error

	SubscriptionCalls int
	SessionCalls      int
}

// NewStubProviderClient creates an empty stub provider
func NewStubProviderClient() *StubProviderClient {
	return &StubProviderClient{
		Subscriptions: make(map[string]*membership.ProviderSubscription),
		Sessions:      make(map[string]*membership.ProviderSession),
	}
}

func (s *StubProviderClient) RetrieveSubscription(ctx context.Context, id string) (*membership.ProviderSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.SubscriptionCalls++
	if s.SubscriptionErr != nil {
		return nil, s.SubscriptionErr
	}
	sub, ok := s.Subscriptions[id]
	if !ok {
		return nil, ierr.NewError("subscription not found").
			WithHint("Subscription not found").
			Mark(ierr.ErrNotFound)
	}
	return sub, nil
}

func (s *StubProviderClient) RetrieveCheckoutSession(ctx context.Context, id string) (*membership.ProviderSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.SessionCalls++
	if s.SessionErr != nil {
		return nil, s.SessionErr
	}
	session, ok := s.Sessions[id]
	if !ok {
		return nil, ierr.NewError("checkout session not found").
			WithHint("Checkout session not found").
			Mark(ierr.ErrNotFound)
	}
	return session, nil
}
