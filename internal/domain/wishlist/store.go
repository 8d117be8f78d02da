package wishlist

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// ErrBusy is returned when a mutation targets a product that already has a
// request in flight.
var ErrBusy = errors.New("wishlist mutation already in flight")

// Store keeps the wishlist in lockstep with the gateway: an ordered entry
// list for display plus a membership set for O(1) Contains checks. The same
// busy-set single-flight rule as the cart store applies, keyed by product id.
type Store struct {
	gw Gateway
	lg *zap.Logger

	mu      sync.Mutex
	entries []Entry
	members map[int64]struct{}
	busy    map[int64]struct{}
	lastErr error
}

// NewStore creates an empty wishlist Store.
func NewStore(gw Gateway, lg *zap.Logger) *Store {
	return &Store{
		gw:      gw,
		lg:      lg.Named("wishlist"),
		members: map[int64]struct{}{},
		busy:    map[int64]struct{}{},
	}
}

// Refresh loads the wishlist from the gateway, replacing local state. On
// failure the previous entries are retained.
func (s *Store) Refresh(ctx context.Context) error {
	entries, err := s.gw.Wishlist(ctx)
	if err != nil {
		s.recordErr("refresh", err)
		return err
	}
	s.replace(entries)
	return nil
}

// Add saves the product to the wishlist.
func (s *Store) Add(ctx context.Context, productID int64) error {
	return s.mutate(ctx, productID, s.gw.AddWishlistItem)
}

// Remove deletes the product from the wishlist.
func (s *Store) Remove(ctx context.Context, productID int64) error {
	return s.mutate(ctx, productID, s.gw.RemoveWishlistItem)
}

// Toggle adds the product when absent and removes it when present.
func (s *Store) Toggle(ctx context.Context, productID int64) error {
	if s.Contains(productID) {
		return s.Remove(ctx, productID)
	}
	return s.Add(ctx, productID)
}

func (s *Store) mutate(ctx context.Context, productID int64, call func(context.Context, int64) ([]Entry, error)) error {
	s.mu.Lock()
	if _, exists := s.busy[productID]; exists {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy[productID] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.busy, productID)
		s.mu.Unlock()
	}()

	entries, err := call(ctx, productID)
	if err != nil {
		s.recordErr("mutate", err)
		return err
	}
	s.replace(entries)
	return nil
}

func (s *Store) replace(entries []Entry) {
	members := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		members[e.ProductID] = struct{}{}
	}
	s.mu.Lock()
	s.entries = entries
	s.members = members
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *Store) recordErr(op string, err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.lg.Warn("Wishlist operation failed", zap.String("op", op), zap.Error(err))
}

// Busy reports whether the given product has a mutation in flight.
func (s *Store) Busy(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.busy[productID]
	return ok
}

// Contains reports wishlist membership in O(1).
func (s *Store) Contains(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.members[productID]
	return ok
}

// Entries returns a copy of the saved products in display order.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// Len returns the number of saved products.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// LastErr returns the most recent operation error, or nil after the last
// successful mutation.
func (s *Store) LastErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
