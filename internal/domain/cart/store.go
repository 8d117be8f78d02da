package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Sentinel errors for locally rejected mutations. These never reach the
// gateway.
var (
	// ErrLineBusy is returned when a mutation targets a line that already has
	// a request in flight. The second request is rejected, not queued, so
	// rapid taps cannot grow an unbounded queue.
	ErrLineBusy = errors.New("cart line mutation already in flight")
	// ErrNegativeQuantity is returned by SetLineQuantity for quantities below
	// zero. Zero itself is valid and means remove.
	ErrNegativeQuantity = errors.New("quantity must not be negative")
	// ErrInvalidQuantity is returned by AddLine for non-positive quantities.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// Store owns the authoritative local copy of the cart. It guarantees at most
// one in-flight mutation per logical action stream (per line id, or per
// product id for adds); mutations of different lines proceed in parallel.
//
// The store never retries automatically: retry is a user-initiated
// re-invocation of the same operation.
type Store struct {
	gw Gateway
	lg *zap.Logger

	refresh singleflight.Group

	mu      sync.Mutex
	snap    Snapshot
	busy    map[string]struct{}
	loading bool
	lastErr error
}

// NewStore creates a Store with an empty snapshot. The store is constructed
// at session start and passed explicitly to its consumers.
func NewStore(gw Gateway, lg *zap.Logger) *Store {
	return &Store{
		gw:   gw,
		lg:   lg.Named("cart"),
		busy: map[string]struct{}{},
	}
}

// Refresh fetches the current cart from the gateway and replaces the local
// snapshot wholesale. Concurrent refreshes are coalesced into a single
// gateway call. On failure the previous snapshot is retained and the error
// is recorded for the caller to surface.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	v, err, shared := s.refresh.Do("refresh", func() (any, error) {
		return s.gw.Cart(ctx)
	})
	if err != nil {
		s.recordErr("refresh", err)
		return err
	}
	if shared {
		s.lg.Debug("Refresh coalesced with concurrent call")
	}
	s.replace(v.(*Snapshot))
	return nil
}

// AddLine sends an add-or-merge request for the given product. The gateway
// decides whether this creates a new line or increments an existing one.
// A second add for the same product while one is in flight is rejected with
// ErrLineBusy.
func (s *Store) AddLine(ctx context.Context, productID int64, quantity int) (*Snapshot, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.mutate(ctx, fmt.Sprintf("add:%d", productID), func(ctx context.Context) (*Snapshot, error) {
		return s.gw.AddCartItem(ctx, productID, quantity)
	})
}

// SetLineQuantity sets the quantity of an existing line. Quantity 0 removes
// the line; negative quantities are rejected locally without a network call.
// While the line is busy, further requests for the same line are rejected
// with ErrLineBusy.
func (s *Store) SetLineQuantity(ctx context.Context, lineID int64, quantity int) (*Snapshot, error) {
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	return s.mutate(ctx, fmt.Sprintf("line:%d", lineID), func(ctx context.Context) (*Snapshot, error) {
		if quantity == 0 {
			return s.gw.RemoveCartItem(ctx, lineID)
		}
		return s.gw.UpdateCartItem(ctx, lineID, quantity)
	})
}

// RemoveLine removes the line entirely. Equivalent to SetLineQuantity with
// quantity 0.
func (s *Store) RemoveLine(ctx context.Context, lineID int64) (*Snapshot, error) {
	return s.SetLineQuantity(ctx, lineID, 0)
}

// Clear empties the cart locally and on the gateway. Used after successful
// order placement.
func (s *Store) Clear(ctx context.Context) (*Snapshot, error) {
	return s.mutate(ctx, "clear", s.gw.ClearCart)
}

// mutate runs one gateway mutation under the busy-set single-flight rule:
// the key is inserted before the call and released on every exit path. On
// success the returned cart replaces the snapshot; on failure the previous
// snapshot stays intact and the error is recorded.
func (s *Store) mutate(ctx context.Context, key string, call func(context.Context) (*Snapshot, error)) (*Snapshot, error) {
	if !s.acquire(key) {
		return nil, ErrLineBusy
	}
	defer s.release(key)

	snap, err := call(ctx)
	if err != nil {
		s.recordErr(key, err)
		return nil, err
	}
	s.replace(snap)
	out := s.Snapshot()
	return &out, nil
}

func (s *Store) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.busy[key]; exists {
		return false
	}
	s.busy[key] = struct{}{}
	return true
}

func (s *Store) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, key)
}

func (s *Store) replace(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = *snap
	s.lastErr = nil
}

func (s *Store) recordErr(op string, err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.lg.Warn("Cart operation failed", zap.String("op", op), zap.Error(err))
}

// Snapshot returns a copy of the current cart. Callers receive an immutable
// view; mutating the returned lines does not affect the store.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.snap
	out.Lines = append([]Line(nil), s.snap.Lines...)
	return out
}

// ItemCount returns the sum of line quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, l := range s.snap.Lines {
		count += l.Quantity
	}
	return count
}

// Total returns the server-supplied total. It is never recomputed from line
// prices and quantities.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Total
}

// Contains reports whether the cart holds a line for the given product.
func (s *Store) Contains(productID int64) bool {
	_, ok := s.LineFor(productID)
	return ok
}

// LineFor returns the line for the given product, if any.
func (s *Store) LineFor(productID int64) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.snap.Lines {
		if l.Product.ID == productID {
			return l, true
		}
	}
	return Line{}, false
}

// LineBusy reports whether the given line has a mutation in flight; the UI
// keys its busy indicators to this rather than a global spinner.
func (s *Store) LineBusy(lineID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.busy[fmt.Sprintf("line:%d", lineID)]
	return ok
}

// Loading reports whether a refresh is in progress.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastErr returns the most recent operation error, or nil after the last
// successful mutation.
func (s *Store) LastErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
