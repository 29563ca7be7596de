package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	cartdomain "github.com/palindromepay/PalindromeFox/internal/domain/cart"
	"github.com/palindromepay/PalindromeFox/internal/domain/shared"
)

// BadgeNotifier receives the line item count after every committed cart
// write. It is a side channel for the UI badge, not a data-model concern;
// notification failures never fail the cart operation.
type BadgeNotifier interface {
	CartCount(ctx context.Context, count int)
}

// Service is the only path allowed to mutate the cart collection. It owns
// merge/dedup by identity key and the spending-cap check.
type Service struct {
	store    cartdomain.Store
	cap      decimal.Decimal
	notifier BadgeNotifier
	logger   *zap.Logger
	now      func() time.Time
}

// Option is a functional option for Service configuration.
type Option func(*Service)

// WithBadgeNotifier sets the badge side channel.
func WithBadgeNotifier(n BadgeNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock overrides the time source, used by tests for stable item ids.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a cart service with the given spending cap.
func NewService(store cartdomain.Store, cap decimal.Decimal, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		cap:    cap,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add normalizes a raw product capture and commits it to the cart.
//
// The cap is evaluated against the incremental amount the candidate adds,
// so a merge-add of 2 more units is checked for exactly those 2 units. When
// the cap would be breached nothing is written and the error carries the
// current total. An existing line item with the same identity key absorbs
// the quantity instead of creating a duplicate entry.
func (s *Service) Add(ctx context.Context, raw cartdomain.RawProduct) (*AddResult, error) {
	candidate, err := cartdomain.Normalize(raw)
	if err != nil {
		return nil, err
	}

	items, err := s.store.ReadCart(ctx)
	if err != nil {
		return nil, err
	}

	currentTotal := items.Total()
	if currentTotal.Add(candidate.IncrementalAmount()).GreaterThan(s.cap) {
		return nil, shared.NewDomainError(shared.CodeCapExceeded,
			fmt.Sprintf("Cart total cannot exceed $%s. Current total: $%s",
				s.cap.StringFixed(2), currentTotal.StringFixed(2)))
	}

	if idx := items.FindByIdentityKey(candidate.IdentityKey()); idx >= 0 {
		items[idx].Quantity += candidate.Quantity
	} else {
		items = append(items, candidate.ToLineItem(s.now()))
	}

	if err := s.store.WriteCart(ctx, items); err != nil {
		return nil, err
	}
	s.notifyBadge(ctx, len(items))

	s.logger.Info("added to cart",
		zap.String("asin", candidate.ASIN),
		zap.Int("quantity", candidate.Quantity),
		zap.Int("cart_count", len(items)),
	)
	return &AddResult{CartCount: len(items)}, nil
}

// Remove filters out the line item with the given id. Removing an id that is
// not in the cart succeeds with no change.
func (s *Service) Remove(ctx context.Context, lineItemID string) (cartdomain.Cart, error) {
	items, err := s.store.ReadCart(ctx)
	if err != nil {
		return nil, err
	}

	remaining := make(cartdomain.Cart, 0, len(items))
	for idx := range items {
		if items[idx].ID != lineItemID {
			remaining = append(remaining, items[idx])
		}
	}

	if err := s.store.WriteCart(ctx, remaining); err != nil {
		return nil, err
	}
	s.notifyBadge(ctx, len(remaining))
	return remaining, nil
}

// UpdateQuantity sets a line item's quantity directly. A quantity of zero or
// below deletes the line item. Unknown ids are a no-op success. Quantity
// edits intentionally bypass the add-time cap; callers relying on cap
// enforcement must go through Add.
func (s *Service) UpdateQuantity(ctx context.Context, lineItemID string, quantity int) (cartdomain.Cart, error) {
	items, err := s.store.ReadCart(ctx)
	if err != nil {
		return nil, err
	}

	if idx := items.FindByID(lineItemID); idx >= 0 {
		if quantity <= 0 {
			items = append(items[:idx], items[idx+1:]...)
		} else if err := items[idx].SetQuantity(quantity); err != nil {
			return nil, err
		}
	}

	if err := s.store.WriteCart(ctx, items); err != nil {
		return nil, err
	}
	s.notifyBadge(ctx, len(items))
	return items, nil
}

// Clear replaces the cart with an empty collection. The saved recipient
// identity is untouched.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.WriteCart(ctx, cartdomain.Cart{}); err != nil {
		return err
	}
	s.notifyBadge(ctx, 0)
	return nil
}

// GetCart returns the current cart contents.
func (s *Service) GetCart(ctx context.Context) (cartdomain.Cart, error) {
	return s.store.ReadCart(ctx)
}

// GetIdentity returns the saved recipient identity, or nil when none exists.
func (s *Service) GetIdentity(ctx context.Context) (*cartdomain.RecipientIdentity, error) {
	return s.store.ReadIdentity(ctx)
}

// SaveIdentity overwrites the saved recipient identity.
func (s *Service) SaveIdentity(ctx context.Context, identity cartdomain.RecipientIdentity) error {
	if err := identity.Validate(); err != nil {
		return err
	}
	return s.store.WriteIdentity(ctx, identity)
}

func (s *Service) notifyBadge(ctx context.Context, count int) {
	if s.notifier != nil {
		s.notifier.CartCount(ctx, count)
	}
}
