package cart

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cartdomain "github.com/palindromepay/PalindromeFox/internal/domain/cart"
	"github.com/palindromepay/PalindromeFox/internal/domain/shared"
)

// fakeStore is an in-memory Store with failure injection.
type fakeStore struct {
	cart     cartdomain.Cart
	identity *cartdomain.RecipientIdentity
	readErr  error
	writeErr error
}

func (f *fakeStore) ReadCart(ctx context.Context) (cartdomain.Cart, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make(cartdomain.Cart, len(f.cart))
	copy(out, f.cart)
	return out, nil
}

func (f *fakeStore) WriteCart(ctx context.Context, items cartdomain.Cart) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.cart = items
	return nil
}

func (f *fakeStore) ReadIdentity(ctx context.Context) (*cartdomain.RecipientIdentity, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.identity, nil
}

func (f *fakeStore) WriteIdentity(ctx context.Context, identity cartdomain.RecipientIdentity) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.identity = &identity
	return nil
}

type recordingNotifier struct {
	counts []int
}

func (r *recordingNotifier) CartCount(ctx context.Context, count int) {
	r.counts = append(r.counts, count)
}

func newTestService(store *fakeStore, opts ...Option) *Service {
	clock := time.UnixMilli(1700000000000)
	tick := func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}
	opts = append(opts, WithClock(tick))
	return NewService(store, decimal.NewFromInt(500), zap.NewNop(), opts...)
}

func rawProduct(asin, price string, qty int) cartdomain.RawProduct {
	return cartdomain.RawProduct{
		Title:      "Amazon eGift Card",
		Price:      price,
		ASIN:       asin,
		ProductURL: "https://www.amazon.com/dp/" + asin,
		Quantity:   qty,
	}
}

func TestService_Add_NewItem(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	res, err := svc.Add(context.Background(), rawProduct("A1", "$10.00", 1))
	require.NoError(t, err)
	assert.Equal(t, 1, res.CartCount)
	require.Len(t, store.cart, 1)
	assert.Equal(t, "A1", store.cart[0].ASIN)
	assert.NotEmpty(t, store.cart[0].ID)
}

func TestService_Add_MergesSameIdentityKey(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Add(ctx, rawProduct("A1", "$10.00", 1))
	require.NoError(t, err)
	res, err := svc.Add(ctx, rawProduct("A1", "$10.00", 2))
	require.NoError(t, err)

	assert.Equal(t, 1, res.CartCount)
	require.Len(t, store.cart, 1)
	assert.Equal(t, 3, store.cart[0].Quantity)
	assert.True(t, store.cart.Total().Equal(decimal.NewFromInt(30)))
}

func TestService_Add_DifferentPriceIsDistinctItem(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Add(ctx, rawProduct("A1", "$10.00", 1))
	require.NoError(t, err)
	res, err := svc.Add(ctx, rawProduct("A1", "$15.00", 1))
	require.NoError(t, err)

	assert.Equal(t, 2, res.CartCount)
	assert.Len(t, store.cart, 2)
}

func TestService_Add_CapExceeded(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Add(ctx, rawProduct("A1", "$490.00", 1))
	require.NoError(t, err)

	res, err := svc.Add(ctx, rawProduct("A2", "$20.00", 1))
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Equal(t, shared.CodeCapExceeded, shared.CodeOf(err))
	assert.Contains(t, err.Error(), "490.00")

	// no mutation on refusal
	require.Len(t, store.cart, 1)
	assert.True(t, store.cart.Total().Equal(decimal.NewFromInt(490)))
}

func TestService_Add_CapCountsIncrementalAmountOnMerge(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Add(ctx, rawProduct("A1", "$250.00", 1))
	require.NoError(t, err)

	// merge up to exactly the cap is allowed
	_, err = svc.Add(ctx, rawProduct("A1", "$250.00", 1))
	require.NoError(t, err)
	assert.Equal(t, 2, store.cart[0].Quantity)

	// one more unit breaches it
	_, err = svc.Add(ctx, rawProduct("A1", "$250.00", 1))
	require.Error(t, err)
	assert.Equal(t, shared.CodeCapExceeded, shared.CodeOf(err))
}

func TestService_Add_RejectsInvalidCapture(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	raw := rawProduct("", "$10.00", 1)
	_, err := svc.Add(context.Background(), raw)
	require.Error(t, err)
	assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))
	assert.Empty(t, store.cart)
}

func TestService_Add_StorageFailure(t *testing.T) {
	store := &fakeStore{readErr: shared.NewDomainError(shared.CodeStorage, "read failed")}
	svc := newTestService(store)

	_, err := svc.Add(context.Background(), rawProduct("A1", "$10.00", 1))
	require.Error(t, err)
	assert.Equal(t, shared.CodeStorage, shared.CodeOf(err))
}

func TestService_Remove_Idempotent(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Add(ctx, rawProduct("A1", "$10.00", 1))
	require.NoError(t, err)
	id := store.cart[0].ID

	remaining, err := svc.Remove(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	remaining, err = svc.Remove(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestService_UpdateQuantity(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Add(ctx, rawProduct("A1", "$10.00", 2))
	require.NoError(t, err)
	id := store.cart[0].ID

	items, err := svc.UpdateQuantity(ctx, id, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, items[0].Quantity)

	// zero or negative removes the line item
	items, err = svc.UpdateQuantity(ctx, id, 0)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.Add(ctx, rawProduct("A1", "$10.00", 1))
	require.NoError(t, err)
	id = store.cart[0].ID
	items, err = svc.UpdateQuantity(ctx, id, -3)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestService_UpdateQuantity_UnknownIDIsNoOp(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Add(ctx, rawProduct("A1", "$10.00", 1))
	require.NoError(t, err)

	items, err := svc.UpdateQuantity(ctx, "missing-id", 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestService_Clear(t *testing.T) {
	store := &fakeStore{identity: &cartdomain.RecipientIdentity{Email: "a@b.com", RecipientName: "Alice"}}
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Add(ctx, rawProduct("A1", "$10.00", 1))
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx))
	assert.Empty(t, store.cart)

	// identity persists across cart clears
	identity, err := svc.GetIdentity(ctx)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "a@b.com", identity.Email)
}

func TestService_BadgeNotifications(t *testing.T) {
	store := &fakeStore{}
	notifier := &recordingNotifier{}
	svc := newTestService(store, WithBadgeNotifier(notifier))
	ctx := context.Background()

	_, err := svc.Add(ctx, rawProduct("A1", "$10.00", 1))
	require.NoError(t, err)
	_, err = svc.Add(ctx, rawProduct("A2", "$10.00", 1))
	require.NoError(t, err)
	id := store.cart[0].ID
	_, err = svc.Remove(ctx, id)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx))

	assert.Equal(t, []int{1, 2, 1, 0}, notifier.counts)
}

func TestService_BadgeNotSentOnRefusal(t *testing.T) {
	store := &fakeStore{}
	notifier := &recordingNotifier{}
	svc := newTestService(store, WithBadgeNotifier(notifier))
	ctx := context.Background()

	_, err := svc.Add(ctx, rawProduct("A1", "$600.00", 1))
	require.Error(t, err)
	assert.Empty(t, notifier.counts)
}

func TestService_SaveIdentity(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	ctx := context.Background()

	err := svc.SaveIdentity(ctx, cartdomain.RecipientIdentity{Email: "a@b.com", RecipientName: "Alice"})
	require.NoError(t, err)
	require.NotNil(t, store.identity)

	err = svc.SaveIdentity(ctx, cartdomain.RecipientIdentity{Email: "", RecipientName: "Alice"})
	require.Error(t, err)
	assert.Equal(t, shared.CodeIdentityRequired, shared.CodeOf(err))
}
