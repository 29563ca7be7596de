package checkout

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/palindromepay/PalindromeFox/internal/domain/cart"
	"github.com/palindromepay/PalindromeFox/internal/domain/shared"
)

// TitleMaxLen is the hard cap, in characters, on the human-readable order
// summary embedded in checkout URLs and escrow titles.
const TitleMaxLen = 200

// TokenDecimals is the fixed decimal shift for the settlement token
// (USDT-style 6 decimals) when converting dollar totals to smallest units.
const TokenDecimals = 6

// Order is the priced snapshot of a cart at checkout time. It is derived,
// never stored: every quote recomputes it from the cart collection.
type Order struct {
	Items       cart.Cart
	Identity    cart.RecipientIdentity
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal // max fee across items, single-shipment policy
	Total       decimal.Decimal
}

// NewOrder validates the cart and identity and computes the monetary
// aggregate. It refuses empty carts, non-positive totals, and missing
// identity fields; no external call should be attempted after a refusal.
func NewOrder(items cart.Cart, identity *cart.RecipientIdentity) (*Order, error) {
	if len(items) == 0 {
		return nil, shared.ErrEmptyCart
	}
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	subtotal := items.Total()
	fee := items.MaxDeliveryFee()
	total := subtotal.Add(fee)
	if !total.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Order total must be a positive amount")
	}

	return &Order{
		Items:       items,
		Identity:    *identity,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       total,
	}, nil
}

// Summary builds the human-readable order title, truncated at TitleMaxLen.
func (o *Order) Summary() string {
	parts := make([]string, 0, len(o.Items))
	for idx := range o.Items {
		parts = append(parts, fmt.Sprintf("%dx %s", o.Items[idx].Quantity, truncate(o.Items[idx].Title, 30)))
	}
	return truncate("Amazon Order: "+strings.Join(parts, ", "), TitleMaxLen)
}

// EscrowFee returns the escrow service fee for the given percentage.
func (o *Order) EscrowFee(percent decimal.Decimal) decimal.Decimal {
	return o.Total.Mul(percent).Div(decimal.NewFromInt(100)).Round(2)
}

// AmountInTokenUnits converts the total into the token's smallest-unit
// integer representation, truncating below the token's precision.
func (o *Order) AmountInTokenUnits() uint64 {
	shifted := o.Total.Shift(TokenDecimals).Truncate(0)
	return uint64(shifted.IntPart())
}

// truncate cuts s to at most max characters, never splitting a multi-byte
// rune. Titles routinely carry accented or CJK characters.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
