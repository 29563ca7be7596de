package cart

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/palindromepay/PalindromeFox/internal/domain/shared"
)

// Sentinel values emitted by the product capture layer when extraction fails.
// A candidate carrying the unknown-title sentinel is rejected by the
// normalizer; the unavailable-price sentinel is kept for display and parses
// to a zero unit price.
const (
	TitleUnknown     = "Unknown Product"
	PriceUnavailable = "Price not available"
)

// LineItem is one distinct purchasable entry in the cart, keyed by product
// identity plus price. Two additions with the same identity key merge by
// summing quantities rather than creating a second entry.
type LineItem struct {
	ID             string          `json:"id"`
	ASIN           string          `json:"asin"`
	Title          string          `json:"title"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	PriceDisplay   string          `json:"price"`
	Quantity       int             `json:"quantity"`
	DeliveryFee    decimal.Decimal `json:"deliveryFee"`
	ProductURL     string          `json:"productUrl"`
	RecipientEmail string          `json:"recipientEmail,omitempty"`
	RecipientName  string          `json:"recipientName,omitempty"`
	AddedAt        time.Time       `json:"addedAt"`
}

// IdentityKey returns the merge/dedup key. Price is part of the identity
// because the same gift card at a different denomination is a distinct
// purchasable line item.
func (i *LineItem) IdentityKey() string {
	return i.ASIN + "|" + i.PriceDisplay
}

// UnitPrice returns the parsed numeric price in dollars. Unparsable display
// strings degrade to zero; callers that need a real value must re-validate
// PriceDisplay.
func (i *LineItem) UnitPrice() decimal.Decimal {
	return ParsePrice(i.PriceDisplay)
}

// Amount returns UnitPrice multiplied by Quantity.
func (i *LineItem) Amount() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SetQuantity sets the quantity directly. Quantities below one are invalid;
// the aggregator removes the line item instead of storing them.
func (i *LineItem) SetQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError(shared.CodeValidation, "Quantity must be at least 1")
	}
	i.Quantity = quantity
	return nil
}

// ParsePrice strips every character that is not a digit or a dot and parses
// the remainder as a decimal dollar amount. Anything unparsable or negative
// yields zero.
func ParsePrice(display string) decimal.Decimal {
	var b strings.Builder
	for _, r := range display {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Cart is the full ordered collection of line items.
type Cart []LineItem

// Total returns the sum of Amount over all line items.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for idx := range c {
		total = total.Add(c[idx].Amount())
	}
	return total
}

// MaxDeliveryFee returns the largest delivery fee across all line items,
// floored at zero. Checkout charges a single combined shipment, not the sum.
func (c Cart) MaxDeliveryFee() decimal.Decimal {
	max := decimal.Zero
	for idx := range c {
		if c[idx].DeliveryFee.GreaterThan(max) {
			max = c[idx].DeliveryFee
		}
	}
	return max
}

// FindByIdentityKey returns the index of the line item with the given
// identity key, or -1.
func (c Cart) FindByIdentityKey(key string) int {
	for idx := range c {
		if c[idx].IdentityKey() == key {
			return idx
		}
	}
	return -1
}

// FindByID returns the index of the line item with the given id, or -1.
func (c Cart) FindByID(id string) int {
	for idx := range c {
		if c[idx].ID == id {
			return idx
		}
	}
	return -1
}

// NewLineItemID derives a cart-unique line item id from the product id and a
// creation timestamp. Millisecond resolution makes collisions negligible
// within a single cart's lifetime.
func NewLineItemID(asin string, at time.Time) string {
	return fmt.Sprintf("%s-%d", asin, at.UnixMilli())
}

// RecipientIdentity is the saved delivery email and recipient name used for
// gift card fulfillment. It is independent of cart contents: written only by
// an explicit save, never cleared when the cart is.
type RecipientIdentity struct {
	Email         string `json:"email"`
	RecipientName string `json:"recipientName"`
}

// Validate checks that both fields required for checkout are present.
func (r *RecipientIdentity) Validate() error {
	if r == nil || strings.TrimSpace(r.Email) == "" || strings.TrimSpace(r.RecipientName) == "" {
		return shared.ErrIdentityRequired
	}
	return nil
}
