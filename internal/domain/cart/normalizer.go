package cart

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/palindromepay/PalindromeFox/internal/domain/shared"
)

// RawProduct is a product capture as delivered by the scraping layer. Every
// field may be empty or garbage except Title and ASIN, which the normalizer
// enforces.
type RawProduct struct {
	Title         string          `json:"title"`
	ImageURL      string          `json:"imageUrl"`
	Price         string          `json:"price"`
	ASIN          string          `json:"asin"`
	ProductURL    string          `json:"productUrl"`
	Quantity      int             `json:"quantity"`
	DeliveryFee   decimal.Decimal `json:"deliveryFee"`
	GiftCardEmail string          `json:"giftCardEmail,omitempty"`
	GiftCardName  string          `json:"giftCardRecipientName,omitempty"`
}

// Candidate is a normalized line item that has not yet been committed to the
// cart. It carries no ID; the aggregator assigns one at commit time.
type Candidate struct {
	ASIN           string
	Title          string
	ImageURL       string
	PriceDisplay   string
	UnitPrice      decimal.Decimal
	Quantity       int
	DeliveryFee    decimal.Decimal
	ProductURL     string
	RecipientEmail string
	RecipientName  string
}

// IdentityKey returns the merge key the candidate will occupy in the cart.
func (c *Candidate) IdentityKey() string {
	return c.ASIN + "|" + c.PriceDisplay
}

// IncrementalAmount returns the monetary value this candidate adds to the
// cart, used for the cap check regardless of whether the add merges.
func (c *Candidate) IncrementalAmount() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// ToLineItem materializes the candidate as a committed line item.
func (c *Candidate) ToLineItem(at time.Time) LineItem {
	return LineItem{
		ID:             NewLineItemID(c.ASIN, at),
		ASIN:           c.ASIN,
		Title:          c.Title,
		ImageURL:       c.ImageURL,
		PriceDisplay:   c.PriceDisplay,
		Quantity:       c.Quantity,
		DeliveryFee:    c.DeliveryFee,
		ProductURL:     c.ProductURL,
		RecipientEmail: c.RecipientEmail,
		RecipientName:  c.RecipientName,
		AddedAt:        at,
	}
}

// Normalize converts a raw capture into a cart candidate without consulting
// the existing cart.
//
// Title and ASIN are hard requirements; a capture whose title equals the
// unknown sentinel is treated the same as a missing title. The price display
// string is preserved verbatim even when it fails to parse, so the UI can
// still show what was captured while the numeric amount degrades to zero.
func Normalize(raw RawProduct) (*Candidate, error) {
	title := strings.TrimSpace(raw.Title)
	if title == "" || title == TitleUnknown {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product title could not be extracted")
	}
	if strings.TrimSpace(raw.ASIN) == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product identifier (ASIN) is missing")
	}

	priceDisplay := raw.Price
	if strings.TrimSpace(priceDisplay) == "" {
		priceDisplay = PriceUnavailable
	}

	quantity := raw.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	fee := raw.DeliveryFee
	if fee.IsNegative() {
		fee = decimal.Zero
	}

	return &Candidate{
		ASIN:           strings.TrimSpace(raw.ASIN),
		Title:          title,
		ImageURL:       raw.ImageURL,
		PriceDisplay:   priceDisplay,
		UnitPrice:      ParsePrice(priceDisplay),
		Quantity:       quantity,
		DeliveryFee:    fee,
		ProductURL:     stripQuery(raw.ProductURL),
		RecipientEmail: raw.GiftCardEmail,
		RecipientName:  raw.GiftCardName,
	}, nil
}

// stripQuery drops the query string from a product URL, keeping the canonical
// /dp/ASIN form.
func stripQuery(rawURL string) string {
	if idx := strings.IndexByte(rawURL, '?'); idx >= 0 {
		return rawURL[:idx]
	}
	return rawURL
}
