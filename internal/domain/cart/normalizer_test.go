package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palindromepay/PalindromeFox/internal/domain/shared"
)

func rawGiftCard() RawProduct {
	return RawProduct{
		Title:      "Amazon eGift Card",
		ImageURL:   "https://images.example.com/gc.png",
		Price:      "$25.00",
		ASIN:       "B004LLIKVU",
		ProductURL: "https://www.amazon.com/dp/B004LLIKVU?ref=nav",
		Quantity:   2,
	}
}

func TestNormalize(t *testing.T) {
	c, err := Normalize(rawGiftCard())
	require.NoError(t, err)

	assert.Equal(t, "B004LLIKVU", c.ASIN)
	assert.Equal(t, "Amazon eGift Card", c.Title)
	assert.Equal(t, "$25.00", c.PriceDisplay)
	assert.True(t, c.UnitPrice.Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, 2, c.Quantity)
	assert.Equal(t, "https://www.amazon.com/dp/B004LLIKVU", c.ProductURL)
	assert.Equal(t, "B004LLIKVU|$25.00", c.IdentityKey())
}

func TestNormalize_RejectsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawProduct)
	}{
		{"empty title", func(r *RawProduct) { r.Title = "" }},
		{"whitespace title", func(r *RawProduct) { r.Title = "   " }},
		{"unknown sentinel title", func(r *RawProduct) { r.Title = TitleUnknown }},
		{"missing asin", func(r *RawProduct) { r.ASIN = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawGiftCard()
			tt.mutate(&raw)
			c, err := Normalize(raw)
			assert.Nil(t, c)
			require.Error(t, err)
			assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))
		})
	}
}

func TestNormalize_Defaults(t *testing.T) {
	raw := rawGiftCard()
	raw.Price = ""
	raw.Quantity = 0
	raw.DeliveryFee = decimal.NewFromInt(-3)

	c, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, PriceUnavailable, c.PriceDisplay)
	assert.True(t, c.UnitPrice.IsZero())
	assert.Equal(t, 1, c.Quantity)
	assert.True(t, c.DeliveryFee.IsZero())
}

func TestNormalize_NegativeQuantityDefaultsToOne(t *testing.T) {
	raw := rawGiftCard()
	raw.Quantity = -5
	c, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Quantity)
}

func TestCandidate_IncrementalAmount(t *testing.T) {
	c, err := Normalize(rawGiftCard())
	require.NoError(t, err)
	assert.True(t, c.IncrementalAmount().Equal(decimal.RequireFromString("50.00")))
}
