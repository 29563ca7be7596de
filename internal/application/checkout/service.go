package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	cartapp "github.com/palindromepay/PalindromeFox/internal/application/cart"
	"github.com/palindromepay/PalindromeFox/internal/domain/checkout"
	"github.com/palindromepay/PalindromeFox/internal/domain/shared"
)

// Service assembles the externally-consumed payment request once the user
// initiates checkout: either a hosted-checkout URL or a direct escrow
// creation through the gateway. On confirmed escrow success it clears the
// cart; on any failure the cart is left untouched and the error is surfaced
// without automatic retry.
type Service struct {
	carts     *cartapp.Service
	merchant  checkout.Merchant
	gateway   checkout.EscrowGateway
	pinner    checkout.Pinner
	encryptor checkout.Encryptor
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a checkout service. The merchant configuration must
// already be validated.
func NewService(
	carts *cartapp.Service,
	merchant checkout.Merchant,
	gateway checkout.EscrowGateway,
	pinner checkout.Pinner,
	encryptor checkout.Encryptor,
	logger *zap.Logger,
) *Service {
	return &Service{
		carts:     carts,
		merchant:  merchant,
		gateway:   gateway,
		pinner:    pinner,
		encryptor: encryptor,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source, used by tests for stable order refs.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// order loads the cart and identity and prices the order, refusing empty
// carts, non-positive totals, and missing identity before any external call.
func (s *Service) order(ctx context.Context) (*checkout.Order, error) {
	items, err := s.carts.GetCart(ctx)
	if err != nil {
		return nil, err
	}
	identity, err := s.carts.GetIdentity(ctx)
	if err != nil {
		return nil, err
	}
	return checkout.NewOrder(items, identity)
}

// Quote prices the current cart for checkout display: subtotal, single
// combined delivery fee, escrow fee, and the stablecoin amount.
func (s *Service) Quote(ctx context.Context) (*Quote, error) {
	order, err := s.order(ctx)
	if err != nil {
		return nil, err
	}

	fee := order.EscrowFee(s.merchant.EscrowFeePercent)
	return &Quote{
		Subtotal:     order.Subtotal.StringFixed(2),
		DeliveryFee:  order.DeliveryFee.StringFixed(2),
		Total:        order.Total.StringFixed(2),
		EscrowFee:    fee.StringFixed(2),
		TotalWithFee: order.Total.Add(fee).StringFixed(2),
		Summary:      order.Summary(),
		MaturityDays: s.merchant.MaturityDays,
		ChainName:    s.merchant.Chain().Name,
		ItemCount:    len(order.Items),
	}, nil
}

// HostedCheckoutURL builds the hosted-checkout request URL. The parameter
// set is a fixed external contract; query encoding sorts keys, which keeps
// the output deterministic for a given cart.
func (s *Service) HostedCheckoutURL(ctx context.Context, redirectURL string) (string, error) {
	order, err := s.order(ctx)
	if err != nil {
		return "", err
	}

	wireItems := make([]wireItem, 0, len(order.Items))
	for idx := range order.Items {
		item := &order.Items[idx]
		wireItems = append(wireItems, wireItem{
			Title:    item.Title,
			Qty:      item.Quantity,
			Price:    item.PriceDisplay,
			ASIN:     item.ASIN,
			Img:      item.ImageURL,
			URL:      item.ProductURL,
			Delivery: item.DeliveryFee.InexactFloat64(),
		})
	}
	itemsJSON, err := json.Marshal(wireItems)
	if err != nil {
		return "", shared.NewDomainError(shared.CodeValidation, "Failed to serialize cart items")
	}

	params := url.Values{}
	params.Set("seller", s.merchant.SellerAddress)
	params.Set("amount", order.Total.StringFixed(2))
	params.Set("title", order.Summary())
	params.Set("token", s.merchant.TokenAddress)
	params.Set("redirect", redirectURL)
	params.Set("product", "true")
	params.Set("egift", "true")
	params.Set("items", string(itemsJSON))
	params.Set("email", order.Identity.Email)
	params.Set("recipientName", order.Identity.RecipientName)
	params.Set("deliveryFee", order.DeliveryFee.StringFixed(2))

	base := strings.TrimRight(s.merchant.CheckoutBaseURL, "?")
	return base + "?" + params.Encode(), nil
}

// Pay runs the direct escrow flow: pin the shipping address to IPFS, encrypt
// the resulting pointer, then create-and-deposit through the escrow gateway.
// The cart is cleared only after the gateway confirms the transaction.
func (s *Service) Pay(ctx context.Context, shipping ShippingInput) (*PaymentResult, error) {
	order, err := s.order(ctx)
	if err != nil {
		return nil, err
	}
	address, err := shipping.toAddress(s.now())
	if err != nil {
		return nil, err
	}

	cid, err := s.pinner.PinJSON(ctx, fmt.Sprintf("palindrome-pay-shipping-%d", s.now().UnixMilli()), address)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeExternalService, "IPFS upload failed: "+err.Error())
	}

	pointer, err := json.Marshal(map[string]string{"ipfsHash": cid})
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeExternalService, "Failed to serialize IPFS pointer")
	}
	sealed, err := s.encryptor.Seal(pointer)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeExternalService, "Encryption failed: "+err.Error())
	}

	req := checkout.CreateEscrowRequest{
		Token:            s.merchant.TokenAddress,
		Seller:           s.merchant.SellerAddress,
		Amount:           order.AmountInTokenUnits(),
		MaturityTimeDays: s.merchant.MaturityDays,
		Arbiter:          s.merchant.ArbiterAddress,
		Title:            order.Summary(),
		IPFSHash:         sealed,
		ChainID:          s.merchant.ChainID,
	}

	resp, err := s.gateway.CreateEscrowAndDeposit(ctx, req)
	if err != nil {
		s.logger.Error("escrow creation failed", zap.Error(err))
		return nil, shared.NewDomainError(shared.CodeExternalService, "Escrow creation failed: "+err.Error())
	}

	// Payment is confirmed at this point; a failed clear must not undo that.
	if err := s.carts.Clear(ctx); err != nil {
		s.logger.Error("cart clear after successful payment failed", zap.Error(err))
	}

	s.logger.Info("escrow created",
		zap.String("tx_hash", resp.TxHash),
		zap.String("escrow_id", resp.EscrowID),
		zap.Uint64("amount_units", req.Amount),
	)

	return &PaymentResult{
		TxHash:        resp.TxHash,
		EscrowID:      resp.EscrowID,
		WalletAddress: resp.WalletAddress,
		ExplorerURL:   s.merchant.Chain().TxURL(resp.TxHash),
	}, nil
}

// wireItem is the compact per-line-item shape serialized into the hosted
// checkout URL's items parameter.
type wireItem struct {
	Title    string  `json:"title"`
	Qty      int     `json:"qty"`
	Price    string  `json:"price"`
	ASIN     string  `json:"asin"`
	Img      string  `json:"img,omitempty"`
	URL      string  `json:"url,omitempty"`
	Delivery float64 `json:"delivery"`
}
