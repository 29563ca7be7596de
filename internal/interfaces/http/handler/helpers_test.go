package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cartapp "github.com/palindromepay/PalindromeFox/internal/application/cart"
	checkoutapp "github.com/palindromepay/PalindromeFox/internal/application/checkout"
	cartdomain "github.com/palindromepay/PalindromeFox/internal/domain/cart"
	"github.com/palindromepay/PalindromeFox/internal/domain/checkout"
	"github.com/palindromepay/PalindromeFox/internal/interfaces/http/dto"
	"github.com/palindromepay/PalindromeFox/internal/interfaces/http/router"
)

type memStore struct {
	cart     cartdomain.Cart
	identity *cartdomain.RecipientIdentity
}

func (m *memStore) ReadCart(ctx context.Context) (cartdomain.Cart, error) {
	out := make(cartdomain.Cart, len(m.cart))
	copy(out, m.cart)
	return out, nil
}

func (m *memStore) WriteCart(ctx context.Context, items cartdomain.Cart) error {
	m.cart = items
	return nil
}

func (m *memStore) ReadIdentity(ctx context.Context) (*cartdomain.RecipientIdentity, error) {
	return m.identity, nil
}

func (m *memStore) WriteIdentity(ctx context.Context, identity cartdomain.RecipientIdentity) error {
	m.identity = &identity
	return nil
}

type stubGateway struct {
	resp *checkout.CreateEscrowResponse
	err  error
}

func (s *stubGateway) CreateEscrowAndDeposit(ctx context.Context, req checkout.CreateEscrowRequest) (*checkout.CreateEscrowResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type stubPinner struct{}

func (stubPinner) PinJSON(ctx context.Context, name string, content any) (string, error) {
	return "QmStubCid", nil
}

type stubEncryptor struct{}

func (stubEncryptor) Seal(plaintext []byte) (string, error) {
	return string(plaintext), nil
}

type testApp struct {
	store   *memStore
	gateway *stubGateway
	engine  *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &memStore{}
	carts := cartapp.NewService(store, decimal.NewFromInt(500), zap.NewNop())

	merchant := checkout.Merchant{
		SellerAddress:    "0x9Ca3100BfD6A2b00b9a6ED3Fc90F44617Bc8839C",
		TokenAddress:     "0xf8a8519313befc293bbe86fd40e993655cf7436b",
		MaturityDays:     7,
		ChainID:          8453,
		CheckoutBaseURL:  "https://palindromepay.com/crypto-pay",
		EscrowFeePercent: decimal.NewFromInt(1),
	}
	gateway := &stubGateway{resp: &checkout.CreateEscrowResponse{
		TxHash:        "0xdeadbeef",
		EscrowID:      "1",
		WalletAddress: "0x1111111111111111111111111111111111111111",
	}}
	checkouts := checkoutapp.NewService(carts, merchant, gateway, stubPinner{}, stubEncryptor{}, zap.NewNop())

	engine := gin.New()
	router.NewRouter(engine).
		Register(NewCartHandler(carts)).
		Register(NewIdentityHandler(carts)).
		Register(NewCheckoutHandler(checkouts)).
		Register(NewMerchantHandler(merchant)).
		Setup()

	return &testApp{store: store, gateway: gateway, engine: engine}
}

func (a *testApp) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var resp dto.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func (a *testApp) dataMap(t *testing.T, resp dto.Response) map[string]any {
	t.Helper()
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "response data is not an object")
	return data
}

func rawGiftCard(asin, price string, qty int) cartdomain.RawProduct {
	return cartdomain.RawProduct{
		Title:      "Amazon eGift Card",
		Price:      price,
		ASIN:       asin,
		ProductURL: "https://www.amazon.com/dp/" + asin,
		Quantity:   qty,
	}
}

func (a *testApp) seedIdentity() {
	a.store.identity = &cartdomain.RecipientIdentity{
		Email:         "alice@example.com",
		RecipientName: "Alice",
	}
}
