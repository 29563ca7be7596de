package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palindromepay/PalindromeFox/internal/domain/shared"
)

func TestCartHandler_AddAndGet(t *testing.T) {
	app := newTestApp(t)

	w, resp := app.do(t, http.MethodPost, "/api/v1/cart/items", rawGiftCard("B0GIFT01", "$25.00", 2))
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
	assert.Equal(t, float64(1), app.dataMap(t, resp)["cartCount"])

	w, resp = app.do(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := app.dataMap(t, resp)
	assert.Equal(t, float64(1), data["count"])
	assert.Equal(t, "50.00", data["total"])
}

func TestCartHandler_AddMergesDuplicates(t *testing.T) {
	app := newTestApp(t)

	app.do(t, http.MethodPost, "/api/v1/cart/items", rawGiftCard("B0GIFT01", "$25.00", 1))
	w, resp := app.do(t, http.MethodPost, "/api/v1/cart/items", rawGiftCard("B0GIFT01", "$25.00", 2))
	require.Equal(t, http.StatusOK, w.Code)
	// still one line item, quantity merged
	assert.Equal(t, float64(1), app.dataMap(t, resp)["cartCount"])
	assert.Equal(t, 3, app.store.cart[0].Quantity)
}

func TestCartHandler_AddRejectsOverCap(t *testing.T) {
	app := newTestApp(t)

	app.do(t, http.MethodPost, "/api/v1/cart/items", rawGiftCard("B0BIG001", "$490.00", 1))
	w, resp := app.do(t, http.MethodPost, "/api/v1/cart/items", rawGiftCard("B0BIG002", "$20.00", 1))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, shared.CodeCapExceeded, resp.Error.Code)
	assert.Len(t, app.store.cart, 1)
}

func TestCartHandler_AddRejectsInvalidCapture(t *testing.T) {
	app := newTestApp(t)

	bad := rawGiftCard("", "$10.00", 1)
	w, resp := app.do(t, http.MethodPost, "/api/v1/cart/items", bad)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, shared.CodeValidation, resp.Error.Code)
}

func TestCartHandler_UpdateQuantity(t *testing.T) {
	app := newTestApp(t)
	app.do(t, http.MethodPost, "/api/v1/cart/items", rawGiftCard("B0GIFT01", "$25.00", 1))
	id := app.store.cart[0].ID

	w, resp := app.do(t, http.MethodPut, "/api/v1/cart/items/"+id, map[string]int{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), app.dataMap(t, resp)["count"])
	assert.Equal(t, 5, app.store.cart[0].Quantity)

	// zero quantity removes the line item
	w, resp = app.do(t, http.MethodPut, "/api/v1/cart/items/"+id, map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), app.dataMap(t, resp)["count"])
}

func TestCartHandler_RemoveIsIdempotent(t *testing.T) {
	app := newTestApp(t)
	app.do(t, http.MethodPost, "/api/v1/cart/items", rawGiftCard("B0GIFT01", "$25.00", 1))
	id := app.store.cart[0].ID

	w, _ := app.do(t, http.MethodDelete, "/api/v1/cart/items/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, app.store.cart)

	w, resp := app.do(t, http.MethodDelete, "/api/v1/cart/items/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestCartHandler_Clear(t *testing.T) {
	app := newTestApp(t)
	app.seedIdentity()
	app.do(t, http.MethodPost, "/api/v1/cart/items", rawGiftCard("B0GIFT01", "$25.00", 1))

	w, _ := app.do(t, http.MethodDelete, "/api/v1/cart", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, app.store.cart)
	assert.NotNil(t, app.store.identity)
}
