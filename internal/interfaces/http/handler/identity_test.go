package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityHandler_GetWhenUnsaved(t *testing.T) {
	app := newTestApp(t)

	w, resp := app.do(t, http.MethodGet, "/api/v1/identity", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := app.dataMap(t, resp)
	assert.Equal(t, false, data["saved"])
}

func TestIdentityHandler_SaveAndGet(t *testing.T) {
	app := newTestApp(t)

	w, resp := app.do(t, http.MethodPut, "/api/v1/identity", map[string]string{
		"email":         "alice@example.com",
		"confirmEmail":  "alice@example.com",
		"recipientName": "Alice",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	w, resp = app.do(t, http.MethodGet, "/api/v1/identity", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := app.dataMap(t, resp)
	assert.Equal(t, "alice@example.com", data["email"])
	assert.Equal(t, "Alice", data["recipientName"])
	assert.Equal(t, true, data["saved"])
}

func TestIdentityHandler_RejectsMismatchedConfirmation(t *testing.T) {
	app := newTestApp(t)

	w, resp := app.do(t, http.MethodPut, "/api/v1/identity", map[string]string{
		"email":         "alice@example.com",
		"confirmEmail":  "alcie@example.com",
		"recipientName": "Alice",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Nil(t, app.store.identity)
}

func TestIdentityHandler_RejectsInvalidEmail(t *testing.T) {
	app := newTestApp(t)

	w, _ := app.do(t, http.MethodPut, "/api/v1/identity", map[string]string{
		"email":         "not-an-email",
		"confirmEmail":  "not-an-email",
		"recipientName": "Alice",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, app.store.identity)
}

func TestIdentityHandler_RejectsMissingName(t *testing.T) {
	app := newTestApp(t)

	w, _ := app.do(t, http.MethodPut, "/api/v1/identity", map[string]string{
		"email":        "alice@example.com",
		"confirmEmail": "alice@example.com",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, app.store.identity)
}
