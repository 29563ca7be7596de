package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "palindrome-fox", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "500", cfg.Cart.CapUSD.String())
	assert.Equal(t, int64(8453), cfg.Merchant.ChainID)
	assert.Equal(t, 7, cfg.Merchant.MaturityDays)
	assert.Equal(t, "1", cfg.Merchant.EscrowFeePercent.String())
	assert.Equal(t, "https://palindromepay.com/crypto-pay", cfg.Merchant.CheckoutURL)
	assert.Equal(t, "https://api.pinata.cloud/pinning/pinJSONToIPFS", cfg.Pinata.URL)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FOX_APP_PORT", "9090")
	t.Setenv("FOX_MERCHANT_CHAIN_ID", "84532")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, int64(84532), cfg.Merchant.ChainID)
}

func TestValidate_RejectsBadDriver(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.validate())
}

func TestValidate_RejectsUnsupportedChain(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Merchant.ChainID = 1
	assert.Error(t, cfg.validate())
}

func TestValidate_RejectsBadAESKey(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Crypto.AESKeyBase64 = "not base64!!"
	assert.Error(t, cfg.validate())

	cfg.Crypto.AESKeyBase64 = "c2hvcnQ=" // 5 bytes
	assert.Error(t, cfg.validate())
}

func TestValidate_ProductionRequiresSecrets(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.App.Env = "production"
	assert.Error(t, cfg.validate())

	cfg.Pinata.JWT = "jwt-token"
	cfg.Crypto.AESKeyBase64 = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY=" // 32 bytes
	cfg.Escrow.BridgeURL = "http://localhost:7777"
	assert.NoError(t, cfg.validate())
}

func TestDSN_EscapesCredentials(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "fox",
		Password: "p@ss:word",
		DBName:   "palindrome_fox",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://fox:p%40ss:word@localhost:5432/palindrome_fox?sslmode=disable", d.DSN())
}
