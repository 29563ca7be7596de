package config

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/palindromepay/PalindromeFox/internal/domain/checkout"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Cart      CartConfig
	Merchant  MerchantConfig
	Pinata    PinataConfig
	Crypto    CryptoConfig
	Escrow    EscrowConfig
	Messaging MessagingConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// DatabaseConfig holds database connection settings. Driver selects the
// backing store: "sqlite" for a single-user local file, "postgres" for a
// shared deployment.
type DatabaseConfig struct {
	Driver          string
	Path            string // sqlite file path
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// CartConfig holds cart policy settings
type CartConfig struct {
	CapUSD decimal.Decimal
}

// MerchantConfig holds the escrow merchant parameters
type MerchantConfig struct {
	SellerAddress    string
	TokenAddress     string
	ArbiterAddress   string
	MaturityDays     int
	ChainID          int64
	CheckoutURL      string
	EscrowFeePercent decimal.Decimal
}

// PinataConfig holds the IPFS pinning service settings
type PinataConfig struct {
	URL     string
	JWT     string
	Timeout time.Duration
}

// CryptoConfig holds the shipping-address encryption key
type CryptoConfig struct {
	AESKeyBase64 string
}

// EscrowConfig holds the transaction signer bridge settings
type EscrowConfig struct {
	BridgeURL string
	Timeout   time.Duration
}

// MessagingConfig holds the in-process bus settings
type MessagingConfig struct {
	RequestTimeout time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with FOX_ prefix (e.g., FOX_PINATA_JWT)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("FOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Path:            v.GetString("database.path"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Cart: CartConfig{
			CapUSD: decimalOrZero(v.GetString("cart.cap_usd")),
		},
		Merchant: MerchantConfig{
			SellerAddress:    v.GetString("merchant.seller_address"),
			TokenAddress:     v.GetString("merchant.token_address"),
			ArbiterAddress:   v.GetString("merchant.arbiter_address"),
			MaturityDays:     v.GetInt("merchant.maturity_days"),
			ChainID:          v.GetInt64("merchant.chain_id"),
			CheckoutURL:      v.GetString("merchant.checkout_url"),
			EscrowFeePercent: decimalOrZero(v.GetString("merchant.escrow_fee_percent")),
		},
		Pinata: PinataConfig{
			URL:     v.GetString("pinata.url"),
			JWT:     v.GetString("pinata.jwt"),
			Timeout: v.GetDuration("pinata.timeout"),
		},
		Crypto: CryptoConfig{
			AESKeyBase64: v.GetString("crypto.aes_key_base64"),
		},
		Escrow: EscrowConfig{
			BridgeURL: v.GetString("escrow.bridge_url"),
			Timeout:   v.GetDuration("escrow.timeout"),
		},
		Messaging: MessagingConfig{
			RequestTimeout: v.GetDuration("messaging.request_timeout"),
			MaxRetries:     v.GetInt("messaging.max_retries"),
			RetryBackoff:   v.GetDuration("messaging.retry_backoff"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decimalOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "palindrome-fox"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "palindrome_fox.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "palindrome_fox"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Cart.CapUSD.IsZero() {
		cfg.Cart.CapUSD = decimal.NewFromInt(500)
	}
	if cfg.Merchant.SellerAddress == "" {
		cfg.Merchant.SellerAddress = "0x9Ca3100BfD6A2b00b9a6ED3Fc90F44617Bc8839C"
	}
	if cfg.Merchant.TokenAddress == "" {
		cfg.Merchant.TokenAddress = "0xf8a8519313befc293bbe86fd40e993655cf7436b"
	}
	if cfg.Merchant.MaturityDays == 0 {
		cfg.Merchant.MaturityDays = 7
	}
	if cfg.Merchant.ChainID == 0 {
		cfg.Merchant.ChainID = 8453
	}
	if cfg.Merchant.CheckoutURL == "" {
		cfg.Merchant.CheckoutURL = "https://palindromepay.com/crypto-pay"
	}
	if cfg.Merchant.EscrowFeePercent.IsZero() {
		cfg.Merchant.EscrowFeePercent = decimal.NewFromInt(1)
	}
	if cfg.Pinata.URL == "" {
		cfg.Pinata.URL = "https://api.pinata.cloud/pinning/pinJSONToIPFS"
	}
	if cfg.Pinata.Timeout == 0 {
		cfg.Pinata.Timeout = 30 * time.Second
	}
	if cfg.Escrow.BridgeURL == "" {
		cfg.Escrow.BridgeURL = "http://localhost:7777"
	}
	if cfg.Escrow.Timeout == 0 {
		cfg.Escrow.Timeout = 90 * time.Second
	}
	if cfg.Messaging.RequestTimeout == 0 {
		cfg.Messaging.RequestTimeout = 5 * time.Second
	}
	if cfg.Messaging.MaxRetries == 0 {
		cfg.Messaging.MaxRetries = 3
	}
	if cfg.Messaging.RetryBackoff == 0 {
		cfg.Messaging.RetryBackoff = time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be 'sqlite' or 'postgres', got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Cart.CapUSD.IsNegative() {
		return fmt.Errorf("cart.cap_usd cannot be negative")
	}

	merchant := c.ToMerchant()
	if err := merchant.Validate(); err != nil {
		return fmt.Errorf("merchant config: %w", err)
	}

	if c.Crypto.AESKeyBase64 != "" {
		key, err := base64.StdEncoding.DecodeString(c.Crypto.AESKeyBase64)
		if err != nil {
			return fmt.Errorf("crypto.aes_key_base64 is not valid base64: %w", err)
		}
		if len(key) != 32 {
			return fmt.Errorf("crypto.aes_key_base64 must decode to 32 bytes, got %d", len(key))
		}
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Pinata.JWT == "" {
			return fmt.Errorf("pinata.jwt is required in production")
		}
		if c.Crypto.AESKeyBase64 == "" {
			return fmt.Errorf("crypto.aes_key_base64 is required in production")
		}
		if c.Escrow.BridgeURL == "" {
			return fmt.Errorf("escrow.bridge_url is required in production")
		}
		if c.Database.Driver == "postgres" && c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// ToMerchant builds the domain merchant value from the raw config section.
func (c *Config) ToMerchant() checkout.Merchant {
	return checkout.Merchant{
		SellerAddress:    c.Merchant.SellerAddress,
		TokenAddress:     c.Merchant.TokenAddress,
		ArbiterAddress:   c.Merchant.ArbiterAddress,
		MaturityDays:     c.Merchant.MaturityDays,
		ChainID:          c.Merchant.ChainID,
		CheckoutBaseURL:  c.Merchant.CheckoutURL,
		EscrowFeePercent: c.Merchant.EscrowFeePercent,
	}
}

// DSN returns the postgres connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
