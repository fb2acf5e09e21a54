// Package config holds the storefront service configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/abgdnv/storefront/pkg/config"
	"github.com/abgdnv/storefront/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	Nats       config.NATSConfig       `koanf:"nats"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
	Checkout   CheckoutConfig          `koanf:"checkout"`
	Catalog    CatalogConfig           `koanf:"catalog"`
	Region     RegionConfig            `koanf:"region"`
	Session    SessionConfig           `koanf:"session"`
}

// CheckoutConfig sets the latency of the simulated external services.
type CheckoutConfig struct {
	VerificationDelay time.Duration `koanf:"verificationdelay"`
	PaymentDelay      time.Duration `koanf:"paymentdelay"`
}

// CatalogConfig points to an optional YAML product file. The built-in catalog is used without one.
type CatalogConfig struct {
	File string `koanf:"file"`
}

type RegionConfig struct {
	DefaultCountry string `koanf:"defaultcountry"`
}

type SessionConfig struct {
	IdleTimeout   time.Duration `koanf:"idletimeout"`
	EvictInterval time.Duration `koanf:"evictinterval"`
	LoadTimeout   time.Duration `koanf:"loadtimeout"`
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Database.String())
	b.WriteString(c.Nats.String())
	b.WriteString(c.Resilience.String())

	b.WriteString("\n--- Checkout ---\n")
	b.WriteString(fmt.Sprintf("  checkout.verificationDelay: %v\n", c.Checkout.VerificationDelay))
	b.WriteString(fmt.Sprintf("  checkout.paymentDelay: %v\n", c.Checkout.PaymentDelay))

	b.WriteString("\n--- Storefront ---\n")
	b.WriteString(fmt.Sprintf("  catalog.file: %s\n", orBuiltin(c.Catalog.File)))
	b.WriteString(fmt.Sprintf("  region.defaultCountry: %s\n", c.Region.DefaultCountry))
	b.WriteString(fmt.Sprintf("  session.idleTimeout: %v\n", c.Session.IdleTimeout))
	b.WriteString(fmt.Sprintf("  session.evictInterval: %v\n", c.Session.EvictInterval))
	b.WriteString(fmt.Sprintf("  session.loadTimeout: %v\n", c.Session.LoadTimeout))

	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Shutdown.String())

	return b.String()
}

func orBuiltin(file string) string {
	if file == "" {
		return "<built-in>"
	}
	return file
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Nats.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	if err := c.Resilience.Validate(); err != nil {
		return err
	}
	if c.Checkout.VerificationDelay < 0 || c.Checkout.PaymentDelay < 0 {
		return fmt.Errorf("checkout delays must not be negative")
	}
	if c.Region.DefaultCountry != "" && len(c.Region.DefaultCountry) != 2 {
		return fmt.Errorf("region.defaultCountry must be a two-letter country code: %q", c.Region.DefaultCountry)
	}
	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("session.idleTimeout must be greater than 0")
	}
	if c.Session.EvictInterval <= 0 {
		return fmt.Errorf("session.evictInterval must be greater than 0")
	}
	if c.Session.LoadTimeout < 0 {
		return fmt.Errorf("session.loadTimeout must not be negative")
	}
	return nil
}
