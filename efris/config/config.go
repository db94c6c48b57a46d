package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/efrisio/go-efris-client/efris"
)

// PricingMode declares how ERP line amounts relate to VAT.
type PricingMode string

const (
	// PricingInclusive treats line amounts as VAT-inclusive.
	PricingInclusive PricingMode = "inclusive"
	// PricingExclusive treats line amounts as VAT-exclusive and grosses
	// them up before mapping.
	PricingExclusive PricingMode = "exclusive"
	// PricingDetect infers one convention for the whole invoice from
	// its amounts and fails when lines disagree.
	PricingDetect PricingMode = "detect"
)

// Duration parses YAML values like "12h" or "30m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (m PricingMode) Valid() bool {
	switch m {
	case PricingInclusive, PricingExclusive, PricingDetect:
		return true
	}
	return false
}

// Company is the per-taxpayer configuration: fiscal identity, device
// credentials and mapping behavior. One Company maps to one EFRIS
// device registration.
type Company struct {
	TIN          string `yaml:"tin"`
	DeviceNo     string `yaml:"deviceNo"`
	CertPath     string `yaml:"certPath"`
	CertPassword string `yaml:"certPassword"`
	Environment  string `yaml:"environment"`

	LegalName       string `yaml:"legalName"`
	BusinessName    string `yaml:"businessName"`
	Address         string `yaml:"address"`
	Phone           string `yaml:"phone"`
	Email           string `yaml:"email"`
	PlaceOfBusiness string `yaml:"placeOfBusiness"`
	Operator        string `yaml:"operator"`

	Currency    string      `yaml:"currency"`
	PricingMode PricingMode `yaml:"pricingMode"`
	KeyTTL      Duration    `yaml:"keyTTL"`

	// Env is resolved from Environment during Load.
	Env efris.Environment `yaml:"-"`
}

// Load reads a company config from a YAML file, applies environment
// variable overrides and defaults, and validates the result.
func Load(path string) (*Company, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse loads a company config from YAML bytes.
func Parse(b []byte) (*Company, error) {
	var c Company
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&c)
	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func applyEnvOverrides(c *Company) {
	override := func(dst *string, env string) {
		if v, ok := os.LookupEnv(env); ok {
			*dst = v
		}
	}
	override(&c.TIN, "EFRIS_TIN")
	override(&c.DeviceNo, "EFRIS_DEVICE_NO")
	override(&c.CertPath, "EFRIS_CERT_PATH")
	override(&c.CertPassword, "EFRIS_CERT_PASSWORD")
	override(&c.Environment, "EFRIS_ENVIRONMENT")
}

func applyDefaults(c *Company) {
	if c.DeviceNo == "" && c.TIN != "" {
		c.DeviceNo = c.TIN + "_02"
	}
	if c.Environment == "" {
		c.Environment = "test"
	}
	if c.Currency == "" {
		c.Currency = "UGX"
	}
	if c.Operator == "" {
		c.Operator = "admin"
	}
	if c.PricingMode == "" {
		c.PricingMode = PricingDetect
	}
	if c.KeyTTL == 0 {
		c.KeyTTL = Duration(24 * time.Hour)
	}
}

// Validate checks the loaded config and resolves the typed environment.
func (c *Company) Validate() error {
	if c.TIN == "" {
		return fmt.Errorf("config: tin is required")
	}
	if c.CertPath == "" {
		return fmt.Errorf("config: certPath is required")
	}
	if !c.PricingMode.Valid() {
		return fmt.Errorf("config: unknown pricingMode %q", c.PricingMode)
	}
	if err := c.Env.UnmarshalText([]byte(c.Environment)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
