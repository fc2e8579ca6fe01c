// Package config defines the data structures related to configuration and
// includes functions for loading, normalizing and checking the config.
package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/dealdesk/pkg/amortization"
	"github.com/iwvelando/dealdesk/pkg/constants"
	"github.com/iwvelando/dealdesk/pkg/deal"
	"github.com/iwvelando/dealdesk/pkg/policy"
	"github.com/iwvelando/dealdesk/pkg/underwriting"
	"github.com/iwvelando/dealdesk/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for dealdesk.
type Configuration struct {
	Mode         string                  `yaml:"mode,omitempty" mapstructure:"mode"`
	Policy       policy.DealerPolicy     `yaml:"policy" mapstructure:"policy"`
	Underwriting underwriting.Thresholds `yaml:"underwriting,omitempty" mapstructure:"underwriting"`
	Deal         DealConfig              `yaml:"deal" mapstructure:"deal"`
	Search       SearchConfig            `yaml:"search,omitempty" mapstructure:"search"`
	Logging      LoggingConfig           `yaml:"logging,omitempty" mapstructure:"logging"`
	Output       OutputConfig            `yaml:"output,omitempty" mapstructure:"output"`
}

// DealConfig is the deal under consideration. In optimize mode its sale
// price and term are ignored in favour of the search grid.
type DealConfig struct {
	deal.Request  `yaml:",inline" mapstructure:",squash"`
	UseDefaultAPR bool `yaml:"useDefaultApr,omitempty" mapstructure:"useDefaultApr"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json, yaml
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Policy values missing from the file take the policy
// defaults, and any key can be overridden from the environment, e.g.
// DEALDESK_POLICY_MAXPTI=0.3.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if err := configuration.Normalize(); err != nil {
		return nil, err
	}

	return &configuration, nil
}

func setDefaults(v *viper.Viper) {
	p := policy.Default()
	v.SetDefault("mode", constants.ModeEvaluate)
	v.SetDefault("policy.maxPti", p.MaxPTI)
	v.SetDefault("policy.maxLtv", p.MaxLTV)
	v.SetDefault("policy.minDownPayment", p.MinDownPayment)
	v.SetDefault("policy.maxTermWeeks", p.MaxTermWeeks)
	v.SetDefault("policy.defaultApr", p.DefaultAPR)

	t := underwriting.DefaultThresholds()
	v.SetDefault("underwriting.minProfit", *t.MinProfit)
	v.SetDefault("underwriting.shortTenureMonths", t.ShortTenureMonths)
	v.SetDefault("underwriting.ptiDeclineFactor", t.PTIDeclineFactor)
	v.SetDefault("underwriting.ltvDeclineFactor", t.LTVDeclineFactor)
	v.SetDefault("underwriting.repoDeclineCount", t.RepoDeclineCount)

	v.SetDefault("deal.paymentFrequency", string(amortization.Weekly))
	v.SetDefault("search.maxCandidates", constants.DefaultMaxCandidates)
}

// Normalize canonicalizes enumerations and applies defaults that depend on
// other sections.
func (c *Configuration) Normalize() error {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	if c.Mode == "" {
		c.Mode = constants.ModeEvaluate
	}

	freq, err := amortization.ParseFrequency(string(c.Deal.Frequency))
	if err != nil {
		return fmt.Errorf("deal: %w", err)
	}
	c.Deal.Frequency = freq

	if c.Deal.UseDefaultAPR && c.Deal.APR == 0 {
		c.Deal.APR = c.Policy.DefaultAPR
	}

	c.Underwriting = c.Underwriting.Normalize()
	c.Search.Normalize()
	return nil
}

// Validate returns the first hard error in the configuration for the
// selected mode.
func (c *Configuration) Validate() error {
	if err := validation.ValidateMode(c.Mode); err != nil {
		return err
	}
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	if err := deal.Validate(c.Deal.Request); err != nil {
		return err
	}
	if c.Mode == constants.ModeOptimize {
		return c.Search.Validate()
	}
	return nil
}

// DealRequest returns the configured deal.
func (c *Configuration) DealRequest() deal.Request {
	return c.Deal.Request
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{
		Mode:           c.Mode,
		MaxTermWeeks:   c.Policy.MaxTermWeeks,
		MinDownPayment: c.Policy.MinDownPayment,
		Deal: validation.DealConfig{
			TotalCost:   c.Deal.TotalCost(),
			SalePrice:   c.Deal.SalePrice,
			DownPayment: c.Deal.DownPayment,
			TermWeeks:   c.Deal.TermWeeks,
			APR:         c.Deal.APR,
		},
		Search: validation.SearchConfig{
			SalePriceMin: c.Search.SalePriceMin,
			SalePriceMax: c.Search.SalePriceMax,
			TermOptions:  c.Search.TermOptions,
		},
	}
	return validator.ValidateAll()
}
