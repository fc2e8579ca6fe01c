// Package constants provides shared constants for the dealdesk application.
package constants

// Calendar constants
const (
	// WeeksPerMonth is the single weeks-to-month factor used for every
	// weekly/monthly conversion: period counts, weekly-equivalent payments
	// and PTI normalization.
	WeeksPerMonth = 4.345

	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// BiweeklyPeriodsPerYear is the number of biweekly payments in a year
	BiweeklyPeriodsPerYear = 26

	// WeeksPerYear is the number of weekly payments in a year
	WeeksPerYear = 52

	// WeeksPerBiweeklyPeriod is the number of weeks in a biweekly period
	WeeksPerBiweeklyPeriod = 2
)

// Financial constants
const (
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DownPaymentIncrement is the granularity recommended down payments are
	// rounded up to.
	DownPaymentIncrement = 50.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format (amortization schedule)
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Run mode constants
const (
	// ModeEvaluate prices and underwrites a single deal
	ModeEvaluate = "evaluate"

	// ModeOptimize searches for the best affordable structure
	ModeOptimize = "optimize"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "deal.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "deal.yaml.example"

	// DefaultEnvFile is the optional dotenv file read before the config
	DefaultEnvFile = ".env"

	// EnvPrefix is the prefix for environment overrides of config keys
	EnvPrefix = "DEALDESK"
)

// Search defaults
const (
	// DefaultMaxCandidates bounds the number of (price, term) pairs a single
	// affordability search may enumerate.
	DefaultMaxCandidates = 10000
)
