// Package constants provides shared constants for the greenseat-forecast application.
package constants

import "time"

// Period scaling constants. These are fixed multipliers rather than calendar
// computations and directly determine the reported monthly and yearly totals.
const (
	// WeeksPerYear is the number of commuting weeks in a reporting year
	WeeksPerYear = 52.0
	// WeeksPerMonth is the number of commuting weeks in a reporting month (52/12)
	WeeksPerMonth = WeeksPerYear / MonthsPerYear
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12.0
	// MinutesPerHour converts commute minutes into billable hours
	MinutesPerHour = 60.0
)

// Baseline scenario used when no prior input exists.
const (
	DefaultHourlyRate           = 3000.0
	DefaultCommuteMinutesOneWay = 45.0
	DefaultCommutingDaysPerWeek = 3
	DefaultAdditionalCostOneWay = 1000.0
	DefaultGreenSeatTripsPerDay = 2
)

// Input bounds enforced by the validator (inclusive).
const (
	MaxHourlyRate           = 100000.0
	MaxCommuteMinutesOneWay = 300.0
	MaxCommutingDaysPerWeek = 7.0
	MaxAdditionalCostOneWay = 20000.0
	MaxGreenSeatTripsPerDay = 4.0
)

// Rounding constants
const (
	// DecimalPrecision is the precision for rounding displayed rates (2 decimal places)
	DecimalPrecision = 100
	// CurrencyTolerance is the tolerance for currency comparisons
	CurrencyTolerance = 0.01
	// CurrencyDisplayPlaces is the number of fractional yen digits shown
	CurrencyDisplayPlaces = 0
	// DurationDisplayPlaces is the maximum number of fractional digits shown for hours and minutes
	DurationDisplayPlaces = 2
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"
	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
	// ExampleConfigFile is the example scenario configuration file name
	ExampleConfigFile = "config.yaml.example"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"
	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024
)

// Snapshot storage constants
const (
	// SnapshotKeyPrefix namespaces stored form snapshots
	SnapshotKeyPrefix = "greenseat-forecast:form:"
	// DefaultSnapshotTTL is how long a stored snapshot is kept (0 keeps it forever)
	DefaultSnapshotTTL = 90 * 24 * time.Hour
	// StorageBackendMemory keeps snapshots in process memory
	StorageBackendMemory = "memory"
	// StorageBackendRedis keeps snapshots in Redis
	StorageBackendRedis = "redis"
	// DefaultRedisAddress is used when the redis backend has no address configured
	DefaultRedisAddress = "localhost:6379"
	// RedisAddressEnv overrides the configured Redis address
	RedisAddressEnv = "GREENSEAT_REDIS_ADDRESS"
)
