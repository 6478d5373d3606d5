package schema

// Custom string types for type safety.
type (
	// Method represents a forecasting method identifier.
	Method string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for storage.
	DatabaseBackend string

	// ErrorKind classifies engine failures for transport mapping.
	ErrorKind string
)

// All forecasting methods supported.
const (
	ARIMAMethod                Method = "arima"
	ExponentialSmoothingMethod Method = "exponential_smoothing"
	RandomForestMethod         Method = "random_forest"
	LinearRegressionMethod     Method = "linear_regression"
	SeasonalDecomposeMethod    Method = "seasonal_decompose"
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// Series and horizon constraints.
const (
	// MinForecastPoints is the minimum series length required to forecast.
	MinForecastPoints = 7

	// MinAccuracyPoints is the minimum series length required for backtesting.
	MinAccuracyPoints = 14

	// MaxHorizonDays is the maximum number of days a forecast may cover.
	MaxHorizonDays = 30

	// HoldoutWindow is the number of trailing observations withheld for backtesting.
	HoldoutWindow = 7

	// SeasonalPeriod is the assumed weekly cycle length in days.
	SeasonalPeriod = 7

	// DefaultConfidence is the confidence level used when a request omits one.
	DefaultConfidence = 0.95

	// MaxForecastListLimit caps how many stored forecasts a listing returns.
	MaxForecastListLimit = 100
)

// AllMethods returns a list of all supported forecasting methods.
var AllMethods = []Method{
	ARIMAMethod,
	ExponentialSmoothingMethod,
	RandomForestMethod,
	LinearRegressionMethod,
	SeasonalDecomposeMethod,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}
