package contract

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/callsight/callsight/schema"
)

// Default values for configuration.
const (
	DefaultListenAddr  = ":8000"
	DefaultPrecision   = 1
	DefaultListLimit   = schema.MaxForecastListLimit
	MaxFitWorkers      = 64
	DefaultSeriesLimit = 10000
)

// DefaultFitWorkers is the default size of the strategy-fit worker pool.
var DefaultFitWorkers = runtime.GOMAXPROCS(0)

// StaffingConfig holds the capacity-planning parameters for translating
// predicted call volume into agent counts. The defaults are deliberate,
// documented choices, not values inferred from historical data.
type StaffingConfig struct {
	AvgHandleTimeSec   float64 // Average handle time per call, seconds
	TargetServiceLevel float64 // Fraction of calls to answer within the target, (0,1)
	AnswerWithinSec    float64 // Service-level answer threshold, seconds
	ShrinkageFactor    float64 // Fraction of paid time agents are unavailable, [0,1)
	WorkdaySec         float64 // Length of the staffed day the call volume spreads over, seconds
	CallsPerAgentDay   float64 // Fallback ratio-model capacity when Erlang iteration cannot converge
}

// DefaultStaffingConfig returns the documented staffing defaults:
// 5-minute handle time, 80% of calls answered within 20 seconds,
// 30% shrinkage, an 8-hour staffed day, and 96 calls/agent/day for
// the ratio fallback.
func DefaultStaffingConfig() StaffingConfig {
	return StaffingConfig{
		AvgHandleTimeSec:   300,
		TargetServiceLevel: 0.80,
		AnswerWithinSec:    20,
		ShrinkageFactor:    0.30,
		WorkdaySec:         8 * 3600,
		CallsPerAgentDay:   96,
	}
}

// Config holds the runtime configuration for the engine.
// This struct remains the "final, validated" config.
type Config struct {
	ListenAddr string

	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	FitWorkers int

	Staffing StaffingConfig

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Limit      int

	UseColors bool
	Verbose   bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	Listen     string `mapstructure:"listen"`
	Backend    string `mapstructure:"backend"`
	DBConnect  string `mapstructure:"db-connect"`
	FitWorkers int    `mapstructure:"fit-workers"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Limit      int    `mapstructure:"limit"`
	Color      string `mapstructure:"color"`
	Verbose    bool   `mapstructure:"verbose"`

	AvgHandleTime      float64 `mapstructure:"staffing-aht"`
	TargetServiceLevel float64 `mapstructure:"staffing-target-sl"`
	AnswerWithin       float64 `mapstructure:"staffing-answer-within"`
	Shrinkage          float64 `mapstructure:"staffing-shrinkage"`
	WorkdayHours       float64 `mapstructure:"staffing-workday-hours"`
}

// ProcessAndValidate converts raw inputs into the final validated Config.
// It populates cfg in place and returns the first validation failure.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	cfg.ListenAddr = input.Listen
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}

	backend := schema.DatabaseBackend(strings.ToLower(input.Backend))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid backend %q: must be one of sqlite, mysql, postgresql", input.Backend)
	}
	cfg.Backend = backend
	cfg.DBConnect = input.DBConnect
	if err := ValidateDatabaseConnectionString(backend, cfg.DBConnect); err != nil {
		return err
	}

	cfg.FitWorkers = input.FitWorkers
	if cfg.FitWorkers <= 0 {
		cfg.FitWorkers = DefaultFitWorkers
	}
	if cfg.FitWorkers > MaxFitWorkers {
		cfg.FitWorkers = MaxFitWorkers
	}

	output := schema.OutputMode(input.Output)
	if output == "" {
		output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output mode %q: must be one of text, csv, json", input.Output)
	}
	cfg.Output = output
	cfg.OutputFile = input.OutputFile

	cfg.Precision = input.Precision
	if cfg.Precision < 0 {
		cfg.Precision = DefaultPrecision
	}

	cfg.Limit = input.Limit
	if cfg.Limit <= 0 || cfg.Limit > DefaultListLimit {
		cfg.Limit = DefaultListLimit
	}

	cfg.UseColors = input.Color != "no"
	cfg.Verbose = input.Verbose

	staffing := DefaultStaffingConfig()
	if input.AvgHandleTime > 0 {
		staffing.AvgHandleTimeSec = input.AvgHandleTime
	}
	if input.TargetServiceLevel > 0 {
		if input.TargetServiceLevel >= 1 {
			return fmt.Errorf("staffing target service level must be in (0,1), got %v", input.TargetServiceLevel)
		}
		staffing.TargetServiceLevel = input.TargetServiceLevel
	}
	if input.AnswerWithin > 0 {
		staffing.AnswerWithinSec = input.AnswerWithin
	}
	if input.Shrinkage > 0 {
		if input.Shrinkage >= 1 {
			return fmt.Errorf("staffing shrinkage must be in [0,1), got %v", input.Shrinkage)
		}
		staffing.ShrinkageFactor = input.Shrinkage
	}
	if input.WorkdayHours > 0 {
		staffing.WorkdaySec = input.WorkdayHours * 3600
	}
	cfg.Staffing = staffing

	return nil
}

// Clone returns a deep copy of the configuration for isolated runs.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
