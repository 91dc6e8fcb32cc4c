// Package config contains all knobs and defaults used to configure the
// paradis engine and its benchmark driver.
package config

import (
	"errors"
	"fmt"
	"slices"
)

const (
	DefaultMinSplitLen = 1

	DefaultLogFormat = "text"
	DefaultLogLevel  = "info"

	DefaultTraceSampleRatio = 0.2
	DefaultTraceServiceName = "paradis"
	DefaultOTLPEndpoint     = "0.0.0.0:4317"

	DefaultMetricsAddr = "0.0.0.0:2112"

	DefaultBenchScenario   = "double"
	DefaultBenchSize       = 1_000_000
	DefaultBenchRows       = 512
	DefaultBenchCols       = 512
	DefaultBenchIterations = 10
)

// Scenarios lists the workloads the benchmark driver knows how to run.
var Scenarios = []string{"double", "even-odd", "columns", "permutation"}

// EngineConfig sizes the fork-join engine.
type EngineConfig struct {
	// Workers bounds the goroutines running leaves at once. Zero means GOMAXPROCS.
	Workers int

	// MinSplitLen is the smallest number of records a leaf processes sequentially.
	MinSplitLen int
}

type LogConfig struct {
	// Format is the log format to use in the log output (e.g. 'text' or 'json')
	Format string

	// Level is the log level to use in the log output (e.g. 'none', 'debug', or 'info')
	Level string
}

type TraceConfig struct {
	Enabled     bool
	OTLP        OTLPTraceConfig `mapstructure:"otlp"`
	SampleRatio float64
	ServiceName string
}

type OTLPTraceConfig struct {
	Endpoint string
}

type MetricConfig struct {
	Enabled bool
	Addr    string
}

// BenchConfig selects the workload run by the bench command.
type BenchConfig struct {
	Scenario string

	// Size is the element count of the one-dimensional scenarios.
	Size int

	// Rows and Cols shape the matrix of the columns scenario.
	Rows int
	Cols int

	Iterations int
}

type Config struct {
	Engine  EngineConfig
	Log     LogConfig
	Trace   TraceConfig
	Metrics MetricConfig
	Bench   BenchConfig
}

func (cfg *Config) Verify() error {
	if cfg.Engine.Workers < 0 {
		return fmt.Errorf("config 'engine.workers' (%d) cannot be negative", cfg.Engine.Workers)
	}

	if cfg.Engine.MinSplitLen < 1 {
		return fmt.Errorf("config 'engine.minSplitLen' (%d) must be at least 1", cfg.Engine.MinSplitLen)
	}

	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("config 'log.format' must be one of ['text', 'json']")
	}

	if !slices.Contains([]string{"none", "debug", "info", "warn", "error", "panic", "fatal"}, cfg.Log.Level) {
		return fmt.Errorf(
			"config 'log.level' must be one of ['none', 'debug', 'info', 'warn', 'error', 'panic', 'fatal']",
		)
	}

	if cfg.Trace.Enabled {
		if cfg.Trace.OTLP.Endpoint == "" {
			return errors.New("config 'trace.otlp.endpoint' must be set when tracing is enabled")
		}
		if cfg.Trace.SampleRatio < 0 || cfg.Trace.SampleRatio > 1 {
			return fmt.Errorf("config 'trace.sampleRatio' (%v) must be between 0 and 1", cfg.Trace.SampleRatio)
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		return errors.New("config 'metrics.addr' must be set when metrics are enabled")
	}

	if !slices.Contains(Scenarios, cfg.Bench.Scenario) {
		return fmt.Errorf("config 'bench.scenario' must be one of %q", Scenarios)
	}

	if cfg.Bench.Size < 0 || cfg.Bench.Rows < 0 || cfg.Bench.Cols < 0 {
		return errors.New("config 'bench.size', 'bench.rows' and 'bench.cols' cannot be negative")
	}

	if cfg.Bench.Iterations < 1 {
		return fmt.Errorf("config 'bench.iterations' (%d) must be at least 1", cfg.Bench.Iterations)
	}

	return nil
}

// DefaultConfig returns the configuration used when no file, environment
// variable or flag overrides a value.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Workers:     0,
			MinSplitLen: DefaultMinSplitLen,
		},
		Log: LogConfig{
			Format: DefaultLogFormat,
			Level:  DefaultLogLevel,
		},
		Trace: TraceConfig{
			Enabled: false,
			OTLP: OTLPTraceConfig{
				Endpoint: DefaultOTLPEndpoint,
			},
			SampleRatio: DefaultTraceSampleRatio,
			ServiceName: DefaultTraceServiceName,
		},
		Metrics: MetricConfig{
			Enabled: false,
			Addr:    DefaultMetricsAddr,
		},
		Bench: BenchConfig{
			Scenario:   DefaultBenchScenario,
			Size:       DefaultBenchSize,
			Rows:       DefaultBenchRows,
			Cols:       DefaultBenchCols,
			Iterations: DefaultBenchIterations,
		},
	}
}

// MustDefaultConfig returns the default configuration, panicking if it does
// not verify.
func MustDefaultConfig() *Config {
	cfg := DefaultConfig()
	if err := cfg.Verify(); err != nil {
		panic(err)
	}
	return cfg
}
