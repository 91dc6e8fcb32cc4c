// Package bench contains the command that drives the paradis engine through
// reference workloads and reports how long each took.
package bench

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openfga/paradis/internal/config"
	"github.com/openfga/paradis/pkg/forkjoin"
	"github.com/openfga/paradis/pkg/logger"
	"github.com/openfga/paradis/pkg/parallel"
	"github.com/openfga/paradis/pkg/telemetry"
)

// NewBenchCommand returns the command running a benchmark scenario.
func NewBenchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a paradis benchmark scenario",
		Long:  "Run a paradis benchmark scenario and verify its result.",
		RunE:  run,
		Args:  cobra.NoArgs,
	}

	defaultConfig := config.DefaultConfig()
	flags := cmd.Flags()

	flags.Int("workers", defaultConfig.Engine.Workers, "the number of goroutines running leaves at once. 0 means GOMAXPROCS.")

	flags.Int("min-split-len", defaultConfig.Engine.MinSplitLen, "the smallest number of records processed sequentially by one leaf")

	flags.String("scenario", defaultConfig.Bench.Scenario, fmt.Sprintf("the workload to run. Allowed values: %s", strings.Join(config.Scenarios, ", ")))

	flags.Int("size", defaultConfig.Bench.Size, "the number of elements of the one-dimensional scenarios")

	flags.Int("rows", defaultConfig.Bench.Rows, "the number of matrix rows of the columns scenario")

	flags.Int("cols", defaultConfig.Bench.Cols, "the number of matrix columns of the columns scenario")

	flags.Int("iterations", defaultConfig.Bench.Iterations, "the number of passes over the data")

	flags.String("log-format", defaultConfig.Log.Format, "the log format to output logs in")

	flags.String("log-level", defaultConfig.Log.Level, "the log level to use")

	flags.Bool("trace-enabled", defaultConfig.Trace.Enabled, "enable tracing")

	flags.String("trace-otlp-endpoint", defaultConfig.Trace.OTLP.Endpoint, "the endpoint of the trace collector")

	flags.Float64("trace-sample-ratio", defaultConfig.Trace.SampleRatio, "the fraction of traces to sample. 1 means all, 0 means none.")

	flags.String("trace-service-name", defaultConfig.Trace.ServiceName, "the service name included in sampled traces")

	flags.Bool("metrics-enabled", defaultConfig.Metrics.Enabled, "enable/disable prometheus metrics on the '/metrics' endpoint")

	flags.String("metrics-addr", defaultConfig.Metrics.Addr, "the host:port address to serve the prometheus metrics server on")

	cmd.PreRun = bindBenchFlagsFunc(flags)

	return cmd
}

// ReadConfig returns the configuration merged from defaults, config.yaml,
// environment variables and flags.
func ReadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	viper.SetTypeByDefaultValue(true)
	err := viper.ReadInConfig()
	if err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("failed to load bench config: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bench config: %w", err)
	}

	return cfg, nil
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := ReadConfig()
	if err != nil {
		return err
	}

	if err := cfg.Verify(); err != nil {
		return err
	}

	b := &Bencher{Logger: logger.MustNewLogger(cfg.Log.Format, cfg.Log.Level)}
	_, err = b.Run(cmd.Context(), cfg)
	return err
}

// Bencher runs benchmark scenarios.
type Bencher struct {
	Logger logger.Logger
}

// Result describes one completed scenario run.
type Result struct {
	RunID      string
	Scenario   string
	Records    int
	Iterations int
	Elapsed    time.Duration
}

// Run executes the configured scenario. When metrics are enabled, the
// Prometheus handler is served until the scenario finishes.
func (b *Bencher) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	runID := ulid.Make().String()
	log := b.Logger.With(zap.String("run_id", runID), zap.String("scenario", cfg.Bench.Scenario))

	if cfg.Trace.Enabled {
		log.Info(fmt.Sprintf("tracing enabled: sampling ratio is %v and sending traces to '%s'", cfg.Trace.SampleRatio, cfg.Trace.OTLP.Endpoint))
		tp := telemetry.MustNewTracerProvider(
			telemetry.WithOTLPEndpoint(cfg.Trace.OTLP.Endpoint),
			telemetry.WithServiceName(cfg.Trace.ServiceName),
			telemetry.WithSamplingRatio(cfg.Trace.SampleRatio),
		)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Warn("failed to shut down the tracer provider", zap.Error(err))
			}
		}()
	}

	s, ok := scenarios[cfg.Bench.Scenario]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", cfg.Bench.Scenario)
	}

	poolOpts := []forkjoin.PoolOption{forkjoin.WithLogger(log)}
	if cfg.Engine.Workers > 0 {
		poolOpts = append(poolOpts, forkjoin.WithNumWorkers(cfg.Engine.Workers))
	}
	opts := []parallel.Option{
		parallel.WithJoiner(forkjoin.New(poolOpts...)),
		parallel.WithMinLen(cfg.Engine.MinSplitLen),
		parallel.WithLogger(log),
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	if metricsServer != nil {
		g.Go(func() error {
			log.Info(fmt.Sprintf("prometheus metrics listening on '%s'", cfg.Metrics.Addr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to serve metrics: %w", err)
			}
			return nil
		})
	}

	result := &Result{RunID: runID, Scenario: cfg.Bench.Scenario, Iterations: cfg.Bench.Iterations}
	g.Go(func() error {
		if metricsServer != nil {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = metricsServer.Shutdown(shutdownCtx)
			}()
		}

		start := time.Now()
		records, err := s(ctx, &cfg.Bench, opts)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", cfg.Bench.Scenario, err)
		}
		result.Records = records
		result.Elapsed = time.Since(start)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("bench failed", zap.Error(err))
		return nil, err
	}

	log.Info("bench finished",
		zap.Int("records", result.Records),
		zap.Int("iterations", result.Iterations),
		zap.Duration("elapsed", result.Elapsed),
	)

	return result, nil
}
